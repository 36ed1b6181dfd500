package bt

import "context"

// Sequence 顺序节点：按顺序执行子节点，全部成功才成功
//
// 子节点返回 Running 时记录当前下标，下一次 tick 从该子节点继续，
// 已成功的子节点不会被重复执行。
type Sequence struct {
	ControlNode
	current int
}

// NewSequence 创建顺序节点
func NewSequence(name string, children ...Node) *Sequence {
	return &Sequence{
		ControlNode: NewControlNode(defaultName(name, "sequence"), children...),
	}
}

func (s *Sequence) Tick(ctx context.Context) Status {
	for s.current < len(s.children) {
		status := Execute(ctx, s.children[s.current])

		switch status {
		case StatusSuccess:
			s.current++
		case StatusRunning:
			return StatusRunning
		default:
			s.current = 0
			return StatusFailure
		}
	}

	s.current = 0
	return StatusSuccess
}

// Current 返回下一次 tick 将从哪个子节点开始
func (s *Sequence) Current() int {
	return s.current
}

func (s *Sequence) Reset() {
	s.current = 0
	s.ControlNode.Reset()
}

// Selector 选择节点：按顺序执行子节点，有一个成功就成功
type Selector struct {
	ControlNode
	current int
}

// NewSelector 创建选择节点
func NewSelector(name string, children ...Node) *Selector {
	return &Selector{
		ControlNode: NewControlNode(defaultName(name, "selector"), children...),
	}
}

func (s *Selector) Tick(ctx context.Context) Status {
	for s.current < len(s.children) {
		status := Execute(ctx, s.children[s.current])

		switch status {
		case StatusFailure:
			s.current++
		case StatusRunning:
			return StatusRunning
		default:
			s.current = 0
			return StatusSuccess
		}
	}

	s.current = 0
	return StatusFailure
}

// Current 返回下一次 tick 将从哪个子节点开始
func (s *Selector) Current() int {
	return s.current
}

func (s *Selector) Reset() {
	s.current = 0
	s.ControlNode.Reset()
}
