package bt

import "context"

// scriptedLeaf 按脚本依次返回状态的测试叶子，脚本用完后重复最后一个状态
type scriptedLeaf struct {
	LeafNode
	script []Status
	ticks  int
	resets int
}

func newScripted(name string, script ...Status) *scriptedLeaf {
	return &scriptedLeaf{
		LeafNode: NewLeafNode(name, TypeAction),
		script:   script,
	}
}

func (s *scriptedLeaf) Tick(context.Context) Status {
	idx := s.ticks
	if idx >= len(s.script) {
		idx = len(s.script) - 1
	}
	s.ticks++
	return s.script[idx]
}

func (s *scriptedLeaf) Reset() {
	s.resets++
	s.LeafNode.Reset()
}

func succeeding(name string) *scriptedLeaf {
	return newScripted(name, StatusSuccess)
}

func failing(name string) *scriptedLeaf {
	return newScripted(name, StatusFailure)
}

func running(name string) *scriptedLeaf {
	return newScripted(name, StatusRunning)
}
