package bt

import (
	"context"
	"sort"
)

// Policy 并行节点的聚合策略
type Policy int

const (
	// PolicySuccessOnAll 全部完成后，全部成功才成功，否则失败
	PolicySuccessOnAll Policy = iota
	// PolicySuccessOnOne 任一成功即成功；全部完成且无成功则失败
	PolicySuccessOnOne
	// PolicySuccessOnAllOrOneFailure 任一失败立即失败；全部成功才成功
	PolicySuccessOnAllOrOneFailure
)

func (p Policy) String() string {
	switch p {
	case PolicySuccessOnAll:
		return "success_on_all"
	case PolicySuccessOnOne:
		return "success_on_one"
	case PolicySuccessOnAllOrOneFailure:
		return "success_on_all_or_one_failure"
	default:
		return "unknown"
	}
}

// Valid 是否为已定义的策略
func (p Policy) Valid() bool {
	return p >= PolicySuccessOnAll && p <= PolicySuccessOnAllOrOneFailure
}

// ParsePolicy 解析策略标识
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "success_on_all":
		return PolicySuccessOnAll, nil
	case "success_on_one":
		return PolicySuccessOnOne, nil
	case "success_on_all_or_one_failure":
		return PolicySuccessOnAllOrOneFailure, nil
	default:
		return 0, constructionErrorf("unknown parallel policy %q", s)
	}
}

// Parallel 并行节点：每次 tick 依次执行本轮尚未完成的所有子节点
//
// 这里的"并行"是逻辑上的：子节点在同一次 tick 内按下标顺序执行。
// 得出终止结果时清空 running/completed 记录并重置所有子节点。
type Parallel struct {
	ControlNode
	policy    Policy
	running   map[int]struct{}
	completed map[int]Status
}

// NewParallel 创建并行节点
func NewParallel(name string, policy Policy, children ...Node) (*Parallel, error) {
	if !policy.Valid() {
		return nil, constructionErrorf("parallel %q: invalid policy %d", name, int(policy))
	}
	return &Parallel{
		ControlNode: NewControlNode(defaultName(name, "parallel"), children...),
		policy:      policy,
		running:     make(map[int]struct{}),
		completed:   make(map[int]Status),
	}, nil
}

// Policy 返回聚合策略
func (p *Parallel) Policy() Policy {
	return p.policy
}

func (p *Parallel) Describe() string {
	return "policy=" + p.policy.String()
}

func (p *Parallel) Tick(ctx context.Context) Status {
	n := len(p.children)

	for i, child := range p.children {
		if _, done := p.completed[i]; done {
			continue
		}
		p.running[i] = struct{}{}

		status := Execute(ctx, child)
		if status != StatusRunning {
			p.completed[i] = status
			delete(p.running, i)
		}
	}

	successCount, failureCount := 0, 0
	for _, status := range p.completed {
		switch status {
		case StatusSuccess:
			successCount++
		case StatusFailure:
			failureCount++
		}
	}
	completedCount := len(p.completed)

	switch p.policy {
	case PolicySuccessOnAll:
		if completedCount == n {
			if successCount == n {
				return p.finish(StatusSuccess)
			}
			return p.finish(StatusFailure)
		}
	case PolicySuccessOnOne:
		if successCount > 0 {
			return p.finish(StatusSuccess)
		}
		if completedCount == n {
			return p.finish(StatusFailure)
		}
	case PolicySuccessOnAllOrOneFailure:
		if failureCount > 0 {
			return p.finish(StatusFailure)
		}
		if completedCount == n {
			return p.finish(StatusSuccess)
		}
	}

	return StatusRunning
}

// finish 清空本轮记录并重置子节点，返回终止状态
func (p *Parallel) finish(status Status) Status {
	p.clearBookkeeping()
	p.resetChildren()
	return status
}

func (p *Parallel) clearBookkeeping() {
	p.running = make(map[int]struct{})
	p.completed = make(map[int]Status)
}

// RunningChildren 返回本轮尚未完成的子节点下标（升序）
func (p *Parallel) RunningChildren() []int {
	indexes := make([]int, 0, len(p.running))
	for i := range p.running {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	return indexes
}

// CompletedChildren 返回本轮已完成子节点的状态副本
func (p *Parallel) CompletedChildren() map[int]Status {
	result := make(map[int]Status, len(p.completed))
	for i, status := range p.completed {
		result[i] = status
	}
	return result
}

func (p *Parallel) Reset() {
	p.clearBookkeeping()
	p.ControlNode.Reset()
}
