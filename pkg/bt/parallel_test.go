package bt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParallel(t *testing.T, policy Policy, children ...Node) *Parallel {
	t.Helper()
	p, err := NewParallel("parallel", policy, children...)
	require.NoError(t, err)
	return p
}

func TestParallel_SingleTickOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		policy   Policy
		children []Status
		want     Status
	}{
		{"all/success+success", PolicySuccessOnAll, []Status{StatusSuccess, StatusSuccess}, StatusSuccess},
		{"all/success+failure", PolicySuccessOnAll, []Status{StatusSuccess, StatusFailure}, StatusFailure},
		{"all/success+running", PolicySuccessOnAll, []Status{StatusSuccess, StatusRunning}, StatusRunning},
		{"one/success+failure", PolicySuccessOnOne, []Status{StatusSuccess, StatusFailure}, StatusSuccess},
		{"one/failure+failure", PolicySuccessOnOne, []Status{StatusFailure, StatusFailure}, StatusFailure},
		{"one/failure+running", PolicySuccessOnOne, []Status{StatusFailure, StatusRunning}, StatusRunning},
		{"one/running+success", PolicySuccessOnOne, []Status{StatusRunning, StatusSuccess}, StatusSuccess},
		{"fail_fast/failure+success", PolicySuccessOnAllOrOneFailure, []Status{StatusFailure, StatusSuccess}, StatusFailure},
		{"fail_fast/running+failure", PolicySuccessOnAllOrOneFailure, []Status{StatusRunning, StatusFailure}, StatusFailure},
		{"fail_fast/success+success", PolicySuccessOnAllOrOneFailure, []Status{StatusSuccess, StatusSuccess}, StatusSuccess},
		{"fail_fast/success+running", PolicySuccessOnAllOrOneFailure, []Status{StatusSuccess, StatusRunning}, StatusRunning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			children := make([]Node, len(tt.children))
			for i, s := range tt.children {
				children[i] = newScripted("child", s)
			}
			p := newTestParallel(t, tt.policy, children...)

			assert.Equal(t, tt.want, Execute(context.Background(), p))
		})
	}
}

func TestParallel_ZeroChildren(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, StatusSuccess, Execute(ctx, newTestParallel(t, PolicySuccessOnAll)))
	assert.Equal(t, StatusFailure, Execute(ctx, newTestParallel(t, PolicySuccessOnOne)))
	assert.Equal(t, StatusSuccess, Execute(ctx, newTestParallel(t, PolicySuccessOnAllOrOneFailure)))
}

func TestParallel_SkipsCompletedChildren(t *testing.T) {
	ctx := context.Background()
	fast := succeeding("fast")
	slow := newScripted("slow", StatusRunning, StatusRunning, StatusSuccess)
	p := newTestParallel(t, PolicySuccessOnAll, fast, slow)

	assert.Equal(t, StatusRunning, Execute(ctx, p))
	assert.Equal(t, []int{1}, p.RunningChildren())
	assert.Equal(t, map[int]Status{0: StatusSuccess}, p.CompletedChildren())

	assert.Equal(t, StatusRunning, Execute(ctx, p))
	assert.Equal(t, StatusSuccess, Execute(ctx, p))

	assert.Equal(t, 1, fast.ticks)
	assert.Equal(t, 3, slow.ticks)
}

func TestParallel_TicksInIndexOrder(t *testing.T) {
	var order []string
	record := func(name string) *Action {
		return NewAction(name, func(context.Context, *Action) Result {
			order = append(order, name)
			return Succeed()
		})
	}
	p := newTestParallel(t, PolicySuccessOnAll, record("a"), record("b"), record("c"))

	Execute(context.Background(), p)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestParallel_BookkeepingClearedOnTerminal(t *testing.T) {
	ctx := context.Background()
	a := succeeding("a")
	b := newScripted("b", StatusRunning, StatusFailure)
	p := newTestParallel(t, PolicySuccessOnAll, a, b)

	assert.Equal(t, StatusRunning, Execute(ctx, p))
	assert.Equal(t, StatusFailure, Execute(ctx, p))

	assert.Empty(t, p.RunningChildren())
	assert.Empty(t, p.CompletedChildren())
	assert.Equal(t, StatusIdle, a.Status())
	assert.Equal(t, StatusIdle, b.Status())
	assert.Equal(t, 1, a.resets)

	// 下一轮从头开始：所有子节点都会被再次执行
	Execute(ctx, p)
	assert.Equal(t, 2, a.ticks)
	assert.Equal(t, 3, b.ticks)
}

func TestParallel_SuccessOnOneStopsEarly(t *testing.T) {
	ctx := context.Background()
	long := running("long")
	quick := newScripted("quick", StatusRunning, StatusSuccess)
	p := newTestParallel(t, PolicySuccessOnOne, long, quick)

	assert.Equal(t, StatusRunning, Execute(ctx, p))
	assert.Equal(t, StatusSuccess, Execute(ctx, p))
	assert.Equal(t, StatusIdle, long.Status())
	assert.Empty(t, p.RunningChildren())
}

func TestParallel_ResetClearsBookkeeping(t *testing.T) {
	ctx := context.Background()
	p := newTestParallel(t, PolicySuccessOnAll, succeeding("a"), running("b"))

	Execute(ctx, p)
	require.NotEmpty(t, p.CompletedChildren())

	p.Reset()
	assert.Empty(t, p.RunningChildren())
	assert.Empty(t, p.CompletedChildren())
	assert.Equal(t, StatusIdle, p.Status())
}

func TestParsePolicy(t *testing.T) {
	for _, p := range []Policy{PolicySuccessOnAll, PolicySuccessOnOne, PolicySuccessOnAllOrOneFailure} {
		parsed, err := ParsePolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}

	_, err := ParsePolicy("success_on_most")
	assert.True(t, IsConstruction(err))
}

func TestNewParallel_InvalidPolicy(t *testing.T) {
	_, err := NewParallel("p", Policy(99))
	assert.True(t, IsConstruction(err))
	assert.Equal(t, "unknown", Policy(99).String())
}
