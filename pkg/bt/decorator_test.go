package bt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInverter(t *testing.T) {
	tests := []struct {
		name  string
		child Status
		want  Status
	}{
		{"success inverts to failure", StatusSuccess, StatusFailure},
		{"failure inverts to success", StatusFailure, StatusSuccess},
		{"running passes through", StatusRunning, StatusRunning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := NewInverter("Inverter", newScripted("child", tt.child))
			require.NoError(t, err)
			assert.Equal(t, tt.want, Execute(context.Background(), inv))
		})
	}
}

func TestInverter_WithLeafFixtures(t *testing.T) {
	ctx := context.Background()

	inv := Must(NewInverter("Inverter", AlwaysSuccess("SuccessNode")))
	assert.Equal(t, StatusFailure, Execute(ctx, inv))

	inv = Must(NewInverter("Inverter", AlwaysFailure("FailureNode")))
	assert.Equal(t, StatusSuccess, Execute(ctx, inv))
}

func TestDecorator_NilChild(t *testing.T) {
	constructors := map[string]func() error{
		"inverter":      func() error { _, err := NewInverter("x", nil); return err },
		"repeater":      func() error { _, err := NewRepeater("x", 3, nil); return err },
		"until_success": func() error { _, err := NewUntilSuccess("x", nil); return err },
		"until_failure": func() error { _, err := NewUntilFailure("x", nil); return err },
		"force_success": func() error { _, err := NewForceSuccess("x", nil); return err },
		"force_failure": func() error { _, err := NewForceFailure("x", nil); return err },
	}

	for name, build := range constructors {
		t.Run(name, func(t *testing.T) {
			assert.True(t, IsConstruction(build()))
		})
	}

	assert.Panics(t, func() { Must(NewInverter("x", nil)) })
}

func TestDecorator_ResetPropagates(t *testing.T) {
	child := running("child")
	inv := Must(NewInverter("inv", child))

	Execute(context.Background(), inv)
	inv.Reset()

	assert.Equal(t, StatusIdle, inv.Status())
	assert.Equal(t, StatusIdle, child.Status())
	assert.Equal(t, []Node{child}, inv.Children())
}

func TestRepeater(t *testing.T) {
	ctx := context.Background()

	t.Run("repeats until count", func(t *testing.T) {
		child := succeeding("child")
		r := Must(NewRepeater("r", 3, child))

		assert.Equal(t, StatusRunning, Execute(ctx, r))
		assert.Equal(t, 1, r.Count())
		assert.Equal(t, StatusRunning, Execute(ctx, r))
		assert.Equal(t, StatusSuccess, Execute(ctx, r))
		assert.Equal(t, 3, child.ticks)
		assert.Equal(t, 0, r.Count())
	})

	t.Run("failure stops", func(t *testing.T) {
		r := Must(NewRepeater("r", 3, failing("child")))
		assert.Equal(t, StatusFailure, Execute(ctx, r))
	})

	t.Run("running passes through without counting", func(t *testing.T) {
		r := Must(NewRepeater("r", 1, newScripted("child", StatusRunning, StatusSuccess)))
		assert.Equal(t, StatusRunning, Execute(ctx, r))
		assert.Equal(t, 0, r.Count())
		assert.Equal(t, StatusSuccess, Execute(ctx, r))
	})

	t.Run("zero count succeeds without ticking", func(t *testing.T) {
		child := succeeding("child")
		r := Must(NewRepeater("r", 0, child))
		assert.Equal(t, StatusSuccess, Execute(ctx, r))
		assert.Equal(t, 0, child.ticks)
	})

	t.Run("infinite", func(t *testing.T) {
		r := Must(NewRepeater("r", -1, succeeding("child")))
		for i := 0; i < 10; i++ {
			assert.Equal(t, StatusRunning, Execute(ctx, r))
		}
		assert.Equal(t, "count=inf", r.Describe())
	})
}

func TestUntilSuccess(t *testing.T) {
	ctx := context.Background()
	child := newScripted("child", StatusFailure, StatusRunning, StatusSuccess)
	u := Must(NewUntilSuccess("u", child))

	assert.Equal(t, StatusRunning, Execute(ctx, u))
	assert.Equal(t, StatusRunning, Execute(ctx, u))
	assert.Equal(t, StatusSuccess, Execute(ctx, u))
}

func TestUntilFailure(t *testing.T) {
	ctx := context.Background()
	child := newScripted("child", StatusSuccess, StatusSuccess, StatusFailure)
	u := Must(NewUntilFailure("u", child))

	assert.Equal(t, StatusRunning, Execute(ctx, u))
	assert.Equal(t, StatusRunning, Execute(ctx, u))
	assert.Equal(t, StatusSuccess, Execute(ctx, u))
}

func TestForce(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, StatusSuccess, Execute(ctx, Must(NewForceSuccess("fs", failing("c")))))
	assert.Equal(t, StatusRunning, Execute(ctx, Must(NewForceSuccess("fs", running("c")))))
	assert.Equal(t, StatusFailure, Execute(ctx, Must(NewForceFailure("ff", succeeding("c")))))
	assert.Equal(t, StatusRunning, Execute(ctx, Must(NewForceFailure("ff", running("c")))))
}
