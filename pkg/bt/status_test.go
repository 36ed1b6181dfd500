package bt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		status   Status
		str      string
		valid    bool
		terminal bool
	}{
		{StatusIdle, "Idle", true, false},
		{StatusRunning, "Running", true, false},
		{StatusSuccess, "Success", true, true},
		{StatusFailure, "Failure", true, true},
		{Status(42), "Invalid", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			assert.Equal(t, tt.str, tt.status.String())
			assert.Equal(t, tt.valid, tt.status.Valid())
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}
}

func TestNodeType_String(t *testing.T) {
	assert.Equal(t, "Action", TypeAction.String())
	assert.Equal(t, "Condition", TypeCondition.String())
	assert.Equal(t, "Control", TypeControl.String())
	assert.Equal(t, "Decorator", TypeDecorator.String())
	assert.Equal(t, "Unknown", NodeType(9).String())
}

func TestExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("records status", func(t *testing.T) {
		leaf := newScripted("leaf", StatusRunning, StatusSuccess)
		assert.Equal(t, StatusIdle, leaf.Status())

		assert.Equal(t, StatusRunning, Execute(ctx, leaf))
		assert.Equal(t, StatusRunning, leaf.Status())

		assert.Equal(t, StatusSuccess, Execute(ctx, leaf))
		assert.Equal(t, StatusSuccess, leaf.Status())
	})

	t.Run("invalid status panics", func(t *testing.T) {
		leaf := newScripted("bad", Status(7))
		assert.Panics(t, func() { Execute(ctx, leaf) })
	})

	t.Run("idle is not a tick result", func(t *testing.T) {
		leaf := newScripted("idle", StatusIdle)
		assert.Panics(t, func() { Execute(ctx, leaf) })
	})

	t.Run("control node does not swallow invalid child status", func(t *testing.T) {
		seq := NewSequence("seq", newScripted("bad", Status(-1)))
		assert.Panics(t, func() { Execute(ctx, seq) })
	})
}
