package actions

import (
	"context"
	"time"

	"github.com/lk2023060901/xdooria-bt/pkg/bt"
)

// Wait 等待指定时间，期间返回 Running
type Wait struct {
	bt.LeafNode
	duration  time.Duration
	startTime time.Time
	started   bool
	now       func() time.Time
}

// NewWait 创建等待节点
func NewWait(name string, duration time.Duration) *Wait {
	if name == "" {
		name = "wait"
	}
	return &Wait{
		LeafNode: bt.NewLeafNode(name, bt.TypeAction),
		duration: duration,
		now:      time.Now,
	}
}

func (w *Wait) Tick(context.Context) bt.Status {
	if !w.started {
		w.startTime = w.now()
		w.started = true
	}

	if w.now().Sub(w.startTime) >= w.duration {
		w.started = false
		return bt.StatusSuccess
	}
	return bt.StatusRunning
}

func (w *Wait) Reset() {
	w.LeafNode.Reset()
	w.started = false
}

func (w *Wait) Describe() string {
	return "duration=" + w.duration.String()
}

type waitParams struct {
	Duration time.Duration `mapstructure:"duration" validate:"gte=0"`
}

func newWaitLeaf(name string, params map[string]any) (bt.Node, error) {
	var p waitParams
	if err := decode(name, params, &p); err != nil {
		return nil, err
	}
	return NewWait(name, p.Duration), nil
}

// Idle 空闲，直接成功
type Idle struct {
	bt.LeafNode
}

// NewIdle 创建空闲节点
func NewIdle(name string) *Idle {
	if name == "" {
		name = "idle"
	}
	return &Idle{LeafNode: bt.NewLeafNode(name, bt.TypeAction)}
}

func (i *Idle) Tick(context.Context) bt.Status {
	return bt.StatusSuccess
}

func newIdleLeaf(name string, params map[string]any) (bt.Node, error) {
	if err := decode(name, params, &struct{}{}); err != nil {
		return nil, err
	}
	return NewIdle(name), nil
}
