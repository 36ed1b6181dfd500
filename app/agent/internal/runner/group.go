package runner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lk2023060901/xdooria-bt/pkg/bt"
	"github.com/lk2023060901/xdooria-bt/pkg/logger"
	"github.com/panjf2000/ants/v2"
)

// Group 在 ants 协程池上同步驱动多棵树
//
// 每一轮把所有未停止的树各 tick 一次，等待全部完成后再进入下一轮；
// 同一棵树在任意时刻最多只有一个 tick 在执行。
type Group struct {
	runners  []*Runner
	pool     *ants.Pool
	interval atomic.Int64
	logger   logger.Logger
}

// NewGroup 创建 Group，workers <= 0 时每棵树一个 worker
func NewGroup(runners []*Runner, workers int, l logger.Logger) (*Group, error) {
	if workers <= 0 {
		workers = len(runners)
	}
	if workers == 0 {
		workers = 1
	}
	if l == nil {
		l = logger.NewNoop()
	}
	l = l.Named("group")

	pool, err := ants.NewPool(workers, ants.WithPanicHandler(func(p any) {
		l.Error("tick panicked", "panic", p)
	}))
	if err != nil {
		return nil, err
	}

	g := &Group{
		runners: runners,
		pool:    pool,
		logger:  l,
	}
	g.interval.Store(int64(DefaultInterval))
	return g, nil
}

// Runners 返回所有 Runner
func (g *Group) Runners() []*Runner {
	return g.runners
}

// Interval 返回当前的轮次间隔
func (g *Group) Interval() time.Duration {
	return time.Duration(g.interval.Load())
}

// SetInterval 修改轮次间隔
func (g *Group) SetInterval(d time.Duration) {
	if d > 0 {
		g.interval.Store(int64(d))
	}
}

// Round 执行一轮，返回每棵树本轮的根状态（已停止的树不在结果中）
func (g *Group) Round(ctx context.Context) map[string]bt.Status {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]bt.Status, len(g.runners))
	)

	for _, r := range g.runners {
		if r.Done() {
			continue
		}
		wg.Add(1)
		err := g.pool.Submit(func() {
			defer wg.Done()
			status := r.Step(ctx)
			mu.Lock()
			results[r.Tree().Name()] = status
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			g.logger.WarnContext(ctx, "submit tick failed", "tree", r.Tree().Name(), "error", err)
		}
	}

	wg.Wait()
	return results
}

// Done 所有树是否都已停止
func (g *Group) Done() bool {
	for _, r := range g.runners {
		if !r.Done() {
			return false
		}
	}
	return true
}

// Run 按间隔执行轮次，直到 ctx 取消或所有树都停止
func (g *Group) Run(ctx context.Context) error {
	interval := g.Interval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	g.logger.Info("group started", "trees", len(g.runners), "workers", g.pool.Cap(), "interval", interval)
	defer g.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			g.Round(ctx)
			if g.Done() {
				return nil
			}
			if d := g.Interval(); d != interval {
				interval = d
				ticker.Reset(d)
				g.logger.Info("tick interval changed", "interval", d)
			}
		}
	}
}

func (g *Group) stop() {
	for _, r := range g.runners {
		r.stop()
	}
	g.logger.Info("group stopped")
}

// Close 释放协程池
func (g *Group) Close() {
	g.pool.Release()
}
