// Package runner 按固定节奏驱动行为树
package runner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lk2023060901/xdooria-bt/app/agent/internal/store"
	"github.com/lk2023060901/xdooria-bt/pkg/bt"
	"github.com/lk2023060901/xdooria-bt/pkg/logger"
	"github.com/lk2023060901/xdooria-bt/pkg/otel"
	"go.opentelemetry.io/otel/trace/noop"
)

// DefaultInterval 默认 tick 间隔
const DefaultInterval = 100 * time.Millisecond

const tracerName = "github.com/lk2023060901/xdooria-bt/app/agent/internal/runner"

// Runner 驱动单棵树
//
// 每次 Step 执行一次整树 tick；根节点进入终态后保存快照，
// 然后重置整棵树重新开始，或在 StopOnTerminal 时停止。
type Runner struct {
	tree           *bt.Tree
	interval       atomic.Int64
	stopOnTerminal bool
	tracer         otel.Tracer
	store          store.SnapshotStore
	logger         logger.Logger

	mu   sync.Mutex // 保证同一棵树不会被并发 tick
	done atomic.Bool
}

// Option Runner 选项
type Option func(*Runner)

// WithInterval 设置 tick 间隔
func WithInterval(d time.Duration) Option {
	return func(r *Runner) {
		r.SetInterval(d)
	}
}

// WithStopOnTerminal 根节点终态后停止，而不是重置重跑
func WithStopOnTerminal(stop bool) Option {
	return func(r *Runner) {
		r.stopOnTerminal = stop
	}
}

// WithTracer 设置追踪器
func WithTracer(t otel.Tracer) Option {
	return func(r *Runner) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithStore 设置快照存储
func WithStore(s store.SnapshotStore) Option {
	return func(r *Runner) {
		r.store = s
	}
}

// WithLogger 设置日志记录器
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// New 创建 Runner
func New(tree *bt.Tree, opts ...Option) *Runner {
	r := &Runner{
		tree:   tree,
		tracer: noop.NewTracerProvider().Tracer(tracerName),
		logger: logger.NewNoop(),
	}
	r.interval.Store(int64(DefaultInterval))
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.Named("runner").WithFields("tree", tree.Name())
	return r
}

// Tree 返回驱动的树
func (r *Runner) Tree() *bt.Tree {
	return r.tree
}

// Interval 返回当前 tick 间隔
func (r *Runner) Interval() time.Duration {
	return time.Duration(r.interval.Load())
}

// SetInterval 修改 tick 间隔，运行中的 Run 在下一次 tick 后生效
func (r *Runner) SetInterval(d time.Duration) {
	if d > 0 {
		r.interval.Store(int64(d))
	}
}

// Done 树是否已因终态停止
func (r *Runner) Done() bool {
	return r.done.Load()
}

// Restore 从快照存储恢复黑板，没有快照时不做任何事
func (r *Runner) Restore(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	rec, err := r.store.Load(ctx, r.tree.Name())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := rec.Apply(r.tree); err != nil {
		return err
	}
	r.logger.Info("blackboard restored", "snapshot", rec.ID, "tick", rec.Tick)
	return nil
}

// Step 执行一次 tick
func (r *Runner) Step(ctx context.Context) bt.Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done.Load() {
		return r.tree.Status()
	}

	ctx, span := r.tracer.Start(ctx, "bt.tick",
		otel.WithSpanKind(otel.SpanKindInternal),
		otel.WithAttributes(
			otel.String("bt.tree", r.tree.Name()),
			otel.String("bt.tree_id", r.tree.ID()),
			otel.Int64("bt.tick", int64(r.tree.TickCount()+1)),
		))
	defer span.End()
	if sc := span.SpanContext(); sc.HasTraceID() {
		ctx = logger.ContextWithFields(ctx, "trace_id", sc.TraceID().String())
	}

	status := r.tree.Tick(ctx)
	span.SetAttributes(otel.String("bt.status", status.String()))

	if !status.IsTerminal() {
		return status
	}

	r.logger.DebugContext(ctx, "tree finished", "status", status.String())
	if err := r.save(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(otel.CodeError, "snapshot save failed")
	}

	if r.stopOnTerminal {
		r.done.Store(true)
	} else {
		r.tree.Reset()
	}
	return status
}

func (r *Runner) save(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	rec, err := store.NewRecord(r.tree)
	if err == nil {
		err = r.store.Save(ctx, rec)
	}
	if err != nil {
		r.logger.WarnContext(ctx, "snapshot save failed", "error", err)
	}
	return err
}

// Run 按间隔 tick 直到 ctx 取消或树因终态停止
// 退出时停止整棵树并保存最后的快照。
func (r *Runner) Run(ctx context.Context) error {
	interval := r.Interval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.logger.Info("runner started", "interval", interval)
	defer r.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Step(ctx)
			if r.Done() {
				return nil
			}
			if d := r.Interval(); d != interval {
				interval = d
				ticker.Reset(d)
				r.logger.Info("tick interval changed", "interval", d)
			}
		}
	}
}

// stop 停止整棵树并保存快照
func (r *Runner) stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.done.Load() {
		r.tree.Halt()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = r.save(ctx)
	r.logger.Info("runner stopped", "ticks", r.tree.TickCount())
}
