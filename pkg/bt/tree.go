package bt

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/lk2023060901/xdooria-bt/pkg/logger"
)

// TickObserver 观察每次整树 tick 的结果（指标、追踪等）
type TickObserver interface {
	OnTick(t *Tree, status Status, elapsed time.Duration)
}

// TickObserverFunc 函数式 TickObserver
type TickObserverFunc func(t *Tree, status Status, elapsed time.Duration)

func (f TickObserverFunc) OnTick(t *Tree, status Status, elapsed time.Duration) {
	f(t, status, elapsed)
}

// Tree 行为树：持有根节点、黑板、名称注册表和资源注册表
type Tree struct {
	id         string
	name       string
	root       Node
	blackboard *Blackboard
	names      *NameRegistry
	resources  *ResourceRegistry
	logger     logger.Logger
	observers  []TickObserver
	ticks      uint64
}

// TreeOption 行为树选项
type TreeOption func(*Tree)

// WithLogger 设置日志记录器
func WithLogger(l logger.Logger) TreeOption {
	return func(t *Tree) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithObservers 添加 tick 观察者
func WithObservers(observers ...TickObserver) TreeOption {
	return func(t *Tree) {
		t.observers = append(t.observers, observers...)
	}
}

// WithResource 预先注册资源
func WithResource(key string, resource any) TreeOption {
	return func(t *Tree) {
		t.resources.Register(key, resource)
	}
}

// NewTree 创建行为树，并把整棵子树挂载到新树上
// 挂载时按先序在树的名称注册表中登记名称，冲突自动追加后缀。
func NewTree(name string, root Node, opts ...TreeOption) (*Tree, error) {
	if root == nil {
		return nil, constructionErrorf("tree %q requires a root node", name)
	}
	if root.Tree() != nil {
		return nil, constructionErrorf("tree %q: root %q already belongs to tree %q", name, root.Name(), root.Tree().Name())
	}
	if root.base().owned {
		return nil, constructionErrorf("tree %q: root %q already has a parent", name, root.Name())
	}

	t := &Tree{
		id:         uuid.NewString(),
		name:       defaultName(name, "tree"),
		root:       root,
		blackboard: NewBlackboard(),
		names:      NewNameRegistry(),
		resources:  NewResourceRegistry(),
		logger:     logger.NewNoop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.Named("bt").WithFields("tree", t.name, "tree_id", t.id)

	root.attach(root, t)
	return t, nil
}

// Tick 执行一次整树 tick，返回根节点状态
func (t *Tree) Tick(ctx context.Context) Status {
	t.ticks++
	start := time.Now()

	status := Execute(ctx, t.root)

	elapsed := time.Since(start)
	t.logger.DebugContext(ctx, "tick completed",
		"tick", t.ticks,
		"status", status.String(),
		"elapsed", elapsed,
	)

	for _, o := range t.observers {
		o.OnTick(t, status, elapsed)
	}
	return status
}

// AddObserver 添加 tick 观察者
func (t *Tree) AddObserver(o TickObserver) {
	t.observers = append(t.observers, o)
}

// Reset 重置整棵树（不修改黑板）
func (t *Tree) Reset() {
	t.root.Reset()
}

// Halt 停止整棵树：同步重置所有节点并清除根节点状态
func (t *Tree) Halt() {
	Halt(t.root)
	t.logger.Debug("tree halted")
}

// FindByName 查找节点，找不到返回 nil
func (t *Tree) FindByName(name string) Node {
	return FindByName(t.root, name)
}

// Rename 重命名树内节点，返回实际使用的名称
func (t *Tree) Rename(n Node, name string) (string, error) {
	if n == nil || n.Tree() != t {
		return "", errors.Newf("bt: node does not belong to tree %q", t.name)
	}
	b := n.base()
	t.names.Release(b.name)
	b.name = t.names.Claim(name)
	return b.name, nil
}

// RegisterResource 注册外部资源
func (t *Tree) RegisterResource(key string, resource any) {
	t.resources.Register(key, resource)
}

// ResolveResource 获取外部资源，不存在时返回 ErrResourceNotFound
func (t *Tree) ResolveResource(key string) (any, error) {
	return t.resources.Resolve(key)
}

// PrettyRepr 返回整棵树的缩进文本表示
func (t *Tree) PrettyRepr() string {
	return "Tree " + t.name + "\n" + PrettyRepr(t.root, 1)
}

// ID 返回树实例 ID
func (t *Tree) ID() string {
	return t.id
}

// Name 返回树名称
func (t *Tree) Name() string {
	return t.name
}

// Root 返回根节点
func (t *Tree) Root() Node {
	return t.root
}

// Status 返回根节点最近一次的状态
func (t *Tree) Status() Status {
	return t.root.Status()
}

// Blackboard 返回黑板
func (t *Tree) Blackboard() *Blackboard {
	return t.blackboard
}

// Names 返回名称注册表
func (t *Tree) Names() *NameRegistry {
	return t.names
}

// Resources 返回资源注册表
func (t *Tree) Resources() *ResourceRegistry {
	return t.resources
}

// Logger 返回日志记录器
func (t *Tree) Logger() logger.Logger {
	return t.logger
}

// TickCount 返回已执行的 tick 次数
func (t *Tree) TickCount() uint64 {
	return t.ticks
}
