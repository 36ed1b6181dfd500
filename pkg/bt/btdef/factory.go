package btdef

import (
	"context"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-bt/pkg/bt"
)

var (
	// ErrUnknownLeaf 工厂中没有注册该叶子种类
	ErrUnknownLeaf = errors.New("btdef: unknown leaf kind")

	// ErrDuplicateLeaf 叶子种类重复注册
	ErrDuplicateLeaf = errors.New("btdef: leaf kind already registered")
)

// LeafConstructor 叶子节点构造函数
type LeafConstructor func(name string, params map[string]any) (bt.Node, error)

// Factory 叶子节点注册表
type Factory struct {
	mu    sync.RWMutex
	ctors map[string]LeafConstructor
}

// NewFactory 创建工厂，内置 success 和 failure 两种叶子
func NewFactory() *Factory {
	f := &Factory{ctors: make(map[string]LeafConstructor)}
	f.ctors["success"] = func(name string, _ map[string]any) (bt.Node, error) {
		return bt.AlwaysSuccess(name), nil
	}
	f.ctors["failure"] = func(name string, _ map[string]any) (bt.Node, error) {
		return bt.AlwaysFailure(name), nil
	}
	return f
}

// Register 注册叶子种类
func (f *Factory) Register(kind string, ctor LeafConstructor) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.ctors[kind]; ok {
		return errors.Wrapf(ErrDuplicateLeaf, "%q", kind)
	}
	f.ctors[kind] = ctor
	return nil
}

// MustRegister 注册叶子种类，重复时 panic
func (f *Factory) MustRegister(kind string, ctor LeafConstructor) {
	if err := f.Register(kind, ctor); err != nil {
		panic(err)
	}
}

// RegisterResourceAction 注册一个资源动作叶子
// 参数 input_key、output_key、resource_key 来自配置，调用逻辑由 invoke 提供。
func (f *Factory) RegisterResourceAction(kind string, invoke bt.InvokeFunc, opts ...bt.ResourceActionOption) error {
	return f.Register(kind, func(name string, params map[string]any) (bt.Node, error) {
		var cfg bt.ResourceActionConfig
		if err := DecodeParams(params, &cfg); err != nil {
			return nil, err
		}
		if err := validator.Validate(&cfg); err != nil {
			return nil, errors.Wrapf(err, "leaf %q", name)
		}
		return bt.NewResourceAction(name, cfg, invoke, opts...)
	})
}

// Kinds 返回已注册的叶子种类（排序）
func (f *Factory) Kinds() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	kinds := make([]string, 0, len(f.ctors))
	for k := range f.ctors {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Create 构造叶子节点
func (f *Factory) Create(kind, name string, params map[string]any) (bt.Node, error) {
	f.mu.RLock()
	ctor, ok := f.ctors[kind]
	f.mu.RUnlock()

	if !ok {
		return nil, errors.Wrapf(ErrUnknownLeaf, "%q", kind)
	}
	node, err := ctor(name, params)
	if err != nil {
		return nil, errors.Wrapf(err, "create leaf %q", kind)
	}
	if node == nil {
		return nil, errors.Newf("btdef: leaf constructor %q returned nil", kind)
	}
	return node, nil
}

// ConditionLeaf 把布尔函数包装成条件叶子构造函数
func ConditionLeaf(fn func(bb *bt.Blackboard, params map[string]any) (bool, error)) LeafConstructor {
	return func(name string, params map[string]any) (bt.Node, error) {
		return bt.NewCondition(name, func(_ context.Context, bb *bt.Blackboard) (bool, error) {
			return fn(bb, params)
		}), nil
	}
}
