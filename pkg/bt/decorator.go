package bt

import (
	"context"
	"strconv"
)

// DecoratorNode 装饰节点基类：包装且仅包装一个子节点
type DecoratorNode struct {
	BaseNode
	child Node
}

// NewDecoratorNode 创建装饰节点基类，子节点为空或已有归属时返回构造错误
func NewDecoratorNode(name string, child Node) (DecoratorNode, error) {
	if child == nil {
		return DecoratorNode{}, constructionErrorf("decorator %q requires a child", name)
	}
	if err := adopt(name, child); err != nil {
		return DecoratorNode{}, err
	}
	return DecoratorNode{
		BaseNode: NewBaseNode(name, TypeDecorator),
		child:    child,
	}, nil
}

// Child 返回被包装的子节点
func (d *DecoratorNode) Child() Node {
	return d.child
}

func (d *DecoratorNode) Children() []Node {
	return []Node{d.child}
}

// Reset 重置子节点，然后重置自身
func (d *DecoratorNode) Reset() {
	d.child.Reset()
	d.status = StatusIdle
}

func (d *DecoratorNode) attach(self Node, t *Tree) {
	d.BaseNode.attach(self, t)
	d.child.attach(d.child, t)
}

// Must 构造失败时 panic，用于静态组装的树
func Must[T Node](n T, err error) T {
	if err != nil {
		panic(err)
	}
	return n
}

// Inverter 反转节点：反转子节点的结果，Running 原样返回
type Inverter struct {
	DecoratorNode
}

// NewInverter 创建反转节点
func NewInverter(name string, child Node) (*Inverter, error) {
	d, err := NewDecoratorNode(defaultName(name, "inverter"), child)
	if err != nil {
		return nil, err
	}
	return &Inverter{DecoratorNode: d}, nil
}

func (i *Inverter) Tick(ctx context.Context) Status {
	switch status := Execute(ctx, i.child); status {
	case StatusSuccess:
		return StatusFailure
	case StatusFailure:
		return StatusSuccess
	default:
		return status
	}
}

// Repeater 重复节点：子节点成功后重复执行，直到达到指定次数
// maxCount < 0 表示无限重复；子节点失败时立即失败。
type Repeater struct {
	DecoratorNode
	maxCount int
	count    int
}

// NewRepeater 创建重复节点
func NewRepeater(name string, maxCount int, child Node) (*Repeater, error) {
	d, err := NewDecoratorNode(defaultName(name, "repeater"), child)
	if err != nil {
		return nil, err
	}
	return &Repeater{DecoratorNode: d, maxCount: maxCount}, nil
}

func (r *Repeater) Describe() string {
	if r.maxCount < 0 {
		return "count=inf"
	}
	return "count=" + strconv.Itoa(r.maxCount)
}

func (r *Repeater) Tick(ctx context.Context) Status {
	if r.maxCount == 0 {
		return StatusSuccess
	}

	switch Execute(ctx, r.child) {
	case StatusRunning:
		return StatusRunning
	case StatusFailure:
		r.Reset()
		return StatusFailure
	}

	r.count++
	r.child.Reset()
	if r.maxCount > 0 && r.count >= r.maxCount {
		r.count = 0
		return StatusSuccess
	}
	return StatusRunning
}

// Count 返回本轮已完成的次数
func (r *Repeater) Count() int {
	return r.count
}

func (r *Repeater) Reset() {
	r.count = 0
	r.DecoratorNode.Reset()
}

// UntilSuccess 直到成功节点：子节点失败时重置并继续，成功后返回成功
type UntilSuccess struct {
	DecoratorNode
}

// NewUntilSuccess 创建直到成功节点
func NewUntilSuccess(name string, child Node) (*UntilSuccess, error) {
	d, err := NewDecoratorNode(defaultName(name, "until_success"), child)
	if err != nil {
		return nil, err
	}
	return &UntilSuccess{DecoratorNode: d}, nil
}

func (u *UntilSuccess) Tick(ctx context.Context) Status {
	switch Execute(ctx, u.child) {
	case StatusSuccess:
		u.child.Reset()
		return StatusSuccess
	case StatusFailure:
		u.child.Reset()
	}
	return StatusRunning
}

// UntilFailure 直到失败节点：子节点成功时重置并继续，失败后返回成功
type UntilFailure struct {
	DecoratorNode
}

// NewUntilFailure 创建直到失败节点
func NewUntilFailure(name string, child Node) (*UntilFailure, error) {
	d, err := NewDecoratorNode(defaultName(name, "until_failure"), child)
	if err != nil {
		return nil, err
	}
	return &UntilFailure{DecoratorNode: d}, nil
}

func (u *UntilFailure) Tick(ctx context.Context) Status {
	switch Execute(ctx, u.child) {
	case StatusFailure:
		u.child.Reset()
		return StatusSuccess
	case StatusSuccess:
		u.child.Reset()
	}
	return StatusRunning
}

// ForceSuccess 子节点完成后总是返回成功
type ForceSuccess struct {
	DecoratorNode
}

// NewForceSuccess 创建强制成功节点
func NewForceSuccess(name string, child Node) (*ForceSuccess, error) {
	d, err := NewDecoratorNode(defaultName(name, "force_success"), child)
	if err != nil {
		return nil, err
	}
	return &ForceSuccess{DecoratorNode: d}, nil
}

func (f *ForceSuccess) Tick(ctx context.Context) Status {
	if Execute(ctx, f.child) == StatusRunning {
		return StatusRunning
	}
	return StatusSuccess
}

// ForceFailure 子节点完成后总是返回失败
type ForceFailure struct {
	DecoratorNode
}

// NewForceFailure 创建强制失败节点
func NewForceFailure(name string, child Node) (*ForceFailure, error) {
	d, err := NewDecoratorNode(defaultName(name, "force_failure"), child)
	if err != nil {
		return nil, err
	}
	return &ForceFailure{DecoratorNode: d}, nil
}

func (f *ForceFailure) Tick(ctx context.Context) Status {
	if Execute(ctx, f.child) == StatusRunning {
		return StatusRunning
	}
	return StatusFailure
}
