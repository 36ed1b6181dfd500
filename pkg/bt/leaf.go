package bt

import "context"

// LeafNode 叶子节点基类（Action 或 Condition）
// 外部实现嵌入 LeafNode 并提供 Tick 即可。
type LeafNode struct {
	BaseNode
}

// NewLeafNode 创建叶子节点基类
func NewLeafNode(name string, nodeType NodeType) LeafNode {
	return LeafNode{BaseNode: NewBaseNode(name, nodeType)}
}

// Result 叶子节点的执行结果：状态加可选的诊断信息
// 叶子内部的任何错误都应在这里转换为 Failure，不得跨越到控制节点。
type Result struct {
	Status Status
	Err    error
}

// Succeed 成功结果
func Succeed() Result {
	return Result{Status: StatusSuccess}
}

// Fail 失败结果，err 作为诊断信息
func Fail(err error) Result {
	return Result{Status: StatusFailure, Err: err}
}

// Pending 运行中结果
func Pending() Result {
	return Result{Status: StatusRunning}
}

// ActionFunc 动作函数
type ActionFunc func(ctx context.Context, a *Action) Result

// Action 由函数实现的动作节点
type Action struct {
	LeafNode
	fn         ActionFunc
	diagnostic error
}

// NewAction 创建动作节点
func NewAction(name string, fn ActionFunc) *Action {
	return &Action{
		LeafNode: NewLeafNode(defaultName(name, "action"), TypeAction),
		fn:       fn,
	}
}

func (a *Action) Tick(ctx context.Context) Status {
	r := a.fn(ctx, a)
	a.diagnostic = r.Err
	if r.Err != nil {
		if r.Status == StatusIdle {
			r.Status = StatusFailure
		}
		a.Logger().DebugContext(ctx, "action reported diagnostic",
			"node", a.name,
			"status", r.Status.String(),
			"error", r.Err,
		)
	}
	return r.Status
}

// Diagnostic 返回最近一次 tick 的诊断信息
func (a *Action) Diagnostic() error {
	return a.diagnostic
}

// AlwaysSuccess 总是成功的动作节点
func AlwaysSuccess(name string) *Action {
	return NewAction(defaultName(name, "always_success"), func(context.Context, *Action) Result {
		return Succeed()
	})
}

// AlwaysFailure 总是失败的动作节点
func AlwaysFailure(name string) *Action {
	return NewAction(defaultName(name, "always_failure"), func(context.Context, *Action) Result {
		return Fail(nil)
	})
}

// ConditionFunc 条件函数，bb 在节点未挂载时为 nil
type ConditionFunc func(ctx context.Context, bb *Blackboard) (bool, error)

// Condition 条件节点：true 为成功，false 或出错为失败
type Condition struct {
	LeafNode
	fn         ConditionFunc
	diagnostic error
}

// NewCondition 创建条件节点
func NewCondition(name string, fn ConditionFunc) *Condition {
	return &Condition{
		LeafNode: NewLeafNode(defaultName(name, "condition"), TypeCondition),
		fn:       fn,
	}
}

func (c *Condition) Tick(ctx context.Context) Status {
	ok, err := c.fn(ctx, c.Blackboard())
	c.diagnostic = err
	if err != nil {
		c.Logger().DebugContext(ctx, "condition reported diagnostic", "node", c.name, "error", err)
		return StatusFailure
	}
	if ok {
		return StatusSuccess
	}
	return StatusFailure
}

// Diagnostic 返回最近一次 tick 的诊断信息
func (c *Condition) Diagnostic() error {
	return c.diagnostic
}
