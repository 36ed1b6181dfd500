package bt

import (
	"context"

	"github.com/cockroachdb/errors"
)

// ResourceActionConfig 资源动作配置
type ResourceActionConfig struct {
	InputKey    string `mapstructure:"input_key" validate:"required"`    // 输入在黑板中的键
	OutputKey   string `mapstructure:"output_key" validate:"required"`   // 输出写回黑板的键
	ResourceKey string `mapstructure:"resource_key" validate:"required"` // 资源注册表中的键
}

// InvokeFunc 使用外部资源处理输入
type InvokeFunc func(ctx context.Context, resource any, input any) (any, error)

// ResourceAction 通用的资源动作节点
//
// 每次 tick：读取黑板输入 -> 输入处理 -> 按键解析资源并调用 -> 输出处理 -> 写回黑板。
// 任一步出错返回 Failure，错误保存为诊断信息。
type ResourceAction struct {
	LeafNode
	cfg        ResourceActionConfig
	invoke     InvokeFunc
	input      Processor
	output     Processor
	diagnostic error
}

// ResourceActionOption 资源动作选项
type ResourceActionOption func(*ResourceAction)

// WithInputProcessor 设置输入处理器
func WithInputProcessor(p Processor) ResourceActionOption {
	return func(a *ResourceAction) {
		a.SetInputProcessor(p)
	}
}

// WithOutputProcessor 设置输出处理器
func WithOutputProcessor(p Processor) ResourceActionOption {
	return func(a *ResourceAction) {
		a.SetOutputProcessor(p)
	}
}

// NewResourceAction 创建资源动作节点
func NewResourceAction(name string, cfg ResourceActionConfig, invoke InvokeFunc, opts ...ResourceActionOption) (*ResourceAction, error) {
	name = defaultName(name, "resource_action")
	if invoke == nil {
		return nil, constructionErrorf("resource action %q: nil invoke func", name)
	}
	if cfg.InputKey == "" || cfg.OutputKey == "" || cfg.ResourceKey == "" {
		return nil, constructionErrorf("resource action %q: input_key, output_key and resource_key are required", name)
	}

	a := &ResourceAction{
		LeafNode: NewLeafNode(name, TypeAction),
		cfg:      cfg,
		invoke:   invoke,
		input:    NopProcessor,
		output:   NopProcessor,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// SetInputProcessor 替换输入处理器，nil 恢复为 NopProcessor
func (a *ResourceAction) SetInputProcessor(p Processor) {
	if p == nil {
		p = NopProcessor
	}
	a.input = p
}

// SetOutputProcessor 替换输出处理器，nil 恢复为 NopProcessor
func (a *ResourceAction) SetOutputProcessor(p Processor) {
	if p == nil {
		p = NopProcessor
	}
	a.output = p
}

// Config 返回配置
func (a *ResourceAction) Config() ResourceActionConfig {
	return a.cfg
}

func (a *ResourceAction) Describe() string {
	return a.cfg.InputKey + " -> " + a.cfg.ResourceKey + " -> " + a.cfg.OutputKey
}

func (a *ResourceAction) Tick(ctx context.Context) Status {
	a.diagnostic = a.run(ctx)
	if a.diagnostic != nil {
		a.Logger().WarnContext(ctx, "resource action failed", "node", a.name, "error", a.diagnostic)
		return StatusFailure
	}
	return StatusSuccess
}

func (a *ResourceAction) run(ctx context.Context) error {
	t := a.Tree()
	if t == nil {
		return errors.Newf("resource action %q is not attached to a tree", a.name)
	}

	value, err := t.blackboard.Get(a.cfg.InputKey)
	if err != nil {
		return err
	}
	if value, err = a.input.Process(ctx, value); err != nil {
		return errors.Wrap(err, "input processor")
	}

	resource, err := t.ResolveResource(a.cfg.ResourceKey)
	if err != nil {
		return err
	}
	if value, err = a.invoke(ctx, resource, value); err != nil {
		return errors.Wrapf(err, "invoke resource %q", a.cfg.ResourceKey)
	}

	if value, err = a.output.Process(ctx, value); err != nil {
		return errors.Wrap(err, "output processor")
	}

	t.blackboard.Set(a.cfg.OutputKey, value)
	return nil
}

// Diagnostic 返回最近一次 tick 的诊断信息
func (a *ResourceAction) Diagnostic() error {
	return a.diagnostic
}
