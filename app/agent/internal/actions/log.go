package actions

import (
	"context"

	"github.com/lk2023060901/xdooria-bt/pkg/bt"
)

type logParams struct {
	Message string   `mapstructure:"message" validate:"required"`
	Level   string   `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Keys    []string `mapstructure:"keys"` // 附带输出的黑板键
}

// newLogLeaf 输出一条日志后成功
func newLogLeaf(name string, params map[string]any) (bt.Node, error) {
	var p logParams
	if err := decode(name, params, &p); err != nil {
		return nil, err
	}
	return bt.NewAction(name, func(ctx context.Context, a *bt.Action) bt.Result {
		fields := []any{"node", a.Name()}
		bb := a.Blackboard()
		for _, k := range p.Keys {
			if v, ok := bb.Lookup(k); ok {
				fields = append(fields, k, v)
			}
		}

		l := a.Logger()
		switch p.Level {
		case "debug":
			l.DebugContext(ctx, p.Message, fields...)
		case "warn":
			l.WarnContext(ctx, p.Message, fields...)
		case "error":
			l.ErrorContext(ctx, p.Message, fields...)
		default:
			l.InfoContext(ctx, p.Message, fields...)
		}
		return bt.Succeed()
	}), nil
}
