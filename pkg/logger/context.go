package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextFieldsKey struct{}

// ContextFieldExtractor 从 context 提取字段的函数类型
type ContextFieldExtractor func(ctx context.Context) []zap.Field

// ContextWithFields 在 context 上附加 key-value 字段，叠加已有字段
// 例如行为树驱动器在每次 tick 时附加 tree 和 tick 序号。
func ContextWithFields(ctx context.Context, keysAndValues ...any) context.Context {
	fields := toZapFields(keysAndValues)
	if len(fields) == 0 {
		return ctx
	}
	if existing := FieldsFromContext(ctx); len(existing) > 0 {
		fields = append(append(make([]zap.Field, 0, len(existing)+len(fields)), existing...), fields...)
	}
	return context.WithValue(ctx, contextFieldsKey{}, fields)
}

// FieldsFromContext 返回 ContextWithFields 附加的字段
func FieldsFromContext(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(contextFieldsKey{}).([]zap.Field)
	return fields
}

// DefaultContextExtractor 默认提取器：返回 ContextWithFields 附加的字段
func DefaultContextExtractor(ctx context.Context) []zap.Field {
	return FieldsFromContext(ctx)
}
