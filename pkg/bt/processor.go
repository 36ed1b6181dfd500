package bt

import "context"

// Processor 数据处理策略，用于叶子节点的输入预处理与输出后处理
type Processor interface {
	Process(ctx context.Context, v any) (any, error)
}

// ProcessorFunc 函数式 Processor
type ProcessorFunc func(ctx context.Context, v any) (any, error)

func (f ProcessorFunc) Process(ctx context.Context, v any) (any, error) {
	return f(ctx, v)
}

type nopProcessor struct{}

func (nopProcessor) Process(_ context.Context, v any) (any, error) {
	return v, nil
}

// NopProcessor 原样返回输入
var NopProcessor Processor = nopProcessor{}

// ChainProcessors 按顺序串联多个 Processor，任一出错即停止
func ChainProcessors(processors ...Processor) Processor {
	return ProcessorFunc(func(ctx context.Context, v any) (any, error) {
		var err error
		for _, p := range processors {
			if p == nil {
				continue
			}
			if v, err = p.Process(ctx, v); err != nil {
				return nil, err
			}
		}
		return v, nil
	})
}
