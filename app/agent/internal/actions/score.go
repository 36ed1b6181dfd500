package actions

import (
	"context"

	"github.com/cockroachdb/errors"
)

// Scorer 打分资源，score 叶子通过资源注册表解析并调用
type Scorer interface {
	Score(ctx context.Context, features []float64) (float64, error)
}

// ScorerFunc 函数式 Scorer
type ScorerFunc func(ctx context.Context, features []float64) (float64, error)

func (f ScorerFunc) Score(ctx context.Context, features []float64) (float64, error) {
	return f(ctx, features)
}

// LinearScorer 线性模型：bias + Σ weights[i]*features[i]
type LinearScorer struct {
	Weights []float64 `mapstructure:"weights" validate:"min=1"`
	Bias    float64   `mapstructure:"bias"`
}

func (s *LinearScorer) Score(_ context.Context, features []float64) (float64, error) {
	if len(features) != len(s.Weights) {
		return 0, errors.Newf("linear scorer expects %d features, got %d", len(s.Weights), len(features))
	}
	score := s.Bias
	for i, w := range s.Weights {
		score += w * features[i]
	}
	return score, nil
}

func invokeScorer(ctx context.Context, resource any, input any) (any, error) {
	scorer, ok := resource.(Scorer)
	if !ok {
		return nil, errors.Newf("resource %T is not a scorer", resource)
	}
	features, ok := input.([]float64)
	if !ok {
		return nil, errors.Newf("scorer input %T is not []float64", input)
	}
	return scorer.Score(ctx, features)
}

// toFloats 把黑板中的数值或数值列表转换为特征向量
func toFloats(_ context.Context, v any) (any, error) {
	switch x := v.(type) {
	case []float64:
		return x, nil
	case []any:
		out := make([]float64, len(x))
		for i, e := range x {
			f, err := toFloat(e)
			if err != nil {
				return nil, errors.Wrapf(err, "feature %d", i)
			}
			out[i] = f
		}
		return out, nil
	case []int:
		out := make([]float64, len(x))
		for i, e := range x {
			out[i] = float64(e)
		}
		return out, nil
	default:
		f, err := toFloat(v)
		if err != nil {
			return nil, err
		}
		return []float64{f}, nil
	}
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int, int64, int32, uint64, uint32:
		i, err := toInt(n)
		return float64(i), err
	default:
		return 0, errors.Newf("value %v (%T) is not numeric", v, v)
	}
}
