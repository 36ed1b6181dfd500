package actions

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-bt/pkg/bt"
)

type setParams struct {
	Key   string `mapstructure:"key" validate:"required"`
	Value any    `mapstructure:"value"`
}

// newSetLeaf 写黑板：key = value
func newSetLeaf(name string, params map[string]any) (bt.Node, error) {
	var p setParams
	if err := decode(name, params, &p); err != nil {
		return nil, err
	}
	return bt.NewAction(name, func(_ context.Context, a *bt.Action) bt.Result {
		a.Blackboard().Set(p.Key, p.Value)
		return bt.Succeed()
	}), nil
}

type checkParams struct {
	Key   string `mapstructure:"key" validate:"required"`
	Value any    `mapstructure:"value"`
}

// newCheckLeaf 条件：黑板 key 存在，且在给出 value 时与之相等
// 按格式化后的文本比较，YAML 中的 1 与黑板中的 int64(1) 视为相等。
func newCheckLeaf(name string, params map[string]any) (bt.Node, error) {
	var p checkParams
	if err := decode(name, params, &p); err != nil {
		return nil, err
	}
	return bt.NewCondition(name, func(_ context.Context, bb *bt.Blackboard) (bool, error) {
		v, ok := bb.Lookup(p.Key)
		if !ok {
			return false, nil
		}
		if p.Value == nil {
			return true, nil
		}
		return fmt.Sprint(v) == fmt.Sprint(p.Value), nil
	}), nil
}

type counterParams struct {
	Key   string `mapstructure:"key" validate:"required"`
	Step  int    `mapstructure:"step"`
	Limit int    `mapstructure:"limit" validate:"gte=0"`
}

// newCounterLeaf 递增黑板中的整数
// 设置 limit 时，计数达到上限后返回 Failure 且不再递增。
func newCounterLeaf(name string, params map[string]any) (bt.Node, error) {
	p := counterParams{Step: 1}
	if err := decode(name, params, &p); err != nil {
		return nil, err
	}
	return bt.NewAction(name, func(_ context.Context, a *bt.Action) bt.Result {
		bb := a.Blackboard()
		n := 0
		if v, ok := bb.Lookup(p.Key); ok {
			i, err := toInt(v)
			if err != nil {
				return bt.Fail(errors.Wrapf(err, "counter %q", p.Key))
			}
			n = i
		}
		if p.Limit > 0 && n >= p.Limit {
			return bt.Fail(nil)
		}
		bb.Set(p.Key, n+p.Step)
		return bt.Succeed()
	}), nil
}

// toInt 兼容从快照解码出的各种整数类型
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case int32:
		return int(n), nil
	case uint64:
		return int(n), nil
	case uint32:
		return int(n), nil
	default:
		return 0, errors.Newf("value %v (%T) is not an integer", v, v)
	}
}
