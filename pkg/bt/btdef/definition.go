// Package btdef 从配置构建行为树
//
// 配置示例（YAML）:
//
//	name: patrol
//	kind: sequence
//	children:
//	  - kind: leaf
//	    leaf: check
//	    params: {key: alert, value: false}
//	  - kind: repeater
//	    count: 3
//	    children:
//	      - {kind: leaf, leaf: wait, params: {duration: 200ms}}
package btdef

import (
	"github.com/cockroachdb/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/lk2023060901/xdooria-bt/pkg/config"
)

// 节点种类
const (
	KindSequence     = "sequence"
	KindSelector     = "selector"
	KindParallel     = "parallel"
	KindInverter     = "inverter"
	KindRepeater     = "repeater"
	KindUntilSuccess = "until_success"
	KindUntilFailure = "until_failure"
	KindForceSuccess = "force_success"
	KindForceFailure = "force_failure"
	KindLeaf         = "leaf"
)

// Definition 节点定义，children 递归描述子树
type Definition struct {
	Name     string         `mapstructure:"name"`
	Kind     string         `mapstructure:"kind" validate:"required,oneof=sequence selector parallel inverter repeater until_success until_failure force_success force_failure leaf"`
	Policy   string         `mapstructure:"policy" validate:"omitempty,oneof=success_on_all success_on_one success_on_all_or_one_failure"`
	Count    int            `mapstructure:"count"` // repeater 次数，负数为无限
	Leaf     string         `mapstructure:"leaf" validate:"required_if=Kind leaf"`
	Params   map[string]any `mapstructure:"params"`
	Children []Definition   `mapstructure:"children" validate:"dive"`
}

// Load 从配置管理器中读取 key 对应的树定义并验证
func Load(mgr config.Manager, key string) (*Definition, error) {
	def := &Definition{}
	if err := mgr.UnmarshalKey(key, def); err != nil {
		return nil, errors.Wrapf(err, "btdef: load %q", key)
	}
	if err := Validate(def); err != nil {
		return nil, err
	}
	return def, nil
}

var validator = config.NewValidator()

// Validate 校验定义的结构（种类、策略、叶子名称）
func Validate(def *Definition) error {
	if err := validator.Validate(def); err != nil {
		return errors.Wrapf(err, "btdef: tree %q", def.Name)
	}
	return nil
}

// DecodeParams 将叶子参数解码到结构体
// 支持弱类型转换和时长字符串（如 "200ms"），未知参数视为错误
func DecodeParams(params map[string]any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           target,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(params); err != nil {
		return errors.Wrap(err, "btdef: decode params")
	}
	return nil
}
