// Package actions 提供 agent 内置的叶子节点
package actions

import (
	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-bt/pkg/bt"
	"github.com/lk2023060901/xdooria-bt/pkg/bt/btdef"
	"github.com/lk2023060901/xdooria-bt/pkg/config"
)

var validate = config.NewValidator()

// Register 把内置叶子注册到工厂
func Register(f *btdef.Factory) error {
	ctors := map[string]btdef.LeafConstructor{
		"wait":    newWaitLeaf,
		"idle":    newIdleLeaf,
		"set":     newSetLeaf,
		"log":     newLogLeaf,
		"check":   newCheckLeaf,
		"counter": newCounterLeaf,
	}
	for kind, ctor := range ctors {
		if err := f.Register(kind, ctor); err != nil {
			return err
		}
	}
	return f.RegisterResourceAction("score", invokeScorer,
		bt.WithInputProcessor(bt.ProcessorFunc(toFloats)))
}

// NewFactory 创建已注册全部内置叶子的工厂
func NewFactory() (*btdef.Factory, error) {
	f := btdef.NewFactory()
	if err := Register(f); err != nil {
		return nil, err
	}
	return f, nil
}

// decode 解码并校验叶子参数
func decode(name string, params map[string]any, target any) error {
	if err := btdef.DecodeParams(params, target); err != nil {
		return errors.Wrapf(err, "leaf %q", name)
	}
	if err := validate.Validate(target); err != nil {
		return errors.Wrapf(err, "leaf %q", name)
	}
	return nil
}
