package btdef

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-bt/pkg/bt"
)

// ErrUnknownKind 未知的节点种类
var ErrUnknownKind = errors.New("btdef: unknown node kind")

// Build 按定义递归构造节点
func Build(def *Definition, factory *Factory) (bt.Node, error) {
	if def == nil {
		return nil, errors.New("btdef: nil definition")
	}
	if factory == nil {
		factory = NewFactory()
	}
	return build(def, factory, nameOrKind(def))
}

// BuildTree 按定义构造整棵行为树，树名取根定义的名称
func BuildTree(def *Definition, factory *Factory, opts ...bt.TreeOption) (*bt.Tree, error) {
	root, err := Build(def, factory)
	if err != nil {
		return nil, err
	}
	return bt.NewTree(def.Name, root, opts...)
}

func build(def *Definition, factory *Factory, path string) (bt.Node, error) {
	if def.Kind == KindLeaf {
		if len(def.Children) > 0 {
			return nil, errors.Newf("btdef: %s: leaf cannot have children", path)
		}
		node, err := factory.Create(def.Leaf, def.Name, def.Params)
		if err != nil {
			return nil, errors.Wrapf(err, "btdef: %s", path)
		}
		return node, nil
	}

	children := make([]bt.Node, 0, len(def.Children))
	for i := range def.Children {
		child, err := build(&def.Children[i], factory, childPath(path, &def.Children[i], i))
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	node, err := buildComposite(def, children)
	if err != nil {
		return nil, errors.Wrapf(err, "btdef: %s", path)
	}
	return node, nil
}

func buildComposite(def *Definition, children []bt.Node) (bt.Node, error) {
	switch def.Kind {
	case KindSequence:
		return bt.NewSequence(def.Name, children...), nil
	case KindSelector:
		return bt.NewSelector(def.Name, children...), nil
	case KindParallel:
		policy := bt.PolicySuccessOnAll
		if def.Policy != "" {
			p, err := bt.ParsePolicy(def.Policy)
			if err != nil {
				return nil, err
			}
			policy = p
		}
		return asNode(bt.NewParallel(def.Name, policy, children...))
	}

	if !isDecorator(def.Kind) {
		return nil, errors.Wrapf(ErrUnknownKind, "%q", def.Kind)
	}
	if len(children) != 1 {
		return nil, errors.Wrapf(bt.ErrConstruction, "decorator requires exactly one child, got %d", len(children))
	}
	child := children[0]

	switch def.Kind {
	case KindInverter:
		return asNode(bt.NewInverter(def.Name, child))
	case KindRepeater:
		return asNode(bt.NewRepeater(def.Name, def.Count, child))
	case KindUntilSuccess:
		return asNode(bt.NewUntilSuccess(def.Name, child))
	case KindUntilFailure:
		return asNode(bt.NewUntilFailure(def.Name, child))
	case KindForceSuccess:
		return asNode(bt.NewForceSuccess(def.Name, child))
	default:
		return asNode(bt.NewForceFailure(def.Name, child))
	}
}

func isDecorator(kind string) bool {
	switch kind {
	case KindInverter, KindRepeater, KindUntilSuccess, KindUntilFailure, KindForceSuccess, KindForceFailure:
		return true
	}
	return false
}

// asNode 把具体节点类型的构造结果转换为 bt.Node
func asNode[T bt.Node](n T, err error) (bt.Node, error) {
	if err != nil {
		return nil, err
	}
	return n, nil
}

func childPath(parent string, def *Definition, index int) string {
	seg := nameOrKind(def) + "[" + strconv.Itoa(index) + "]"
	if parent == "" {
		return seg
	}
	return parent + "/" + seg
}

func nameOrKind(def *Definition) string {
	if def.Name != "" {
		return def.Name
	}
	return def.Kind
}
