package bt

import (
	"context"
	"strings"

	"github.com/lk2023060901/xdooria-bt/pkg/logger"
)

// Node 行为树节点接口
//
// 外部叶子节点通过嵌入 LeafNode（或 BaseNode）并实现 Tick 来满足该接口，
// 未导出的方法由嵌入的 BaseNode 提供。
type Node interface {
	// Tick 节点策略，只应由 Execute 调用
	// 只能返回 Running、Success 或 Failure；返回 Idle 或其他值时 Execute 会 panic。
	Tick(ctx context.Context) Status

	// Reset 将节点（容器节点包括所有后代）恢复为 Idle，不修改黑板
	Reset()

	// Name 返回节点名称（在所属树内唯一）
	Name() string

	// Status 返回最近一次执行的状态
	Status() Status

	// Type 返回节点分类
	Type() NodeType

	// Children 返回子节点（叶子节点返回 nil）
	Children() []Node

	// Tree 返回所属的行为树，未挂载时为 nil
	Tree() *Tree

	base() *BaseNode
	attach(self Node, t *Tree)
}

// Execute 执行一次 tick：调用节点策略并记录状态
// 这是父节点和行为树驱动子节点的唯一入口。
func Execute(ctx context.Context, n Node) Status {
	status := mustBeTickResult(n, n.Tick(ctx))
	n.base().status = status
	return status
}

// Halt 重置节点及其子树，然后清除自身状态
func Halt(n Node) {
	n.Reset()
	n.base().status = StatusIdle
}

// FindByName 先序深度优先查找名称匹配的第一个节点，找不到返回 nil
func FindByName(n Node, name string) Node {
	if n == nil {
		return nil
	}
	if n.Name() == name {
		return n
	}
	for _, child := range n.Children() {
		if found := FindByName(child, name); found != nil {
			return found
		}
	}
	return nil
}

// Describer 节点可选实现，为 PrettyRepr 提供额外描述
type Describer interface {
	Describe() string
}

// PrettyRepr 生成缩进的文本表示，用于诊断
func PrettyRepr(n Node, depth int) string {
	var sb strings.Builder
	writeRepr(&sb, n, depth)
	return strings.TrimSuffix(sb.String(), "\n")
}

func writeRepr(sb *strings.Builder, n Node, depth int) {
	sb.WriteString(strings.Repeat("\t", depth))
	sb.WriteString(n.Type().String())
	sb.WriteByte(' ')
	sb.WriteString(n.Name())
	if d, ok := n.(Describer); ok {
		if desc := d.Describe(); desc != "" {
			sb.WriteString(" (")
			sb.WriteString(desc)
			sb.WriteByte(')')
		}
	}
	sb.WriteByte('\n')
	for _, child := range n.Children() {
		writeRepr(sb, child, depth+1)
	}
}

// BaseNode 基础节点，提供名称、状态和所属树
type BaseNode struct {
	name     string
	status   Status
	nodeType NodeType
	tree     *Tree
	owned    bool
}

// NewBaseNode 创建基础节点
func NewBaseNode(name string, nodeType NodeType) BaseNode {
	return BaseNode{name: name, nodeType: nodeType}
}

func (n *BaseNode) Name() string {
	return n.name
}

func (n *BaseNode) Status() Status {
	return n.status
}

func (n *BaseNode) Type() NodeType {
	return n.nodeType
}

func (n *BaseNode) Children() []Node {
	return nil
}

func (n *BaseNode) Tree() *Tree {
	return n.tree
}

// Blackboard 返回所属树的黑板，未挂载时为 nil
func (n *BaseNode) Blackboard() *Blackboard {
	if n.tree == nil {
		return nil
	}
	return n.tree.blackboard
}

// Logger 返回所属树的日志记录器，未挂载时返回空实现
func (n *BaseNode) Logger() logger.Logger {
	if n.tree == nil {
		return logger.NewNoop()
	}
	return n.tree.logger
}

// Reset 恢复为 Idle
func (n *BaseNode) Reset() {
	n.status = StatusIdle
}

func (n *BaseNode) base() *BaseNode {
	return n
}

// adopt 登记子节点归属：子节点只能有一个父节点，也不能是另一棵树上的节点
func adopt(owner string, child Node) error {
	b := child.base()
	if b.owned {
		return constructionErrorf("node %q: child %q already has a parent", owner, child.Name())
	}
	if b.tree != nil {
		return constructionErrorf("node %q: child %q already belongs to tree %q", owner, child.Name(), b.tree.Name())
	}
	b.owned = true
	return nil
}

// attach 挂载到行为树并在树的名称注册表中登记名称
func (n *BaseNode) attach(_ Node, t *Tree) {
	if n.tree == t {
		return
	}
	if n.tree != nil {
		n.tree.names.Release(n.name)
	}
	n.tree = t
	if t != nil {
		n.name = t.names.Claim(n.name)
	}
}
