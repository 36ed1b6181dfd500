package bt

import "github.com/cockroachdb/errors"

// ControlNode 控制节点基类：持有有序子节点，由具体节点决定聚合策略
type ControlNode struct {
	BaseNode
	children []Node
}

// NewControlNode 创建控制节点基类，每个实例分配独立的子节点切片
func NewControlNode(name string, children ...Node) ControlNode {
	c := ControlNode{
		BaseNode: NewBaseNode(name, TypeControl),
		children: make([]Node, 0, len(children)),
	}
	c.AddChildren(children...)
	return c
}

// Children 返回子节点
func (c *ControlNode) Children() []Node {
	return c.children
}

// ChildrenCount 返回子节点数量
func (c *ControlNode) ChildrenCount() int {
	return len(c.children)
}

// Child 按下标获取子节点，不做边界检查（越界直接 panic）
func (c *ControlNode) Child(index int) Node {
	return c.children[index]
}

// AddChild 在末尾追加子节点，已挂载时同步挂载子节点
// 子节点已有父节点或已属于某棵树时 panic（ErrConstruction）。
func (c *ControlNode) AddChild(child Node) {
	if child == nil {
		panic(errors.AssertionFailedf("bt: control node %q: nil child", c.name))
	}
	if err := adopt(c.name, child); err != nil {
		panic(err)
	}
	c.children = append(c.children, child)
	if c.tree != nil {
		child.attach(child, c.tree)
	}
}

// AddChildren 在末尾追加多个子节点
func (c *ControlNode) AddChildren(children ...Node) {
	for _, child := range children {
		c.AddChild(child)
	}
}

// Reset 依次重置所有子节点，然后重置自身
func (c *ControlNode) Reset() {
	c.resetChildren()
	c.status = StatusIdle
}

func (c *ControlNode) resetChildren() {
	for _, child := range c.children {
		child.Reset()
	}
}

// attach 先登记自身名称，再按顺序挂载子节点（先序）
func (c *ControlNode) attach(self Node, t *Tree) {
	c.BaseNode.attach(self, t)
	for _, child := range c.children {
		child.attach(child, t)
	}
}

func defaultName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
