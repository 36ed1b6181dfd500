// Package bt 行为树执行内核
//
// 宿主按自己的节奏调用 Tree.Tick，树从根节点开始同步地执行控制节点、
// 装饰节点和叶子节点，并返回 Running 或终止状态。
//
// 内核包含：
//   - 节点状态机（Idle / Running / Success / Failure）
//   - 控制节点：Sequence、Selector、Parallel（三种聚合策略）
//   - 装饰节点：Inverter、Repeater、UntilSuccess、UntilFailure、ForceSuccess、ForceFailure
//   - 黑板（每棵树一个）与名称注册表（每棵树一个，名称冲突自动追加后缀）
//   - 资源注册表：叶子节点按键获取外部资源，内核不关心资源类型
//
// 叶子节点的错误必须在叶子内部转换为 Failure（可附带诊断信息），
// 控制节点与装饰节点只聚合状态，不捕获 panic。
//
// 示例：
//
//	root := bt.NewSequence("main",
//		bt.NewCondition("has_target", hasTarget),
//		bt.Must(bt.NewInverter("not_busy", busy)),
//		bt.NewAction("attack", attack),
//	)
//	tree, err := bt.NewTree("npc", root, bt.WithLogger(l))
//	if err != nil {
//		return err
//	}
//	for tree.Tick(ctx) == bt.StatusRunning {
//		// ...
//	}
package bt
