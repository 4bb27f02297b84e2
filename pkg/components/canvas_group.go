package components

// CanvasGroupComponent 组透明度组件
// 节点自身及其所有子节点的最终不透明度都会乘以 Alpha
//
// 角色的显示/隐藏淡入淡出作用在这里，而不是逐个表情槽修改。
type CanvasGroupComponent struct {
	Alpha float64
}
