package components

// TransformComponent 节点的局部变换（纯数据）
//
// 坐标相对于父节点；根节点坐标即舞台坐标。
type TransformComponent struct {
	// X, Y 局部位置（像素）
	X, Y float64

	// Width, Height 显示尺寸（像素）
	// 为 0 时使用图像原始尺寸
	Width, Height float64

	// PivotX, PivotY 位置对应的图像锚点（0.0 ~ 1.0）
	// 0,0 为左上角；角色立绘使用 0.5,1（底边中点），缩放时脚下位置不变
	PivotX, PivotY float64

	// FlipX 水平镜像
	FlipX bool
}
