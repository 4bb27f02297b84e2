package components

// SpriteComponent 存储节点当前显示的图像及其着色（纯数据）
//
// Image 是资源键（图像路径），由 RenderSystem 通过 ResourceManager 解析为实际图像。
// 空字符串表示槽位没有分配图像，渲染时跳过。
type SpriteComponent struct {
	Image string

	// R, G, B 着色（0.0 ~ 1.0），A 为不透明度
	R, G, B, A float64
}

// SetTint 设置着色，保留当前不透明度
func (s *SpriteComponent) SetTint(c Tint) {
	s.R, s.G, s.B = c.R, c.G, c.B
}

// Tint 返回当前着色
func (s *SpriteComponent) Tint() Tint {
	return Tint{R: s.R, G: s.G, B: s.B, A: s.A}
}

// BlackImage 纯黑图像的资源键
// 不对应任何文件，由 ResourceManager 按需生成
const BlackImage = "@black"
