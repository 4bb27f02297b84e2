package stage

// Vec2 二维向量（舞台像素坐标）
type Vec2 struct {
	X, Y float64
}

// Add 向量相加
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// 舞台设计尺寸（像素），16:9
// 位置、尺寸都以此为坐标系，渲染时整体缩放到窗口
const (
	StageWidth  = 2900.0
	StageHeight = 1631.25
)

// 预定义的舞台位置名称
const (
	PositionLeft    = "Left"
	PositionCenter1 = "Center1"
	PositionCenter2 = "Center2"
	PositionRight   = "Right"
)

// Positions 预定义舞台位置
// 名称区分大小写，与脚本中 moveSpeaker 的写法一致
var Positions = map[string]Vec2{
	PositionLeft:    {X: 0, Y: 0},
	PositionCenter1: {X: 500, Y: 0},
	PositionCenter2: {X: 920, Y: 0},
	PositionRight:   {X: 1500, Y: 0},
}

// Sizes scaleSpeaker 使用的预定义尺寸（小写）
var Sizes = map[string]float64{
	"small":  0.714,
	"normal": 1.0,
	"large":  1.3,
}

// slotOrder 按在场人数分配位置：0→Left, 1→Center2, 2→Center1, ≥3→Right
var slotOrder = [...]string{PositionLeft, PositionCenter2, PositionCenter1, PositionRight}

// SlotForCount 根据当前在场角色数量返回新角色的位置名称
func SlotForCount(count int) string {
	if count < 0 {
		count = 0
	}
	if count >= len(slotOrder) {
		return PositionRight
	}
	return slotOrder[count]
}

// IsMirroredSlot 位于屏幕右侧的位置（Center2、Right）需要水平镜像，让角色面向舞台中央
func IsMirroredSlot(slot string) bool {
	return slot == PositionCenter2 || slot == PositionRight
}

// LookupPosition 查找预定义位置
func LookupPosition(name string) (Vec2, bool) {
	p, ok := Positions[name]
	return p, ok
}

// LookupSize 查找预定义尺寸，name 需已转为小写
func LookupSize(name string) (float64, bool) {
	s, ok := Sizes[name]
	return s, ok
}
