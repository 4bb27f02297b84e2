package components

import "github.com/gonewx/vnstage/pkg/ecs"

// Layer 绘制层级
// 同一层内按 NodeComponent.Order 排序，层与层之间严格按层级先后绘制
type Layer int

const (
	// LayerBackground CG 所在层
	LayerBackground Layer = iota

	// LayerActors 角色立绘所在层
	LayerActors

	// LayerOverlay 覆盖在一切之上（屏幕着色时黑幕会被提升到这一层）
	LayerOverlay
)

// String 返回 Layer 的字符串表示
func (l Layer) String() string {
	switch l {
	case LayerBackground:
		return "Background"
	case LayerActors:
		return "Actors"
	case LayerOverlay:
		return "Overlay"
	default:
		return "Unknown"
	}
}

// NodeComponent 场景图节点组件（纯数据）
//
// 描述节点的名称、父子关系和绘制顺序。
// 子节点继承父节点的层级和顺序，渲染时紧随父节点绘制。
type NodeComponent struct {
	// Name 节点名称（角色名、CG 名、表情槽编号等）
	Name string

	// Parent 父节点，ecs.NoEntity 表示根节点
	Parent ecs.EntityID

	// Layer 绘制层级，仅对根节点生效
	Layer Layer

	// Order 同层内的绘制顺序，值越大越靠前（越晚绘制）
	Order int
}
