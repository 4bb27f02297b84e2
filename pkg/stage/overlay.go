package stage

import (
	"github.com/gonewx/vnstage/pkg/components"
	"github.com/gonewx/vnstage/pkg/ecs"
	"github.com/gonewx/vnstage/pkg/tween"
)

// Overlay 铺满舞台的覆盖效果（雨、雾等），由 vfxActivate/vfxDeactivate 开关
type Overlay struct {
	name     string
	seq      *tween.Sequencer
	sprite   *components.SpriteComponent
	alpha    float64
	fadeTime float64
	active   bool
}

// NewOverlay 在覆盖层创建一个初始不可见的效果节点
func NewOverlay(em *ecs.EntityManager, seq *tween.Sequencer, name, image string, alpha, fadeTime float64) *Overlay {
	o := &Overlay{
		name:     name,
		seq:      seq,
		sprite:   &components.SpriteComponent{Image: image, R: 1, G: 1, B: 1},
		alpha:    alpha,
		fadeTime: fadeTime,
	}
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.NodeComponent{Name: "fx/" + name, Layer: components.LayerOverlay, Order: -2})
	ecs.AddComponent(em, id, &components.TransformComponent{Width: StageWidth, Height: StageHeight})
	ecs.AddComponent(em, id, o.sprite)
	return o
}

// Name 效果名
func (o *Overlay) Name() string { return o.name }

// IsActive 是否已激活
func (o *Overlay) IsActive() bool { return o.active }

// Alpha 当前不透明度
func (o *Overlay) Alpha() float64 { return o.sprite.A }

// Activate 淡入
func (o *Overlay) Activate() {
	o.fadeTo(o.alpha)
	o.active = true
}

// Deactivate 淡出
func (o *Overlay) Deactivate() {
	o.fadeTo(0)
	o.active = false
}

func (o *Overlay) fadeTo(alpha float64) {
	o.seq.Complete(o.sprite)
	o.seq.To(o.sprite, &o.sprite.A, alpha, o.fadeTime)
}
