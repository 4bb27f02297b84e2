package stage

import (
	"fmt"
	"log"

	"github.com/gonewx/vnstage/pkg/components"
	"github.com/gonewx/vnstage/pkg/ecs"
	"github.com/gonewx/vnstage/pkg/tween"
)

// 角色淡入淡出时间与立绘基准尺寸
const (
	FadeInTime     = 0.5
	FadeOutTime    = 0.4
	BaseSpriteSize = 1400.0
)

// EmoteRole 表情槽的角色
// 两个表情槽互为双缓冲：每次换表情都写入 Next 槽并交叉淡入，然后两者交换角色
type EmoteRole int

const (
	// EmoteCurrent 当前显示的表情槽
	EmoteCurrent EmoteRole = iota
	// EmoteNext 下一次换表情时写入的表情槽
	EmoteNext
)

// emoteSlot 一个表情槽实体及其组件
type emoteSlot struct {
	entity    ecs.EntityID
	sprite    *components.SpriteComponent
	transform *components.TransformComponent
}

// registry 在场角色登记表，隐藏时从中移除
type registry interface {
	deactivate(name string)
}

// Actor 舞台上的一个说话角色
//
// 根节点持有位置和组透明度，两个子节点是表情槽。
// 所有过渡都是"发出即返回"：方法启动补间后立即返回，由 Sequencer 推进。
type Actor struct {
	name     string
	em       *ecs.EntityManager
	seq      *tween.Sequencer
	registry registry

	root      ecs.EntityID
	transform *components.TransformComponent
	group     *components.CanvasGroupComponent

	slots [2]emoteSlot
	// roles[EmoteCurrent] / roles[EmoteNext] 为物理槽下标，交换角色只交换下标
	roles [2]int

	visible  bool
	mirrored bool
	scale    float64
}

func newActor(name string, em *ecs.EntityManager, seq *tween.Sequencer, reg registry, order int, modulation components.Tint) *Actor {
	a := &Actor{
		name:      name,
		em:        em,
		seq:       seq,
		registry:  reg,
		root:      em.CreateEntity(),
		transform: &components.TransformComponent{},
		group:     &components.CanvasGroupComponent{Alpha: 0},
		roles:     [2]int{0, 1},
		scale:     1,
	}
	ecs.AddComponent(em, a.root, &components.NodeComponent{
		Name:  name,
		Layer: components.LayerActors,
		Order: order,
	})
	ecs.AddComponent(em, a.root, a.transform)
	ecs.AddComponent(em, a.root, a.group)

	for i := range a.slots {
		slot := emoteSlot{
			entity:    em.CreateEntity(),
			sprite:    &components.SpriteComponent{},
			transform: &components.TransformComponent{
				X:      BaseSpriteSize / 2,
				Y:      StageHeight,
				Width:  BaseSpriteSize,
				Height: BaseSpriteSize,
				PivotX: 0.5,
				PivotY: 1,
			},
		}
		// 初始着色为调制色且完全透明，首次出现时淡入而不是突然弹出
		slot.sprite.SetTint(modulation)
		slot.sprite.A = 0

		ecs.AddComponent(em, slot.entity, &components.NodeComponent{
			Name:   fmt.Sprintf("%d", i+1),
			Parent: a.root,
			Order:  i,
		})
		ecs.AddComponent(em, slot.entity, slot.sprite)
		ecs.AddComponent(em, slot.entity, slot.transform)
		a.slots[i] = slot
	}
	return a
}

// Name 角色名
func (a *Actor) Name() string { return a.name }

// Root 根节点实体
func (a *Actor) Root() ecs.EntityID { return a.root }

// IsVisible 是否可见（隐藏操作立即置为 false，淡出在之后完成）
func (a *Actor) IsVisible() bool { return a.visible }

// IsMirrored 是否水平镜像
func (a *Actor) IsMirrored() bool { return a.mirrored }

// Position 根节点当前局部位置
func (a *Actor) Position() Vec2 {
	return Vec2{X: a.transform.X, Y: a.transform.Y}
}

// ScaleFactor 最近一次 Scale 设定的缩放倍数
func (a *Actor) ScaleFactor() float64 { return a.scale }

// Alpha 组透明度
func (a *Actor) Alpha() float64 { return a.group.Alpha }

// Emote 返回指定角色的表情槽精灵
func (a *Actor) Emote(role EmoteRole) *components.SpriteComponent {
	return a.slots[a.roles[role]].sprite
}

// SlotSize 返回表情槽当前尺寸（两个槽始终同步缩放）
func (a *Actor) SlotSize() (w, h float64) {
	t := a.slots[0].transform
	return t.Width, t.Height
}

// swapEmotes 交换 Current/Next 角色
func (a *Actor) swapEmotes() {
	a.roles[EmoteCurrent], a.roles[EmoteNext] = a.roles[EmoteNext], a.roles[EmoteCurrent]
}

// Show 淡入角色
func (a *Actor) Show() {
	// 先冲刷未完成的隐藏，隐藏后的复位在淡入前落地
	a.seq.Complete(a.group)
	a.seq.To(a.group, &a.group.Alpha, 1, FadeInTime)
	a.visible = true
}

// Hide 隐藏角色
//
// 可见标记和登记表移除是同步的，因此淡出期间再次 Show 是合法的；
// 位置、尺寸和表情的复位在淡出完成后才进行。
func (a *Actor) Hide() {
	a.visible = false
	if a.registry != nil {
		a.registry.deactivate(a.name)
	}

	a.seq.Complete(a.group)
	a.seq.To(a.group, &a.group.Alpha, 0, FadeOutTime).OnComplete(a.reset)
}

// reset 复位位置、尺寸、镜像和表情
func (a *Actor) reset() {
	a.seq.Complete(a.transform)
	a.transform.X, a.transform.Y = 0, 0

	for i := range a.slots {
		slot := a.slots[i]
		a.seq.Complete(slot.transform)
		a.seq.Complete(slot.sprite)
		slot.transform.Width = BaseSpriteSize
		slot.transform.Height = BaseSpriteSize
		slot.transform.FlipX = false
		slot.sprite.Image = ""
		slot.sprite.A = 0
	}
	a.mirrored = false
	a.scale = 1
}

// SetPosition 移动到预定义位置
func (a *Actor) SetPosition(positionName string, duration float64) error {
	pos, ok := LookupPosition(positionName)
	if !ok {
		log.Printf("[Actor] Could not set the position with the name %s", positionName)
		return fmt.Errorf("%s: %w", positionName, ErrUnknownPosition)
	}

	a.seq.Complete(a.transform)
	a.moveTo(pos, duration)
	return nil
}

// MoveBy 相对当前位置移动
func (a *Actor) MoveBy(offset Vec2, duration float64) {
	a.seq.Complete(a.transform)
	a.moveTo(a.Position().Add(offset), duration)
}

func (a *Actor) moveTo(pos Vec2, duration float64) {
	a.seq.To(a.transform, &a.transform.X, pos.X, duration)
	a.seq.To(a.transform, &a.transform.Y, pos.Y, duration)
}

// place 立即放置到指定位置（首次出场分配位置时使用）
func (a *Actor) place(pos Vec2) {
	a.seq.Complete(a.transform)
	a.transform.X, a.transform.Y = pos.X, pos.Y
}

// Scale 缩放所有表情槽，根节点不参与缩放
func (a *Actor) Scale(factor, duration float64) {
	size := BaseSpriteSize * factor
	for i := range a.slots {
		t := a.slots[i].transform
		a.seq.Complete(t)
		a.seq.To(t, &t.Width, size, duration)
		a.seq.To(t, &t.Height, size, duration)
	}
	a.scale = factor
}

// Flip 立即切换所有表情槽的水平镜像
func (a *Actor) Flip() {
	for i := range a.slots {
		a.slots[i].transform.FlipX = !a.slots[i].transform.FlipX
	}
	a.mirrored = !a.mirrored
}

// SetMirrored 设置镜像状态
func (a *Actor) SetMirrored(mirrored bool) {
	for i := range a.slots {
		a.slots[i].transform.FlipX = mirrored
	}
	a.mirrored = mirrored
}

// SetCurrentEmote 直接替换当前表情槽的图像，不做交叉淡入
func (a *Actor) SetCurrentEmote(image string) {
	a.Emote(EmoteCurrent).Image = image
}

// crossFadeTo 把 image 写入 Next 槽；与当前表情不同时交叉淡入并交换槽位角色
// 返回是否发生了过渡
func (a *Actor) crossFadeTo(image string) bool {
	current := a.Emote(EmoteCurrent)
	next := a.Emote(EmoteNext)
	next.Image = image

	if !a.visible {
		a.Show()
	}

	if current.Image == next.Image {
		return false
	}

	a.seq.Complete(current)
	a.seq.To(current, &current.A, 0, FadeOutTime)
	a.seq.Complete(next)
	a.seq.To(next, &next.A, 1, FadeInTime)
	a.swapEmotes()
	return true
}
