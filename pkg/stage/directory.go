package stage

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/gonewx/vnstage/pkg/components"
	"github.com/gonewx/vnstage/pkg/ecs"
	"github.com/gonewx/vnstage/pkg/tween"
)

// Directory 舞台调度：管理场景中的所有说话角色
//
// 职责：
//   - 解析对话行中的说话人/表情指令，创建或复用角色
//   - 首次出场（或隐藏后再次出场）时按在场人数分配位置并决定是否镜像
//   - 维护在场角色登记表
//
// 角色一旦创建就在场景生命周期内一直存在，隐藏只是从登记表中移除。
type Directory struct {
	em      *ecs.EntityManager
	seq     *tween.Sequencer
	catalog SpriteCatalog

	actors map[string]*Actor
	// active 在场角色 -> 出场时分配到的位置
	// 只用于判断"是否在场"和统计人数，插入顺序没有意义
	active map[string]Vec2

	modulation components.Tint
	nextOrder  int
}

// NewDirectory 创建舞台调度
//
// 参数：
//   - em: 场景图
//   - seq: 动画序列器
//   - catalog: 角色表情目录
func NewDirectory(em *ecs.EntityManager, seq *tween.Sequencer, catalog SpriteCatalog) *Directory {
	return &Directory{
		em:         em,
		seq:        seq,
		catalog:    catalog,
		actors:     make(map[string]*Actor),
		active:     make(map[string]Vec2),
		modulation: components.White.WithAlpha(0),
	}
}

// SetModulation 设置新角色立绘的调制色
// Alpha 总是被置为 0，保证首次出现时淡入
func (d *Directory) SetModulation(c components.Tint) {
	d.modulation = c.WithAlpha(0)
}

// Modulation 返回调制色
func (d *Directory) Modulation() components.Tint {
	return d.modulation
}

// ResolveLine 解析对话行并更新说话人的表情
//
// 返回：
//   - *Actor: 说话人；对话行不含舞台指令时为 nil
//   - string: 折叠后的表情键
//   - error: 表情查找失败时返回 *DirectiveError，此时不做任何视觉更新
func (d *Directory) ResolveLine(line string) (*Actor, string, error) {
	directive, ok := ParseLine(line)
	if !ok {
		return nil, "", nil
	}
	return d.resolve(directive.Speaker, directive.Emote, line)
}

// Resolve 直接按说话人和表情键更新角色，不经过对话行解析
// 名称和表情中可以包含逗号或冒号；表情键同样做大小写折叠
func (d *Directory) Resolve(speaker, emote string) (*Actor, error) {
	actor, _, err := d.resolve(strings.TrimSpace(speaker), FoldKey(emote), "")
	return actor, err
}

func (d *Directory) resolve(speaker, emote, line string) (*Actor, string, error) {
	if speaker == "" {
		err := &DirectiveError{Emote: emote, Line: line, Err: ErrEmptySpeaker}
		log.Printf("[Directory] %v", err)
		return nil, emote, err
	}

	actor := d.activate(speaker)

	image, err := d.catalog.Lookup(speaker, emote)
	if err != nil {
		derr := &DirectiveError{Emote: emote, Speaker: speaker, Line: line, Err: err}
		log.Printf("[Directory] %v", derr)
		return nil, emote, derr
	}

	if actor.crossFadeTo(image) {
		log.Printf("[Directory] %s -> %s", actor.name, emote)
	}
	return actor, emote, nil
}

// activate 取得（必要时创建）角色并登记为在场
func (d *Directory) activate(name string) *Actor {
	actor, exists := d.actors[name]
	if !exists {
		actor = newActor(name, d.em, d.seq, d, d.nextOrder, d.modulation)
		d.nextOrder++
		d.actors[name] = actor
		d.assignSlot(actor)
		log.Printf("[Directory] Created speaker %s at %v", name, actor.Position())
	} else if _, active := d.active[name]; !active {
		d.assignSlot(actor)
	}

	d.active[name] = actor.Position()
	return actor
}

// assignSlot 按当前在场人数分配位置
// 不记忆上一次的位置：隐藏后再出场会按新的人数重新分配
func (d *Directory) assignSlot(actor *Actor) {
	// 冲刷未完成的隐藏，避免延迟复位覆盖新位置
	d.seq.Complete(actor.group)

	slot := SlotForCount(len(d.active))
	actor.place(Positions[slot])
	actor.SetMirrored(IsMirroredSlot(slot))
}

// deactivate 实现 registry
func (d *Directory) deactivate(name string) {
	delete(d.active, name)
}

// Actor 按名称查找角色（包括已隐藏的）
func (d *Directory) Actor(name string) (*Actor, bool) {
	a, ok := d.actors[name]
	return a, ok
}

// MustActor 按名称查找角色，找不到时返回 ErrUnknownActor
func (d *Directory) MustActor(name string) (*Actor, error) {
	if a, ok := d.actors[name]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%s: %w", name, ErrUnknownActor)
}

// Actors 返回所有角色（按名称排序）
func (d *Directory) Actors() []*Actor {
	names := make([]string, 0, len(d.actors))
	for name := range d.actors {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]*Actor, 0, len(names))
	for _, name := range names {
		result = append(result, d.actors[name])
	}
	return result
}

// IsActive 角色是否在场
func (d *Directory) IsActive(name string) bool {
	_, ok := d.active[name]
	return ok
}

// ActiveCount 在场角色数量
func (d *Directory) ActiveCount() int {
	return len(d.active)
}

// ActivePosition 在场角色登记时的位置
func (d *Directory) ActivePosition(name string) (Vec2, bool) {
	p, ok := d.active[name]
	return p, ok
}

// EmoteImage 查找角色表情图像
func (d *Directory) EmoteImage(speaker, emote string) (string, error) {
	return d.catalog.Lookup(speaker, emote)
}
