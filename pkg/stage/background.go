package stage

import (
	"fmt"
	"log"
	"math"

	"github.com/gonewx/vnstage/pkg/components"
	"github.com/gonewx/vnstage/pkg/ecs"
	"github.com/gonewx/vnstage/pkg/tween"
)

// BlackScreen 全屏黑幕的规范名称
// 黑幕同时用作屏幕着色层和转场遮罩
const BlackScreen = "black_screen"

// 屏幕着色参数
const (
	// TintLevel 着色状态下黑幕的不透明度
	TintLevel = 0.8
	// TintFadeTime 着色淡入淡出时间（秒）
	TintFadeTime = 1.0
	// TintDelay 着色前的等待时间（秒）
	TintDelay = 1.0
)

// Decoration CG 的附属装饰（与 CG 同步淡入）
type Decoration struct {
	Image string
	// X, Y 相对 CG 的位置
	X, Y float64
	// Width, Height 为 0 时铺满舞台
	Width, Height float64
}

type bgChild struct {
	entity ecs.EntityID
	sprite *components.SpriteComponent
}

type bgEntry struct {
	name      string
	entity    ecs.EntityID
	node      *components.NodeComponent
	transform *components.TransformComponent
	sprite    *components.SpriteComponent
	color     components.Tint
	children  []bgChild
}

// CanonicalName 返回 CG 名称的规范形式：小写，并统一黑幕的两种写法
func CanonicalName(name string) string {
	key := FoldKey(name)
	if key == "blackscreen" {
		return BlackScreen
	}
	return key
}

// BackgroundStack CG 栈
//
// 每个 CG 是背景层的一个实体，显示时提升到最上方并淡入，
// 之前的 CG 保持不变留在下面。历史栈记录显示过的 CG 名称，栈顶总是当前显示的 CG。
type BackgroundStack struct {
	em  *ecs.EntityManager
	seq *tween.Sequencer

	entries map[string]*bgEntry
	black   *bgEntry

	history []string
	current string

	modulation components.Tint
	width      float64
	height     float64
	topOrder   int

	tintBusy bool
}

// NewBackgroundStack 创建 CG 栈，黑幕总是存在
//
// 参数：
//   - width, height: 舞台尺寸，CG 默认铺满舞台
func NewBackgroundStack(em *ecs.EntityManager, seq *tween.Sequencer, width, height float64) *BackgroundStack {
	s := &BackgroundStack{
		em:         em,
		seq:        seq,
		entries:    make(map[string]*bgEntry),
		modulation: components.White,
		width:      width,
		height:     height,
	}
	s.black = s.register(BlackScreen, components.BlackImage, components.White, nil)
	s.black.node.Order = -1
	return s
}

// Register 注册一个 CG
// 同名 CG 重复注册时返回错误
func (s *BackgroundStack) Register(name, image string, color components.Tint, decorations ...Decoration) error {
	key := CanonicalName(name)
	if key == "" {
		return fmt.Errorf("background name is empty")
	}
	if _, exists := s.entries[key]; exists {
		return fmt.Errorf("background %q registered twice", key)
	}
	s.register(key, image, color, decorations)
	return nil
}

func (s *BackgroundStack) register(key, image string, color components.Tint, decorations []Decoration) *bgEntry {
	e := &bgEntry{
		name:      key,
		entity:    s.em.CreateEntity(),
		node:      &components.NodeComponent{Name: key, Layer: components.LayerBackground},
		transform: &components.TransformComponent{Width: s.width, Height: s.height},
		sprite:    &components.SpriteComponent{Image: image},
		color:     color,
	}
	e.sprite.SetTint(color)
	ecs.AddComponent(s.em, e.entity, e.node)
	ecs.AddComponent(s.em, e.entity, e.transform)
	ecs.AddComponent(s.em, e.entity, e.sprite)

	for i, d := range decorations {
		w, h := d.Width, d.Height
		if w == 0 || h == 0 {
			w, h = s.width, s.height
		}
		child := bgChild{
			entity: s.em.CreateEntity(),
			sprite: &components.SpriteComponent{Image: d.Image},
		}
		child.sprite.SetTint(color)
		ecs.AddComponent(s.em, child.entity, &components.NodeComponent{
			Name:   fmt.Sprintf("%s/%d", key, i),
			Parent: e.entity,
			Order:  i,
		})
		ecs.AddComponent(s.em, child.entity, &components.TransformComponent{X: d.X, Y: d.Y, Width: w, Height: h})
		ecs.AddComponent(s.em, child.entity, child.sprite)
		e.children = append(e.children, child)
	}

	s.entries[key] = e
	return e
}

// SetModulation 设置环境调制色，非白色时覆盖各 CG 自身的颜色
func (s *BackgroundStack) SetModulation(c components.Tint) {
	s.modulation = c
}

// Has 是否注册了该 CG
func (s *BackgroundStack) Has(name string) bool {
	_, ok := s.entries[CanonicalName(name)]
	return ok
}

// Cover 立即用黑幕完全遮住舞台（场景开始时使用）
// 不写入历史栈
func (s *BackgroundStack) Cover() {
	s.seq.Complete(s.black)
	s.black.sprite.SetTint(components.White)
	s.black.sprite.A = 1
	s.raise(s.black, components.LayerBackground)
}

// Show 显示 CG
//
// 新 CG 提升到最上方并从透明淡入，附属装饰同步淡入。
// 参数：
//   - name: CG 名称（不区分大小写）
//   - duration: 淡入时间（秒）
func (s *BackgroundStack) Show(name string, duration float64) error {
	key := CanonicalName(name)
	e, ok := s.entries[key]
	if !ok {
		log.Printf("[BackgroundStack] Could not find a background with the name %s", name)
		return fmt.Errorf("%s: %w", name, ErrUnknownBackground)
	}

	s.seq.Complete(s)
	s.seq.Complete(e)
	s.history = append(s.history, key)

	tint := e.color
	if !s.modulation.IsWhite() {
		tint = s.modulation
	}
	e.sprite.SetTint(tint)
	e.sprite.A = 0
	for _, child := range e.children {
		child.sprite.SetTint(tint)
		child.sprite.A = 0
	}

	s.raise(e, components.LayerBackground)

	s.seq.To(s, &e.sprite.A, 1, duration)
	for _, child := range e.children {
		s.seq.To(s, &child.sprite.A, 1, duration)
	}

	s.current = key
	log.Printf("[BackgroundStack] Showing %s (%.2fs)", key, duration)
	return nil
}

// ShowPrevious 回到上一个 CG，历史栈长度减一
func (s *BackgroundStack) ShowPrevious(duration float64) error {
	if len(s.history) <= 1 {
		log.Printf("[BackgroundStack] Cannot go back: history has %d entries", len(s.history))
		return ErrHistoryExhausted
	}

	s.history = s.history[:len(s.history)-1]
	previous := s.history[len(s.history)-1]
	if err := s.Show(previous, duration); err != nil {
		return err
	}
	// Show 又把 previous 压入了一次
	s.history = s.history[:len(s.history)-1]
	return nil
}

// PopHistory 移除历史栈顶，不改变显示
func (s *BackgroundStack) PopHistory() (string, bool) {
	if len(s.history) == 0 {
		return "", false
	}
	top := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	return top, true
}

// History 返回历史栈副本（栈底在前）
func (s *BackgroundStack) History() []string {
	return append([]string(nil), s.history...)
}

// Current 当前显示的 CG 名称
func (s *BackgroundStack) Current() string {
	return s.current
}

// CurrentTransform 当前 CG 的变换，没有显示任何 CG 时返回 nil
func (s *BackgroundStack) CurrentTransform() *components.TransformComponent {
	if e, ok := s.entries[s.current]; ok {
		return e.transform
	}
	return nil
}

// Alpha 返回 CG 当前不透明度
func (s *BackgroundStack) Alpha(name string) (float64, bool) {
	e, ok := s.entries[CanonicalName(name)]
	if !ok {
		return 0, false
	}
	return e.sprite.A, true
}

// IsTinted 黑幕是否处于着色状态
func (s *BackgroundStack) IsTinted() bool {
	return math.Abs(s.black.sprite.A-TintLevel) < 1e-6
}

// IsTintBusy 着色切换是否正在进行
func (s *BackgroundStack) IsTintBusy() bool {
	return s.tintBusy
}

// BlackLayer 黑幕当前所在层
func (s *BackgroundStack) BlackLayer() components.Layer {
	return s.black.node.Layer
}

// ToggleTint 切换屏幕着色
//
// 着色状态下：黑幕淡出到 0，然后降到最底层。
// 否则：黑幕不透明度归零并提升到覆盖层，等待 TintDelay 后淡入到 TintLevel。
// 切换进行中再次调用会被忽略并返回 ErrTintInFlight。
// 返回的序列在两个阶段都结束后完成，可用 OnComplete 等待。
func (s *BackgroundStack) ToggleTint() (*tween.Sequence, error) {
	if s.tintBusy {
		log.Printf("[BackgroundStack] Tint toggle already in flight, ignoring")
		return nil, ErrTintInFlight
	}

	black := s.black
	s.seq.Complete(black)
	q := tween.NewSequence(black)

	if s.IsTinted() {
		q.Then(func() *tween.Tween {
			return s.seq.To(black, &black.sprite.A, 0, TintFadeTime)
		}).Call(func() {
			black.node.Layer = components.LayerBackground
			black.node.Order = -1
		})
	} else {
		black.sprite.SetTint(components.White)
		black.sprite.A = 0
		s.raise(black, components.LayerOverlay)
		q.Delay(TintDelay).Then(func() *tween.Tween {
			return s.seq.To(black, &black.sprite.A, TintLevel, TintFadeTime)
		})
	}

	s.tintBusy = true
	q.OnComplete(func() { s.tintBusy = false })
	return s.seq.Run(q), nil
}

func (s *BackgroundStack) raise(e *bgEntry, layer components.Layer) {
	s.topOrder++
	e.node.Layer = layer
	e.node.Order = s.topOrder
}
