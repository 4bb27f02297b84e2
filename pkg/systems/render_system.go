package systems

import (
	"log"
	"math"
	"sort"

	"github.com/gonewx/vnstage/pkg/components"
	"github.com/gonewx/vnstage/pkg/ecs"
	"github.com/hajimehoshi/ebiten/v2"
)

// maxNodeDepth 场景图最大嵌套深度，超过时视为父子关系成环
const maxNodeDepth = 16

// ImageSource 按资源键取得图像
// game.ResourceManager 满足此接口
type ImageSource interface {
	LoadImage(key string) (*ebiten.Image, error)
}

// Drawable 一个待绘制的精灵（舞台坐标）
type Drawable struct {
	Entity ecs.EntityID
	Image  string

	// X, Y 左上角位置；W, H 为 0 时使用图像原始尺寸
	X, Y, W, H float64
	PivotX     float64
	PivotY     float64
	FlipX      bool

	// 着色与最终不透明度（已乘上所有祖先的组透明度）
	R, G, B, A float64

	layer components.Layer
	order int
	depth int
	own   int
}

// RenderSystem 绘制舞台场景图
//
// 职责范围：
//   - 收集所有带精灵的节点，按 根节点层级 → 根节点顺序 → 深度 → 自身顺序 排序
//   - 子节点位置相对父节点，透明度乘上所有祖先的 CanvasGroupComponent
//   - 舞台坐标整体缩放到窗口并居中（保持宽高比）
//
// 图像由 ImageSource 按资源键解析，加载失败的图像跳过且只记录一次日志。
type RenderSystem struct {
	entityManager *ecs.EntityManager
	images        ImageSource
	stageWidth    float64
	stageHeight   float64

	reported map[string]bool
	buffer   []Drawable
}

// NewRenderSystem 创建一个新的渲染系统
func NewRenderSystem(em *ecs.EntityManager, images ImageSource, stageWidth, stageHeight float64) *RenderSystem {
	return &RenderSystem{
		entityManager: em,
		images:        images,
		stageWidth:    stageWidth,
		stageHeight:   stageHeight,
		reported:      make(map[string]bool),
	}
}

// StageToScreen 返回舞台到屏幕的缩放和偏移（居中留边）
func (s *RenderSystem) StageToScreen(screenWidth, screenHeight float64) (scale, offsetX, offsetY float64) {
	scale = math.Min(screenWidth/s.stageWidth, screenHeight/s.stageHeight)
	offsetX = (screenWidth - s.stageWidth*scale) / 2
	offsetY = (screenHeight - s.stageHeight*scale) / 2
	return scale, offsetX, offsetY
}

// Drawables 按绘制顺序返回当前所有可见的精灵
// 返回的切片在下一次调用前有效
func (s *RenderSystem) Drawables() []Drawable {
	s.buffer = s.buffer[:0]

	entities := ecs.GetEntitiesWith3[
		*components.NodeComponent,
		*components.TransformComponent,
		*components.SpriteComponent,
	](s.entityManager)

	for _, id := range entities {
		sprite, _ := ecs.GetComponent[*components.SpriteComponent](s.entityManager, id)
		if sprite.Image == "" || sprite.A <= 0 {
			continue
		}
		d, ok := s.resolve(id, sprite)
		if !ok || d.A <= 0 {
			continue
		}
		s.buffer = append(s.buffer, d)
	}

	sort.SliceStable(s.buffer, func(i, j int) bool {
		a, b := s.buffer[i], s.buffer[j]
		if a.layer != b.layer {
			return a.layer < b.layer
		}
		if a.order != b.order {
			return a.order < b.order
		}
		if a.depth != b.depth {
			return a.depth < b.depth
		}
		if a.own != b.own {
			return a.own < b.own
		}
		return a.Entity < b.Entity
	})
	return s.buffer
}

// resolve 沿父链累加位置、组透明度，并找到根节点的层级和顺序
func (s *RenderSystem) resolve(id ecs.EntityID, sprite *components.SpriteComponent) (Drawable, bool) {
	node, _ := ecs.GetComponent[*components.NodeComponent](s.entityManager, id)
	transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)

	d := Drawable{
		Entity: id,
		Image:  sprite.Image,
		X:      transform.X,
		Y:      transform.Y,
		W:      transform.Width,
		H:      transform.Height,
		PivotX: transform.PivotX,
		PivotY: transform.PivotY,
		FlipX:  transform.FlipX,
		R:      sprite.R,
		G:      sprite.G,
		B:      sprite.B,
		A:      sprite.A,
		own:    node.Order,
	}

	current, currentNode := id, node
	for {
		if group, ok := ecs.GetComponent[*components.CanvasGroupComponent](s.entityManager, current); ok {
			d.A *= group.Alpha
		}
		if currentNode.Parent == ecs.NoEntity {
			break
		}
		if d.depth >= maxNodeDepth {
			log.Printf("[RenderSystem] Warning: node %s nested too deep, skipped", node.Name)
			return Drawable{}, false
		}

		parent := currentNode.Parent
		parentNode, ok := ecs.GetComponent[*components.NodeComponent](s.entityManager, parent)
		if !ok {
			return Drawable{}, false
		}
		if pt, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, parent); ok {
			d.X += pt.X
			d.Y += pt.Y
		}
		d.depth++
		current, currentNode = parent, parentNode
	}
	d.layer = currentNode.Layer
	d.order = currentNode.Order
	return d, true
}

// Draw 绘制整个舞台
func (s *RenderSystem) Draw(screen *ebiten.Image) {
	bounds := screen.Bounds()
	scale, offsetX, offsetY := s.StageToScreen(float64(bounds.Dx()), float64(bounds.Dy()))

	for _, d := range s.Drawables() {
		img := s.image(d.Image)
		if img == nil {
			continue
		}
		s.drawSprite(screen, img, d, scale, offsetX, offsetY)
	}
}

func (s *RenderSystem) image(key string) *ebiten.Image {
	if s.images == nil {
		return nil
	}
	img, err := s.images.LoadImage(key)
	if err != nil {
		if !s.reported[key] {
			s.reported[key] = true
			log.Printf("[RenderSystem] Warning: cannot draw %s: %v", key, err)
		}
		return nil
	}
	return img
}

func (s *RenderSystem) drawSprite(screen, img *ebiten.Image, d Drawable, scale, offsetX, offsetY float64) {
	b := img.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	if iw == 0 || ih == 0 {
		return
	}
	w, h := d.W, d.H
	if w == 0 || h == 0 {
		w, h = iw, ih
	}

	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Scale(w/iw, h/ih)
	if d.FlipX {
		op.GeoM.Scale(-1, 1)
		op.GeoM.Translate(w, 0)
	}
	op.GeoM.Translate(d.X-d.PivotX*w, d.Y-d.PivotY*h)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offsetX, offsetY)

	// ColorScale 使用预乘 Alpha
	op.ColorScale.Scale(float32(d.R*d.A), float32(d.G*d.A), float32(d.B*d.A), float32(d.A))
	screen.DrawImage(img, op)
}
