package scenes

import (
	"image/color"
	"log"
	"strings"

	"github.com/gonewx/vnstage/pkg/stage"
	"github.com/gonewx/vnstage/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// 对话框位置
const (
	BoxPositionBottom = "bottom"
	BoxPositionCenter = "center"
	BoxPositionTop    = "top"
)

// 对话框布局（窗口像素）
const (
	boxMargin      = 24.0
	boxHeightRatio = 0.28
	boxPadding     = 20.0
	nameplateGap   = 36.0

	// debugCharWidth 调试字体的字符宽度
	debugCharWidth = 6.0
)

// DialogueBox 对话框：名牌 + 逐字显示的正文
//
// 逐字速度来自设置（字符/秒），速度为 0 时整句立即显示。
type DialogueBox struct {
	visible  bool
	position string

	text     []rune
	revealed float64
	speed    func() float64

	nameplate *stage.Nameplate
	face      *text.GoTextFace
}

// NewDialogueBox 创建对话框
// face 为 nil 时使用调试字体
func NewDialogueBox(nameplate *stage.Nameplate, face *text.GoTextFace, speed func() float64) *DialogueBox {
	if speed == nil {
		speed = func() float64 { return 0 }
	}
	return &DialogueBox{
		visible:   true,
		position:  BoxPositionBottom,
		speed:     speed,
		nameplate: nameplate,
		face:      face,
	}
}

// Show 显示对话框
func (b *DialogueBox) Show() { b.visible = true }

// Hide 隐藏对话框
func (b *DialogueBox) Hide() { b.visible = false }

// IsVisible 对话框是否可见
func (b *DialogueBox) IsVisible() bool { return b.visible }

// SetPosition 设置对话框位置：bottom / center / top
func (b *DialogueBox) SetPosition(position string) {
	switch position {
	case BoxPositionBottom, BoxPositionCenter, BoxPositionTop:
		b.position = position
	default:
		log.Printf("[DialogueBox] Warning: unknown position %q", position)
	}
}

// Position 当前位置
func (b *DialogueBox) Position() string { return b.position }

// SetLine 开始逐字显示一句正文
func (b *DialogueBox) SetLine(body string) {
	b.text = []rune(body)
	b.revealed = 0
	if b.speed() <= 0 {
		b.CompleteReveal()
	}
}

// Update 推进逐字显示
func (b *DialogueBox) Update(deltaTime float64) {
	if b.IsRevealed() {
		return
	}
	speed := b.speed()
	if speed <= 0 {
		b.CompleteReveal()
		return
	}
	b.revealed += speed * deltaTime
	if b.revealed > float64(len(b.text)) {
		b.revealed = float64(len(b.text))
	}
}

// IsRevealed 整句是否已显示
func (b *DialogueBox) IsRevealed() bool {
	return int(b.revealed) >= len(b.text)
}

// CompleteReveal 立即显示整句
func (b *DialogueBox) CompleteReveal() {
	b.revealed = float64(len(b.text))
}

// VisibleText 当前已显示的部分
func (b *DialogueBox) VisibleText() string {
	n := int(b.revealed)
	if n > len(b.text) {
		n = len(b.text)
	}
	return string(b.text[:n])
}

// Rect 对话框在窗口中的位置和尺寸
func (b *DialogueBox) Rect(screenWidth, screenHeight float64) (x, y, w, h float64) {
	w = screenWidth - 2*boxMargin
	h = screenHeight * boxHeightRatio
	x = boxMargin
	switch b.position {
	case BoxPositionTop:
		y = boxMargin + nameplateGap
	case BoxPositionCenter:
		y = (screenHeight - h) / 2
	default:
		y = screenHeight - h - boxMargin
	}
	return x, y, w, h
}

// Draw 绘制对话框
func (b *DialogueBox) Draw(screen *ebiten.Image) {
	if !b.visible {
		return
	}
	bounds := screen.Bounds()
	x, y, w, h := b.Rect(float64(bounds.Dx()), float64(bounds.Dy()))

	ebitenutil.DrawRect(screen, x, y, w, h, color.RGBA{R: 0, G: 0, B: 0, A: 170})

	if b.nameplate != nil && b.nameplate.Alpha() > 0 {
		c := b.nameplate.Color()
		b.drawText(screen, b.nameplate.Text(), x+boxPadding, y-nameplateGap, c.R, c.G, c.B, c.A)
	}
	body := strings.Join(b.WrappedText(w-2*boxPadding), "\n")
	b.drawText(screen, body, x+boxPadding, y+boxPadding, 1, 1, 1, 1)
}

// WrappedText 按正文区域宽度换行后的已显示文本
func (b *DialogueBox) WrappedText(width float64) []string {
	measure := utils.FaceMeasure(b.face)
	if measure == nil {
		measure = utils.FixedMeasure(debugCharWidth)
	}
	return utils.WrapText(b.VisibleText(), width, measure)
}

func (b *DialogueBox) drawText(screen *ebiten.Image, s string, x, y, r, g, bl, a float64) {
	if s == "" {
		return
	}
	if b.face == nil {
		ebitenutil.DebugPrintAt(screen, s, int(x), int(y))
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.LineSpacing = b.face.Size * 1.4
	op.ColorScale.Scale(float32(r*a), float32(g*a), float32(bl*a), float32(a))
	text.Draw(screen, s, b.face, op)
}
