package systems

import (
	"log"

	"github.com/gonewx/vnstage/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// StoryInput 对话输入接口
// 用于依赖注入，支持测试时 mock
type StoryInput interface {
	// AdvancePressed 本帧是否按下推进（左键、触摸、空格、回车）
	AdvancePressed() bool
	// SkipHeld 跳过键（左 Ctrl 或双指按住）是否按住
	SkipHeld() bool
	// AutoToggled 本帧是否切换自动模式（F3）
	AutoToggled() bool
}

// ebitenStoryInput Ebitengine 默认实现
type ebitenStoryInput struct{}

func (e *ebitenStoryInput) AdvancePressed() bool {
	if pressed, _, _ := utils.IsJustTouchedOrClicked(); pressed {
		return true
	}
	return utils.IsAnyKeyJustPressed(ebiten.KeySpace, ebiten.KeyEnter)
}

func (e *ebitenStoryInput) SkipHeld() bool {
	return ebiten.IsKeyPressed(ebiten.KeyControlLeft) || utils.IsMultiTouchHeld(2)
}

func (e *ebitenStoryInput) AutoToggled() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyF3)
}

// StoryControl 输入系统驱动的对话控制
type StoryControl interface {
	// Advance 正在逐字显示时先显示整句，否则推进到下一句
	Advance()
	// FlushTransitions 立即完成所有进行中的舞台过渡
	FlushTransitions()
	// LineRevealed 当前句已完整显示并在等待推进
	LineRevealed() bool
}

// InputSystem 处理对话推进、跳过模式和自动模式
//
// 跳过模式：按住期间每帧冲刷所有过渡并推进一句。
// 自动模式：整句显示完成后等待 autoDelay 秒自动推进。
type InputSystem struct {
	input     StoryInput
	control   StoryControl
	autoDelay func() float64

	auto      bool
	skipping  bool
	autoTimer float64
}

// NewInputSystem 创建输入系统
// input 为 nil 时使用 Ebitengine 输入；autoDelay 为 nil 时使用 1.5 秒
func NewInputSystem(control StoryControl, input StoryInput, autoDelay func() float64) *InputSystem {
	if input == nil {
		input = &ebitenStoryInput{}
	}
	if autoDelay == nil {
		autoDelay = func() float64 { return 1.5 }
	}
	return &InputSystem{
		input:     input,
		control:   control,
		autoDelay: autoDelay,
	}
}

// IsAuto 是否处于自动模式
func (s *InputSystem) IsAuto() bool {
	return s.auto
}

// IsSkipping 是否处于跳过模式
func (s *InputSystem) IsSkipping() bool {
	return s.skipping
}

// Update 处理本帧输入
func (s *InputSystem) Update(deltaTime float64) {
	if s.input.AutoToggled() {
		s.auto = !s.auto
		s.autoTimer = 0
		log.Printf("[InputSystem] Auto mode: %v", s.auto)
	}

	s.skipping = s.input.SkipHeld()
	if s.skipping {
		s.control.FlushTransitions()
		s.control.Advance()
		s.autoTimer = 0
		return
	}

	if s.input.AdvancePressed() {
		s.control.Advance()
		s.autoTimer = 0
		return
	}

	if !s.auto || !s.control.LineRevealed() {
		s.autoTimer = 0
		return
	}
	s.autoTimer += deltaTime
	if s.autoTimer >= s.autoDelay() {
		s.autoTimer = 0
		s.control.Advance()
	}
}
