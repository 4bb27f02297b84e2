package stage

import (
	"errors"
	"slices"
	"testing"

	"github.com/gonewx/vnstage/pkg/components"
	"github.com/gonewx/vnstage/pkg/ecs"
	"github.com/gonewx/vnstage/pkg/tween"
)

func newTestStack(t *testing.T) (*BackgroundStack, *tween.Sequencer) {
	t.Helper()
	seq := tween.NewSequencer()
	s := NewBackgroundStack(ecs.NewEntityManager(), seq, 1920, 1080)
	for _, name := range []string{"room", "hallway", "Street"} {
		if err := s.Register(name, name+".png", components.White); err != nil {
			t.Fatal(err)
		}
	}
	return s, seq
}

func TestCanonicalName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Room", "room"},
		{"  HALLWAY ", "hallway"},
		{"blackscreen", BlackScreen},
		{"BlackScreen", BlackScreen},
		{"black_screen", BlackScreen},
	}
	for _, tt := range tests {
		if got := CanonicalName(tt.in); got != tt.want {
			t.Errorf("CanonicalName(%q) = %q, 期望 %q", tt.in, got, tt.want)
		}
	}
}

// TestBackgroundShow 测试显示 CG
func TestBackgroundShow(t *testing.T) {
	s, seq := newTestStack(t)

	if err := s.Show("Room", 1); err != nil {
		t.Fatal(err)
	}
	if a, _ := s.Alpha("room"); a != 0 {
		t.Errorf("淡入开始时 alpha = %v", a)
	}
	seq.Update(0.5)
	if a, _ := s.Alpha("room"); a <= 0 || a >= 1 {
		t.Errorf("淡入中 alpha = %v", a)
	}
	seq.CompleteAll()

	if s.Current() != "room" {
		t.Errorf("Current = %q", s.Current())
	}
	if a, _ := s.Alpha("room"); a != 1 {
		t.Errorf("alpha = %v, 期望 1", a)
	}
	if !slices.Equal(s.History(), []string{"room"}) {
		t.Errorf("History = %v", s.History())
	}
}

// TestBackgroundShowUnknown 测试未知 CG 不改变任何状态
func TestBackgroundShowUnknown(t *testing.T) {
	s, _ := newTestStack(t)
	s.Show("room", 0)

	err := s.Show("attic", 1)
	if !errors.Is(err, ErrUnknownBackground) {
		t.Fatalf("err = %v, 期望 ErrUnknownBackground", err)
	}
	if s.Current() != "room" || len(s.History()) != 1 {
		t.Errorf("失败后状态改变: current %q history %v", s.Current(), s.History())
	}
}

// TestBackgroundShowRaisesDrawOrder 测试后显示的 CG 位于上方
func TestBackgroundShowRaisesDrawOrder(t *testing.T) {
	s, seq := newTestStack(t)
	s.Show("room", 0.5)
	s.Show("hallway", 0.5)
	seq.CompleteAll()

	room, hallway := s.entries["room"], s.entries["hallway"]
	if hallway.node.Order <= room.node.Order {
		t.Errorf("hallway order %d 应大于 room order %d", hallway.node.Order, room.node.Order)
	}

	s.Show("room", 0.5)
	if room.node.Order <= hallway.node.Order {
		t.Error("再次显示 room 应再次提升到最上方")
	}
}

// TestBackgroundShowFlushesPrevious 测试新的显示先冲刷上一次淡入
func TestBackgroundShowFlushesPrevious(t *testing.T) {
	s, seq := newTestStack(t)
	s.Show("room", 2)
	seq.Update(0.1)
	s.Show("hallway", 2)

	if a, _ := s.Alpha("room"); a != 1 {
		t.Errorf("room alpha = %v, 期望已冲刷到 1", a)
	}
	if n := seq.ActiveCount(s); n != 1 {
		t.Errorf("运行中的补间 = %d, 期望 1", n)
	}
}

// TestBackgroundShowPrevious 测试回到上一个 CG
func TestBackgroundShowPrevious(t *testing.T) {
	s, seq := newTestStack(t)
	s.Show("room", 0)
	s.Show("hallway", 0)

	t.Run("回退一次", func(t *testing.T) {
		if err := s.ShowPrevious(1.0); err != nil {
			t.Fatal(err)
		}
		seq.CompleteAll()
		if !slices.Equal(s.History(), []string{"room"}) {
			t.Errorf("History = %v, 期望 [room]", s.History())
		}
		if s.Current() != "room" {
			t.Errorf("Current = %q", s.Current())
		}
	})

	t.Run("只剩一项时回退失败", func(t *testing.T) {
		err := s.ShowPrevious(1.0)
		if !errors.Is(err, ErrHistoryExhausted) {
			t.Fatalf("err = %v, 期望 ErrHistoryExhausted", err)
		}
		if !slices.Equal(s.History(), []string{"room"}) || s.Current() != "room" {
			t.Errorf("失败后状态改变: %v %q", s.History(), s.Current())
		}
	})
}

// TestBackgroundShowPreviousDepth 测试历史长度 L 回退后为 L-1，显示原来的第二项
func TestBackgroundShowPreviousDepth(t *testing.T) {
	s, seq := newTestStack(t)
	names := []string{"room", "street", "hallway", "street"}
	for _, n := range names {
		s.Show(n, 0.3)
	}

	for l := len(names); l >= 2; l-- {
		before := s.History()
		if err := s.ShowPrevious(0.3); err != nil {
			t.Fatalf("L=%d: %v", l, err)
		}
		seq.CompleteAll()
		after := s.History()
		if len(after) != l-1 {
			t.Errorf("L=%d: 回退后长度 %d", l, len(after))
		}
		if s.Current() != before[l-2] {
			t.Errorf("L=%d: Current = %q, 期望 %q", l, s.Current(), before[l-2])
		}
	}
}

// TestBlackScreenAlias 测试黑幕的两种写法等价
func TestBlackScreenAlias(t *testing.T) {
	for _, name := range []string{"blackscreen", "black_screen"} {
		t.Run(name, func(t *testing.T) {
			s, seq := newTestStack(t)
			if err := s.Show(name, 0.5); err != nil {
				t.Fatal(err)
			}
			seq.CompleteAll()
			if s.Current() != BlackScreen || !slices.Equal(s.History(), []string{BlackScreen}) {
				t.Errorf("current %q history %v", s.Current(), s.History())
			}
			if a, _ := s.Alpha(BlackScreen); a != 1 {
				t.Errorf("alpha = %v", a)
			}
		})
	}
}

// TestBackgroundModulation 测试环境调制色优先于 CG 自身颜色
func TestBackgroundModulation(t *testing.T) {
	red := components.Tint{R: 1, G: 0.2, B: 0.2, A: 1}
	blue := components.Tint{R: 0.3, G: 0.3, B: 1, A: 1}

	tests := []struct {
		name       string
		modulation components.Tint
		want       components.Tint
	}{
		{"白色调制使用CG自身颜色", components.White, red},
		{"非白色调制优先", blue, blue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, seq := newTestStack(t)
			s.Register("sunset", "sunset.png", red)
			s.SetModulation(tt.modulation)
			s.Show("sunset", 0.5)
			seq.CompleteAll()

			got := s.entries["sunset"].sprite.Tint()
			if got != tt.want.WithAlpha(1) {
				t.Errorf("着色 = %+v, 期望 %+v", got, tt.want)
			}
		})
	}
}

// TestBackgroundDecorationsFadeTogether 测试附属装饰与 CG 同步淡入
func TestBackgroundDecorationsFadeTogether(t *testing.T) {
	seq := tween.NewSequencer()
	s := NewBackgroundStack(ecs.NewEntityManager(), seq, 1920, 1080)
	err := s.Register("classroom", "classroom.png", components.White,
		Decoration{Image: "chalk.png", X: 100, Y: 50, Width: 200, Height: 100},
		Decoration{Image: "dust.png"},
	)
	if err != nil {
		t.Fatal(err)
	}

	s.Show("classroom", 1)
	if n := seq.ActiveCount(s); n != 3 {
		t.Fatalf("运行中的补间 = %d, 期望 3", n)
	}

	seq.Update(0.4)
	e := s.entries["classroom"]
	for i, child := range e.children {
		if child.sprite.A != e.sprite.A {
			t.Errorf("装饰 %d alpha %v 与 CG %v 不同步", i, child.sprite.A, e.sprite.A)
		}
	}
	seq.CompleteAll()
	for i, child := range e.children {
		if child.sprite.A != 1 {
			t.Errorf("装饰 %d alpha = %v", i, child.sprite.A)
		}
	}
}

func TestRegisterTwice(t *testing.T) {
	s, _ := newTestStack(t)
	if err := s.Register("ROOM", "other.png", components.White); err == nil {
		t.Error("重复注册应返回错误")
	}
	if err := s.Register("blackscreen", "x.png", components.White); err == nil {
		t.Error("黑幕不能被覆盖")
	}
}

// TestToggleTint 测试屏幕着色的两个阶段
func TestToggleTint(t *testing.T) {
	s, seq := newTestStack(t)

	q, err := s.ToggleTint()
	if err != nil {
		t.Fatal(err)
	}
	if s.BlackLayer() != components.LayerOverlay {
		t.Error("着色开始时黑幕应提升到覆盖层")
	}
	if a, _ := s.Alpha(BlackScreen); a != 0 {
		t.Errorf("着色开始时 alpha = %v", a)
	}

	if _, err := s.ToggleTint(); !errors.Is(err, ErrTintInFlight) {
		t.Errorf("进行中再次切换 err = %v, 期望 ErrTintInFlight", err)
	}

	seq.Update(TintDelay)
	if a, _ := s.Alpha(BlackScreen); a != 0 {
		t.Errorf("等待阶段 alpha = %v", a)
	}
	seq.Update(TintFadeTime)
	if !s.IsTinted() || s.IsTintBusy() || !q.IsDone() {
		t.Fatalf("着色后 tinted %v busy %v done %v", s.IsTinted(), s.IsTintBusy(), q.IsDone())
	}

	done := false
	q2, err := s.ToggleTint()
	if err != nil {
		t.Fatal(err)
	}
	q2.OnComplete(func() { done = true })
	seq.Update(TintFadeTime / 2)
	if s.BlackLayer() != components.LayerOverlay {
		t.Error("淡出完成前黑幕应留在覆盖层")
	}
	seq.Update(TintFadeTime)
	if !done || s.IsTinted() || s.BlackLayer() != components.LayerBackground {
		t.Errorf("取消着色后 done %v tinted %v layer %v", done, s.IsTinted(), s.BlackLayer())
	}
	if a, _ := s.Alpha(BlackScreen); a != 0 {
		t.Errorf("取消着色后 alpha = %v", a)
	}
}

// TestToggleTintFlushed 测试冲刷进行中的着色得到确定的终态
func TestToggleTintFlushed(t *testing.T) {
	s, seq := newTestStack(t)

	done := false
	q, _ := s.ToggleTint()
	q.OnComplete(func() { done = true })
	seq.Update(0.2)
	seq.CompleteAll()

	if !done || !s.IsTinted() || s.IsTintBusy() {
		t.Errorf("冲刷后 done %v tinted %v busy %v", done, s.IsTinted(), s.IsTintBusy())
	}
	if seq.Len() != 0 {
		t.Errorf("冲刷后仍有 %d 个运行中的动画", seq.Len())
	}

	q, _ = s.ToggleTint()
	seq.CompleteAll()
	if !q.IsDone() || s.IsTinted() || s.BlackLayer() != components.LayerBackground {
		t.Errorf("第二次冲刷后 tinted %v layer %v", s.IsTinted(), s.BlackLayer())
	}
}

func TestPopHistory(t *testing.T) {
	s, _ := newTestStack(t)
	if _, ok := s.PopHistory(); ok {
		t.Error("空历史不应弹出")
	}
	s.Show("room", 0)
	s.Show(BlackScreen, 0)
	if top, ok := s.PopHistory(); !ok || top != BlackScreen {
		t.Errorf("PopHistory = %q, %v", top, ok)
	}
	if s.Current() != BlackScreen {
		t.Error("弹出历史不改变当前显示")
	}
	if !slices.Equal(s.History(), []string{"room"}) {
		t.Errorf("History = %v", s.History())
	}
}
