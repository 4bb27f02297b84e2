package systems

import "testing"

// mockStoryInput 用于测试的 mock 输入，每帧读取后清除单次按键
type mockStoryInput struct {
	advance bool
	skip    bool
	toggle  bool
}

func (m *mockStoryInput) AdvancePressed() bool {
	v := m.advance
	m.advance = false
	return v
}

func (m *mockStoryInput) SkipHeld() bool { return m.skip }

func (m *mockStoryInput) AutoToggled() bool {
	v := m.toggle
	m.toggle = false
	return v
}

type mockStoryControl struct {
	advances int
	flushes  int
	revealed bool
}

func (m *mockStoryControl) Advance()           { m.advances++ }
func (m *mockStoryControl) FlushTransitions()  { m.flushes++ }
func (m *mockStoryControl) LineRevealed() bool { return m.revealed }

func TestInputSystemAdvance(t *testing.T) {
	in := &mockStoryInput{}
	ctl := &mockStoryControl{}
	s := NewInputSystem(ctl, in, nil)

	s.Update(0.016)
	if ctl.advances != 0 {
		t.Fatalf("无输入时不应推进, got %d", ctl.advances)
	}

	in.advance = true
	s.Update(0.016)
	s.Update(0.016)
	if ctl.advances != 1 || ctl.flushes != 0 {
		t.Errorf("got advances=%d flushes=%d, 期望 1, 0", ctl.advances, ctl.flushes)
	}
}

func TestInputSystemSkip(t *testing.T) {
	in := &mockStoryInput{skip: true}
	ctl := &mockStoryControl{}
	s := NewInputSystem(ctl, in, nil)

	for i := 0; i < 3; i++ {
		s.Update(0.016)
	}
	if ctl.advances != 3 || ctl.flushes != 3 || !s.IsSkipping() {
		t.Errorf("按住跳过键每帧都应冲刷并推进: advances=%d flushes=%d", ctl.advances, ctl.flushes)
	}

	in.skip = false
	s.Update(0.016)
	if s.IsSkipping() || ctl.advances != 3 {
		t.Error("松开后应停止跳过")
	}
}

func TestInputSystemAuto(t *testing.T) {
	tests := []struct {
		name     string
		revealed bool
		frames   int
		want     int
	}{
		{"整句显示后等待足够时间", true, 11, 1},
		{"等待时间不足", true, 9, 0},
		{"仍在逐字显示", false, 30, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &mockStoryInput{toggle: true}
			ctl := &mockStoryControl{revealed: tt.revealed}
			s := NewInputSystem(ctl, in, func() float64 { return 1.0 })

			for i := 0; i < tt.frames; i++ {
				s.Update(0.1)
			}
			if !s.IsAuto() {
				t.Fatal("F3 应开启自动模式")
			}
			if ctl.advances != tt.want {
				t.Errorf("got %d, 期望 %d", ctl.advances, tt.want)
			}
		})
	}
}

func TestInputSystemAutoToggleOff(t *testing.T) {
	in := &mockStoryInput{toggle: true}
	ctl := &mockStoryControl{revealed: true}
	s := NewInputSystem(ctl, in, func() float64 { return 0.5 })

	s.Update(0.3)
	in.toggle = true
	s.Update(0.3)
	s.Update(0.3)

	if s.IsAuto() || ctl.advances != 0 {
		t.Errorf("关闭自动模式后不应推进: auto=%v advances=%d", s.IsAuto(), ctl.advances)
	}
}
