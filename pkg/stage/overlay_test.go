package stage

import (
	"testing"

	"github.com/gonewx/vnstage/pkg/ecs"
	"github.com/gonewx/vnstage/pkg/tween"
)

func TestOverlay(t *testing.T) {
	seq := tween.NewSequencer()
	o := NewOverlay(ecs.NewEntityManager(), seq, "rain", "fx/rain.png", 0.6, 0.5)

	if o.Alpha() != 0 || o.IsActive() {
		t.Fatalf("初始应不可见: alpha=%v", o.Alpha())
	}

	o.Activate()
	seq.Update(0.25)
	if o.Alpha() <= 0 || o.Alpha() >= 0.6 {
		t.Errorf("淡入中: got %v", o.Alpha())
	}
	seq.Update(0.25)
	if !approx(o.Alpha(), 0.6) || !o.IsActive() {
		t.Errorf("淡入结束: got %v, 期望 0.6", o.Alpha())
	}

	// 淡出途中再次激活：先冲刷淡出，再淡入
	o.Deactivate()
	seq.Update(0.1)
	o.Activate()
	seq.CompleteAll()
	if !approx(o.Alpha(), 0.6) {
		t.Errorf("got %v, 期望 0.6", o.Alpha())
	}

	o.Deactivate()
	seq.CompleteAll()
	if o.Alpha() != 0 || o.IsActive() {
		t.Errorf("淡出结束: got %v", o.Alpha())
	}
}
