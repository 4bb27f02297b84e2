package stage

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/gonewx/vnstage/pkg/components"
	"github.com/gonewx/vnstage/pkg/tween"
)

// TestShakeJitterDecays 测试震动偏移不超过当前半径，结束后回到原位
func TestShakeJitterDecays(t *testing.T) {
	seq := tween.NewSequencer()
	shaker := NewShaker(seq, rand.New(rand.NewPCG(1, 2)))
	target := &components.TransformComponent{X: 10, Y: 20}

	shaker.Shake(target, 30, 1.5)
	if !shaker.IsShaking() {
		t.Fatal("应正在震动")
	}

	moved := false
	for i := 0; i < 10; i++ {
		seq.Update(0.1)
		dist := math.Hypot(target.X-10, target.Y-20)
		if dist > shaker.Amount()+1e-9 {
			t.Errorf("第 %d 帧偏移 %v 超过半径 %v", i, dist, shaker.Amount())
		}
		if dist > 0 {
			moved = true
		}
	}
	if !moved {
		t.Error("震动期间目标应有偏移")
	}

	seq.Update(1)
	if target.X != 10 || target.Y != 20 || shaker.IsShaking() {
		t.Errorf("结束后位置 (%v, %v) shaking %v", target.X, target.Y, shaker.IsShaking())
	}
}

// TestShakeRestartRestoresOrigin 测试震动中再次震动先回到原位
func TestShakeRestartRestoresOrigin(t *testing.T) {
	seq := tween.NewSequencer()
	shaker := NewShaker(seq, rand.New(rand.NewPCG(3, 4)))
	target := &components.TransformComponent{}

	shaker.Shake(target, 50, 2)
	seq.Update(0.3)
	shaker.Shake(target, 10, 1)
	if target.X != 0 || target.Y != 0 {
		t.Errorf("重新震动前应回到原位，当前 (%v, %v)", target.X, target.Y)
	}

	seq.CompleteAll()
	if target.X != 0 || target.Y != 0 || shaker.Amount() != 0 {
		t.Errorf("冲刷后位置 (%v, %v) 半径 %v", target.X, target.Y, shaker.Amount())
	}
}

func TestShakeNilTarget(t *testing.T) {
	seq := tween.NewSequencer()
	shaker := NewShaker(seq, nil)
	shaker.Shake(nil, 10, 1)
	if shaker.IsShaking() || seq.Len() != 0 {
		t.Error("没有目标时不应震动")
	}
}
