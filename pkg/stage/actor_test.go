package stage

import (
	"errors"
	"testing"
)

func showHelen(t *testing.T) (*Directory, *Actor) {
	t.Helper()
	d, seq := newTestDirectory()
	helen, _, err := d.ResolveLine("Helen, happy: hi")
	if err != nil {
		t.Fatal(err)
	}
	seq.CompleteAll()
	return d, helen
}

// TestActorSetPosition 测试移动到预定义位置
func TestActorSetPosition(t *testing.T) {
	tests := []struct {
		name     string
		position string
		want     Vec2
		wantErr  error
	}{
		{"移动到右侧", PositionRight, Positions[PositionRight], nil},
		{"移动到Center1", PositionCenter1, Positions[PositionCenter1], nil},
		{"未知位置不移动", "Backstage", Positions[PositionLeft], ErrUnknownPosition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, helen := showHelen(t)
			err := helen.SetPosition(tt.position, 1)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, 期望 %v", err, tt.wantErr)
			}
			helen.seq.CompleteAll()
			if helen.Position() != tt.want {
				t.Errorf("位置 = %v, 期望 %v", helen.Position(), tt.want)
			}
		})
	}
}

// TestActorMoveFlushesInFlight 测试新的移动先把进行中的移动冲刷到终点
func TestActorMoveFlushesInFlight(t *testing.T) {
	_, helen := showHelen(t)

	if err := helen.SetPosition(PositionRight, 2); err != nil {
		t.Fatal(err)
	}
	helen.seq.Update(0.5)
	if helen.Position().X >= Positions[PositionRight].X {
		t.Fatalf("移动不应已完成，X = %v", helen.Position().X)
	}

	helen.MoveBy(Vec2{X: 100, Y: -20}, 1)
	if helen.Position() != Positions[PositionRight] {
		t.Errorf("相对移动开始前应先到达 Right，当前 %v", helen.Position())
	}
	if n := helen.seq.ActiveCount(helen.transform); n != 2 {
		t.Errorf("位置补间数量 = %d, 期望 2", n)
	}

	helen.seq.CompleteAll()
	want := Vec2{X: Positions[PositionRight].X + 100, Y: -20}
	if helen.Position() != want {
		t.Errorf("位置 = %v, 期望 %v", helen.Position(), want)
	}
}

// TestActorScale 测试缩放只作用于表情槽
func TestActorScale(t *testing.T) {
	_, helen := showHelen(t)

	helen.Scale(1.3, 0.5)
	helen.seq.Update(0.1)
	helen.Scale(0.714, 0.5)
	helen.seq.CompleteAll()

	w, h := helen.SlotSize()
	if !approx(w, BaseSpriteSize*0.714) || !approx(h, BaseSpriteSize*0.714) {
		t.Errorf("尺寸 = %vx%v", w, h)
	}
	if helen.transform.Width != 0 || helen.transform.Height != 0 {
		t.Error("根节点不参与缩放")
	}
	if helen.ScaleFactor() != 0.714 {
		t.Errorf("ScaleFactor = %v", helen.ScaleFactor())
	}
}

// TestActorFlip 测试翻转立即生效且可以来回切换
func TestActorFlip(t *testing.T) {
	_, helen := showHelen(t)

	helen.Flip()
	if !helen.IsMirrored() {
		t.Fatal("翻转后应镜像")
	}
	for i := range helen.slots {
		if !helen.slots[i].transform.FlipX {
			t.Errorf("表情槽 %d 未翻转", i)
		}
	}
	helen.Flip()
	if helen.IsMirrored() || helen.slots[0].transform.FlipX {
		t.Error("再次翻转应恢复")
	}
}

// TestActorHideResetsAfterFade 测试隐藏的复位在淡出完成后才发生
func TestActorHideResetsAfterFade(t *testing.T) {
	_, helen := showHelen(t)
	helen.Scale(1.3, 0)
	helen.Flip()

	helen.Hide()
	if helen.IsVisible() {
		t.Fatal("隐藏应立即标记为不可见")
	}
	if helen.Emote(EmoteCurrent).Image == "" {
		t.Fatal("淡出完成前不应清空表情")
	}

	helen.seq.Update(FadeOutTime + 0.01)

	if helen.Alpha() != 0 {
		t.Errorf("alpha = %v", helen.Alpha())
	}
	if helen.Position() != (Vec2{}) {
		t.Errorf("位置 = %v, 期望原点", helen.Position())
	}
	if w, _ := helen.SlotSize(); w != BaseSpriteSize {
		t.Errorf("尺寸 = %v, 期望 %v", w, BaseSpriteSize)
	}
	for _, role := range []EmoteRole{EmoteCurrent, EmoteNext} {
		sp := helen.Emote(role)
		if sp.Image != "" || sp.A != 0 {
			t.Errorf("表情槽未清空: %q alpha %v", sp.Image, sp.A)
		}
	}
	if helen.IsMirrored() {
		t.Error("镜像应复位")
	}
}

// TestActorSetCurrentEmote 测试直接替换当前表情不做交叉淡入
func TestActorSetCurrentEmote(t *testing.T) {
	_, helen := showHelen(t)
	current := helen.Emote(EmoteCurrent)

	helen.SetCurrentEmote("helen/sad.png")

	if helen.Emote(EmoteCurrent) != current {
		t.Error("直接替换不应交换表情槽")
	}
	if current.Image != "helen/sad.png" {
		t.Errorf("当前表情 = %q", current.Image)
	}
	if helen.seq.Len() != 0 {
		t.Error("直接替换不应启动动画")
	}
}
