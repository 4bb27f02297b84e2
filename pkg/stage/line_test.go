package stage

import "testing"

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Directive
		ok   bool
	}{
		{"说话人和表情", "Helen, happy: hi", Directive{Speaker: "Helen", Emote: "happy"}, true},
		{"冒号后无空格", "Helen,happy:hi", Directive{Speaker: "Helen", Emote: "happy"}, true},
		{"表情大小写折叠", "Helen, HaPPy: hi", Directive{Speaker: "Helen", Emote: "happy"}, true},
		{"多余字段被忽略", "Helen, sad, extra: oh", Directive{Speaker: "Helen", Emote: "sad"}, true},
		{"只在第一个冒号处分割", "Evan, normal: time is 10:30", Directive{Speaker: "Evan", Emote: "normal"}, true},
		{"旁白没有冒号", "The rain kept falling.", Directive{}, false},
		{"只有说话人", "Helen: hi", Directive{}, false},
		{"空行", "", Directive{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			if ok != tt.ok {
				t.Fatalf("ParseLine(%q) ok = %v, 期望 %v", tt.line, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ParseLine(%q) = %+v, 期望 %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestSpeakerOf(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"Helen, happy: hi", "Helen", true},
		{"Evan: hey", "Evan", true},
		{"  Evan  ,normal: hey", "Evan", true},
		{"no speaker here", "", false},
	}
	for _, tt := range tests {
		got, ok := SpeakerOf(tt.line)
		if got != tt.want || ok != tt.ok {
			t.Errorf("SpeakerOf(%q) = (%q, %v), 期望 (%q, %v)", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSlotForCount(t *testing.T) {
	want := []string{PositionLeft, PositionCenter2, PositionCenter1, PositionRight, PositionRight, PositionRight}
	for count, slot := range want {
		if got := SlotForCount(count); got != slot {
			t.Errorf("SlotForCount(%d) = %s, 期望 %s", count, got, slot)
		}
	}
	for _, slot := range []string{PositionCenter2, PositionRight} {
		if !IsMirroredSlot(slot) {
			t.Errorf("%s 应当镜像", slot)
		}
	}
	for _, slot := range []string{PositionLeft, PositionCenter1} {
		if IsMirroredSlot(slot) {
			t.Errorf("%s 不应镜像", slot)
		}
	}
}

func TestTextOf(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"Helen, happy: 早上好", "早上好"},
		{"Evan: 时间是 10:30", "时间是 10:30"},
		{"  风停了。 ", "风停了。"},
		{"Evan:", ""},
	}
	for _, tt := range tests {
		if got := TextOf(tt.line); got != tt.want {
			t.Errorf("TextOf(%q) = %q, 期望 %q", tt.line, got, tt.want)
		}
	}
}
