package script

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	src := `
line("Helen, happy: 早上好")
command("cgSet", "room", 2)
command("move", "Helen", -100, 0, 1.5)
command("vfxActivate")
for i = 1, 2 do
  line("Evan: 第" .. i .. "句")
end
command("screenShake", true)
`
	s, err := Parse("test.lua", src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []Step{
		{Kind: StepLine, Text: "Helen, happy: 早上好"},
		{Kind: StepCommand, Command: "cgSet", Params: []string{"room", "2"}},
		{Kind: StepCommand, Command: "move", Params: []string{"Helen", "-100", "0", "1.5"}},
		{Kind: StepCommand, Command: "vfxActivate"},
		{Kind: StepLine, Text: "Evan: 第1句"},
		{Kind: StepLine, Text: "Evan: 第2句"},
		{Kind: StepCommand, Command: "screenShake", Params: []string{"true"}},
	}
	if !reflect.DeepEqual(s.Steps, want) {
		t.Errorf("Steps:\ngot  %+v\n期望 %+v", s.Steps, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"语法错误", `line("unterminated`},
		{"运行时错误", `error("boom")`},
		{"对话不是字符串", `line({})`},
		{"命令名缺失", `command()`},
		{"参数为 nil", `command("cgSet", nil, 1)`},
		{"禁用 io 库", `io.write("x")`},
		{"禁用 os 库", `os.exit(1)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.lua", tt.src)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "bad.lua") {
				t.Errorf("error should name the script: %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prologue.lua")
	if err := os.WriteFile(path, []byte(`line("Olin: 到了")`), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != path || len(s.Steps) != 1 || s.Steps[0].Text != "Olin: 到了" {
		t.Errorf("got %+v", s)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestStepKindString(t *testing.T) {
	if StepLine.String() != "line" || StepCommand.String() != "command" {
		t.Errorf("got %s, %s", StepLine, StepCommand)
	}
	if StepKind(9).String() != "StepKind(9)" {
		t.Errorf("got %s", StepKind(9))
	}
}
