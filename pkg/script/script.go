// Package script 加载 Lua 编写的对话脚本并按步骤播放
//
// 脚本在加载时执行一次，通过两个全局函数记录步骤：
//
//	line("Helen, happy: 早上好")
//	command("cgSet", "room", 2)
//
// Lua 负责组织文本（循环、局部函数、拼接），播放时只按顺序遍历记录下的步骤。
package script

import (
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"
)

// StepKind 步骤类型
type StepKind int

const (
	// StepLine 一句对话，交给舞台解析后显示，等待玩家推进
	StepLine StepKind = iota
	// StepCommand 一条命令，交给命令分发器执行
	StepCommand
)

func (k StepKind) String() string {
	switch k {
	case StepLine:
		return "line"
	case StepCommand:
		return "command"
	default:
		return fmt.Sprintf("StepKind(%d)", int(k))
	}
}

// Step 脚本中的一个步骤
type Step struct {
	Kind    StepKind
	Text    string   // StepLine: 原始对话文本
	Command string   // StepCommand: 命令名
	Params  []string // StepCommand: 参数
}

// Script 编译后的脚本
type Script struct {
	Name  string
	Steps []Step
}

// Load 从文件加载脚本
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script %s: %w", path, err)
	}
	return Parse(path, string(data))
}

// Parse 执行 Lua 源码并收集步骤
// name 只用于错误信息
func Parse(name, source string) (*Script, error) {
	l := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer l.Close()
	openSafeLibs(l)

	s := &Script{Name: name}
	l.Register("line", func(l *lua.LState) int {
		s.Steps = append(s.Steps, Step{Kind: StepLine, Text: strArg(l, 1)})
		return 0
	})
	l.Register("command", func(l *lua.LState) int {
		step := Step{Kind: StepCommand, Command: strArg(l, 1)}
		for i := 2; i <= l.GetTop(); i++ {
			step.Params = append(step.Params, paramArg(l, i))
		}
		s.Steps = append(s.Steps, step)
		return 0
	})

	if err := l.DoString(source); err != nil {
		return nil, fmt.Errorf("failed to run script %s: %w", name, err)
	}
	return s, nil
}

// openSafeLibs 只开放不接触文件系统和进程的标准库
func openSafeLibs(l *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		l.Push(l.NewFunction(lib.fn))
		l.Push(lua.LString(lib.name))
		l.Call(1, 0)
	}
}

func strArg(l *lua.LState, argi int) string {
	if !lua.LVCanConvToString(l.Get(argi)) {
		l.RaiseError("argument %v is not a string: %v", argi, l.Get(argi))
	}
	return l.ToString(argi)
}

// paramArg 命令参数统一转成字符串，数字按 Lua 的格式输出
func paramArg(l *lua.LState, argi int) string {
	lv := l.Get(argi)
	if lua.LVCanConvToString(lv) {
		return lua.LVAsString(lv)
	}
	if lv == lua.LNil {
		l.RaiseError("argument %v is nil", argi)
	}
	return lv.String()
}
