package stage

import (
	"errors"
	"fmt"
)

// 查找与前置条件错误
// 这些错误都不是致命的：调用方记录日志后跳过对应的视觉效果，对话照常推进
var (
	// ErrUnknownActor 找不到指定名称的角色
	ErrUnknownActor = errors.New("unknown actor")

	// ErrUnknownEmote 角色的表情图像不存在
	ErrUnknownEmote = errors.New("unknown emote")

	// ErrUnknownPosition 不是预定义的舞台位置
	ErrUnknownPosition = errors.New("unknown stage position")

	// ErrUnknownBackground 找不到指定名称的 CG
	ErrUnknownBackground = errors.New("unknown background")

	// ErrHistoryExhausted CG 历史只剩一项，无法再回退
	ErrHistoryExhausted = errors.New("cannot go back past the first background")

	// ErrNoBackground 当前没有显示任何 CG
	ErrNoBackground = errors.New("no background is shown")

	// ErrTintInFlight 屏幕着色切换正在进行，本次调用被忽略
	ErrTintInFlight = errors.New("screen tint toggle already in flight")

	// ErrEmptySpeaker 对话行的说话人字段为空
	ErrEmptySpeaker = errors.New("empty speaker name")
)

// DirectiveError 对话行中的舞台指令无法执行
// 包含出错的表情、说话人和原始对话行，便于在脚本中定位
type DirectiveError struct {
	Emote   string
	Speaker string
	Line    string
	Err     error
}

func (e *DirectiveError) Error() string {
	if e.Line == "" {
		return fmt.Sprintf("could not find emote %q for %q: %v", e.Emote, e.Speaker, e.Err)
	}
	return fmt.Sprintf("could not find emote %q for %q in line %q: %v", e.Emote, e.Speaker, e.Line, e.Err)
}

func (e *DirectiveError) Unwrap() error {
	return e.Err
}
