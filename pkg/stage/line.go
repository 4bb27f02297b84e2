package stage

import (
	"strings"

	"golang.org/x/text/cases"
)

// Directive 从对话行中解析出的舞台指令
type Directive struct {
	Speaker string
	Emote   string
}

// ParseLine 解析对话行中的说话人和表情
//
// 格式: "<speaker>,<emote>[,...]: <text>"
//   - 没有冒号：普通旁白，没有舞台指令
//   - 冒号前没有逗号：只有说话人，没有表情指令
//
// 表情统一做大小写折叠，说话人保持原样（仅去除首尾空白）。
func ParseLine(line string) (Directive, bool) {
	head, _, found := strings.Cut(line, ":")
	if !found {
		return Directive{}, false
	}

	fields := strings.Split(head, ",")
	if len(fields) == 1 {
		return Directive{}, false
	}

	return Directive{
		Speaker: strings.TrimSpace(fields[0]),
		Emote:   FoldKey(fields[1]),
	}, true
}

// SpeakerOf 返回对话行的说话人（冒号前第一个逗号分隔字段）
// 没有冒号时返回 false
func SpeakerOf(line string) (string, bool) {
	head, _, found := strings.Cut(line, ":")
	if !found {
		return "", false
	}
	speaker, _, _ := strings.Cut(head, ",")
	return strings.TrimSpace(speaker), true
}

// FoldKey 去除首尾空白并做大小写折叠，用于表情键和 CG 名称
func FoldKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// TextOf 返回对话行中要显示的正文（冒号之后的部分），旁白原样返回
func TextOf(line string) string {
	_, body, found := strings.Cut(line, ":")
	if !found {
		return strings.TrimSpace(line)
	}
	return strings.TrimSpace(body)
}
