package utils

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// MeasureFunc 测量一行文本的显示宽度（像素）
type MeasureFunc func(s string) float64

// FaceMeasure 返回按字体测量宽度的函数，face 为 nil 时返回 nil
func FaceMeasure(face *text.GoTextFace) MeasureFunc {
	if face == nil {
		return nil
	}
	return func(s string) float64 {
		if s == "" {
			return 0
		}
		width, _ := text.Measure(s, face, 0)
		return width
	}
}

// FixedMeasure 返回每个字符宽度固定的测量函数（调试字体）
func FixedMeasure(charWidth float64) MeasureFunc {
	return func(s string) float64 {
		return float64(len([]rune(s))) * charWidth
	}
}

// WrapText 将文本按指定宽度自动换行
//
// 换行规则:
//   - 文本中的换行符保留为段落边界，空段落输出空行
//   - 超宽时优先在当前行最后一个空格处断行，没有空格时按字符断行（中文）
//   - 单个字符就超宽时仍独占一行
//
// measure 为 nil 或 maxWidth <= 0 时只按换行符拆分。
func WrapText(s string, maxWidth float64, measure MeasureFunc) []string {
	paragraphs := strings.Split(s, "\n")
	if measure == nil || maxWidth <= 0 {
		return paragraphs
	}

	lines := make([]string, 0, len(paragraphs))
	for _, para := range paragraphs {
		lines = append(lines, wrapParagraph(para, maxWidth, measure)...)
	}
	return lines
}

func wrapParagraph(para string, maxWidth float64, measure MeasureFunc) []string {
	var lines []string
	current := ""

	for _, r := range para {
		next := current + string(r)
		if current == "" || measure(next) <= maxWidth {
			current = next
			continue
		}

		// 超宽：空格本身直接作为断点丢弃
		if r == ' ' {
			lines = append(lines, strings.TrimRight(current, " "))
			current = ""
			continue
		}
		if i := strings.LastIndexByte(current, ' '); i > 0 {
			lines = append(lines, strings.TrimRight(current[:i], " "))
			current = current[i+1:] + string(r)
			continue
		}
		lines = append(lines, current)
		current = string(r)
	}

	if current != "" || len(lines) == 0 {
		lines = append(lines, strings.TrimRight(current, " "))
	}
	return lines
}
