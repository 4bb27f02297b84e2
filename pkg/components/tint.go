package components

import (
	"fmt"
	"strconv"
	"strings"
)

// Tint 浮点 RGBA 颜色（0.0 ~ 1.0）
type Tint struct {
	R, G, B, A float64
}

// White 默认着色（不做任何调制）
var White = Tint{R: 1, G: 1, B: 1, A: 1}

// IsWhite 判断 RGB 是否为默认白色（忽略 Alpha）
func (t Tint) IsWhite() bool {
	return t.R == 1 && t.G == 1 && t.B == 1
}

// WithAlpha 返回替换了 Alpha 的副本
func (t Tint) WithAlpha(a float64) Tint {
	t.A = a
	return t
}

// ParseHexTint 解析 "#RRGGBB" 或 "#RRGGBBAA" 格式的颜色
// 配置文件中的颜色均使用此格式
func ParseHexTint(s string) (Tint, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Tint{}, fmt.Errorf("invalid color %q: expected #RRGGBB or #RRGGBBAA", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Tint{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Tint{
		R: float64((v>>24)&0xff) / 255,
		G: float64((v>>16)&0xff) / 255,
		B: float64((v>>8)&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}
