package utils

import (
	"reflect"
	"testing"
)

// TestWrapText 测试文本换行功能
// 每个字符宽 10 像素
func TestWrapText(t *testing.T) {
	measure := FixedMeasure(10)

	tests := []struct {
		name     string
		input    string
		maxWidth float64
		want     []string
	}{
		{"短文本不换行", "短文本", 100, []string{"短文本"}},
		{"空文本", "", 100, []string{""}},
		{"中文按字符断行", "你好世界", 20, []string{"你好", "世界"}},
		{"在空格处断行", "abc def ghi", 70, []string{"abc def", "ghi"}},
		{"回退到上一个空格", "ab cdef", 40, []string{"ab", "cdef"}},
		{"长单词强制断行", "abcdefgh", 30, []string{"abc", "def", "gh"}},
		{"单字符超宽", "宽字", 5, []string{"宽", "字"}},
		{"保留段落", "一\n\n二", 100, []string{"一", "", "二"}},
		{"行尾空格丢弃", "abc ", 30, []string{"abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapText(tt.input, tt.maxWidth, measure)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("WrapText(%q, %v) = %q, 期望 %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}
}

// TestWrapTextEdgeCases 测试边界情况
func TestWrapTextEdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		measure  MeasureFunc
		maxWidth float64
		want     []string
	}{
		{"无测量函数", "很长的一句话\n第二段", nil, 10, []string{"很长的一句话", "第二段"}},
		{"宽度为零", "测试", FixedMeasure(10), 0, []string{"测试"}},
		{"无字体", "测试", FaceMeasure(nil), 10, []string{"测试"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapText(tt.input, tt.maxWidth, tt.measure)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %q, 期望 %q", got, tt.want)
			}
		})
	}
}
