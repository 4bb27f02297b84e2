package tween

import "math"

// EaseFunc 缓动函数
// 接受进度 t ∈ [0, 1]，返回缓动后的进度 ∈ [0, 1]
//
// 参考：https://easings.net/
type EaseFunc func(t float64) float64

// Linear 线性缓动（匀速）
func Linear(t float64) float64 {
	return t
}

// OutQuad 二次方缓出：开始较快，结束慢
// 默认缓动，淡入淡出和移动都使用它
func OutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// InOutQuad 二次方缓入缓出
func InOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

// OutCubic 三次方缓出
// 公式：f(t) = 1 - (1-t)³
func OutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// Lerp 线性插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
