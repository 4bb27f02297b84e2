package tween

// Tween 对单个数值属性的一次插值
//
// 由 Sequencer.To 创建，随 Sequencer.Update 推进。
// 结束时属性被精确设为目标值，然后依次触发 OnComplete 回调。
type Tween struct {
	target   any
	prop     *float64
	from     float64
	to       float64
	duration float64
	elapsed  float64
	ease     EaseFunc

	onUpdate   []func(v float64)
	onComplete []func()

	done   bool
	killed bool
}

// Target 返回补间绑定的目标键
func (t *Tween) Target() any {
	return t.target
}

// IsDone 是否已完成（包括被立即完成）
func (t *Tween) IsDone() bool {
	return t.done
}

// IsActive 是否仍在运行
func (t *Tween) IsActive() bool {
	return !t.done && !t.killed
}

// SetEase 设置缓动函数
func (t *Tween) SetEase(ease EaseFunc) *Tween {
	if ease != nil {
		t.ease = ease
	}
	return t
}

// OnUpdate 每次属性值变化后调用，参数为新值
func (t *Tween) OnUpdate(fn func(v float64)) *Tween {
	t.onUpdate = append(t.onUpdate, fn)
	return t
}

// OnComplete 完成时调用
// 如果补间已经完成（例如时长为 0），立即调用
func (t *Tween) OnComplete(fn func()) *Tween {
	if t.done {
		fn()
		return t
	}
	t.onComplete = append(t.onComplete, fn)
	return t
}

// step 推进 dt 秒，返回是否到达终点
func (t *Tween) step(dt float64) bool {
	t.elapsed += dt
	if t.elapsed >= t.duration {
		return true
	}
	v := Lerp(t.from, t.to, t.ease(t.elapsed/t.duration))
	*t.prop = v
	for _, fn := range t.onUpdate {
		fn(v)
	}
	return false
}

// finish 跳到终点并触发回调
// 先标记完成再回调，回调中可以安全地启动新的补间
func (t *Tween) finish() {
	if t.done || t.killed {
		return
	}
	t.done = true
	t.elapsed = t.duration
	*t.prop = t.to
	for _, fn := range t.onUpdate {
		fn(t.to)
	}
	callbacks := t.onComplete
	t.onComplete = nil
	for _, fn := range callbacks {
		fn()
	}
}
