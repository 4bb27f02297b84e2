package tween

type stepKind int

const (
	stepTween stepKind = iota
	stepDelay
	stepCall
)

type step struct {
	kind  stepKind
	start func() *Tween
	delay float64
	call  func()
}

// Sequence 按顺序执行的异步步骤：等待补间、延时、回调
//
// 用于需要"等待完成后再继续"的操作，例如屏幕着色的两个阶段、黑幕转场。
// 被 Sequencer.Complete / CompleteAll 冲刷时，剩余步骤会立即全部执行：
// 延时被跳过，补间直接跳到终点，回调照常触发，因此冲刷后的状态是确定的。
type Sequence struct {
	target     any
	steps      []step
	index      int
	current    *Tween
	waited     float64
	onComplete []func()
	sequencer  *Sequencer

	done   bool
	killed bool
}

// NewSequence 创建绑定到 target 的序列
func NewSequence(target any) *Sequence {
	return &Sequence{target: target}
}

// Then 追加一个补间步骤：调用 start 启动补间并等待它完成
// start 返回 nil 时该步骤直接跳过
func (q *Sequence) Then(start func() *Tween) *Sequence {
	q.steps = append(q.steps, step{kind: stepTween, start: start})
	return q
}

// Delay 追加一个延时步骤（秒）
func (q *Sequence) Delay(seconds float64) *Sequence {
	q.steps = append(q.steps, step{kind: stepDelay, delay: seconds})
	return q
}

// Call 追加一个回调步骤
func (q *Sequence) Call(fn func()) *Sequence {
	q.steps = append(q.steps, step{kind: stepCall, call: fn})
	return q
}

// OnComplete 全部步骤结束后调用
func (q *Sequence) OnComplete(fn func()) *Sequence {
	if q.done {
		fn()
		return q
	}
	q.onComplete = append(q.onComplete, fn)
	return q
}

// Target 返回序列绑定的目标键
func (q *Sequence) Target() any {
	return q.target
}

// IsDone 是否已执行完毕
func (q *Sequence) IsDone() bool {
	return q.done
}

// IsActive 是否仍在运行
func (q *Sequence) IsActive() bool {
	return !q.done && !q.killed
}

// advance 推进序列
// flushing 为 true 时不等待：延时跳过，补间立即完成
func (q *Sequence) advance(dt float64, flushing bool) {
	for !q.done && !q.killed {
		if q.current != nil {
			if flushing {
				q.current.finish()
			}
			if q.current.IsActive() {
				return
			}
			// 本帧时间已被补间消耗，后续延时从下一帧开始计时
			q.current = nil
			q.index++
			dt = 0
			continue
		}

		if q.index >= len(q.steps) {
			q.finish()
			return
		}

		s := q.steps[q.index]
		switch s.kind {
		case stepCall:
			q.index++
			if s.call != nil {
				s.call()
			}
		case stepTween:
			q.current = s.start()
			if q.current == nil {
				q.index++
			}
		case stepDelay:
			if flushing {
				q.waited = 0
				q.index++
				continue
			}
			q.waited += dt
			dt = 0
			if q.waited < s.delay {
				return
			}
			q.waited = 0
			q.index++
		}
	}
}

func (q *Sequence) finish() {
	if q.done {
		return
	}
	q.done = true
	callbacks := q.onComplete
	q.onComplete = nil
	for _, fn := range callbacks {
		fn()
	}
}
