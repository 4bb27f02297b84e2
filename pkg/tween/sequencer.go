// Package tween 提供基于时间的属性插值（补间）和异步步骤序列。
//
// 所有调用都发生在游戏主循环内（单线程），Sequencer 不做任何加锁。
// 目标键（target）用于按对象分组补间，以便"先冲刷再替换"：
// 在同一目标上启动新补间之前调用 Complete(target)，旧补间会立即到达终点。
// 目标键必须是可比较的值，通常是组件或对象指针。
package tween

import "log"

// maxFlushPasses CompleteAll 的最大轮数
// 每一轮中的完成回调可能又启动新的补间，轮数上限防止回调互相触发导致死循环
const maxFlushPasses = 64

// Sequencer 动画序列器
// 持有所有运行中的补间和序列，由场景每帧调用 Update 推进
type Sequencer struct {
	tweens    []*Tween
	sequences []*Sequence
	ease      EaseFunc

	// depth 嵌套调用深度：回调里可能再次调用 Complete/Run，
	// 只有最外层调用结束时才整理切片，避免外层遍历的下标失效
	depth int
}

// NewSequencer 创建序列器，默认缓动为 OutQuad
func NewSequencer() *Sequencer {
	return &Sequencer{ease: OutQuad}
}

// To 从属性当前值插值到 to，耗时 duration 秒
//
// duration <= 0 时立即完成。prop 为 nil 时返回一个已完成的空补间。
func (s *Sequencer) To(target any, prop *float64, to, duration float64) *Tween {
	if prop == nil {
		var sink float64
		prop = &sink
	}
	t := &Tween{
		target:   target,
		prop:     prop,
		from:     *prop,
		to:       to,
		duration: duration,
		ease:     s.ease,
	}
	if duration <= 0 {
		t.finish()
		return t
	}
	s.tweens = append(s.tweens, t)
	return t
}

// Run 启动序列，开头的回调步骤会立即同步执行
func (s *Sequencer) Run(q *Sequence) *Sequence {
	s.enter()
	defer s.leave()

	q.sequencer = s
	s.sequences = append(s.sequences, q)
	q.advance(0, false)
	return q
}

// Update 推进所有补间和序列
// 参数：
//   - dt: 时间增量（秒）
func (s *Sequencer) Update(dt float64) {
	s.enter()
	defer s.leave()

	// 本帧新启动的补间从下一帧开始推进
	n := len(s.tweens)
	for i := 0; i < n; i++ {
		t := s.tweens[i]
		if !t.IsActive() {
			continue
		}
		if t.step(dt) {
			t.finish()
		}
	}

	m := len(s.sequences)
	for i := 0; i < m; i++ {
		q := s.sequences[i]
		if q.IsActive() {
			q.advance(dt, false)
		}
	}
}

// Complete 立即完成目标上所有运行中的补间和序列
func (s *Sequencer) Complete(target any) {
	s.enter()
	defer s.leave()

	n := len(s.tweens)
	for i := 0; i < n; i++ {
		if t := s.tweens[i]; t.IsActive() && t.target == target {
			t.finish()
		}
	}

	m := len(s.sequences)
	for i := 0; i < m; i++ {
		if q := s.sequences[i]; q.IsActive() && q.target == target {
			q.advance(0, true)
		}
	}
}

// Kill 丢弃目标上所有运行中的补间和序列，不跳到终点，也不触发回调
func (s *Sequencer) Kill(target any) {
	s.enter()
	defer s.leave()

	for _, t := range s.tweens {
		if t.target == target {
			t.killed = true
		}
	}
	for _, q := range s.sequences {
		if q.target == target {
			q.killed = true
		}
	}
}

// CompleteAll 立即完成所有补间和序列（跳过模式使用）
//
// 反复冲刷直到没有任何运行中的补间或序列，
// 返回后所有属性都停在终值，之后不会再发生变化。
func (s *Sequencer) CompleteAll() {
	s.enter()
	defer s.leave()

	for pass := 0; pass < maxFlushPasses; pass++ {
		if s.activeLen() == 0 {
			return
		}

		tweens := append([]*Tween(nil), s.tweens...)
		for _, t := range tweens {
			t.finish()
		}

		sequences := append([]*Sequence(nil), s.sequences...)
		for _, q := range sequences {
			if q.IsActive() {
				q.advance(0, true)
			}
		}
	}
	log.Printf("[Sequencer] Warning: CompleteAll gave up after %d passes, %d tweens and %d sequences remain",
		maxFlushPasses, len(s.tweens), len(s.sequences))
}

func (s *Sequencer) enter() {
	s.depth++
}

func (s *Sequencer) leave() {
	s.depth--
	if s.depth == 0 {
		s.compact()
	}
}

// activeLen 统计仍在运行的补间和序列，已完成但尚未整理的不计入
func (s *Sequencer) activeLen() int {
	n := 0
	for _, t := range s.tweens {
		if t.IsActive() {
			n++
		}
	}
	for _, q := range s.sequences {
		if q.IsActive() {
			n++
		}
	}
	return n
}

// ActiveCount 返回目标上运行中的补间数量
func (s *Sequencer) ActiveCount(target any) int {
	count := 0
	for _, t := range s.tweens {
		if t.IsActive() && t.target == target {
			count++
		}
	}
	return count
}

// IsBusy 目标上是否还有运行中的补间或序列
func (s *Sequencer) IsBusy(target any) bool {
	if s.ActiveCount(target) > 0 {
		return true
	}
	for _, q := range s.sequences {
		if q.IsActive() && q.target == target {
			return true
		}
	}
	return false
}

// Len 返回运行中的补间和序列总数
func (s *Sequencer) Len() int {
	return s.activeLen()
}

// compact 移除已完成或已丢弃的补间和序列
func (s *Sequencer) compact() {
	tweens := s.tweens[:0]
	for _, t := range s.tweens {
		if t.IsActive() {
			tweens = append(tweens, t)
		}
	}
	for i := len(tweens); i < len(s.tweens); i++ {
		s.tweens[i] = nil
	}
	s.tweens = tweens

	sequences := s.sequences[:0]
	for _, q := range s.sequences {
		if q.IsActive() {
			sequences = append(sequences, q)
		}
	}
	for i := len(sequences); i < len(s.sequences); i++ {
		s.sequences[i] = nil
	}
	s.sequences = sequences
}
