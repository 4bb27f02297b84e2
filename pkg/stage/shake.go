package stage

import (
	"math"
	"math/rand/v2"

	"github.com/gonewx/vnstage/pkg/components"
	"github.com/gonewx/vnstage/pkg/tween"
)

// DefaultShakeDuration 震屏默认时长（秒）
const DefaultShakeDuration = 1.5

// Shaker 屏幕震动
//
// 每帧把目标变换放到原位置附近的随机点，偏移半径从 amount 线性衰减到 0，
// 结束（或被冲刷）后目标回到原位置。
type Shaker struct {
	seq *tween.Sequencer
	rng *rand.Rand

	amount  float64
	target  *components.TransformComponent
	originX float64
	originY float64
}

// NewShaker 创建震屏效果
// rng 为 nil 时使用随机种子
func NewShaker(seq *tween.Sequencer, rng *rand.Rand) *Shaker {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Shaker{seq: seq, rng: rng}
}

// Shake 震动目标变换
func (s *Shaker) Shake(target *components.TransformComponent, amount, duration float64) {
	// 先结束上一次震动，目标回到原位后再记录新的原位置
	s.seq.Complete(s)
	if target == nil {
		return
	}

	s.target = target
	s.amount = amount
	s.originX, s.originY = target.X, target.Y

	s.seq.To(s, &s.amount, 0, duration).
		SetEase(tween.Linear).
		OnUpdate(func(v float64) {
			dx, dy := s.jitter(v)
			target.X = s.originX + dx
			target.Y = s.originY + dy
		}).
		OnComplete(func() {
			target.X, target.Y = s.originX, s.originY
			s.target = nil
		})
}

// IsShaking 是否正在震动
func (s *Shaker) IsShaking() bool {
	return s.target != nil
}

// Amount 当前偏移半径
func (s *Shaker) Amount() float64 {
	return s.amount
}

// jitter 在半径为 r 的圆内均匀取点
func (s *Shaker) jitter(r float64) (float64, float64) {
	if r <= 0 {
		return 0, 0
	}
	angle := s.rng.Float64() * 2 * math.Pi
	dist := r * math.Sqrt(s.rng.Float64())
	return dist * math.Cos(angle), dist * math.Sin(angle)
}
