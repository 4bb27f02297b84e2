package stage

import (
	"github.com/gonewx/vnstage/pkg/components"
	"github.com/gonewx/vnstage/pkg/tween"
)

// NameplateFadeTime 名牌淡入时间（秒）
const NameplateFadeTime = 0.5

// Nameplate 对话框上的说话人名牌
//
// 带舞台指令的对话行显示 "<说话人>:"，颜色按说话人配置（默认白色）；
// 旁白行立即隐藏名牌。
type Nameplate struct {
	seq    *tween.Sequencer
	colors map[string]components.Tint

	text  string
	color components.Tint
	alpha float64
}

// NewNameplate 创建名牌
// colors: 说话人 -> 名牌颜色
func NewNameplate(seq *tween.Sequencer, colors map[string]components.Tint) *Nameplate {
	if colors == nil {
		colors = make(map[string]components.Tint)
	}
	return &Nameplate{seq: seq, colors: colors, color: components.White}
}

// SetLine 根据对话行更新名牌
func (n *Nameplate) SetLine(line string) {
	speaker, ok := SpeakerOf(line)
	if !ok {
		if n.alpha != 0 {
			n.seq.Kill(n)
			n.alpha = 0
		}
		return
	}

	n.text = speaker + ":"
	if c, found := n.colors[speaker]; found {
		n.color = c
	} else {
		n.color = components.White
	}
	n.seq.Complete(n)
	n.seq.To(n, &n.alpha, 1, NameplateFadeTime)
}

// Text 名牌文字
func (n *Nameplate) Text() string { return n.text }

// Color 名牌颜色，Alpha 为当前不透明度
func (n *Nameplate) Color() components.Tint { return n.color.WithAlpha(n.alpha) }

// Alpha 当前不透明度
func (n *Nameplate) Alpha() float64 { return n.alpha }
