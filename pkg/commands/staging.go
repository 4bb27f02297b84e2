package commands

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/gonewx/vnstage/pkg/stage"
	"github.com/gonewx/vnstage/pkg/tween"
)

// 命令名
const (
	CmdCgSet             = "cgSet"
	CmdCgPrevious        = "cgPrevious"
	CmdCgFadeBlackToNext = "cgFadeBlackToNext"

	CmdShowSpeaker     = "showSpeaker"
	CmdHideSpeaker     = "hideSpeaker"
	CmdMoveSpeaker     = "moveSpeaker"
	CmdFlipSpeaker     = "flipSpeaker"
	CmdScaleSpeaker    = "scaleSpeaker"
	CmdSetSpeakerEmote = "setSpeakerEmote"

	CmdScreenShake      = "vfxScreenShake"
	CmdToggleTintScreen = "vfxToggleTintScreen"
	CmdVfxActivate      = "vfxActivate"
	CmdVfxDeactivate    = "vfxDeactivate"

	CmdShowBox        = "showBox"
	CmdHideBox        = "hideBox"
	CmdSetBoxPosition = "setBoxPosition"

	CmdMusicNext     = "musicNext"
	CmdMusicStop     = "musicStop"
	CmdMusicContinue = "musicContinue"

	CmdNextScene = "nextScene"
)

// 默认时长（秒）
const (
	DefaultCgTime    = 1.5
	DefaultMoveTime  = 1.0
	DefaultScaleTime = 1.0
	// MusicStopFade musicStop 的淡出时间
	MusicStopFade = 0.5
)

// DefaultEmote showSpeaker 不指定表情时使用的表情
const DefaultEmote = "normal"

// 黑幕转场的各阶段时长
const (
	fadeBlackInTime = 0.5
	fadeBlackHold   = 1.0
	fadeBlackCgTime = 1.5
	fadeBlackSettle = 1.0
)

// BoxPositions setBoxPosition 接受的位置
var BoxPositions = []string{"center", "bottom", "top"}

// DialogueBox 对话框
type DialogueBox interface {
	Show()
	Hide()
	SetPosition(position string)
}

// MusicPlayer 背景音乐播放器
type MusicPlayer interface {
	// Next 播放列表中的下一首，已是最后一首时返回错误
	Next() error
	Stop(fade float64)
	Continue()
}

// SceneLoader 场景切换
type SceneLoader interface {
	ChangeScene(sceneID string, duration float64) error
}

// Effect 可由脚本开关的视觉效果
type Effect interface {
	Activate()
	Deactivate()
}

// Staging 舞台命令：把脚本命令翻译为对角色、CG、对话框和音乐的操作
//
// 所有协作者在场景搭建时显式传入，nil 协作者对应的命令返回错误。
type Staging struct {
	Directory   *stage.Directory
	Backgrounds *stage.BackgroundStack
	Shaker      *stage.Shaker
	Sequencer   *tween.Sequencer

	Box     DialogueBox
	Music   MusicPlayer
	Scenes  SceneLoader
	Effects map[string]Effect
}

// Register 把所有舞台命令注册到分发器
func (s *Staging) Register(d *Dispatcher) {
	d.Register(CmdCgSet, s.cgSet)
	d.Register(CmdCgPrevious, s.cgPrevious)
	d.RegisterBlocking(CmdCgFadeBlackToNext, s.cgFadeBlackToNext)

	d.Register(CmdShowSpeaker, s.showSpeaker)
	d.Register(CmdHideSpeaker, s.hideSpeaker)
	d.Register(CmdMoveSpeaker, s.moveSpeaker)
	d.Register(CmdFlipSpeaker, s.flipSpeaker)
	d.Register(CmdScaleSpeaker, s.scaleSpeaker)
	d.Register(CmdSetSpeakerEmote, s.setSpeakerEmote)

	d.Register(CmdScreenShake, s.screenShake)
	d.Register(CmdToggleTintScreen, s.toggleTint)
	d.Register(CmdVfxActivate, s.vfxActivate)
	d.Register(CmdVfxDeactivate, s.vfxDeactivate)

	d.Register(CmdShowBox, s.showBox)
	d.Register(CmdHideBox, s.hideBox)
	d.Register(CmdSetBoxPosition, s.setBoxPosition)

	d.Register(CmdMusicNext, s.musicNext)
	d.Register(CmdMusicStop, s.musicStop)
	d.Register(CmdMusicContinue, s.musicContinue)

	d.Register(CmdNextScene, s.nextScene)
}

// ========== CG ==========

func (s *Staging) cgSet(p Params) error {
	if err := p.Arity(1, 2); err != nil {
		return err
	}
	duration, err := p.Float(1, DefaultCgTime)
	if err != nil {
		return err
	}
	log.Printf("[Commands] Setting a new CG %s", p.Arg(0))
	return p.Wrap(s.Backgrounds.Show(p.Arg(0), duration))
}

func (s *Staging) cgPrevious(p Params) error {
	if err := p.Arity(0, 1); err != nil {
		return err
	}
	duration, err := p.Float(0, DefaultCgTime)
	if err != nil {
		return err
	}
	log.Printf("[Commands] Returning to the previous CG")
	return p.Wrap(s.Backgrounds.ShowPrevious(duration))
}

// cgFadeBlackToNext 黑幕转场：隐藏对话框 → 黑幕淡入 → 从历史中移除黑幕 → 显示新 CG → 恢复对话框
func (s *Staging) cgFadeBlackToNext(p Params, done func()) error {
	if err := p.Arity(1, 1); err != nil {
		return err
	}
	name := stage.CanonicalName(p.Arg(0))
	if !s.Backgrounds.Has(name) {
		return p.Wrap(fmt.Errorf("%s: %w", name, stage.ErrUnknownBackground))
	}

	log.Printf("[Commands] Fade black to %s", name)

	q := tween.NewSequence(s).
		Call(func() {
			if s.Box != nil {
				s.Box.Hide()
			}
			s.Backgrounds.Show(stage.BlackScreen, fadeBlackInTime)
		}).
		Delay(fadeBlackHold).
		Call(func() {
			s.Backgrounds.PopHistory()
			s.Backgrounds.Show(name, fadeBlackCgTime)
		}).
		Delay(fadeBlackSettle).
		Call(func() {
			if s.Box != nil {
				s.Box.Show()
			}
		})
	q.OnComplete(done)
	s.Sequencer.Run(q)
	return nil
}

// ========== 角色 ==========

func (s *Staging) speaker(p Params) (*stage.Actor, error) {
	actor, err := s.Directory.MustActor(p.Name(0))
	return actor, p.Wrap(err)
}

// showSpeaker 显示角色，不指定表情时使用 DefaultEmote
//
// 隐藏的角色重新出场：按当前在场人数分配位置并换上表情，与对话行出场一致。
// 已在场的角色不指定表情时不做任何改变。
func (s *Staging) showSpeaker(p Params) error {
	if err := p.Arity(1, 2); err != nil {
		return err
	}
	name := p.Name(0)

	emote := p.Arg(1)
	if !p.Has(1) {
		if actor, ok := s.Directory.Actor(name); ok && actor.IsVisible() {
			return nil
		}
		emote = DefaultEmote
	}

	_, err := s.Directory.Resolve(name, emote)
	return p.Wrap(err)
}

func (s *Staging) hideSpeaker(p Params) error {
	if err := p.Arity(1, 1); err != nil {
		return err
	}
	actor, err := s.speaker(p)
	if err != nil {
		return err
	}
	log.Printf("[Commands] Hiding speaker %s", actor.Name())
	actor.Hide()
	return nil
}

// moveSpeaker 移动角色
//
// 第二个参数是预定义位置名时：name, position, [duration]
// 否则为相对偏移：name, x, [y], [duration]
func (s *Staging) moveSpeaker(p Params) error {
	if err := p.Arity(2, 4); err != nil {
		return err
	}

	if _, named := stage.LookupPosition(p.Arg(1)); named && p.Len() < 4 {
		duration, err := p.Float(2, DefaultMoveTime)
		if err != nil {
			return err
		}
		actor, err := s.speaker(p)
		if err != nil {
			return err
		}
		return p.Wrap(actor.SetPosition(p.Arg(1), duration))
	}

	x, err := p.Float(1, 0)
	if err != nil {
		return err
	}
	y, err := p.Float(2, 0)
	if err != nil {
		return err
	}
	duration, err := p.Float(3, DefaultMoveTime)
	if err != nil {
		return err
	}
	actor, err := s.speaker(p)
	if err != nil {
		return err
	}
	actor.MoveBy(stage.Vec2{X: x, Y: y}, duration)
	return nil
}

func (s *Staging) flipSpeaker(p Params) error {
	if err := p.Arity(1, 1); err != nil {
		return err
	}
	actor, err := s.speaker(p)
	if err != nil {
		return err
	}
	actor.Flip()
	return nil
}

// scaleSpeaker 缩放角色，尺寸可以是 small/normal/large 或数值
func (s *Staging) scaleSpeaker(p Params) error {
	if err := p.Arity(2, 3); err != nil {
		return err
	}
	duration, err := p.Float(2, DefaultScaleTime)
	if err != nil {
		return err
	}

	size := strings.ToLower(p.Arg(1))
	factor, named := stage.LookupSize(size)
	if !named {
		if factor, err = p.Float(1, 0); err != nil {
			return err
		}
	}

	actor, err := s.speaker(p)
	if err != nil {
		return err
	}
	actor.Scale(factor, duration)
	return nil
}

func (s *Staging) setSpeakerEmote(p Params) error {
	if err := p.Arity(2, 2); err != nil {
		return err
	}
	actor, err := s.speaker(p)
	if err != nil {
		return err
	}
	image, err := s.Directory.EmoteImage(actor.Name(), stage.FoldKey(p.Arg(1)))
	if err != nil {
		return p.Wrap(err)
	}
	actor.SetCurrentEmote(image)
	return nil
}

// ========== 视觉效果 ==========

func (s *Staging) screenShake(p Params) error {
	if err := p.Arity(1, 2); err != nil {
		return err
	}
	amount, err := p.Float(0, 0)
	if err != nil {
		return err
	}
	duration, err := p.Float(1, stage.DefaultShakeDuration)
	if err != nil {
		return err
	}

	target := s.Backgrounds.CurrentTransform()
	if target == nil {
		return p.Wrap(stage.ErrNoBackground)
	}
	s.Shaker.Shake(target, amount, duration)
	return nil
}

func (s *Staging) toggleTint(p Params) error {
	if err := p.Arity(0, 0); err != nil {
		return err
	}
	_, err := s.Backgrounds.ToggleTint()
	return p.Wrap(err)
}

// effects 按名称选择效果，没有名称时选择全部
func (s *Staging) effects(p Params) ([]Effect, error) {
	if err := p.Arity(0, 1); err != nil {
		return nil, err
	}
	if !p.Has(0) {
		names := make([]string, 0, len(s.Effects))
		for name := range s.Effects {
			names = append(names, name)
		}
		sort.Strings(names)
		result := make([]Effect, 0, len(names))
		for _, name := range names {
			result = append(result, s.Effects[name])
		}
		return result, nil
	}
	e, ok := s.Effects[p.Arg(0)]
	if !ok {
		return nil, p.Wrap(fmt.Errorf("unknown effect %q", p.Arg(0)))
	}
	return []Effect{e}, nil
}

func (s *Staging) vfxActivate(p Params) error {
	effects, err := s.effects(p)
	for _, e := range effects {
		e.Activate()
	}
	return err
}

func (s *Staging) vfxDeactivate(p Params) error {
	effects, err := s.effects(p)
	for _, e := range effects {
		e.Deactivate()
	}
	return err
}

// ========== 对话框 ==========

func (s *Staging) showBox(p Params) error {
	if s.Box == nil {
		return p.Wrap(errNoCollaborator("dialogue box"))
	}
	s.Box.Show()
	return nil
}

func (s *Staging) hideBox(p Params) error {
	if s.Box == nil {
		return p.Wrap(errNoCollaborator("dialogue box"))
	}
	s.Box.Hide()
	return nil
}

func (s *Staging) setBoxPosition(p Params) error {
	if err := p.Arity(1, 1); err != nil {
		return err
	}
	position := strings.ToLower(p.Arg(0))
	valid := false
	for _, candidate := range BoxPositions {
		if candidate == position {
			valid = true
			break
		}
	}
	if !valid {
		return p.Wrap(fmt.Errorf("unknown dialogue box position %q", position))
	}
	if s.Box == nil {
		return p.Wrap(errNoCollaborator("dialogue box"))
	}
	s.Box.SetPosition(position)
	return nil
}

// ========== 音乐与场景 ==========

func (s *Staging) musicNext(p Params) error {
	if s.Music == nil {
		return p.Wrap(errNoCollaborator("music player"))
	}
	return p.Wrap(s.Music.Next())
}

func (s *Staging) musicStop(p Params) error {
	if s.Music == nil {
		return p.Wrap(errNoCollaborator("music player"))
	}
	s.Music.Stop(MusicStopFade)
	return nil
}

func (s *Staging) musicContinue(p Params) error {
	if s.Music == nil {
		return p.Wrap(errNoCollaborator("music player"))
	}
	s.Music.Continue()
	return nil
}

func (s *Staging) nextScene(p Params) error {
	if err := p.Arity(2, 2); err != nil {
		return err
	}
	duration, err := p.Float(1, 0)
	if err != nil {
		return err
	}
	if s.Scenes == nil {
		return p.Wrap(errNoCollaborator("scene loader"))
	}
	return p.Wrap(s.Scenes.ChangeScene(p.Arg(0), duration))
}

func errNoCollaborator(what string) error {
	return fmt.Errorf("no %s is attached to this scene", what)
}
