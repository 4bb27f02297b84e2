package game

import (
	"fmt"
	"log"

	"github.com/gonewx/vnstage/pkg/tween"
)

// 音乐淡入淡出时间（秒）
const (
	MusicFadeInTime    = 6.0
	MusicReplaceFade   = 0.5
	MusicReplaceWait   = 0.7
	DefaultMusicVolume = 0.7
)

// Track 一首可播放的音乐
// *audio.Player 满足此接口；测试中使用假实现
type Track interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(volume float64)
}

// TrackLoader 按路径加载音乐，通常是 ResourceManager.LoadMusic
type TrackLoader func(path string) (Track, error)

// MusicPlayer 背景音乐播放器
// 职责：
//   - 管理场景歌单和当前曲目下标
//   - 播放、替换、停止时做音量淡入淡出
//   - 音量 = 淡入淡出系数 × 设置中的音乐音量
//
// 淡入淡出使用独立的 Sequencer，跳过模式冲刷舞台动画时不会影响音乐。
type MusicPlayer struct {
	seq      *tween.Sequencer
	load     TrackLoader
	settings *SettingsManager

	playlist []string
	index    int
	tracks   map[string]Track
	current  Track

	// fade 当前淡入淡出系数 0.0 ~ 1.0
	fade float64
}

// NewMusicPlayer 创建音乐播放器
//
// 参数：
//   - load: 音乐加载函数
//   - settings: 设置管理器（用于读取音量设置，可为 nil）
func NewMusicPlayer(load TrackLoader, settings *SettingsManager) *MusicPlayer {
	return &MusicPlayer{
		seq:      tween.NewSequencer(),
		load:     load,
		settings: settings,
		tracks:   make(map[string]Track),
	}
}

// SetPlaylist 替换歌单，下标回到第一首
// 当前正在播放的曲目不受影响，直到下一次 Start/Next
func (mp *MusicPlayer) SetPlaylist(paths []string) {
	mp.playlist = append([]string(nil), paths...)
	mp.index = 0
}

// Index 返回当前曲目下标
func (mp *MusicPlayer) Index() int {
	return mp.index
}

// Current 返回当前曲目，可能为 nil
func (mp *MusicPlayer) Current() Track {
	return mp.current
}

// Fade 返回当前淡入淡出系数
func (mp *MusicPlayer) Fade() float64 {
	return mp.fade
}

// Start 场景开始时调用：play 为 true 时播放第一首，否则只把它设为当前曲目
func (mp *MusicPlayer) Start(play bool) error {
	if len(mp.playlist) == 0 {
		return nil
	}
	mp.index = 0
	track, err := mp.trackAt(0)
	if err != nil {
		return err
	}
	if play {
		mp.Play(track)
	} else {
		mp.Cue(track)
	}
	return nil
}

// Next 播放歌单中的下一首
// 已经是最后一首时下标保持不变并返回错误
func (mp *MusicPlayer) Next() error {
	next := mp.index + 1
	if next >= len(mp.playlist) {
		return fmt.Errorf("no track after index %d (playlist has %d tracks)", mp.index, len(mp.playlist))
	}
	track, err := mp.trackAt(next)
	if err != nil {
		return err
	}
	mp.index = next
	mp.Play(track)
	return nil
}

func (mp *MusicPlayer) trackAt(i int) (Track, error) {
	path := mp.playlist[i]
	if track, ok := mp.tracks[path]; ok {
		return track, nil
	}
	if mp.load == nil {
		return nil, fmt.Errorf("no track loader for %s", path)
	}
	track, err := mp.load(path)
	if err != nil {
		return nil, fmt.Errorf("load track %s: %w", path, err)
	}
	mp.tracks[path] = track
	return track, nil
}

// Play 播放新曲目，或平滑替换正在播放的另一首
// 同一首正在播放时什么也不做
func (mp *MusicPlayer) Play(track Track) {
	if track == nil {
		return
	}
	if mp.current == nil || !mp.current.IsPlaying() {
		mp.current = track
		mp.fadeIn()
		return
	}
	if track == mp.current {
		return
	}

	log.Printf("[MusicPlayer] Replacing current track")
	mp.seq.Kill(mp)
	old := mp.current
	mp.seq.Run(tween.NewSequence(mp).
		Then(func() *tween.Tween { return mp.fadeTo(0, MusicReplaceFade) }).
		Call(old.Pause).
		Delay(MusicReplaceWait - MusicReplaceFade).
		Call(func() {
			mp.current = track
			mp.fadeIn()
		}))
}

// Cue 设置当前曲目但不播放，之后由 Continue 开始
func (mp *MusicPlayer) Cue(track Track) {
	if mp.current != nil && mp.current != track {
		mp.seq.Kill(mp)
		mp.current.Pause()
	}
	mp.current = track
}

// Stop 在 fade 秒内淡出后暂停
func (mp *MusicPlayer) Stop(fade float64) {
	if mp.current == nil {
		return
	}
	mp.seq.Kill(mp)
	track := mp.current
	mp.seq.Run(tween.NewSequence(mp).
		Then(func() *tween.Tween { return mp.fadeTo(0, fade) }).
		Call(track.Pause))
}

// Continue 从静音淡入继续播放当前曲目
func (mp *MusicPlayer) Continue() {
	if mp.current == nil {
		log.Printf("[MusicPlayer] Warning: nothing to continue")
		return
	}
	mp.fadeIn()
}

func (mp *MusicPlayer) fadeIn() {
	mp.seq.Kill(mp)
	mp.fade = 0
	mp.applyVolume()
	mp.current.Play()
	mp.fadeTo(1, MusicFadeInTime)
}

func (mp *MusicPlayer) fadeTo(to, duration float64) *tween.Tween {
	return mp.seq.To(mp, &mp.fade, to, duration).
		SetEase(tween.Linear).
		OnUpdate(func(float64) { mp.applyVolume() }).
		OnComplete(mp.applyVolume)
}

// ApplySettings 设置变化后重新计算当前音量
func (mp *MusicPlayer) ApplySettings() {
	mp.applyVolume()
}

// Volume 返回当前实际音量
func (mp *MusicPlayer) Volume() float64 {
	return mp.fade * mp.masterVolume()
}

func (mp *MusicPlayer) applyVolume() {
	if mp.current != nil {
		mp.current.SetVolume(mp.Volume())
	}
}

func (mp *MusicPlayer) masterVolume() float64 {
	if mp.settings == nil {
		return DefaultMusicVolume
	}
	s := mp.settings.GetSettings()
	if !s.MusicEnabled {
		return 0
	}
	return s.MusicVolume
}

// Update 推进淡入淡出
func (mp *MusicPlayer) Update(dt float64) {
	mp.seq.Update(dt)
}

// IsFading 是否有进行中的淡入淡出
func (mp *MusicPlayer) IsFading() bool {
	return mp.seq.IsBusy(mp)
}

// Close 立即暂停当前曲目
func (mp *MusicPlayer) Close() {
	mp.seq.Kill(mp)
	if mp.current != nil {
		mp.current.Pause()
	}
}
