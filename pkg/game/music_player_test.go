package game

import (
	"errors"
	"math"
	"testing"
)

type fakeTrack struct {
	name    string
	playing bool
	volume  float64
	plays   int
}

func (f *fakeTrack) Play()               { f.playing = true; f.plays++ }
func (f *fakeTrack) Pause()              { f.playing = false }
func (f *fakeTrack) IsPlaying() bool     { return f.playing }
func (f *fakeTrack) SetVolume(v float64) { f.volume = v }

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// newTestMusicPlayer 创建带三首假曲目的播放器
func newTestMusicPlayer(t *testing.T) (*MusicPlayer, map[string]*fakeTrack) {
	t.Helper()
	tracks := map[string]*fakeTrack{
		"a.ogg": {name: "a"},
		"b.ogg": {name: "b"},
		"c.ogg": {name: "c"},
	}
	loader := func(path string) (Track, error) {
		if tr, ok := tracks[path]; ok {
			return tr, nil
		}
		return nil, errors.New("missing")
	}
	mp := NewMusicPlayer(loader, nil)
	mp.SetPlaylist([]string{"a.ogg", "b.ogg", "c.ogg"})
	return mp, tracks
}

func TestMusicPlayerStartFadesIn(t *testing.T) {
	mp, tracks := newTestMusicPlayer(t)
	a := tracks["a.ogg"]

	if err := mp.Start(true); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !a.playing || a.volume != 0 {
		t.Fatalf("起始状态: playing=%v volume=%v, 期望从静音开始播放", a.playing, a.volume)
	}

	mp.Update(MusicFadeInTime / 2)
	if !near(a.volume, 0.5*DefaultMusicVolume) {
		t.Errorf("淡入一半: got %v, 期望 %v", a.volume, 0.5*DefaultMusicVolume)
	}

	mp.Update(MusicFadeInTime / 2)
	if !near(a.volume, DefaultMusicVolume) || mp.IsFading() {
		t.Errorf("淡入结束: got %v fading=%v, 期望 %v", a.volume, mp.IsFading(), DefaultMusicVolume)
	}
}

func TestMusicPlayerStartCueOnly(t *testing.T) {
	mp, tracks := newTestMusicPlayer(t)
	a := tracks["a.ogg"]

	if err := mp.Start(false); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if a.playing || mp.Current() != Track(a) {
		t.Fatalf("只设置曲目时不应播放: playing=%v", a.playing)
	}

	mp.Continue()
	if !a.playing {
		t.Error("Continue 应开始播放已设置的曲目")
	}
}

func TestMusicPlayerNextReplaces(t *testing.T) {
	mp, tracks := newTestMusicPlayer(t)
	a, b := tracks["a.ogg"], tracks["b.ogg"]
	mp.Start(true)
	mp.Update(MusicFadeInTime)

	if err := mp.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if mp.Index() != 1 {
		t.Errorf("Index: got %d, 期望 1", mp.Index())
	}
	if !a.playing || b.playing {
		t.Fatal("替换开始时旧曲目仍在播放，新曲目尚未开始")
	}

	mp.Update(MusicReplaceFade)
	if a.playing || a.volume != 0 {
		t.Errorf("淡出后旧曲目应暂停: playing=%v volume=%v", a.playing, a.volume)
	}
	if b.playing {
		t.Error("等待期间新曲目不应开始")
	}

	mp.Update(MusicReplaceWait - MusicReplaceFade)
	if !b.playing || mp.Current() != Track(b) {
		t.Fatal("等待结束后应开始播放新曲目")
	}
	if b.volume != 0 || !mp.IsFading() {
		t.Errorf("新曲目应从静音淡入: volume=%v fading=%v", b.volume, mp.IsFading())
	}
}

func TestMusicPlayerNextPastEnd(t *testing.T) {
	mp, _ := newTestMusicPlayer(t)
	mp.Start(true)

	mp.Next()
	mp.Next()
	if mp.Index() != 2 {
		t.Fatalf("Index: got %d, 期望 2", mp.Index())
	}

	if err := mp.Next(); err == nil {
		t.Error("最后一首之后 Next 应返回错误")
	}
	if mp.Index() != 2 {
		t.Errorf("失败后下标应保持: got %d, 期望 2", mp.Index())
	}
}

func TestMusicPlayerNextLoadFailure(t *testing.T) {
	mp, _ := newTestMusicPlayer(t)
	mp.SetPlaylist([]string{"a.ogg", "missing.ogg"})
	mp.Start(true)

	if err := mp.Next(); err == nil {
		t.Fatal("加载失败应返回错误")
	}
	if mp.Index() != 0 {
		t.Errorf("Index: got %d, 期望 0", mp.Index())
	}
}

func TestMusicPlayerStopAndContinue(t *testing.T) {
	tests := []struct {
		name        string
		continueAt  float64
		wantPlaying bool
	}{
		{"停止完成后暂停", -1, false},
		{"淡出途中继续", 0.25, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mp, tracks := newTestMusicPlayer(t)
			a := tracks["a.ogg"]
			mp.Start(true)
			mp.Update(MusicFadeInTime)

			mp.Stop(0.5)
			if tt.continueAt >= 0 {
				mp.Update(tt.continueAt)
				mp.Continue()
			}
			mp.Update(0.5)

			if a.playing != tt.wantPlaying {
				t.Errorf("playing: got %v, 期望 %v", a.playing, tt.wantPlaying)
			}
		})
	}
}

func TestMusicPlayerPlaySameTrack(t *testing.T) {
	mp, tracks := newTestMusicPlayer(t)
	a := tracks["a.ogg"]
	mp.Start(true)
	mp.Update(MusicFadeInTime)

	mp.Play(a)
	if a.plays != 1 || mp.IsFading() {
		t.Errorf("重复播放同一曲目不应重新淡入: plays=%d", a.plays)
	}
}

func TestMusicPlayerSettingsVolume(t *testing.T) {
	settings, _ := NewSettingsManager(nil)
	tr := &fakeTrack{}
	mp := NewMusicPlayer(func(string) (Track, error) { return tr, nil }, settings)
	mp.SetPlaylist([]string{"theme.ogg"})
	mp.Start(true)
	mp.Update(MusicFadeInTime)

	settings.SetMusicVolume(0.4)
	mp.ApplySettings()
	if !near(tr.volume, 0.4) {
		t.Errorf("音量: got %v, 期望 0.4", tr.volume)
	}

	settings.SetMusicEnabled(false)
	mp.ApplySettings()
	if tr.volume != 0 {
		t.Errorf("关闭音乐后音量: got %v, 期望 0", tr.volume)
	}
}

func TestMusicPlayerEmptyPlaylist(t *testing.T) {
	mp := NewMusicPlayer(nil, nil)
	if err := mp.Start(true); err != nil {
		t.Errorf("空歌单 Start 不应报错: %v", err)
	}
	if err := mp.Next(); err == nil {
		t.Error("空歌单 Next 应返回错误")
	}
	mp.Stop(0.5)
	mp.Continue()
	mp.Close()
}
