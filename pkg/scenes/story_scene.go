package scenes

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/gonewx/vnstage/pkg/commands"
	"github.com/gonewx/vnstage/pkg/components"
	"github.com/gonewx/vnstage/pkg/config"
	"github.com/gonewx/vnstage/pkg/ecs"
	"github.com/gonewx/vnstage/pkg/game"
	"github.com/gonewx/vnstage/pkg/script"
	"github.com/gonewx/vnstage/pkg/stage"
	"github.com/gonewx/vnstage/pkg/systems"
	"github.com/gonewx/vnstage/pkg/tween"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// SceneChangeSettle 换场时黑幕完全显示后额外等待的时间（秒）
const SceneChangeSettle = 0.5

// Services 跨场景共享的服务
// 任何字段都可以为 nil，对应功能随之关闭
type Services struct {
	Resources *game.ResourceManager
	Scenes    *game.SceneManager
	Music     *game.MusicPlayer
	Settings  *game.SettingsManager

	// AssetDir 资源根目录，场景清单位于 AssetDir/scenes/<id>.yaml
	AssetDir string
	FontPath string
	FontSize float64

	// Input 对话输入，为 nil 时读取 Ebitengine 键鼠
	Input systems.StoryInput
}

// SceneManifestPath 返回场景清单路径
func SceneManifestPath(assetDir, sceneID string) string {
	return filepath.Join(assetDir, "scenes", sceneID+".yaml")
}

// StoryScene 一个剧情场景
//
// 持有本场景的舞台（角色、CG、特效）、动画序列器、命令分发器和脚本播放器。
// 场景开始前等待清单中的 StartDelay，然后开始播放音乐和脚本。
type StoryScene struct {
	svc Services
	cfg *config.SceneConfig

	em          *ecs.EntityManager
	seq         *tween.Sequencer
	directory   *stage.Directory
	backgrounds *stage.BackgroundStack
	shaker      *stage.Shaker
	nameplate   *stage.Nameplate
	effects     map[string]commands.Effect

	dispatcher *commands.Dispatcher
	runner     *script.Runner
	box        *DialogueBox

	renderSystem *systems.RenderSystem
	inputSystem  *systems.InputSystem

	elapsed  float64
	started  bool
	changing bool
	closed   bool
}

// NewStoryScene 按场景 ID 加载清单和脚本并创建场景
func NewStoryScene(svc Services, sceneID string) (*StoryScene, error) {
	cfg, err := config.LoadSceneConfig(SceneManifestPath(svc.AssetDir, sceneID))
	if err != nil {
		return nil, err
	}
	sc, err := script.Load(cfg.Resolve(cfg.Script))
	if err != nil {
		return nil, err
	}
	return NewStorySceneFromConfig(svc, cfg, sc)
}

// NewStorySceneFromConfig 用已加载的清单和脚本创建场景
func NewStorySceneFromConfig(svc Services, cfg *config.SceneConfig, sc *script.Script) (*StoryScene, error) {
	s := &StoryScene{
		svc:     svc,
		cfg:     cfg,
		em:      ecs.NewEntityManager(),
		seq:     tween.NewSequencer(),
		effects: make(map[string]commands.Effect),
	}

	s.backgrounds = stage.NewBackgroundStack(s.em, s.seq, stage.StageWidth, stage.StageHeight)
	s.backgrounds.SetModulation(cfg.BackgroundTint())
	for _, bg := range cfg.Backgrounds {
		tint, err := components.ParseHexTint(bg.Color)
		if err != nil {
			return nil, fmt.Errorf("background %s: %w", bg.Name, err)
		}
		decorations := make([]stage.Decoration, 0, len(bg.Decorations))
		for _, d := range bg.Decorations {
			decorations = append(decorations, stage.Decoration{
				Image:  cfg.Resolve(d.Image),
				X:      d.X,
				Y:      d.Y,
				Width:  d.Width,
				Height: d.Height,
			})
		}
		if err := s.backgrounds.Register(bg.Name, cfg.Resolve(bg.Image), tint, decorations...); err != nil {
			return nil, err
		}
	}
	if cfg.CoverOnStart {
		s.backgrounds.Cover()
	}

	s.directory = stage.NewDirectory(s.em, s.seq, stage.MapCatalog(cfg.EmoteCatalog()))
	s.directory.SetModulation(cfg.ActorTint())
	s.shaker = stage.NewShaker(s.seq, nil)
	s.nameplate = stage.NewNameplate(s.seq, cfg.NameColors())

	for _, fx := range cfg.Effects {
		s.effects[fx.Name] = stage.NewOverlay(s.em, s.seq, fx.Name, cfg.Resolve(fx.Image), fx.Alpha, fx.FadeTime)
	}

	s.box = NewDialogueBox(s.nameplate, s.loadFont(), s.textSpeed)

	staging := &commands.Staging{
		Directory:   s.directory,
		Backgrounds: s.backgrounds,
		Shaker:      s.shaker,
		Sequencer:   s.seq,
		Box:         s.box,
		Scenes:      s,
		Effects:     s.effects,
	}
	if svc.Music != nil {
		staging.Music = svc.Music
	}
	s.dispatcher = commands.NewDispatcher()
	staging.Register(s.dispatcher)

	s.runner = script.NewRunner(sc, s.dispatcher)
	s.runner.OnLine = s.showLine
	s.runner.OnEnd = func() {
		log.Printf("[StoryScene] Script of %s finished", cfg.ID)
	}

	var images systems.ImageSource
	if svc.Resources != nil {
		images = svc.Resources
	}
	s.renderSystem = systems.NewRenderSystem(s.em, images, stage.StageWidth, stage.StageHeight)
	s.inputSystem = systems.NewInputSystem(s, svc.Input, s.autoDelay)

	log.Printf("[StoryScene] Scene %s ready: %d backgrounds, %d actors, %d steps",
		cfg.ID, len(cfg.Backgrounds), len(cfg.Actors), len(sc.Steps))
	return s, nil
}

func (s *StoryScene) loadFont() *text.GoTextFace {
	if s.svc.Resources == nil || s.svc.FontPath == "" {
		return nil
	}
	path := s.svc.FontPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.svc.AssetDir, path)
	}
	face, err := s.svc.Resources.LoadFont(path, s.svc.FontSize)
	if err != nil {
		log.Printf("[StoryScene] Warning: %v (falling back to debug font)", err)
		return nil
	}
	return face
}

func (s *StoryScene) textSpeed() float64 {
	if s.svc.Settings == nil {
		return game.DefaultSettings().TextSpeed
	}
	return s.svc.Settings.GetSettings().TextSpeed
}

func (s *StoryScene) autoDelay() float64 {
	if s.svc.Settings == nil {
		return game.DefaultSettings().AutoDelay
	}
	return s.svc.Settings.GetSettings().AutoDelay
}

// ID 场景 ID
func (s *StoryScene) ID() string { return s.cfg.ID }

// Directory 角色目录
func (s *StoryScene) Directory() *stage.Directory { return s.directory }

// Backgrounds CG 栈
func (s *StoryScene) Backgrounds() *stage.BackgroundStack { return s.backgrounds }

// Sequencer 本场景的动画序列器
func (s *StoryScene) Sequencer() *tween.Sequencer { return s.seq }

// Box 对话框
func (s *StoryScene) Box() *DialogueBox { return s.box }

// Nameplate 说话人名牌
func (s *StoryScene) Nameplate() *stage.Nameplate { return s.nameplate }

// Runner 脚本播放器
func (s *StoryScene) Runner() *script.Runner { return s.runner }

// Dispatcher 命令分发器
func (s *StoryScene) Dispatcher() *commands.Dispatcher { return s.dispatcher }

// IsStarted 是否已开场
func (s *StoryScene) IsStarted() bool { return s.started }

// Start 立即开场：设置播放列表并按清单播放音乐，autoStart 时开始脚本
func (s *StoryScene) Start() {
	if s.started {
		return
	}
	s.started = true

	if s.svc.Music != nil {
		playlist := make([]string, 0, len(s.cfg.Playlist))
		for _, track := range s.cfg.Playlist {
			playlist = append(playlist, s.cfg.Resolve(track))
		}
		s.svc.Music.SetPlaylist(playlist)
		if err := s.svc.Music.Start(s.cfg.PlayMusicOnStart); err != nil {
			log.Printf("[StoryScene] Warning: music: %v", err)
		}
	}

	if s.cfg.AutoStart {
		s.runner.Start()
	}
}

// StartScript 开始播放脚本（清单 autoStart 为 false 时由外部调用）
func (s *StoryScene) StartScript() {
	if !s.runner.IsRunning() {
		s.runner.Start()
	}
}

// showLine 显示一句对话：更新说话人表情、名牌和正文
func (s *StoryScene) showLine(line string) {
	// 表情查找失败时已记录日志，对话照常显示
	s.directory.ResolveLine(line)
	s.nameplate.SetLine(line)
	s.box.SetLine(stage.TextOf(line))
}

// Advance 推进对话：正在逐字显示时先显示整句
func (s *StoryScene) Advance() {
	if !s.started || s.changing {
		return
	}
	if !s.box.IsRevealed() {
		s.box.CompleteReveal()
		return
	}
	s.runner.Advance()
}

// FlushTransitions 立即完成所有舞台过渡和逐字显示
func (s *StoryScene) FlushTransitions() {
	s.seq.CompleteAll()
	s.box.CompleteReveal()
}

// LineRevealed 当前句已完整显示并等待推进
func (s *StoryScene) LineRevealed() bool {
	return s.runner.IsShowingLine() && s.box.IsRevealed()
}

// ChangeScene 换场：停止脚本，黑幕在 duration 秒内淡入，再等待片刻后加载新场景
func (s *StoryScene) ChangeScene(sceneID string, duration float64) error {
	if s.changing {
		return fmt.Errorf("scene %s is already changing", s.cfg.ID)
	}
	s.changing = true
	s.runner.Stop()
	log.Printf("[StoryScene] Changing scene %s -> %s", s.cfg.ID, sceneID)

	if err := s.backgrounds.Show(stage.BlackScreen, duration); err != nil {
		log.Printf("[StoryScene] Warning: %v", err)
	}
	s.seq.Run(tween.NewSequence(s).
		Delay(duration + SceneChangeSettle).
		Call(func() { s.loadScene(sceneID) }))
	return nil
}

func (s *StoryScene) loadScene(sceneID string) {
	if s.closed {
		return
	}
	if s.svc.Scenes == nil {
		log.Printf("[StoryScene] Error: no scene manager to load %s", sceneID)
		return
	}
	if err := s.svc.Scenes.LoadScene(sceneID); err != nil {
		log.Printf("[StoryScene] Error: %v", err)
	}
}

// IsChanging 是否正在换场
func (s *StoryScene) IsChanging() bool { return s.changing }

// Update 更新场景
func (s *StoryScene) Update(deltaTime float64) {
	if !s.started {
		s.elapsed += deltaTime
		if s.elapsed >= s.cfg.StartDelay {
			s.Start()
		}
	} else if !s.changing {
		s.inputSystem.Update(deltaTime)
	}

	s.seq.Update(deltaTime)
	s.box.Update(deltaTime)
}

// Draw 绘制场景
func (s *StoryScene) Draw(screen *ebiten.Image) {
	s.renderSystem.Draw(screen)
	if s.started && !s.changing {
		s.box.Draw(screen)
	}
}

// Close 场景被替换时停止脚本，音乐由下一个场景接管
func (s *StoryScene) Close() {
	s.closed = true
	s.runner.Stop()
	s.seq.Kill(s)
}
