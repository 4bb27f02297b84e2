// Package app 提供舞台引擎的应用包装器
//
// 该包将初始化逻辑从 main 包提取出来：音频上下文、资源管理器、设置、
// 音乐播放器和场景管理器都在这里创建并连接到剧情场景工厂。
package app

import (
	"fmt"
	"image/color"
	"log"

	"github.com/gonewx/vnstage/pkg/config"
	"github.com/gonewx/vnstage/pkg/game"
	"github.com/gonewx/vnstage/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// sampleRate 音频上下文采样率
const sampleRate = 48000

// Config 定义应用启动配置
type Config struct {
	// Runtime 环境变量配置，不能为 nil
	Runtime *config.RuntimeConfig
	// StartScene 覆盖 Runtime.StartScene（用于 --scene 参数）
	StartScene string
}

// App 应用包装器，实现 ebiten.Game 接口
type App struct {
	runtime      *config.RuntimeConfig
	sceneManager *game.SceneManager
	music        *game.MusicPlayer
	settings     *game.SettingsManager

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
	closed                   bool
}

// NewApp 创建并初始化应用，加载起始场景
func NewApp(cfg Config) (*App, error) {
	if cfg.Runtime == nil {
		return nil, fmt.Errorf("runtime config is required")
	}
	rc := cfg.Runtime

	audioContext := audio.NewContext(sampleRate)
	resourceManager := game.NewResourceManager(audioContext)

	// 存储不可用时降级为仅内存设置
	var gdataManager *gdata.Manager
	if m, err := gdata.Open(gdata.Config{AppName: rc.AppName}); err != nil {
		log.Printf("[App] Warning: gdata unavailable: %v (settings will not persist)", err)
	} else {
		gdataManager = m
	}
	settingsManager, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		return nil, fmt.Errorf("设置加载失败: %w", err)
	}

	music := game.NewMusicPlayer(resourceManager.LoadMusic, settingsManager)
	log.Printf("[App] MusicPlayer initialized")

	sceneManager := game.NewSceneManager()
	svc := scenes.Services{
		Resources: resourceManager,
		Scenes:    sceneManager,
		Music:     music,
		Settings:  settingsManager,
		AssetDir:  rc.AssetDir,
		FontPath:  rc.FontPath,
		FontSize:  rc.FontSize,
	}
	sceneManager.SetSceneFactory(func(sceneID string) (game.Scene, error) {
		s, err := scenes.NewStoryScene(svc, sceneID)
		if err != nil {
			return nil, err
		}
		return s, nil
	})

	startScene := cfg.StartScene
	if startScene == "" {
		startScene = rc.StartScene
	}
	log.Printf("[App] Starting scene: %s", startScene)
	if err := sceneManager.LoadScene(startScene); err != nil {
		music.Close()
		return nil, err
	}

	if settingsManager.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	return &App{
		runtime:      rc,
		sceneManager: sceneManager,
		music:        music,
		settings:     settingsManager,
	}, nil
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.runtime.WindowWidth, a.runtime.WindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", a.runtime.WindowWidth, a.runtime.WindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			a.settings.SetFullscreen(false)
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
			a.settings.SetFullscreen(true)
		}
	}

	deltaTime := 1.0 / 60.0
	a.music.Update(deltaTime)
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 全屏时两侧留黑，使用线性滤波缩放
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 舞台坐标由渲染系统按此尺寸等比缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.runtime.WindowWidth, a.runtime.WindowHeight
}

// SceneManager 返回场景管理器
func (a *App) SceneManager() *game.SceneManager {
	return a.sceneManager
}

// Close 关闭当前场景、停止音乐并保存设置
// 可以重复调用
func (a *App) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	a.sceneManager.Close()
	a.music.Close()
	if err := a.settings.Save(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	log.Printf("[App] Settings saved")
	return nil
}
