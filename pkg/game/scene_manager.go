package game

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 用于按场景 ID 创建场景，避免 game 包依赖具体场景实现
type SceneFactory func(sceneID string) (Scene, error)

// SceneManager manages the game's high-level state by controlling which scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time.
type SceneManager struct {
	currentScene   Scene
	currentSceneID string
	sceneFactory   SceneFactory // 场景工厂函数，用于创建新场景

	// pending 在 Update 结束后才切换，保证旧场景的本帧更新完整执行
	pending   Scene
	pendingID string
	updating  bool
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use SwitchTo or LoadScene to set the initial scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo changes the active scene to the provided scene immediately.
// The previous scene is closed if it implements Closer.
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.switchTo(scene, "")
}

func (sm *SceneManager) switchTo(scene Scene, id string) {
	if closer, ok := sm.currentScene.(Closer); ok && sm.currentScene != scene {
		closer.Close()
	}
	sm.currentScene = scene
	sm.currentSceneID = id
}

// GetCurrentScene 返回当前活动的场景，没有活动场景时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// CurrentSceneID 返回通过 LoadScene 加载的当前场景 ID
func (sm *SceneManager) CurrentSceneID() string {
	return sm.currentSceneID
}

// LoadScene 创建指定 ID 的场景
//
// 在 Update 中调用时（例如脚本命令触发的换场），切换会推迟到本帧更新结束，
// 其余情况立即切换。创建失败时当前场景保持不变。
func (sm *SceneManager) LoadScene(sceneID string) error {
	log.Printf("[SceneManager] 加载场景: %s", sceneID)

	if sm.sceneFactory == nil {
		return fmt.Errorf("load scene %s: scene factory is not set", sceneID)
	}

	newScene, err := sm.sceneFactory(sceneID)
	if err != nil {
		log.Printf("[SceneManager] 错误: 无法创建场景 %s: %v", sceneID, err)
		return fmt.Errorf("load scene %s: %w", sceneID, err)
	}
	if newScene == nil {
		return fmt.Errorf("load scene %s: factory returned no scene", sceneID)
	}

	sm.pending = newScene
	sm.pendingID = sceneID
	if !sm.updating {
		sm.applyPending()
	}
	return nil
}

func (sm *SceneManager) applyPending() {
	if sm.pending == nil {
		return
	}
	scene, id := sm.pending, sm.pendingID
	sm.pending, sm.pendingID = nil, ""
	sm.switchTo(scene, id)
	log.Printf("[SceneManager] 成功切换到场景: %s", id)
}

// Close 关闭当前场景（程序退出时调用）
func (sm *SceneManager) Close() {
	if closer, ok := sm.currentScene.(Closer); ok {
		closer.Close()
	}
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
// deltaTime is the time elapsed since the last update in seconds.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.updating = true
		sm.currentScene.Update(deltaTime)
		sm.updating = false
	}
	sm.applyPending()
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
