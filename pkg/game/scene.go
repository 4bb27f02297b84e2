package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a story scene currently on screen.
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	// screen is the target image where the scene should be drawn.
	Draw(screen *ebiten.Image)
}

// Closer 是一个可选接口，场景被替换或程序退出时调用
//
// 实现此接口的场景需要在这里停止脚本、暂停音乐等，
// 避免旧场景的异步步骤在新场景中继续执行
type Closer interface {
	Close()
}
