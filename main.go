package main

import (
	"flag"
	"log"
	"os"

	"github.com/gonewx/vnstage/pkg/app"
	"github.com/gonewx/vnstage/pkg/config"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verbose   = flag.Bool("verbose", false, "显示详细日志")
	sceneFlag = flag.String("scene", "", "起始场景 ID（覆盖 VNSTAGE_START_SCENE）")
)

func main() {
	flag.Parse()

	rc, err := config.LoadRuntimeConfig()
	if err != nil {
		log.Fatal(err)
	}

	logCloser := app.SetupLogging(*verbose, rc)
	defer logCloser.Close()

	ebiten.SetWindowSize(rc.WindowWidth, rc.WindowHeight)
	ebiten.SetWindowTitle(rc.AppName)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	a, err := app.NewApp(app.Config{Runtime: rc, StartScene: *sceneFlag})
	if err != nil {
		log.Printf("[Main] %v", err)
		os.Stderr.WriteString(err.Error() + "\n")
		logCloser.Close()
		os.Exit(1)
	}

	runErr := ebiten.RunGame(a)
	if err := a.Close(); err != nil {
		log.Printf("[Main] Warning: %v", err)
	}
	if runErr != nil {
		log.Printf("[Main] %v", runErr)
		logCloser.Close()
		os.Exit(1)
	}
}
