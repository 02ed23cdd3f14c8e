package devverse

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig holds window and startup settings for Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// Start is the first path to navigate to. Defaults to "/".
	Start string
	// Script, when set, drives the app and ends it once finished.
	Script *TestRunner
}

// Run opens a window, performs the initial navigation and blocks until the
// window closes.
func Run(app *App, cfg RunConfig) error {
	if cfg.Title == "" {
		cfg.Title = app.svc.Config.Window.Title
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = app.svc.Config.Window.Width, app.svc.Config.Window.Height
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if cfg.Script != nil {
		app.scene.SetTestRunner(cfg.Script, app)
		app.exitOnScriptDone = true
	}
	app.Start(cfg.Start)
	defer app.Close()

	if err := ebiten.RunGame(app); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}
