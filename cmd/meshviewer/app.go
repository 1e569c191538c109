package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/assets"
	"github.com/Faultbox/meshview/internal/catalog"
	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/debug"
	"github.com/Faultbox/meshview/internal/engine/input"
	"github.com/Faultbox/meshview/internal/engine/renderer"
	"github.com/Faultbox/meshview/internal/engine/ui"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/internal/viewer"
)

// display is the window the app draws into.
type display interface {
	Run(frame func())
	SetWindowTitle(title string)
	Fail(err error)
}

// Startup steps that need a real window and GL context.
var (
	openDisplay = func(cfg config.WindowConfig) (display, error) {
		return ui.NewBackend(appTitle, cfg)
	}
	newRenderer = renderer.New
)

const appTitle = "meshview"

// App ties the UI window to the viewer core.
type App struct {
	cfg      *config.Config
	backend  display
	renderer *renderer.Renderer
	assets   *assets.Manager
	viewer   *viewer.Viewer
	watcher  *catalog.Watcher
	pointer  *input.Pointer
	shots    *debug.ScreenshotCapture
	log      *zap.Logger

	title      string
	statusMsg  string
	statusTime time.Time
}

// NewApp opens the window, creates the renderer and starts the manifest
// fetch. If setup fails once the window is open, the error is shown in the
// window and NewApp returns after the user closes it.
func NewApp(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{
		cfg:     cfg,
		pointer: input.New(),
		shots:   debug.NewScreenshotCapture(filepath.Join(config.ConfigDir(), "snapshots"), appTitle),
		log:     logger.Named("app"),
		title:   appTitle,
	}

	var err error
	app.backend, err = openDisplay(cfg.Window)
	if err != nil {
		return nil, err
	}

	w, h := cfg.ViewportSize()
	app.renderer, err = newRenderer(renderer.Config{Width: w, Height: h})
	if err != nil {
		return nil, app.fail(err)
	}

	src := assets.NewSource(cfg.Assets.Base)
	app.assets = assets.NewManager(src, cfg.Assets.Cache)

	app.viewer, err = viewer.New(viewer.Options{
		Config:   cfg,
		Source:   app.assets,
		Renderer: app.renderer,
		Alerter:  viewer.AlerterFunc(showError),
	})
	if err != nil {
		app.assets.Close()
		app.renderer.Close()
		return nil, app.fail(err)
	}

	if cfg.Assets.Watch {
		app.watchManifest(src)
	}

	app.viewer.LoadCatalog()
	app.viewer.Render()
	return app, nil
}

// fail reports a startup error in the open window. Closing the window
// releases it.
func (app *App) fail(err error) error {
	app.log.Error("startup failed", zap.Error(err))
	app.backend.Fail(err)
	return err
}

// watchManifest reloads the catalog whenever the manifest file changes.
// Only directory bases can be watched.
func (app *App) watchManifest(src assets.Source) {
	dir, ok := src.(*assets.DirSource)
	if !ok {
		app.log.Warn("manifest watch needs a directory base", zap.String("base", app.cfg.Assets.Base))
		return
	}
	path, err := dir.Resolve(app.cfg.Assets.Manifest)
	if err != nil {
		app.log.Warn("manifest watch disabled", zap.Error(err))
		return
	}

	v := app.viewer
	app.watcher, err = catalog.Watch(path, func() {
		v.Post(v.LoadCatalog)
	})
	if err != nil {
		app.log.Warn("manifest watch disabled", zap.String("path", path), zap.Error(err))
	}
}

// showError is the blocking alert for manifest failures.
func showError(err error) {
	var status *assets.StatusError
	title := "Error"
	if errors.As(err, &status) {
		title = fmt.Sprintf("HTTP %d", status.Code)
	}
	dialog.Message("%s", err.Error()).Title(title).Error()
}

// openFileDialog asks for a local STL file and loads it. The dialog runs off
// the UI thread; the load is posted back to it.
func (app *App) openFileDialog() {
	v := app.viewer
	go func() {
		filename, err := dialog.File().
			Filter("STL Meshes", "stl").
			Filter("All Files", "*").
			Title("Open STL").
			Load()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				logger.Warn("file dialog error", zap.Error(err))
			}
			return
		}
		v.Post(func() { v.LoadFile(filename) })
	}()
}

func (app *App) saveSnapshot() {
	path, err := app.shots.Capture(app.renderer.ReadPixels())
	if err != nil {
		app.log.Warn("snapshot failed", zap.Error(err))
		app.setStatus(fmt.Sprintf("Snapshot failed: %v", err))
		return
	}
	app.log.Info("snapshot saved", zap.String("path", path))
	app.setStatus("Saved " + path)
}

func (app *App) setStatus(msg string) {
	app.statusMsg = msg
	app.statusTime = time.Now()
}

// resizeViewport follows window resizes. The render target must be resized
// before the viewer redraws into it.
func (app *App) resizeViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if w, h := app.viewer.Viewport(); w == width && h == height {
		return
	}
	if err := app.renderer.Resize(width, height); err != nil {
		app.log.Warn("resize failed", zap.Error(err))
		return
	}
	app.viewer.SetViewport(width, height)
}

// Run starts the UI loop and returns when the window closes.
func (app *App) Run() {
	app.backend.Run(app.frame)
}

func (app *App) frame() {
	app.viewer.Pump()
	app.updateTitle()
	app.drawPanels()
}

// updateTitle names the selected object in the window title.
func (app *App) updateTitle() {
	title := appTitle
	if obj := app.viewer.Selected(); obj != nil {
		title += " - " + obj.Name
	}
	if title != app.title {
		app.title = title
		app.backend.SetWindowTitle(title)
	}
}

// Close stops the watcher and releases the viewer and GL resources.
func (app *App) Close() {
	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			app.log.Warn("closing watcher", zap.Error(err))
		}
	}
	if app.viewer != nil {
		app.viewer.Close()
	}
	if app.assets != nil {
		app.assets.Close()
	}
	if app.renderer != nil {
		app.renderer.Close()
	}
}
