// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all viewer settings.
type Config struct {
	Viewer  ViewerConfig  `yaml:"viewer"`
	Assets  AssetsConfig  `yaml:"assets"`
	Window  WindowConfig  `yaml:"window"`
	Logging LoggingConfig `yaml:"logging"`
}

// ViewerConfig holds scene and gesture tuning.
type ViewerConfig struct {
	// Divisors that damp raw pixel deltas into per-event transform deltas.
	MovementSoftenFactor float32 `yaml:"movement_soften_factor"`
	RotationSoftenFactor float32 `yaml:"rotation_soften_factor"`

	DefaultDepth float32 `yaml:"default_depth"` // position.z given to freshly loaded meshes
	FOV          float32 `yaml:"fov"`           // Vertical field of view, degrees
	Near         float32 `yaml:"near"`
	Far          float32 `yaml:"far"`
	CameraZ      float32 `yaml:"camera_z"` // Initial zoom
}

// AssetsConfig describes where the manifest and models live.
type AssetsConfig struct {
	Base            string `yaml:"base"`             // http(s) URL or local directory
	Manifest        string `yaml:"manifest"`         // Manifest path relative to Base
	ModelsURL       string `yaml:"models_url"`       // Model path prefix relative to Base
	ModelsExtension string `yaml:"models_extension"` // Model file extension, without dot
	Cache           bool   `yaml:"cache"`
	Watch           bool   `yaml:"watch"` // Reload the manifest when it changes (directory base only)
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width     int  `yaml:"width"`
	Height    int  `yaml:"height"`
	MenuWidth int  `yaml:"menu_width"`
	VSync     bool `yaml:"vsync"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Viewer: ViewerConfig{
			MovementSoftenFactor: 15,
			RotationSoftenFactor: 200,
			DefaultDepth:         -40,
			FOV:                  70,
			Near:                 1,
			Far:                  1000,
			CameraZ:              1,
		},
		Assets: AssetsConfig{
			Base:            ".",
			Manifest:        "files.json",
			ModelsURL:       "resources/models/",
			ModelsExtension: "stl",
			Cache:           true,
			Watch:           false,
		},
		Window: WindowConfig{
			Width:     1280,
			Height:    720,
			MenuWidth: 300,
			VSync:     true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validation errors.
var (
	ErrInvalidSoftenFactor = errors.New("soften factors must be positive")
	ErrInvalidClipPlanes   = errors.New("near plane must be positive and closer than far plane")
	ErrInvalidViewport     = errors.New("viewport must have positive size")
	ErrMissingExtension    = errors.New("models extension must not be empty")
)

// SwapInterval returns the GL swap interval for the VSync setting.
func (w WindowConfig) SwapInterval() int {
	if w.VSync {
		return 1
	}
	return 0
}

// Validate checks the config once at construction time.
func (c *Config) Validate() error {
	if c.Viewer.MovementSoftenFactor <= 0 || c.Viewer.RotationSoftenFactor <= 0 {
		return fmt.Errorf("%w: movement=%v rotation=%v", ErrInvalidSoftenFactor,
			c.Viewer.MovementSoftenFactor, c.Viewer.RotationSoftenFactor)
	}
	if c.Viewer.Near <= 0 || c.Viewer.Near >= c.Viewer.Far {
		return fmt.Errorf("%w: near=%v far=%v", ErrInvalidClipPlanes, c.Viewer.Near, c.Viewer.Far)
	}
	if c.Viewer.FOV <= 0 || c.Viewer.FOV >= 180 {
		return fmt.Errorf("fov must be in (0, 180), got %v", c.Viewer.FOV)
	}
	if w, h := c.ViewportSize(); w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, w, h)
	}
	if c.Assets.ModelsExtension == "" {
		return ErrMissingExtension
	}
	return nil
}

// ViewportSize returns the scene viewport: the window minus the side menu.
func (c *Config) ViewportSize() (width, height int) {
	return c.Window.Width - c.Window.MenuWidth, c.Window.Height
}
