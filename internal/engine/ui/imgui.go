// Package ui wraps the cimgui SDL backend used by the viewer window.
package ui

import (
	"fmt"
	"os"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/logger"
)

// Candidate UI fonts, first match wins. The built-in font is used when
// none exists.
var fontPaths = []string{
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"C:\\Windows\\Fonts\\segoeui.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
}

// Backend owns the SDL window, its GL context and the ImGui context.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
}

// NewBackend creates the window. The GL context is current and loaded on
// return.
func NewBackend(title string, cfg config.WindowConfig) (*Backend, error) {
	b := &Backend{}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	b.backend.SetAfterCreateContextHook(loadFont)
	b.backend.SetBgColor(imgui.NewVec4(0.1, 0.1, 0.12, 1.0))
	b.backend.CreateWindow(title, cfg.Width, cfg.Height)

	interval := cfg.SwapInterval()
	if err := b.backend.SetSwapInterval(sdlbackend.SDLWindowFlags(interval)); err != nil {
		logger.Warn("swap interval not supported", zap.Int("interval", interval), zap.Error(err))
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init opengl: %w", err)
	}
	return b, nil
}

func loadFont() {
	var fontPath string
	for _, path := range fontPaths {
		if _, err := os.Stat(path); err == nil {
			fontPath = path
			break
		}
	}
	if fontPath == "" {
		return
	}

	fontCfg := imgui.NewFontConfig()
	defer fontCfg.Destroy()
	if imgui.CurrentIO().Fonts().AddFontFromFileTTFV(fontPath, 16.0, fontCfg, nil) == nil {
		logger.Warn("failed to load UI font", zap.String("path", fontPath))
	}
}

// Run starts the main loop; frame is called once per UI frame.
func (b *Backend) Run(frame func()) {
	b.backend.Run(frame)
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.backend.SetWindowTitle(title)
}

// Fail shows err in the window until the user closes it. The window, its GL
// context and the ImGui context are only released when the backend loop
// ends, so this is how a backend that never ran is torn down. The backend
// is unusable afterwards.
func (b *Backend) Fail(err error) {
	msg := err.Error()
	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse | imgui.WindowFlagsNoTitleBar
	b.backend.Run(func() {
		pos, size := WorkArea()
		imgui.SetNextWindowPos(pos)
		imgui.SetNextWindowSize(size)
		if imgui.BeginV("##StartupError", nil, flags) {
			imgui.TextColored(imgui.NewVec4(1, 0.4, 0.4, 1), "Startup failed")
			imgui.Text(msg)
			imgui.Spacing()
			imgui.TextDisabled("Close the window to exit.")
		}
		imgui.End()
	})
}

// WorkArea returns the main viewport area below any menu bar.
func WorkArea() (pos, size imgui.Vec2) {
	viewport := imgui.MainViewport()
	return viewport.WorkPos(), viewport.WorkSize()
}

// SceneImage draws a GL texture filling w x h, flipped to put GL's bottom
// row at the bottom. It returns the image's top-left corner in screen
// coordinates and whether the mouse is over it.
func SceneImage(texture uint32, w, h float32) (origin imgui.Vec2, hovered bool) {
	origin = imgui.CursorScreenPos()
	texRef := imgui.NewTextureRefTextureID(imgui.TextureID(texture))
	imgui.ImageV(*texRef,
		imgui.NewVec2(w, h),
		imgui.NewVec2(0, 1),
		imgui.NewVec2(1, 0))
	return origin, imgui.IsItemHovered()
}

// LocalMouse returns the mouse position relative to origin and whether the
// left button is held.
func LocalMouse(origin imgui.Vec2) (x, y float32, down bool) {
	pos := imgui.MousePos()
	return pos.X - origin.X, pos.Y - origin.Y, imgui.IsMouseDown(imgui.MouseButtonLeft)
}
