// Package viewer is the application core: it owns the camera, the scene, the
// selection and the touch gesture, and turns UI events into scene changes.
//
// A Viewer is not safe for concurrent use. Every exported method except Post
// must be called from the main (UI) thread; background fetches hand their
// results back through Post and Pump.
package viewer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/assets"
	"github.com/Faultbox/meshview/internal/catalog"
	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/camera"
	"github.com/Faultbox/meshview/internal/engine/mesh"
	"github.com/Faultbox/meshview/internal/engine/scene"
	"github.com/Faultbox/meshview/internal/logger"
)

// Renderer draws the scene. Release frees GPU resources held for geometry
// that left the scene.
type Renderer interface {
	Render(cam *camera.PerspectiveCamera, sc *scene.Scene)
	Release(g *mesh.Geometry)
}

// Alerter shows a blocking error to the user.
type Alerter interface {
	Alert(err error)
}

// AlerterFunc adapts a function to Alerter.
type AlerterFunc func(err error)

// Alert calls f(err).
func (f AlerterFunc) Alert(err error) { f(err) }

// ErrMissingSource is returned by New when no asset source is given.
var ErrMissingSource = errors.New("viewer: asset source is required")

// Options configures a Viewer.
type Options struct {
	Config   *config.Config
	Source   assets.Source
	Renderer Renderer // nil draws nothing
	Alerter  Alerter  // nil logs alerts only
}

// Axis selects a vector component.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// MenuItem is one row of the loaded-objects menu.
type MenuItem struct {
	Name     string
	Selected bool
}

// Viewer is the application context.
type Viewer struct {
	cfg      *config.Config
	src      assets.Source
	renderer Renderer
	alerter  Alerter
	log      *zap.Logger

	width, height int

	camera  *camera.PerspectiveCamera
	scene   *scene.Scene
	catalog *catalog.Menu

	selected   *scene.Object
	gesture    Gesture
	objectMenu []MenuItem

	ctx      context.Context
	cancel   context.CancelFunc
	queue    *taskQueue
	inflight map[string]*loadRequest
	nextID   uint64

	catalogReq     *catalogRequest
	catalogPending int
	frames         uint64
	closed         bool
}

// New validates the config and builds a viewer with an empty scene.
func New(opts Options) (*Viewer, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}
	if opts.Source == nil {
		return nil, ErrMissingSource
	}

	cfg := opts.Config
	w, h := cfg.ViewportSize()

	cam := camera.NewPerspective(cfg.Viewer.FOV, float32(w)/float32(h), cfg.Viewer.Near, cfg.Viewer.Far)
	cam.SetZoom(cfg.Viewer.CameraZ)

	ctx, cancel := context.WithCancel(context.Background())
	v := &Viewer{
		cfg:      cfg,
		src:      opts.Source,
		renderer: opts.Renderer,
		alerter:  opts.Alerter,
		log:      logger.Named("viewer"),
		width:    w,
		height:   h,
		camera:   cam,
		scene:    scene.New(),
		catalog:  catalog.NewMenu(),
		ctx:      ctx,
		cancel:   cancel,
		queue:    newTaskQueue(),
		inflight: make(map[string]*loadRequest),
	}
	return v, nil
}

// Config returns the viewer's configuration.
func (v *Viewer) Config() *config.Config { return v.cfg }

// Camera returns the camera.
func (v *Viewer) Camera() *camera.PerspectiveCamera { return v.camera }

// Scene returns the scene.
func (v *Viewer) Scene() *scene.Scene { return v.scene }

// Catalog returns the manifest menu.
func (v *Viewer) Catalog() *catalog.Menu { return v.catalog }

// Frames returns how many times Render has run.
func (v *Viewer) Frames() uint64 { return v.frames }

// Viewport returns the scene viewport size in pixels.
func (v *Viewer) Viewport() (width, height int) { return v.width, v.height }

// SetViewport changes the viewport size used for picking and the camera
// aspect, then renders.
func (v *Viewer) SetViewport(width, height int) {
	if width <= 0 || height <= 0 || (width == v.width && height == v.height) {
		return
	}
	v.width, v.height = width, height
	v.camera.SetAspect(width, height)
	v.Render()
}

// Render redraws the whole scene. There is no dirty tracking: every call
// draws a full frame.
func (v *Viewer) Render() {
	v.frames++
	if v.renderer != nil {
		v.renderer.Render(v.camera, v.scene)
	}
}

// Select highlights the named object in the menu and makes it the target of
// the position inputs. It returns false if no such object exists.
func (v *Viewer) Select(name string) bool {
	obj, ok := v.scene.Objects.Get(name)
	if !ok {
		return false
	}
	v.selected = obj
	v.rebuildObjectMenu()
	return true
}

// Deselect clears the selection.
func (v *Viewer) Deselect() {
	v.selected = nil
	v.rebuildObjectMenu()
}

// Selected returns the selected object, or nil.
func (v *Viewer) Selected() *scene.Object {
	return v.selected
}

// Remove deletes the named object from the scene. Selection and drag
// references to it are cleared and its GPU buffers released. Removing an
// unknown name does nothing and returns false.
func (v *Viewer) Remove(name string) bool {
	obj, ok := v.scene.Objects.Get(name)
	if !ok {
		return false
	}
	v.scene.Objects.Remove(name)
	v.pruneRefs()
	v.release(obj)
	v.rebuildObjectMenu()
	v.log.Info("object removed", zap.String("name", name))
	v.Render()
	return true
}

// ObjectMenu returns the loaded-objects menu in registry order.
func (v *Viewer) ObjectMenu() []MenuItem {
	out := make([]MenuItem, len(v.objectMenu))
	copy(out, v.objectMenu)
	return out
}

func (v *Viewer) rebuildObjectMenu() {
	v.objectMenu = v.objectMenu[:0]
	for _, obj := range v.scene.Objects.Objects() {
		v.objectMenu = append(v.objectMenu, MenuItem{Name: obj.Name, Selected: obj == v.selected})
	}
}

// SetZoom sets the camera Z position.
func (v *Viewer) SetZoom(z float32) {
	v.camera.SetZoom(z)
	v.Render()
}

// SetObjectPosition sets one coordinate of the selected object. Without a
// selection it does nothing and returns false.
func (v *Viewer) SetObjectPosition(axis Axis, value float32) bool {
	if v.selected == nil || axis < AxisX || axis > AxisZ {
		return false
	}
	v.selected.Position[axis] = value
	v.Render()
	return true
}

// SetSceneRotation sets a root rotation angle from a slider value in
// softened units: the angle becomes value / rotation soften factor.
func (v *Viewer) SetSceneRotation(axis Axis, value float32) {
	if axis < AxisX || axis > AxisZ {
		return
	}
	v.scene.Rotation[axis] = value / v.cfg.Viewer.RotationSoftenFactor
	v.Render()
}

// SceneRotationInput returns the slider value matching the current root
// rotation about axis.
func (v *Viewer) SceneRotationInput(axis Axis) float32 {
	if axis < AxisX || axis > AxisZ {
		return 0
	}
	return v.scene.Rotation[axis] * v.cfg.Viewer.RotationSoftenFactor
}

// Close cancels outstanding fetches, drops queued work and releases every
// object's GPU buffers.
func (v *Viewer) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.cancel()
	v.queue.close()
	for name, req := range v.inflight {
		req.cancel()
		delete(v.inflight, name)
	}
	if v.catalogReq != nil {
		v.catalogReq.cancel()
		v.catalogReq = nil
	}
	v.catalogPending = 0
	for _, obj := range v.scene.Objects.Clear() {
		v.release(obj)
	}
	v.selected = nil
	v.gesture = Gesture{State: Idle}
	v.objectMenu = nil
}

func (v *Viewer) release(obj *scene.Object) {
	if v.renderer != nil && obj.Geometry != nil {
		v.renderer.Release(obj.Geometry)
	}
}

func (v *Viewer) alert(err error) {
	v.log.Warn("alert", zap.Error(err))
	if v.alerter != nil {
		v.alerter.Alert(err)
	}
}
