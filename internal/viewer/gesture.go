package viewer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/picking"
	"github.com/Faultbox/meshview/internal/engine/scene"
)

// GestureState is the phase of the current touch gesture.
type GestureState int

const (
	Idle GestureState = iota
	DraggingCamera
	DraggingObject
)

// String returns a human-readable state name.
func (s GestureState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case DraggingCamera:
		return "DraggingCamera"
	case DraggingObject:
		return "DraggingObject"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Gesture is the touch state machine. Object is set only while State is
// DraggingObject.
type Gesture struct {
	State  GestureState
	Object *scene.Object

	lastX, lastY float32
}

// Gesture returns a copy of the current gesture.
func (v *Viewer) Gesture() Gesture {
	return v.gesture
}

// Active returns the object being dragged, or nil.
func (v *Viewer) Active() *scene.Object {
	if v.gesture.State == DraggingObject {
		return v.gesture.Object
	}
	return nil
}

// TouchStart begins a gesture at viewport pixel (x, y). A mesh under the
// point becomes the drag target; otherwise the gesture pans the camera.
func (v *Viewer) TouchStart(x, y float32) {
	ray := picking.ScreenToRay(x, y, float32(v.width), float32(v.height), v.camera.ViewProjection().Inv())

	if hit := picking.Pick(ray, v.scene); hit != nil {
		v.gesture = Gesture{State: DraggingObject, Object: hit.Object}
		v.log.Debug("touch start on object",
			zap.String("name", hit.Object.Name),
			zap.Float32("distance", hit.Distance))
	} else {
		v.gesture = Gesture{State: DraggingCamera}
	}
	v.gesture.lastX, v.gesture.lastY = x, y
}

// TouchMove applies the delta from the previous touch point. Dragging an
// object rotates it; dragging empty space pans the camera.
func (v *Viewer) TouchMove(x, y float32) {
	dx := v.gesture.lastX - x
	dy := v.gesture.lastY - y

	switch v.gesture.State {
	case Idle:
		return
	case DraggingObject:
		rot := v.cfg.Viewer.RotationSoftenFactor
		v.gesture.Object.Rotation[0] += dy / rot
		v.gesture.Object.Rotation[1] += dx / rot
	case DraggingCamera:
		move := v.cfg.Viewer.MovementSoftenFactor
		v.camera.Pan(dx/move, -dy/move)
	}

	v.gesture.lastX, v.gesture.lastY = x, y
	v.Render()
}

// TouchEnd finishes the gesture.
func (v *Viewer) TouchEnd() {
	v.gesture = Gesture{State: Idle}
}

// pruneRefs ends a drag and clears the selection when their object is no
// longer registered.
func (v *Viewer) pruneRefs() {
	if v.gesture.State == DraggingObject && !v.scene.Objects.Contains(v.gesture.Object) {
		v.gesture = Gesture{State: Idle}
	}
	if v.selected != nil && !v.scene.Objects.Contains(v.selected) {
		v.selected = nil
	}
}
