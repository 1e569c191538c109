// Package camera provides the viewer's perspective camera.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// PerspectiveCamera looks down -Z from Position. Panning moves X/Y and
// zooming sets Z; the camera never rotates.
type PerspectiveCamera struct {
	Position mgl32.Vec3

	FOV    float32 // Vertical field of view, degrees
	Aspect float32
	Near   float32
	Far    float32
}

// NewPerspective creates a camera at the origin.
func NewPerspective(fovDeg, aspect, near, far float32) *PerspectiveCamera {
	return &PerspectiveCamera{
		FOV:    fovDeg,
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
}

// SetAspect updates the aspect ratio from a viewport size.
func (c *PerspectiveCamera) SetAspect(width, height int) {
	if width > 0 && height > 0 {
		c.Aspect = float32(width) / float32(height)
	}
}

// Pan moves the camera in its image plane.
func (c *PerspectiveCamera) Pan(dx, dy float32) {
	c.Position[0] += dx
	c.Position[1] += dy
}

// Zoom returns the camera's Z position.
func (c *PerspectiveCamera) Zoom() float32 {
	return c.Position[2]
}

// SetZoom sets the camera's Z position.
func (c *PerspectiveCamera) SetZoom(z float32) {
	c.Position[2] = z
}

// View returns the view matrix.
func (c *PerspectiveCamera) View() mgl32.Mat4 {
	p := c.Position
	return mgl32.LookAtV(p, p.Add(mgl32.Vec3{0, 0, -1}), mgl32.Vec3{0, 1, 0})
}

// Projection returns the projection matrix.
func (c *PerspectiveCamera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// ViewProjection returns Projection * View.
func (c *PerspectiveCamera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}
