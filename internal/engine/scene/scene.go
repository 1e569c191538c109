// Package scene holds the viewer's scene graph: a root rotation applied to a
// flat, name-keyed list of mesh objects.
package scene

import "github.com/go-gl/mathgl/mgl32"

// Scene is the root node.
type Scene struct {
	Rotation mgl32.Vec3 // Root Euler angles in radians
	Objects  *Registry
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{Objects: NewRegistry()}
}

// Matrix returns the root transform.
func (s *Scene) Matrix() mgl32.Mat4 {
	return eulerXYZ(s.Rotation)
}

// WorldMatrix returns an object's transform including the root.
func (s *Scene) WorldMatrix(obj *Object) mgl32.Mat4 {
	return s.Matrix().Mul4(obj.ModelMatrix())
}
