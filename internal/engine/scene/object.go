package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/internal/engine/mesh"
)

// Object is a named mesh placed in the scene.
type Object struct {
	Name     string
	Position mgl32.Vec3
	Rotation mgl32.Vec3 // Euler angles in radians, applied X then Y then Z

	Geometry *mesh.Geometry
	Material *mesh.NormalMaterial
}

// NewObject wraps geometry with the given material at the origin.
func NewObject(name string, g *mesh.Geometry, m *mesh.NormalMaterial) *Object {
	if m == nil {
		m = mesh.NewNormalMaterial()
	}
	return &Object{Name: name, Geometry: g, Material: m}
}

// ModelMatrix returns T * Rx * Ry * Rz.
func (o *Object) ModelMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(o.Position[0], o.Position[1], o.Position[2]).
		Mul4(eulerXYZ(o.Rotation))
}

func eulerXYZ(r mgl32.Vec3) mgl32.Mat4 {
	return mgl32.HomogRotate3DX(r[0]).
		Mul4(mgl32.HomogRotate3DY(r[1])).
		Mul4(mgl32.HomogRotate3DZ(r[2]))
}
