package picking

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/internal/engine/scene"
)

// Hit is the result of a successful pick.
type Hit struct {
	Object   *scene.Object
	Distance float32 // Along the world-space ray
	Point    mgl32.Vec3
}

// Pick returns the nearest object hit by a world-space ray, or nil.
// Each object is tested in its own local space: bounding box first, then
// its front-facing triangles.
func Pick(ray Ray, sc *scene.Scene) *Hit {
	var best *Hit
	for _, obj := range sc.Objects.Objects() {
		if obj.Geometry == nil {
			continue
		}
		world := sc.WorldMatrix(obj)
		if world.Det() == 0 {
			continue
		}
		local := ray.Transform(world.Inv())

		t, ok := intersectGeometry(local, obj)
		if !ok {
			continue
		}
		if best == nil || t < best.Distance {
			best = &Hit{Object: obj, Distance: t, Point: ray.At(t)}
		}
	}
	return best
}

func intersectGeometry(r Ray, obj *scene.Object) (float32, bool) {
	g := obj.Geometry
	if _, ok := r.IntersectAABB(AABB{Min: g.Min, Max: g.Max}); !ok {
		return 0, false
	}

	nearest := float32(0)
	found := false
	for i := 0; i < g.TriangleCount(); i++ {
		a, b, c := g.Triangle(i)
		if t, ok := r.IntersectTriangle(a, b, c, true); ok && (!found || t < nearest) {
			nearest = t
			found = true
		}
	}
	return nearest, found
}
