package picking

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshview/internal/engine/camera"
	"github.com/Faultbox/meshview/internal/engine/mesh"
	"github.com/Faultbox/meshview/internal/engine/scene"
)

func assertVecNear(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v", i, got)
	}
}

// quad returns a 2x2 square in the XY plane facing +Z.
func quad() *mesh.Geometry {
	p := []mgl32.Vec3{
		{-1, -1, 0}, {1, -1, 0}, {1, 1, 0},
		{-1, -1, 0}, {1, 1, 0}, {-1, 1, 0},
	}
	n := make([]mgl32.Vec3, len(p))
	for i := range n {
		n[i] = mgl32.Vec3{0, 0, 1}
	}
	return &mesh.Geometry{Positions: p, Normals: n, Min: mgl32.Vec3{-1, -1, 0}, Max: mgl32.Vec3{1, 1, 0}}
}

func defaultCamera() *camera.PerspectiveCamera {
	c := camera.NewPerspective(70, 1, 1, 1000)
	c.SetZoom(1)
	return c
}

func centerRay(c *camera.PerspectiveCamera) Ray {
	return RayFromNDC(0, 0, c.ViewProjection().Inv())
}

func TestNDC(t *testing.T) {
	tests := []struct {
		x, y         float32
		wantX, wantY float32
	}{
		{0, 0, -1, 1},
		{800, 600, 1, -1},
		{400, 300, 0, 0},
		{600, 150, 0.5, 0.5},
	}

	for _, tt := range tests {
		x, y := NDC(tt.x, tt.y, 800, 600)
		if x != tt.wantX || y != tt.wantY {
			t.Errorf("NDC(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, x, y, tt.wantX, tt.wantY)
		}
	}
}

func TestRayFromNDC(t *testing.T) {
	r := centerRay(defaultCamera())

	assertVecNear(t, mgl32.Vec3{0, 0, 0}, r.Origin, 1e-3)
	assertVecNear(t, mgl32.Vec3{0, 0, -1}, r.Direction, 1e-4)

	// Off-center rays lean toward their side of the screen
	sr := ScreenToRay(800, 0, 800, 600, defaultCamera().ViewProjection().Inv())
	assert.Greater(t, sr.Direction[0], float32(0))
	assert.Greater(t, sr.Direction[1], float32(0))
	assert.InDelta(t, 1, sr.Direction.Len(), 1e-5)
}

func TestIntersectAABB(t *testing.T) {
	box := AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}

	tests := []struct {
		name  string
		ray   Ray
		wantT float32
		hit   bool
	}{
		{"straight on", Ray{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}}, 4, true},
		{"from inside", Ray{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}}, 1, true},
		{"pointing away", Ray{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 1}}, 0, false},
		{"parallel outside", Ray{mgl32.Vec3{0, 2, 5}, mgl32.Vec3{0, 0, -1}}, 0, false},
		{"diagonal miss", Ray{mgl32.Vec3{3, 0, 5}, mgl32.Vec3{0, 1, 0}}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.IntersectAABB(box)
			assert.Equal(t, tt.hit, hit)
			if tt.hit {
				assert.InDelta(t, tt.wantT, got, 1e-6)
			}
		})
	}
}

func TestIntersectTriangle(t *testing.T) {
	a, b, c := mgl32.Vec3{-1, -1, 0}, mgl32.Vec3{1, -1, 0}, mgl32.Vec3{0, 1, 0}

	front := Ray{mgl32.Vec3{0, 0, 3}, mgl32.Vec3{0, 0, -1}}
	tv, ok := front.IntersectTriangle(a, b, c, true)
	require.True(t, ok)
	assert.InDelta(t, 3, tv, 1e-6)

	back := Ray{mgl32.Vec3{0, 0, -3}, mgl32.Vec3{0, 0, 1}}
	_, ok = back.IntersectTriangle(a, b, c, true)
	assert.False(t, ok, "back face is culled")
	tv, ok = back.IntersectTriangle(a, b, c, false)
	require.True(t, ok)
	assert.InDelta(t, 3, tv, 1e-6)

	outside := Ray{mgl32.Vec3{5, 5, 3}, mgl32.Vec3{0, 0, -1}}
	_, ok = outside.IntersectTriangle(a, b, c, false)
	assert.False(t, ok)

	behind := Ray{mgl32.Vec3{0, 0, -3}, mgl32.Vec3{0, 0, -1}}
	_, ok = behind.IntersectTriangle(a, b, c, false)
	assert.False(t, ok)

	parallel := Ray{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}}
	_, ok = parallel.IntersectTriangle(a, b, c, false)
	assert.False(t, ok)
}

func TestPickNearest(t *testing.T) {
	sc := scene.New()

	far := scene.NewObject("far", quad(), nil)
	far.Position = mgl32.Vec3{0, 0, -40}
	near := scene.NewObject("near", quad(), nil)
	near.Position = mgl32.Vec3{0, 0, -20}
	sc.Objects.Add("far", far)
	sc.Objects.Add("near", near)

	hit := Pick(centerRay(defaultCamera()), sc)
	require.NotNil(t, hit)
	assert.Same(t, near, hit.Object)
	assert.InDelta(t, 20, hit.Distance, 1e-2)
	assert.InDelta(t, -20, hit.Point[2], 1e-2)

	sc.Objects.Remove("near")
	hit = Pick(centerRay(defaultCamera()), sc)
	require.NotNil(t, hit)
	assert.Same(t, far, hit.Object)
	assert.InDelta(t, 40, hit.Distance, 1e-2)
}

func TestPickEmptySpace(t *testing.T) {
	sc := scene.New()
	obj := scene.NewObject("cube", quad(), nil)
	obj.Position = mgl32.Vec3{30, 0, -40}
	sc.Objects.Add("cube", obj)

	assert.Nil(t, Pick(centerRay(defaultCamera()), sc))
	assert.Nil(t, Pick(centerRay(defaultCamera()), scene.New()))
}

func TestPickHonorsTransforms(t *testing.T) {
	sc := scene.New()
	obj := scene.NewObject("q", quad(), nil)
	obj.Position = mgl32.Vec3{0, 0, -40}
	sc.Objects.Add("q", obj)

	// Turned away from the camera, only the back face is visible
	obj.Rotation[1] = math.Pi
	assert.Nil(t, Pick(centerRay(defaultCamera()), sc))

	// Panning the camera off the object misses it
	obj.Rotation[1] = 0
	cam := defaultCamera()
	cam.Pan(5, 0)
	assert.Nil(t, Pick(centerRay(cam), sc))

	// Moving the object under the panned camera hits again
	obj.Position[0] = 5
	assert.NotNil(t, Pick(centerRay(cam), sc))
}
