package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVecNear(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v", i, got)
	}
}

func TestRegistryAddOverwrite(t *testing.T) {
	r := NewRegistry()

	first := &Object{}
	second := &Object{}
	other := &Object{}

	assert.Nil(t, r.Add("cube", first))
	assert.Nil(t, r.Add("cone", other))
	assert.Same(t, first, r.Add("cube", second))

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"cube", "cone"}, r.Names(), "overwrite keeps the display slot")

	got, ok := r.Get("cube")
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, "cube", got.Name)

	assert.True(t, r.Contains(second))
	assert.False(t, r.Contains(first), "replaced object is stale")
	assert.False(t, r.Contains(nil))
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	r.Add("a", &Object{})
	b := &Object{}
	r.Add("b", b)
	r.Add("c", &Object{})

	assert.True(t, r.Remove("b"))
	assert.Equal(t, []string{"a", "c"}, r.Names())
	assert.False(t, r.Contains(b))

	_, ok := r.Get("b")
	assert.False(t, ok)

	// Absent names are a safe no-op
	assert.False(t, r.Remove("b"))
	assert.False(t, r.Remove("never-added"))
	assert.Equal(t, 2, r.Len())
}

func TestRegistryObjectsMatchNames(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"x", "y", "z", "y"} {
		r.Add(name, &Object{})
	}
	r.Remove("x")

	names := r.Names()
	objs := r.Objects()
	require.Len(t, objs, len(names))
	for i, obj := range objs {
		assert.Equal(t, names[i], obj.Name)
	}

	// Returned slices are copies
	names[0] = "mutated"
	assert.Equal(t, "y", r.Names()[0])
}

func TestRegistryClear(t *testing.T) {
	r := NewRegistry()
	r.Add("a", &Object{})
	r.Add("b", &Object{})

	removed := r.Clear()
	assert.Len(t, removed, 2)
	assert.Zero(t, r.Len())
	assert.Empty(t, r.Objects())
}

func TestModelMatrix(t *testing.T) {
	obj := NewObject("o", nil, nil)
	require.NotNil(t, obj.Material)

	obj.Position = mgl32.Vec3{1, 2, -40}
	p := obj.ModelMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.Equal(t, mgl32.Vec4{1, 2, -40, 1}, p)

	// Rotating 90 degrees about Y maps +X to -Z
	obj.Position = mgl32.Vec3{}
	obj.Rotation = mgl32.Vec3{0, mgl32.DegToRad(90), 0}
	v := obj.ModelMatrix().Mul4x1(mgl32.Vec4{1, 0, 0, 0}).Vec3()
	assertVecNear(t, mgl32.Vec3{0, 0, -1}, v, 1e-5)
}

func TestSceneMatrix(t *testing.T) {
	s := New()
	assert.Equal(t, mgl32.Ident4(), s.Matrix())

	s.Rotation[0] = mgl32.DegToRad(90)
	v := s.Matrix().Mul4x1(mgl32.Vec4{0, 1, 0, 0}).Vec3()
	assertVecNear(t, mgl32.Vec3{0, 0, 1}, v, 1e-5)

	obj := NewObject("o", nil, nil)
	obj.Position = mgl32.Vec3{0, 0, -40}
	w := s.WorldMatrix(obj).Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	assertVecNear(t, mgl32.Vec3{0, 40, 0}, w, 1e-4)
}
