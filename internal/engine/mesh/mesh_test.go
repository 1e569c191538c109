package mesh

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshview/pkg/formats"
)

func vecNear(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-5, "component %d of %v", i, got)
	}
}

func TestFromSTLKeepsStoredNormals(t *testing.T) {
	s := &formats.STL{
		Name: "tri",
		Triangles: []formats.STLTriangle{{
			Normal:   [3]float32{0, 0, 1.2}, // rescaled, not recomputed
			Vertices: [3][3]float32{{0, 0, 0}, {0, 1, 0}, {1, 0, 0}},
		}},
	}

	g, err := FromSTL(s)
	require.NoError(t, err)

	assert.Equal(t, "tri", g.Name)
	assert.Equal(t, 1, g.TriangleCount())
	assert.Equal(t, 3, g.VertexCount())
	for _, n := range g.Normals {
		vecNear(t, mgl32.Vec3{0, 0, 1}, n)
	}
}

func TestFromSTLComputesZeroNormals(t *testing.T) {
	s := &formats.STL{
		Triangles: []formats.STLTriangle{{
			Vertices: [3][3]float32{{0, 0, 0}, {0, 1, 0}, {1, 0, 0}}, // clockwise from +Z
		}},
	}

	g, err := FromSTL(s)
	require.NoError(t, err)
	vecNear(t, mgl32.Vec3{0, 0, -1}, g.Normals[0])
}

func TestFromSTLEmpty(t *testing.T) {
	_, err := FromSTL(&formats.STL{})
	assert.ErrorIs(t, err, ErrNoTriangles)
}

func TestBounds(t *testing.T) {
	s := &formats.STL{
		Triangles: []formats.STLTriangle{
			{Vertices: [3][3]float32{{-1, 0, 0}, {1, 0, 0}, {0, 2, 0}}},
			{Vertices: [3][3]float32{{0, 0, -3}, {0, 0, 3}, {0, -2, 0}}},
		},
	}

	g, err := FromSTL(s)
	require.NoError(t, err)

	assert.Equal(t, mgl32.Vec3{-1, -2, -3}, g.Min)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, g.Max)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, g.Center())
	assert.Equal(t, mgl32.Vec3{2, 4, 6}, g.Size())

	a, b, c := g.Triangle(1)
	assert.Equal(t, mgl32.Vec3{0, 0, -3}, a)
	assert.Equal(t, mgl32.Vec3{0, 0, 3}, b)
	assert.Equal(t, mgl32.Vec3{0, -2, 0}, c)
}

func TestFaceNormalDegenerate(t *testing.T) {
	p := mgl32.Vec3{1, 1, 1}
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, FaceNormal(p, p, p))
}

func TestInterleaved(t *testing.T) {
	g := &Geometry{
		Positions: []mgl32.Vec3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}},
		Normals:   []mgl32.Vec3{{0, 0, 1}, {0, 1, 0}, {1, 0, 0}},
	}

	assert.Equal(t, []float32{
		1, 2, 3, 0, 0, 1,
		4, 5, 6, 0, 1, 0,
		7, 8, 9, 1, 0, 0,
	}, g.Interleaved())
}

func TestParse(t *testing.T) {
	data := make([]byte, 84+50)
	binary.LittleEndian.PutUint32(data[80:], 1)
	verts := []float32{0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0}
	for i, f := range verts {
		binary.LittleEndian.PutUint32(data[84+4*i:], math.Float32bits(f))
	}

	g, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, 1, g.TriangleCount())

	_, err = Parse([]byte("solid broken\nfacet normal x"))
	assert.Error(t, err)
}

func TestNewNormalMaterial(t *testing.T) {
	m := NewNormalMaterial()
	assert.False(t, m.Wireframe)
}
