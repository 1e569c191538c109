// Package mesh turns parsed model files into renderable geometry.
package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/pkg/formats"
)

// ErrNoTriangles is returned for geometry without any faces.
var ErrNoTriangles = errors.New("geometry has no triangles")

// Geometry is an unindexed triangle soup with per-vertex normals.
// Positions and Normals have three entries per triangle.
type Geometry struct {
	Name      string
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3

	// Local-space bounds
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// FromSTL builds geometry from a parsed STL. Facets whose stored normal is
// zero (or not unit length) get one computed from their winding.
func FromSTL(s *formats.STL) (*Geometry, error) {
	if len(s.Triangles) == 0 {
		return nil, ErrNoTriangles
	}

	g := &Geometry{
		Name:      s.Name,
		Positions: make([]mgl32.Vec3, 0, len(s.Triangles)*3),
		Normals:   make([]mgl32.Vec3, 0, len(s.Triangles)*3),
	}

	for _, tri := range s.Triangles {
		a := mgl32.Vec3(tri.Vertices[0])
		b := mgl32.Vec3(tri.Vertices[1])
		c := mgl32.Vec3(tri.Vertices[2])

		n := mgl32.Vec3(tri.Normal)
		if l := n.Len(); l < 0.5 || l > 1.5 {
			n = FaceNormal(a, b, c)
		} else {
			n = n.Mul(1 / l)
		}

		g.Positions = append(g.Positions, a, b, c)
		g.Normals = append(g.Normals, n, n, n)
	}

	g.computeBounds()
	return g, nil
}

// Parse parses STL bytes straight into geometry.
func Parse(data []byte) (*Geometry, error) {
	s, err := formats.ParseSTL(data)
	if err != nil {
		return nil, err
	}
	g, err := FromSTL(s)
	if err != nil {
		return nil, fmt.Errorf("building geometry: %w", err)
	}
	return g, nil
}

// FaceNormal returns the unit normal of a counter-clockwise triangle, or
// +Z for degenerate triangles.
func FaceNormal(a, b, c mgl32.Vec3) mgl32.Vec3 {
	n := b.Sub(a).Cross(c.Sub(a))
	if l := n.Len(); l > 1e-12 {
		return n.Mul(1 / l)
	}
	return mgl32.Vec3{0, 0, 1}
}

func (g *Geometry) computeBounds() {
	g.Min = g.Positions[0]
	g.Max = g.Positions[0]
	for _, p := range g.Positions[1:] {
		for i := 0; i < 3; i++ {
			if p[i] < g.Min[i] {
				g.Min[i] = p[i]
			}
			if p[i] > g.Max[i] {
				g.Max[i] = p[i]
			}
		}
	}
}

// TriangleCount returns the number of faces.
func (g *Geometry) TriangleCount() int {
	return len(g.Positions) / 3
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions)
}

// Triangle returns the corners of face i.
func (g *Geometry) Triangle(i int) (a, b, c mgl32.Vec3) {
	return g.Positions[3*i], g.Positions[3*i+1], g.Positions[3*i+2]
}

// Center returns the middle of the bounding box.
func (g *Geometry) Center() mgl32.Vec3 {
	return g.Min.Add(g.Max).Mul(0.5)
}

// Size returns the bounding box extents.
func (g *Geometry) Size() mgl32.Vec3 {
	return g.Max.Sub(g.Min)
}

// Interleaved packs position and normal per vertex (6 floats each) for
// upload into a single vertex buffer.
func (g *Geometry) Interleaved() []float32 {
	out := make([]float32, 0, len(g.Positions)*6)
	for i, p := range g.Positions {
		n := g.Normals[i]
		out = append(out, p[0], p[1], p[2], n[0], n[1], n[2])
	}
	return out
}
