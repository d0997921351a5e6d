// Package mesh provides flat triangle-list meshes, a text mesh loader,
// built-in convex solids and icosphere-style subdivision.
package mesh

import (
	"errors"

	"github.com/Faultbox/polyview/pkg/math"
)

// ErrNotTriangles is returned when a vertex list is not a whole number of triangles.
var ErrNotTriangles = errors.New("mesh: vertex count is not a multiple of 3")

// FloatsPerVertex is the interleaved layout size: position, normal, color.
const FloatsPerVertex = 9

// Vertex is a mesh vertex with position, normal and color.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	Color    math.Vec3
}

// Mesh is a flat triangle list: every 3 consecutive vertices form one triangle.
type Mesh struct {
	Vertices []Vertex
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Len returns the number of vertices.
func (m *Mesh) Len() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of whole triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Vertices) / 3
}

// Validate checks that the vertex count is a multiple of 3.
func (m *Mesh) Validate() error {
	if len(m.Vertices)%3 != 0 {
		return ErrNotTriangles
	}
	return nil
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{Vertices: make([]Vertex, len(m.Vertices))}
	copy(out.Vertices, m.Vertices)
	return out
}

// SetColor paints every vertex with c.
func (m *Mesh) SetColor(c math.Vec3) {
	for i := range m.Vertices {
		m.Vertices[i].Color = c
	}
}

// Bounds returns the bounding box of all vertex positions.
func (m *Mesh) Bounds() Bounds {
	if len(m.Vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: m.Vertices[0].Position, Max: m.Vertices[0].Position}
	for _, v := range m.Vertices[1:] {
		p := v.Position
		b.Min = math.Vec3{X: min(b.Min.X, p.X), Y: min(b.Min.Y, p.Y), Z: min(b.Min.Z, p.Z)}
		b.Max = math.Vec3{X: max(b.Max.X, p.X), Y: max(b.Max.Y, p.Y), Z: max(b.Max.Z, p.Z)}
	}
	return b
}

// Interleave packs the vertices as position, normal, color float triples for GPU upload.
func (m *Mesh) Interleave() []float32 {
	out := make([]float32, 0, len(m.Vertices)*FloatsPerVertex)
	for _, v := range m.Vertices {
		out = append(out,
			v.Position.X, v.Position.Y, v.Position.Z,
			v.Normal.X, v.Normal.Y, v.Normal.Z,
			v.Color.X, v.Color.Y, v.Color.Z,
		)
	}
	return out
}

// FaceNormal returns the flat normal of triangle (a, b, c): normalize((b-a) x (c-b)).
func FaceNormal(a, b, c math.Vec3) math.Vec3 {
	return b.Sub(a).Cross(c.Sub(b)).Normalize()
}

// appendFlat appends a triangle with its face normal on all three corners.
func (m *Mesh) appendFlat(a, b, c, color math.Vec3) {
	n := FaceNormal(a, b, c)
	m.Vertices = append(m.Vertices,
		Vertex{Position: a, Normal: n, Color: color},
		Vertex{Position: b, Normal: n, Color: color},
		Vertex{Position: c, Normal: n, Color: color},
	)
}
