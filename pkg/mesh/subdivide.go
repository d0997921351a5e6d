package mesh

import (
	"fmt"

	"github.com/Faultbox/polyview/pkg/math"
)

// Stats reports what a subdivision pass did.
type Stats struct {
	Split   int // triangles replaced by four
	Skipped int // degenerate triangles copied through unchanged
}

// Subdivide splits every triangle of m into four, pushing the new edge midpoints onto the
// ellipsoid with per-axis radii axisScale. m is not modified.
//
// Degenerate triangles (a zero-length edge, a corner at the origin, an edge whose
// midpoint lies at the origin, or a NaN or infinite corner) cannot be projected and are
// copied through unsplit. Lengths count as zero below math.Epsilon times the length of
// the triangle's farthest corner.
func Subdivide(m *Mesh, axisScale math.Vec3) (*Mesh, error) {
	out, _, err := SubdivideStats(m, axisScale)
	return out, err
}

// SubdivideStats is Subdivide that also reports how many triangles were split.
func SubdivideStats(m *Mesh, axisScale math.Vec3) (*Mesh, Stats, error) {
	var stats Stats
	if err := m.Validate(); err != nil {
		return nil, stats, fmt.Errorf("subdivide %d vertices: %w", m.Len(), err)
	}

	out := &Mesh{Vertices: make([]Vertex, 0, len(m.Vertices)*4)}
	for i := 0; i < len(m.Vertices); i += 3 {
		tri := m.Vertices[i : i+3]
		if degenerate(tri[0].Position, tri[1].Position, tri[2].Position) {
			out.Vertices = append(out.Vertices, tri...)
			stats.Skipped++
			continue
		}
		out.Vertices = splitTriangle(out.Vertices, tri, axisScale)
		stats.Split++
	}
	return out, stats, nil
}

// SubdivideN applies Subdivide n times.
func SubdivideN(m *Mesh, axisScale math.Vec3, n int) (*Mesh, error) {
	cur := m
	for i := 0; i < n; i++ {
		next, err := Subdivide(cur, axisScale)
		if err != nil {
			return nil, fmt.Errorf("pass %d: %w", i+1, err)
		}
		cur = next
	}
	if cur == m {
		return m.Clone(), nil
	}
	return cur, nil
}

// splitTriangle appends the 1-to-4 split of tri: three corner triangles then the center one.
func splitTriangle(dst []Vertex, tri []Vertex, axisScale math.Vec3) []Vertex {
	v0, v1, v2 := tri[0].Position, tri[1].Position, tri[2].Position
	color := tri[0].Color

	mid01 := axisScale.Mul(v0.Add(v1).Scale(0.5).Normalize())
	mid12 := axisScale.Mul(v1.Add(v2).Scale(0.5).Normalize())
	mid20 := axisScale.Mul(v2.Add(v0).Scale(0.5).Normalize())

	n0 := v0.Normalize()
	n1 := v1.Normalize()
	n2 := v2.Normalize()

	nMid01 := axisScale.Mul(n0.Add(n1).Normalize()).Normalize()
	nMid12 := axisScale.Mul(n1.Add(n2).Normalize()).Normalize()
	nMid20 := axisScale.Mul(n2.Add(n0).Normalize()).Normalize()

	a := Vertex{Position: mid01, Normal: nMid01, Color: color}
	b := Vertex{Position: mid12, Normal: nMid12, Color: color}
	c := Vertex{Position: mid20, Normal: nMid20, Color: color}

	return append(dst,
		Vertex{Position: v0, Normal: n0, Color: color}, a, c,
		Vertex{Position: v1, Normal: n1, Color: color}, a, b,
		Vertex{Position: v2, Normal: n2, Color: color}, b, c,
		a, b, c,
	)
}

func degenerate(v0, v1, v2 math.Vec3) bool {
	if !v0.IsFinite() || !v1.IsFinite() || !v2.IsFinite() {
		return true
	}

	// Tolerances scale with the triangle.
	tol := math.Epsilon * max(v0.Length(), v1.Length(), v2.Length())
	short := func(v math.Vec3) bool {
		return v.Length() <= tol
	}
	if short(v0) || short(v1) || short(v2) {
		return true
	}
	if short(v1.Sub(v0)) || short(v2.Sub(v1)) || short(v0.Sub(v2)) {
		return true
	}
	if short(v0.Add(v1)) || short(v1.Add(v2)) || short(v2.Add(v0)) {
		return true
	}
	n0, n1, n2 := v0.Normalize(), v1.Normalize(), v2.Normalize()
	return n0.Add(n1).IsZero() || n1.Add(n2).IsZero() || n2.Add(n0).IsZero()
}
