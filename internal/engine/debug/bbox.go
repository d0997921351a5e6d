// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/Faultbox/polyview/internal/engine/renderer"
	"github.com/Faultbox/polyview/pkg/math"
	"github.com/Faultbox/polyview/pkg/mesh"
)

// BBoxLineVertexCount is the number of vertices for a bbox wireframe (12 edges x 2).
const BBoxLineVertexCount = 24

// AxisLineVertexCount is the number of vertices Axes returns.
const AxisLineVertexCount = 6

// Axes returns the world X, Y and Z axes from the origin, colored red, green and blue.
func Axes(length float32) []renderer.LineVertex {
	red := math.Vec3{X: 1}
	green := math.Vec3{Y: 1}
	blue := math.Vec3{Z: 1}
	return []renderer.LineVertex{
		{Position: math.Vec3{}, Color: red}, {Position: math.Vec3{X: length}, Color: red},
		{Position: math.Vec3{}, Color: green}, {Position: math.Vec3{Y: length}, Color: green},
		{Position: math.Vec3{}, Color: blue}, {Position: math.Vec3{Z: length}, Color: blue},
	}
}

// BoundsLines creates line vertices for a wireframe bounding box, expanded by
// padding on every side.
func BoundsLines(b mesh.Bounds, padding float32, color math.Vec3) []renderer.LineVertex {
	lo := b.Min.Sub(math.Splat(padding))
	hi := b.Max.Add(math.Splat(padding))

	corner := func(x, y, z bool) math.Vec3 {
		c := lo
		if x {
			c.X = hi.X
		}
		if y {
			c.Y = hi.Y
		}
		if z {
			c.Z = hi.Z
		}
		return c
	}

	edges := [12][2]math.Vec3{
		// Bottom face
		{corner(false, false, false), corner(true, false, false)},
		{corner(true, false, false), corner(true, false, true)},
		{corner(true, false, true), corner(false, false, true)},
		{corner(false, false, true), corner(false, false, false)},
		// Top face
		{corner(false, true, false), corner(true, true, false)},
		{corner(true, true, false), corner(true, true, true)},
		{corner(true, true, true), corner(false, true, true)},
		{corner(false, true, true), corner(false, true, false)},
		// Vertical edges
		{corner(false, false, false), corner(false, true, false)},
		{corner(true, false, false), corner(true, true, false)},
		{corner(true, false, true), corner(true, true, true)},
		{corner(false, false, true), corner(false, true, true)},
	}

	out := make([]renderer.LineVertex, 0, BBoxLineVertexCount)
	for _, e := range edges {
		out = append(out,
			renderer.LineVertex{Position: e[0], Color: color},
			renderer.LineVertex{Position: e[1], Color: color},
		)
	}
	return out
}
