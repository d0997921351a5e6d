package mesh

import (
	"sort"

	"github.com/chewxy/math32"

	"github.com/Faultbox/polyview/pkg/math"
)

// Tetrahedron returns a regular tetrahedron inscribed in the unit sphere.
func Tetrahedron(color math.Vec3) *Mesh {
	return convexSolid([]math.Vec3{
		{X: 1, Y: 1, Z: 1},
		{X: 1, Y: -1, Z: -1},
		{X: -1, Y: 1, Z: -1},
		{X: -1, Y: -1, Z: 1},
	}, color)
}

// Octahedron returns a regular octahedron inscribed in the unit sphere.
func Octahedron(color math.Vec3) *Mesh {
	return convexSolid([]math.Vec3{
		{X: 1}, {X: -1},
		{Y: 1}, {Y: -1},
		{Z: 1}, {Z: -1},
	}, color)
}

// Icosahedron returns a regular icosahedron inscribed in the unit sphere.
func Icosahedron(color math.Vec3) *Mesh {
	return convexSolid(icosahedronVertices(), color)
}

// Dodecahedron returns a regular dodecahedron inscribed in the unit sphere,
// each pentagon fanned into five triangles around its center.
func Dodecahedron(color math.Vec3) *Mesh {
	ico := icosahedronVertices()
	faces := triangleFaces(ico)

	// Dodecahedron vertices are the icosahedron face centers; each icosahedron
	// vertex becomes one pentagonal face.
	m := &Mesh{}
	for vi, axis := range ico {
		var ring []math.Vec3
		for _, f := range faces {
			if f[0] == vi || f[1] == vi || f[2] == vi {
				ring = append(ring, ico[f[0]].Add(ico[f[1]]).Add(ico[f[2]]).Normalize())
			}
		}
		sortAround(ring, axis)

		center := math.Vec3{}
		for _, p := range ring {
			center = center.Add(p)
		}
		center = center.Scale(1 / float32(len(ring)))

		for k := range ring {
			a, b := ring[k], ring[(k+1)%len(ring)]
			m.appendOutward(center, a, b, color)
		}
	}
	return m
}

// Cube returns an axis-aligned unit cube centered at the origin with per-face normals.
func Cube(color math.Vec3) *Mesh {
	const h = 0.5
	m := &Mesh{}
	faces := []struct {
		normal math.Vec3
		u, v   math.Vec3
	}{
		{math.Vec3{Z: 1}, math.Vec3{X: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Z: -1}, math.Vec3{Y: 1}, math.Vec3{X: 1}},
		{math.Vec3{X: -1}, math.Vec3{Z: 1}, math.Vec3{Y: 1}},
		{math.Vec3{X: 1}, math.Vec3{Y: 1}, math.Vec3{Z: 1}},
		{math.Vec3{Y: 1}, math.Vec3{Z: 1}, math.Vec3{X: 1}},
		{math.Vec3{Y: -1}, math.Vec3{X: 1}, math.Vec3{Z: 1}},
	}
	for _, f := range faces {
		c := f.normal.Scale(h)
		p00 := c.Sub(f.u.Scale(h)).Sub(f.v.Scale(h))
		p10 := c.Add(f.u.Scale(h)).Sub(f.v.Scale(h))
		p11 := c.Add(f.u.Scale(h)).Add(f.v.Scale(h))
		p01 := c.Sub(f.u.Scale(h)).Add(f.v.Scale(h))
		for _, p := range []math.Vec3{p00, p10, p11, p00, p11, p01} {
			m.Vertices = append(m.Vertices, Vertex{Position: p, Normal: f.normal, Color: color})
		}
	}
	return m
}

func icosahedronVertices() []math.Vec3 {
	phi := (1 + math32.Sqrt(5)) / 2
	raw := []math.Vec3{
		{X: -1, Y: phi}, {X: 1, Y: phi}, {X: -1, Y: -phi}, {X: 1, Y: -phi},
		{Y: -1, Z: phi}, {Y: 1, Z: phi}, {Y: -1, Z: -phi}, {Y: 1, Z: -phi},
		{X: phi, Z: -1}, {X: phi, Z: 1}, {X: -phi, Z: -1}, {X: -phi, Z: 1},
	}
	for i := range raw {
		raw[i] = raw[i].Normalize()
	}
	return raw
}

// convexSolid triangulates a regular deltahedron whose vertices lie on a sphere around the origin.
func convexSolid(verts []math.Vec3, color math.Vec3) *Mesh {
	for i := range verts {
		verts[i] = verts[i].Normalize()
	}
	m := &Mesh{}
	for _, f := range triangleFaces(verts) {
		m.appendOutward(verts[f[0]], verts[f[1]], verts[f[2]], color)
	}
	return m
}

// triangleFaces finds every vertex triple whose three edges all have the solid's
// shortest edge length. For regular deltahedra these are exactly the faces.
func triangleFaces(verts []math.Vec3) [][3]int {
	edge := float32(-1)
	for i := range verts {
		for j := i + 1; j < len(verts); j++ {
			if d := verts[i].Distance(verts[j]); edge < 0 || d < edge {
				edge = d
			}
		}
	}

	isEdge := func(a, b int) bool {
		return math32.Abs(verts[a].Distance(verts[b])-edge) < 1e-4
	}

	var faces [][3]int
	for i := range verts {
		for j := i + 1; j < len(verts); j++ {
			if !isEdge(i, j) {
				continue
			}
			for k := j + 1; k < len(verts); k++ {
				if isEdge(j, k) && isEdge(i, k) {
					faces = append(faces, [3]int{i, j, k})
				}
			}
		}
	}
	return faces
}

// appendOutward appends a flat triangle wound so its face normal points away from the origin.
func (m *Mesh) appendOutward(a, b, c, color math.Vec3) {
	centroid := a.Add(b).Add(c)
	if FaceNormal(a, b, c).Dot(centroid) < 0 {
		b, c = c, b
	}
	m.appendFlat(a, b, c, color)
}

// sortAround orders points by angle around axis.
func sortAround(points []math.Vec3, axis math.Vec3) {
	ref := points[0].Sub(axis.Scale(points[0].Dot(axis))).Normalize()
	side := axis.Cross(ref)
	angle := func(p math.Vec3) float32 {
		return math32.Atan2(p.Dot(side), p.Dot(ref))
	}
	sort.Slice(points, func(i, j int) bool {
		return angle(points[i]) < angle(points[j])
	})
}
