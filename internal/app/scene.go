package app

import (
	"errors"
	"fmt"

	"github.com/Faultbox/polyview/internal/config"
	"github.com/Faultbox/polyview/pkg/math"
	"github.com/Faultbox/polyview/pkg/mesh"
)

// Mode is one of the numbered scenes selected with keys 1-7.
type Mode int

const (
	ModeSolids Mode = iota + 1
	ModeIcosahedron
	ModeStretched
	ModeSpheres
	ModeEllipsoid
	ModeDodecahedron
	ModeCity
)

// ErrInvalidMode is returned for modes outside 1..7.
var ErrInvalidMode = errors.New("invalid mode")

// Valid reports whether m names a scene.
func (m Mode) Valid() bool {
	return m >= ModeSolids && m <= ModeCity
}

// UsesFreeCamera reports whether the mode is viewed through the free camera
// rather than a keyframe track.
func (m Mode) UsesFreeCamera() bool {
	return m != ModeCity
}

func (m Mode) String() string {
	switch m {
	case ModeSolids:
		return "solids"
	case ModeIcosahedron:
		return "icosahedron"
	case ModeStretched:
		return "stretched icosahedron"
	case ModeSpheres:
		return "spheres"
	case ModeEllipsoid:
		return "ellipsoid"
	case ModeDodecahedron:
		return "dodecahedron"
	case ModeCity:
		return "city"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Scene colors.
var (
	SphereColor = math.Vec3{X: 1, Y: 0.5, Z: 0.31}
	BoxColor    = math.Vec3{Z: 1}
)

// Object is one mesh instance in a scene.
type Object struct {
	Name  string
	Mesh  *mesh.Mesh
	Model math.Mat4

	// Subdividable objects are split by the + key, projecting midpoints onto
	// the ellipsoid with radii AxisScale.
	Subdividable bool
	AxisScale    math.Vec3

	// Level counts subdivision passes since the mesh was built or loaded.
	Level int
	// Version increases whenever Mesh is replaced, so GPU copies know to re-upload.
	Version int
}

func (o *Object) replace(m *mesh.Mesh, level int) {
	o.Mesh = m
	o.Level = level
	o.Version++
}

// Scene is the content of one mode.
type Scene struct {
	Mode    Mode
	Objects []*Object

	// Axes is the length of the drawn world axes; zero hides them.
	Axes float32

	// Primary is the index of the object replaced by a loaded file and written
	// by export, or -1 when the scene has none.
	Primary int
}

// PrimaryObject returns the object targeted by load and export, or nil.
func (s *Scene) PrimaryObject() *Object {
	if s.Primary < 0 || s.Primary >= len(s.Objects) {
		return nil
	}
	return s.Objects[s.Primary]
}

// Sources holds the base meshes scenes are built from.
type Sources struct {
	Tetrahedron  *mesh.Mesh
	Octahedron   *mesh.Mesh
	Icosahedron  *mesh.Mesh
	Dodecahedron *mesh.Mesh

	// Stretched is the icosahedron with positions scaled by the ellipsoid radii.
	Stretched *mesh.Mesh
}

// LoadSources reads configured mesh files, falling back to the built-in solid
// for every empty path. A configured file that cannot be loaded is an error.
func LoadSources(files config.MeshFiles, ellipsoidScale math.Vec3) (Sources, error) {
	var src Sources
	var err error

	load := func(path string, scale math.Vec3, builtin func(math.Vec3) *mesh.Mesh) (*mesh.Mesh, error) {
		if path == "" {
			return scaled(builtin(mesh.DefaultColor), scale), nil
		}
		return mesh.LoadFile(path, mesh.LoadOptions{Scale: scale, Color: mesh.DefaultColor})
	}

	unit := math.Splat(1)
	if src.Tetrahedron, err = load(files.Tetrahedron, unit, mesh.Tetrahedron); err != nil {
		return src, err
	}
	if src.Octahedron, err = load(files.Octahedron, unit, mesh.Octahedron); err != nil {
		return src, err
	}
	if src.Icosahedron, err = load(files.Icosahedron, unit, mesh.Icosahedron); err != nil {
		return src, err
	}
	if src.Stretched, err = load(files.Icosahedron, ellipsoidScale, mesh.Icosahedron); err != nil {
		return src, err
	}
	if src.Dodecahedron, err = load(files.Dodecahedron, unit, mesh.Dodecahedron); err != nil {
		return src, err
	}
	return src, nil
}

// scaled multiplies positions component-wise and keeps normals, as the loader does.
func scaled(m *mesh.Mesh, s math.Vec3) *mesh.Mesh {
	if s == math.Splat(1) {
		return m
	}
	out := m.Clone()
	for i := range out.Vertices {
		out.Vertices[i].Position = out.Vertices[i].Position.Mul(s)
	}
	return out
}

// SceneOptions controls scene construction.
type SceneOptions struct {
	EllipsoidScale        math.Vec3
	SphereSubdivisions    int
	EllipsoidSubdivisions int
}

// BuildScenes creates the content of every mode.
func BuildScenes(src Sources, opts SceneOptions) (map[Mode]*Scene, error) {
	unit := math.Splat(1)

	sphere := func(level int) (*mesh.Mesh, error) {
		m, err := mesh.SubdivideN(src.Icosahedron, unit, level)
		if err != nil {
			return nil, fmt.Errorf("sphere level %d: %w", level, err)
		}
		m.SetColor(SphereColor)
		return m, nil
	}

	n := opts.SphereSubdivisions
	coarse, err := sphere(max(n-2, 0))
	if err != nil {
		return nil, err
	}
	medium, err := sphere(max(n-1, 0))
	if err != nil {
		return nil, err
	}
	fine, err := sphere(n)
	if err != nil {
		return nil, err
	}

	ellipsoid, err := mesh.SubdivideN(src.Stretched, opts.EllipsoidScale, opts.EllipsoidSubdivisions)
	if err != nil {
		return nil, fmt.Errorf("ellipsoid: %w", err)
	}
	ellipsoid.SetColor(SphereColor)

	cube := mesh.Cube(BoxColor)
	quarterTurn := math.RotateY(math.Radians(45))

	scenes := map[Mode]*Scene{
		ModeSolids: {
			Axes:    3,
			Primary: 0,
			Objects: []*Object{
				{Name: "tetrahedron", Mesh: src.Tetrahedron, Model: math.Translate(-2.5, 0, 0)},
				{Name: "octahedron", Mesh: src.Octahedron, Model: math.Identity()},
				{Name: "cube", Mesh: cube, Model: math.Translate(2.5, 0, 0).Mul(quarterTurn)},
			},
		},
		ModeIcosahedron: {
			Primary: 0,
			Objects: []*Object{
				{Name: "icosahedron", Mesh: src.Icosahedron, Model: math.Identity(), Subdividable: true, AxisScale: unit},
			},
		},
		ModeStretched: {
			Primary: 0,
			Objects: []*Object{
				{Name: "stretched icosahedron", Mesh: src.Stretched, Model: math.Identity(), Subdividable: true, AxisScale: opts.EllipsoidScale},
			},
		},
		ModeSpheres: {
			Primary: -1,
			Objects: []*Object{
				{Name: "coarse sphere", Mesh: coarse, Model: math.Translate(-2.5, 0, 0), Level: max(n-2, 0)},
				{Name: "sphere", Mesh: medium, Model: math.Identity(), Level: max(n-1, 0)},
				{Name: "fine sphere", Mesh: fine, Model: math.Translate(2.5, 0, 0), Level: n},
			},
		},
		ModeEllipsoid: {
			Primary: 0,
			Objects: []*Object{
				{Name: "ellipsoid", Mesh: ellipsoid, Model: math.Translate(2.5, 0, 0), Subdividable: true,
					AxisScale: opts.EllipsoidScale, Level: opts.EllipsoidSubdivisions},
			},
		},
		ModeDodecahedron: {
			Primary: 1,
			Objects: []*Object{
				{Name: "sphere", Mesh: fine, Model: math.Translate(2.5, 0, 0), Level: n},
				{Name: "dodecahedron", Mesh: src.Dodecahedron, Model: math.Translate(-3, 0, 0), Subdividable: true, AxisScale: unit},
			},
		},
		ModeCity: {
			Primary: -1,
			Objects: cityObjects(cube, fine, src.Dodecahedron, n),
		},
	}
	for mode, s := range scenes {
		s.Mode = mode
	}
	return scenes, nil
}

func cityObjects(cube, sphere, dodecahedron *mesh.Mesh, sphereLevel int) []*Object {
	quarterTurn := math.RotateY(math.Radians(45))
	box := func(name string, pos, size math.Vec3) *Object {
		return &Object{
			Name:  name,
			Mesh:  cube,
			Model: math.TranslateVec(pos).Mul(quarterTurn).Mul(math.ScaleVec(size)),
		}
	}
	// Centers are given in the ellipsoid's unscaled space.
	ellipsoid := func(name string, radii, center math.Vec3) *Object {
		return &Object{
			Name:  name,
			Mesh:  sphere,
			Model: math.ScaleVec(radii).Mul(math.TranslateVec(center)),
			Level: sphereLevel,
		}
	}

	return []*Object{
		box("tower", math.Vec3{X: 2.5}, math.Vec3{X: 2, Y: 7, Z: 3}),
		box("block", math.Vec3{X: -3, Y: -3}, math.Vec3{X: 2, Y: 2, Z: 3}),
		box("mast", math.Vec3{X: -3.5, Y: -0.61}, math.Vec3{X: 0.25, Y: 5, Z: 0.5}),
		ellipsoid("dome", math.Vec3{X: 4, Y: 7, Z: 3}, math.Vec3{X: -3.5}),
		ellipsoid("hall", math.Vec3{X: 4, Y: 5, Z: 3}, math.Vec3{X: 0.5, Z: -5}),
		ellipsoid("globe", math.Splat(2.5), math.Vec3{X: -3.5, Y: -0.61, Z: -5}),
		{Name: "monument", Mesh: dodecahedron, Model: math.Translate(-7, -3, 0)},
	}
}
