package app

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/Faultbox/polyview/internal/engine/camera"
	"github.com/Faultbox/polyview/internal/engine/lighting"
	"github.com/Faultbox/polyview/internal/engine/picking"
	"github.com/Faultbox/polyview/internal/engine/renderer"
	"github.com/Faultbox/polyview/internal/logger"
	"github.com/Faultbox/polyview/pkg/keyframe"
	"github.com/Faultbox/polyview/pkg/math"
	"github.com/Faultbox/polyview/pkg/mesh"
)

// ErrNoPrimary is returned by load and export in scenes without a primary object.
var ErrNoPrimary = errors.New("scene has no loadable mesh")

// Projection holds the perspective settings for the keyframe camera.
type Projection struct {
	FOV  float32 // degrees
	Near float32
	Far  float32
}

// View is everything a frame needs from the state to draw.
type View struct {
	View       math.Mat4
	Projection math.Mat4
	Eye        math.Vec3
	Light      lighting.PointLight
}

// State is the viewer state driven by input, independent of the window.
type State struct {
	mode   Mode
	scenes map[Mode]*Scene

	camera     *camera.FreeCamera
	projection Projection
	light      lighting.PointLight

	tracks [2]*keyframe.Track
	active TrackID

	wireframe   bool
	displayMode int32

	selected *Object

	log *zap.Logger
}

// NewState creates the state in the given start mode.
func NewState(start Mode, scenes map[Mode]*Scene, cam *camera.FreeCamera, proj Projection,
	light lighting.PointLight, horizontal, vertical *keyframe.Track) (*State, error) {
	if !start.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(start))
	}
	for m := ModeSolids; m <= ModeCity; m++ {
		if scenes[m] == nil {
			return nil, fmt.Errorf("missing scene for %s", m)
		}
	}
	return &State{
		mode:        start,
		scenes:      scenes,
		camera:      cam,
		projection:  proj,
		light:       light,
		tracks:      [2]*keyframe.Track{horizontal, vertical},
		active:      TrackHorizontal,
		displayMode: renderer.DisplayPhong,
		log:         logger.Named("state"),
	}, nil
}

// Mode returns the current mode.
func (s *State) Mode() Mode {
	return s.mode
}

// Scene returns the current mode's scene.
func (s *State) Scene() *Scene {
	return s.scenes[s.mode]
}

// Camera returns the free camera.
func (s *State) Camera() *camera.FreeCamera {
	return s.camera
}

// SetMode switches scenes. Tracks keep playing across mode switches.
func (s *State) SetMode(m Mode) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(m))
	}
	if m != s.mode {
		s.log.Info("mode changed", zap.Stringer("from", s.mode), zap.Stringer("to", m))
		s.selected = nil
	}
	s.mode = m
	return nil
}

// StartTrack makes a track active and restarts it from its first keyframe.
func (s *State) StartTrack(id TrackID) error {
	if id != TrackHorizontal && id != TrackVertical {
		return fmt.Errorf("unknown %s", id)
	}
	s.active = id
	s.tracks[id].Start()
	s.log.Info("track started",
		zap.Stringer("track", id),
		zap.Int("frames", s.tracks[id].Len()),
		zap.Float32("duration", s.tracks[id].Duration()),
	)
	return nil
}

// ActiveTrack returns the track used by the city view.
func (s *State) ActiveTrack() (TrackID, *keyframe.Track) {
	return s.active, s.tracks[s.active]
}

// Subdivide splits every subdividable object of the current scene once and
// returns how many were changed. Failures are logged and leave the mesh as is.
func (s *State) Subdivide() int {
	changed := 0
	for _, o := range s.Scene().Objects {
		if !o.Subdividable {
			continue
		}
		out, stats, err := mesh.SubdivideStats(o.Mesh, o.AxisScale)
		if err != nil {
			s.log.Error("subdivide failed", zap.String("object", o.Name), zap.Error(err))
			continue
		}
		o.replace(out, o.Level+1)
		changed++
		s.log.Info("subdivided",
			zap.String("object", o.Name),
			zap.Int("level", o.Level),
			zap.Int("triangles", out.TriangleCount()),
			zap.Int("skipped", stats.Skipped),
		)
	}
	return changed
}

// ToggleWireframe flips line rasterization and returns the new setting.
func (s *State) ToggleWireframe() bool {
	s.wireframe = !s.wireframe
	return s.wireframe
}

// Wireframe reports whether wireframe rasterization is on.
func (s *State) Wireframe() bool {
	return s.wireframe
}

// SetDisplayMode selects the shading mode and returns to filled polygons.
func (s *State) SetDisplayMode(mode int32) {
	s.displayMode = mode
	s.wireframe = false
}

// DisplayMode returns the shading mode.
func (s *State) DisplayMode() int32 {
	return s.displayMode
}

// Move translates the free camera. It is ignored while a track drives the view.
func (s *State) Move(dir camera.Movement, dt float32) {
	if s.mode.UsesFreeCamera() {
		s.camera.HandleMovement(dir, dt)
	}
}

// Drag turns the free camera by a mouse delta.
func (s *State) Drag(dx, dy float32) {
	s.camera.HandleDrag(dx, dy)
}

// Zoom changes the free camera field of view.
func (s *State) Zoom(delta float32) {
	s.camera.HandleZoom(delta)
}

// PrimaryLoadOptions returns how a file replacing the primary object must be
// loaded: with the object's ellipsoid radii and current color.
func (s *State) PrimaryLoadOptions() (mesh.LoadOptions, error) {
	o := s.Scene().PrimaryObject()
	if o == nil {
		return mesh.LoadOptions{}, fmt.Errorf("%w: %s", ErrNoPrimary, s.mode)
	}
	opts := mesh.DefaultLoadOptions()
	if o.Subdividable {
		opts.Scale = o.AxisScale
	}
	if o.Mesh.Len() > 0 {
		opts.Color = o.Mesh.Vertices[0].Color
	}
	return opts, nil
}

// ReplacePrimary swaps the current scene's primary mesh, resetting its level.
func (s *State) ReplacePrimary(m *mesh.Mesh) error {
	o := s.Scene().PrimaryObject()
	if o == nil {
		return fmt.Errorf("%w: %s", ErrNoPrimary, s.mode)
	}
	if err := m.Validate(); err != nil {
		return err
	}
	o.replace(m, 0)
	s.log.Info("mesh replaced", zap.String("object", o.Name), zap.Int("triangles", m.TriangleCount()))
	return nil
}

// ExportPrimary writes the current scene's primary mesh in the loader format.
func (s *State) ExportPrimary(w io.Writer) error {
	o := s.Scene().PrimaryObject()
	if o == nil {
		return fmt.Errorf("%w: %s", ErrNoPrimary, s.mode)
	}
	return mesh.Write(w, o.Mesh)
}

// View computes the camera matrices and light for the current mode. In the
// city the view follows the active track and the light rides along with it.
func (s *State) View(aspect float32) View {
	if s.mode.UsesFreeCamera() {
		return View{
			View:       s.camera.ViewMatrix(),
			Projection: math.Perspective(math.Radians(s.camera.Zoom), aspect, s.projection.Near, s.projection.Far),
			Eye:        s.camera.Position,
			Light:      s.light,
		}
	}

	track := s.tracks[s.active]
	view := track.ViewMatrix()
	eye := track.Position()
	return View{
		View:       view,
		Projection: math.Perspective(math.Radians(s.projection.FOV), aspect, s.projection.Near, s.projection.Far),
		Eye:        eye,
		Light:      s.light.At(eye),
	}
}

// Pick selects the nearest object of the current scene whose world bounds the
// ray hits. A miss clears the selection.
func (s *State) Pick(r picking.Ray) *Object {
	objects := s.Scene().Objects
	boxes := make([]mesh.Bounds, len(objects))
	for i, o := range objects {
		boxes[i] = picking.TransformBounds(o.Mesh.Bounds(), o.Model)
	}

	s.selected = nil
	if i, dist := picking.Nearest(r, boxes); i >= 0 {
		s.selected = objects[i]
		s.log.Info("object picked",
			zap.String("object", s.selected.Name),
			zap.Float32("distance", dist),
			zap.Int("triangles", s.selected.Mesh.TriangleCount()),
			zap.Int("level", s.selected.Level),
		)
	}
	return s.selected
}

// Selected returns the picked object, or nil.
func (s *State) Selected() *Object {
	return s.selected
}
