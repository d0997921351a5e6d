// Package app implements the viewer main loop and state management.
package app

import (
	"fmt"
	"os"
	"time"

	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/polyview/internal/config"
	"github.com/Faultbox/polyview/internal/engine/camera"
	"github.com/Faultbox/polyview/internal/engine/debug"
	"github.com/Faultbox/polyview/internal/engine/input"
	"github.com/Faultbox/polyview/internal/engine/lighting"
	"github.com/Faultbox/polyview/internal/engine/picking"
	"github.com/Faultbox/polyview/internal/engine/renderer"
	"github.com/Faultbox/polyview/internal/engine/window"
	"github.com/Faultbox/polyview/internal/logger"
	"github.com/Faultbox/polyview/pkg/math"
	"github.com/Faultbox/polyview/pkg/mesh"
)

const title = "polyview"

// fileRequest is a path picked in a native dialog, handled on the main thread.
type fileRequest struct {
	path   string
	export bool
}

// gpuObject is the uploaded copy of a scene object.
type gpuObject struct {
	mesh    *renderer.MeshBuffer
	bounds  *renderer.LineBuffer
	version int
}

// App is the viewer instance.
type App struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	state    *State

	screenshots       *debug.ScreenshotCapture
	pendingScreenshot bool

	objects    map[*Object]*gpuObject
	axes       *renderer.LineBuffer
	showBounds bool
	dragging   bool

	files chan fileRequest
	log   *zap.Logger
}

// New loads meshes, builds every scene and opens the window.
func New(cfg *config.Config) (*App, error) {
	log := logger.Named("app")
	log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int("start_mode", cfg.Scene.StartMode),
	)

	ellipsoid := vec(cfg.Scene.EllipsoidScale)
	src, err := LoadSources(cfg.Scene.Meshes, ellipsoid)
	if err != nil {
		return nil, fmt.Errorf("failed to load meshes: %w", err)
	}
	scenes, err := BuildScenes(src, SceneOptions{
		EllipsoidScale:        ellipsoid,
		SphereSubdivisions:    cfg.Scene.SphereSubdivisions,
		EllipsoidSubdivisions: cfg.Scene.EllipsoidSubdivisions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build scenes: %w", err)
	}
	horizontal, err := HorizontalTrack()
	if err != nil {
		return nil, fmt.Errorf("horizontal track: %w", err)
	}
	vertical, err := VerticalTrack()
	if err != nil {
		return nil, fmt.Errorf("vertical track: %w", err)
	}

	cam := camera.NewFreeCamera(vec(cfg.Camera.Position))
	cam.Speed = cfg.Camera.Speed
	cam.Sensitivity = cfg.Camera.Sensitivity
	cam.Zoom = math.Clamp(cfg.Camera.Zoom, camera.MinZoom, camera.MaxZoom)

	state, err := NewState(Mode(cfg.Scene.StartMode), scenes, cam,
		Projection{FOV: cfg.Graphics.FOV, Near: cfg.Graphics.Near, Far: cfg.Graphics.Far},
		lighting.NewPointLight(vec(cfg.Scene.LightPosition), vec(cfg.Scene.LightColor)),
		horizontal, vertical,
	)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:         cfg,
		state:       state,
		screenshots: debug.NewScreenshotCapture(cfg.Screenshots.Dir, cfg.Screenshots.Prefix),
		objects:     make(map[*Object]*gpuObject),
		files:       make(chan fileRequest, 1),
		log:         log,
	}

	// Create window (this also creates OpenGL context)
	a.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	dw, dh := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:      dw,
		Height:     dh,
		ClearColor: vec(cfg.Graphics.ClearColor),
		LineWidth:  2,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.axes, err = a.renderer.NewLineBuffer(debug.Axes(1), math.Identity())
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create axes: %w", err)
	}

	a.input = input.New()
	a.updateTitle()

	log.Info("viewer initialized successfully")
	return a, nil
}

// Run starts the main loop and returns when the window closes or Esc is pressed.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting main loop")

	for a.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		// 1. Process input
		if a.input.Update() {
			a.running = false
			break
		}
		for _, event := range a.input.Events() {
			a.handleEvent(event)
		}
		a.handleHeldKeys(dt)
		if a.input.IsKeyPressed(sdl.K_F12) {
			a.pendingScreenshot = true
		}

		select {
		case req := <-a.files:
			a.handleFile(req)
		default:
		}

		// 2. Render
		if err := a.render(dt); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		// 3. Capture before the buffers swap
		if a.pendingScreenshot {
			a.pendingScreenshot = false
			a.captureScreenshot()
		}

		// 4. Present
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount), zap.Float32("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close releases GPU resources and the window.
func (a *App) Close() {
	a.log.Info("closing viewer")

	for o, g := range a.objects {
		g.release()
		delete(a.objects, o)
	}
	if a.axes != nil {
		a.axes.Release()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

func (a *App) handleEvent(e input.Event) {
	switch e.Type {
	case input.EventWindowResize:
		a.renderer.Resize(a.window.DrawableSize())

	case input.EventKeyDown:
		a.handleKey(e)

	case input.EventMouseDown:
		switch e.Button {
		case sdl.BUTTON_LEFT:
			a.dragging = true
		case sdl.BUTTON_RIGHT:
			a.pick(e.MouseX, e.MouseY)
		}
	case input.EventMouseUp:
		if e.Button == sdl.BUTTON_LEFT {
			a.dragging = false
		}
	case input.EventMouseMove:
		if a.dragging {
			a.state.Drag(float32(e.DeltaX), float32(e.DeltaY))
		}
	case input.EventMouseWheel:
		a.state.Zoom(e.Wheel)
	}
}

func (a *App) handleKey(e input.Event) {
	switch e.Key {
	case sdl.K_ESCAPE:
		a.running = false

	case sdl.K_1, sdl.K_2, sdl.K_3, sdl.K_4, sdl.K_5, sdl.K_6, sdl.K_7:
		if err := a.state.SetMode(Mode(e.Key-sdl.K_1) + ModeSolids); err != nil {
			a.log.Warn("mode switch failed", zap.Error(err))
		}
		a.updateTitle()

	case sdl.K_h:
		a.startTrack(TrackHorizontal)
	case sdl.K_v:
		a.startTrack(TrackVertical)

	case sdl.K_EQUALS, sdl.K_PLUS, sdl.K_KP_PLUS:
		if e.Key == sdl.K_EQUALS && !e.Shift() {
			return
		}
		if n := a.state.Subdivide(); n == 0 {
			a.log.Debug("nothing to subdivide", zap.Stringer("mode", a.state.Mode()))
		}

	case sdl.K_F1:
		a.renderer.SetWireframe(a.state.ToggleWireframe())
	case sdl.K_F2:
		a.setDisplayMode(renderer.DisplayNormals)
	case sdl.K_F3:
		a.setDisplayMode(renderer.DisplayColor)
	case sdl.K_F4:
		a.setDisplayMode(renderer.DisplayPhong)

	case sdl.K_b:
		a.showBounds = !a.showBounds

	case sdl.K_l:
		if !e.Repeat {
			a.openFileDialog(false)
		}
	case sdl.K_e:
		if !e.Repeat {
			a.openFileDialog(true)
		}
	}
}

func (a *App) handleHeldKeys(dt float32) {
	held := []struct {
		code sdl.Scancode
		dir  camera.Movement
	}{
		{sdl.SCANCODE_W, camera.Forward},
		{sdl.SCANCODE_S, camera.Backward},
		{sdl.SCANCODE_A, camera.Left},
		{sdl.SCANCODE_D, camera.Right},
		{sdl.SCANCODE_UP, camera.Up},
		{sdl.SCANCODE_DOWN, camera.Down},
	}
	for _, h := range held {
		if a.input.IsKeyHeld(h.code) {
			a.state.Move(h.dir, dt)
		}
	}
}

func (a *App) startTrack(id TrackID) {
	if err := a.state.StartTrack(id); err != nil {
		a.log.Warn("track start failed", zap.Error(err))
		return
	}
	a.updateTitle()
}

func (a *App) setDisplayMode(mode int32) {
	a.state.SetDisplayMode(mode)
	a.renderer.SetDisplayMode(mode)
	a.renderer.SetWireframe(false)
}

func (a *App) updateTitle() {
	t := fmt.Sprintf("%s - %d: %s", title, int(a.state.Mode()), a.state.Mode())
	if !a.state.Mode().UsesFreeCamera() {
		id, _ := a.state.ActiveTrack()
		t += fmt.Sprintf(" (%s track)", id)
	}
	if a.window != nil {
		a.window.SetTitle(t)
	}
}

// openFileDialog runs the native picker off the main thread; the choice is
// queued and handled by the main loop, since GL calls must stay on this thread.
func (a *App) openFileDialog(export bool) {
	go func() {
		d := dialog.File().
			Filter("Triangle lists", "txt").
			Filter("All Files", "*")

		var path string
		var err error
		if export {
			path, err = d.Title("Export Mesh").Save()
		} else {
			path, err = d.Title("Load Mesh").Load()
		}
		if err != nil {
			if err != dialog.ErrCancelled {
				a.log.Error("file dialog failed", zap.Error(err))
			}
			return
		}

		select {
		case a.files <- fileRequest{path: path, export: export}:
		default:
			a.log.Warn("file request dropped, another is pending", zap.String("path", path))
		}
	}()
}

func (a *App) handleFile(req fileRequest) {
	if req.export {
		if err := a.exportMesh(req.path); err != nil {
			a.log.Error("export failed", zap.String("path", req.path), zap.Error(err))
		}
		return
	}
	if err := a.loadMesh(req.path); err != nil {
		a.log.Error("load failed", zap.String("path", req.path), zap.Error(err))
	}
}

func (a *App) loadMesh(path string) error {
	opts, err := a.state.PrimaryLoadOptions()
	if err != nil {
		return err
	}
	m, err := mesh.LoadFile(path, opts)
	if err != nil {
		return err
	}
	return a.state.ReplacePrimary(m)
}

func (a *App) exportMesh(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := a.state.ExportPrimary(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	a.log.Info("mesh exported", zap.String("path", path))
	return nil
}

// pick casts a ray through the cursor, given in window coordinates.
func (a *App) pick(x, y int) {
	w, h := a.window.GetSize()
	if w == 0 || h == 0 {
		return
	}
	v := a.state.View(a.renderer.Aspect())
	inv := v.Projection.Mul(v.View).Inverse()
	if o := a.state.Pick(picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), inv)); o == nil {
		a.log.Debug("nothing picked", zap.Int("x", x), zap.Int("y", y))
	}
}

func (a *App) captureScreenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	path, err := a.screenshots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// render draws the current frame.
func (a *App) render(dt float32) error {
	scene := a.state.Scene()
	v := a.state.View(a.renderer.Aspect())

	a.renderer.Begin(renderer.Frame{
		View:       v.View,
		Projection: v.Projection,
		ViewPos:    v.Eye,
		Light:      v.Light,
	})

	if scene.Axes > 0 {
		a.axes.Model = math.Scale(scene.Axes, scene.Axes, scene.Axes)
		a.axes.Draw(dt)
	}

	for _, o := range scene.Objects {
		g, err := a.upload(o)
		if err != nil {
			return fmt.Errorf("%s: %w", o.Name, err)
		}
		g.mesh.Draw(dt)
		if a.showBounds || o == a.state.Selected() {
			g.bounds.Draw(dt)
		}
	}

	a.renderer.End()
	return nil
}

// upload creates or refreshes the GPU copy of o.
func (a *App) upload(o *Object) (*gpuObject, error) {
	g, ok := a.objects[o]
	if !ok {
		buf, err := a.renderer.NewMeshBuffer(o.Mesh, o.Model)
		if err != nil {
			return nil, err
		}
		lines, err := a.renderer.NewLineBuffer(boundsLines(o.Mesh), o.Model)
		if err != nil {
			buf.Release()
			return nil, err
		}
		g = &gpuObject{mesh: buf, bounds: lines, version: o.Version}
		a.objects[o] = g
		return g, nil
	}

	if g.version != o.Version {
		if err := g.mesh.Upload(o.Mesh); err != nil {
			return nil, err
		}
		if err := g.bounds.Upload(boundsLines(o.Mesh)); err != nil {
			return nil, err
		}
		g.version = o.Version
	}
	g.mesh.Model = o.Model
	g.bounds.Model = o.Model
	return g, nil
}

func (g *gpuObject) release() {
	g.mesh.Release()
	g.bounds.Release()
}

func boundsLines(m *mesh.Mesh) []renderer.LineVertex {
	if m.Len() == 0 {
		return nil
	}
	return debug.BoundsLines(m.Bounds(), 0.05, math.Vec3{X: 1, Y: 1})
}

func vec(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
