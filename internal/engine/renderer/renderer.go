// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/polyview/internal/engine/lighting"
	"github.com/Faultbox/polyview/internal/engine/shader"
	"github.com/Faultbox/polyview/internal/engine/shaders"
	"github.com/Faultbox/polyview/internal/logger"
	"github.com/Faultbox/polyview/pkg/math"
	"github.com/Faultbox/polyview/pkg/mesh"
)

// Display modes understood by the mesh shader.
const (
	DisplayPhong   int32 = 0
	DisplayNormals int32 = 1
	DisplayColor   int32 = 2
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor math.Vec3
	LineWidth  float32
}

// Frame is the per-frame camera and light state shared by every draw.
type Frame struct {
	View       math.Mat4
	Projection math.Mat4
	ViewPos    math.Vec3
	Light      lighting.PointLight
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	meshProgram *shader.Program
	lineProgram *shader.Program

	wireframe   bool
	displayMode int32
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(cfg.ClearColor.X, cfg.ClearColor.Y, cfg.ClearColor.Z, 1.0)
	if cfg.LineWidth > 0 {
		// Core profile only guarantees width 1; wider lines are best effort.
		gl.LineWidth(cfg.LineWidth)
	}
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	var err error
	r.meshProgram, err = shader.NewProgram(shaders.MeshVertexShader, shaders.PhongFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}
	r.lineProgram, err = shader.NewProgram(shaders.LineVertexShader, shaders.LineFragmentShader)
	if err != nil {
		r.meshProgram.Delete()
		return nil, fmt.Errorf("line shader: %w", err)
	}

	logger.Debug("shader programs created",
		zap.Uint32("mesh", r.meshProgram.ID),
		zap.Uint32("line", r.lineProgram.ID),
	)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	r.meshProgram.Delete()
	r.lineProgram.Delete()
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// SetWireframe switches between line and fill polygon rasterization.
func (r *Renderer) SetWireframe(on bool) {
	r.wireframe = on
	if on {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

// Wireframe reports whether wireframe rasterization is on.
func (r *Renderer) Wireframe() bool {
	return r.wireframe
}

// SetDisplayMode selects the mesh shading mode (DisplayPhong, DisplayNormals, DisplayColor).
func (r *Renderer) SetDisplayMode(mode int32) {
	r.displayMode = mode
}

// Begin clears the frame and uploads the shared camera and light uniforms.
func (r *Renderer) Begin(f Frame) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.lineProgram.Use()
	r.lineProgram.SetMat4("uView", f.View)
	r.lineProgram.SetMat4("uProjection", f.Projection)

	r.meshProgram.Use()
	r.meshProgram.SetMat4("uView", f.View)
	r.meshProgram.SetMat4("uProjection", f.Projection)
	r.meshProgram.SetVec3("uViewPos", f.ViewPos)
	r.meshProgram.SetInt("uDisplayMode", r.displayMode)
	f.Light.Apply(r.meshProgram)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// ReadPixels returns the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// NewMeshBuffer uploads m to the GPU, drawn with the shared mesh program.
func (r *Renderer) NewMeshBuffer(m *mesh.Mesh, model math.Mat4) (*MeshBuffer, error) {
	b := &MeshBuffer{program: r.meshProgram, Model: model}
	gl.GenVertexArrays(1, &b.vao)
	gl.GenBuffers(1, &b.vbo)
	if err := b.Upload(m); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

// NewLineBuffer uploads line segments, drawn with the shared line program.
func (r *Renderer) NewLineBuffer(lines []LineVertex, model math.Mat4) (*LineBuffer, error) {
	b := &LineBuffer{program: r.lineProgram, Model: model}
	gl.GenVertexArrays(1, &b.vao)
	gl.GenBuffers(1, &b.vbo)
	if err := b.Upload(lines); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}
