package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/polyview/internal/engine/shader"
	"github.com/Faultbox/polyview/pkg/math"
	"github.com/Faultbox/polyview/pkg/mesh"
)

// Drawable is anything the viewer draws each frame. Release frees GPU resources
// and must be called once the drawable is no longer used.
type Drawable interface {
	Draw(dt float32)
	Release()
}

// MeshBuffer owns the GPU copy of a triangle mesh.
type MeshBuffer struct {
	Model math.Mat4

	program *shader.Program
	vao     uint32
	vbo     uint32
	count   int32
}

// Upload replaces the GPU vertex data. Call it whenever the mesh changes.
func (b *MeshBuffer) Upload(m *mesh.Mesh) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("upload mesh: %w", err)
	}
	data := m.Interleave()

	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
	}

	stride := int32(mesh.FloatsPerVertex * 4)
	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 12)
	gl.EnableVertexAttribArray(1)
	// Color
	gl.VertexAttribPointerWithOffset(2, 3, gl.FLOAT, false, stride, 24)
	gl.EnableVertexAttribArray(2)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	b.count = int32(m.Len())
	return nil
}

// Draw renders the mesh with its model matrix.
func (b *MeshBuffer) Draw(float32) {
	if b.count == 0 {
		return
	}
	b.program.Use()
	b.program.SetMat4("uModel", b.Model)
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, b.count)
}

// Release frees the VAO and VBO.
func (b *MeshBuffer) Release() {
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
		b.vbo = 0
	}
	b.count = 0
}

// LineVertex is one endpoint of a colored line segment.
type LineVertex struct {
	Position math.Vec3
	Color    math.Vec3
}

// LineBuffer owns the GPU copy of a line segment list.
type LineBuffer struct {
	Model math.Mat4

	program *shader.Program
	vao     uint32
	vbo     uint32
	count   int32
}

// Upload replaces the segment list. Vertices pair up into segments.
func (b *LineBuffer) Upload(lines []LineVertex) error {
	if len(lines)%2 != 0 {
		return fmt.Errorf("upload lines: odd vertex count %d", len(lines))
	}
	data := make([]float32, 0, len(lines)*6)
	for _, v := range lines {
		data = append(data,
			v.Position.X, v.Position.Y, v.Position.Z,
			v.Color.X, v.Color.Y, v.Color.Z,
		)
	}

	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
	}

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 6*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, 6*4, 12)
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	b.count = int32(len(lines))
	return nil
}

// Draw renders the segments with their model matrix.
func (b *LineBuffer) Draw(float32) {
	if b.count == 0 {
		return
	}
	b.program.Use()
	b.program.SetMat4("uModel", b.Model)
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.LINES, 0, b.count)
}

// Release frees the VAO and VBO.
func (b *LineBuffer) Release() {
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
		b.vbo = 0
	}
	b.count = 0
}

var (
	_ Drawable = (*MeshBuffer)(nil)
	_ Drawable = (*LineBuffer)(nil)
)
