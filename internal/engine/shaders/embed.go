// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MeshVertexShader transforms interleaved position/normal/color meshes.
//
//go:embed mesh.vert
var MeshVertexShader string

// PhongFragmentShader shades meshes with a single point light.
// uDisplayMode selects 0 = Phong, 1 = normals as color, 2 = unlit vertex color.
//
//go:embed phong.frag
var PhongFragmentShader string

// LineVertexShader is the vertex shader for colored line segments.
//
//go:embed line.vert
var LineVertexShader string

// LineFragmentShader is the fragment shader for colored line segments.
//
//go:embed line.frag
var LineFragmentShader string
