// Package lighting provides the point light used by the mesh shader.
package lighting

import (
	"github.com/Faultbox/polyview/internal/engine/shader"
	"github.com/Faultbox/polyview/pkg/math"
)

// PointLight is a single white-ish point light in world space.
type PointLight struct {
	Position math.Vec3
	Color    math.Vec3
}

// NewPointLight creates a light, clamping color channels to [0, 1].
func NewPointLight(position, color math.Vec3) PointLight {
	return PointLight{
		Position: position,
		Color: math.Vec3{
			X: math.Clamp(color.X, 0, 1),
			Y: math.Clamp(color.Y, 0, 1),
			Z: math.Clamp(color.Z, 0, 1),
		},
	}
}

// At returns a copy of the light moved to position.
func (l PointLight) At(position math.Vec3) PointLight {
	l.Position = position
	return l
}

// Apply uploads the light uniforms. p must be the current program.
func (l PointLight) Apply(p *shader.Program) {
	p.SetVec3("uLightPos", l.Position)
	p.SetVec3("uLightColor", l.Color)
}
