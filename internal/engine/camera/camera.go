// Package camera provides the free-fly camera used outside keyframe playback.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/polyview/pkg/math"
)

// Movement is a keyboard-driven camera translation direction.
type Movement int

const (
	Forward Movement = iota
	Backward
	Left
	Right
	Up
	Down
)

// Defaults for a new FreeCamera.
const (
	DefaultYaw         = -90.0
	DefaultPitch       = 0.0
	DefaultSpeed       = 2.5
	DefaultSensitivity = 0.1
	DefaultZoom        = 45.0

	MinZoom  = 1.0
	MaxZoom  = 45.0
	MaxPitch = 89.0
)

// FreeCamera is a yaw/pitch fly camera. Angles are in degrees.
type FreeCamera struct {
	Position math.Vec3

	Yaw   float32
	Pitch float32

	// Speed is in world units per second, Sensitivity in degrees per pixel.
	Speed       float32
	Sensitivity float32

	// Zoom is the vertical field of view in degrees.
	Zoom float32

	worldUp math.Vec3
	front   math.Vec3
	right   math.Vec3
	up      math.Vec3
}

// NewFreeCamera creates a camera at position looking down -Z.
func NewFreeCamera(position math.Vec3) *FreeCamera {
	c := &FreeCamera{
		Position:    position,
		Yaw:         DefaultYaw,
		Pitch:       DefaultPitch,
		Speed:       DefaultSpeed,
		Sensitivity: DefaultSensitivity,
		Zoom:        DefaultZoom,
		worldUp:     math.Vec3{Y: 1},
	}
	c.updateVectors()
	return c
}

// ViewMatrix returns the view matrix for this camera.
func (c *FreeCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Position.Add(c.front), c.up)
}

// Front returns the unit view direction.
func (c *FreeCamera) Front() math.Vec3 {
	return c.front
}

// Right returns the unit right vector.
func (c *FreeCamera) Right() math.Vec3 {
	return c.right
}

// HandleMovement moves the camera along one of its local axes for dt seconds.
func (c *FreeCamera) HandleMovement(dir Movement, dt float32) {
	d := c.Speed * dt
	switch dir {
	case Forward:
		c.Position = c.Position.Add(c.front.Scale(d))
	case Backward:
		c.Position = c.Position.Sub(c.front.Scale(d))
	case Left:
		c.Position = c.Position.Sub(c.right.Scale(d))
	case Right:
		c.Position = c.Position.Add(c.right.Scale(d))
	case Up:
		c.Position = c.Position.Add(c.up.Scale(d))
	case Down:
		c.Position = c.Position.Sub(c.up.Scale(d))
	}
}

// HandleDrag turns the camera by a mouse drag delta in pixels.
// Pitch is clamped so the view never flips over the pole.
func (c *FreeCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw += deltaX * c.Sensitivity
	c.Pitch = math.Clamp(c.Pitch+deltaY*c.Sensitivity, -MaxPitch, MaxPitch)
	c.updateVectors()
}

// HandleZoom narrows the field of view by the scroll wheel delta.
func (c *FreeCamera) HandleZoom(delta float32) {
	c.Zoom = math.Clamp(c.Zoom-delta, MinZoom, MaxZoom)
}

func (c *FreeCamera) updateVectors() {
	yaw, pitch := math.Radians(c.Yaw), math.Radians(c.Pitch)
	c.front = math.Vec3{
		X: math32.Cos(yaw) * math32.Cos(pitch),
		Y: math32.Sin(pitch),
		Z: math32.Sin(yaw) * math32.Cos(pitch),
	}.Normalize()
	c.right = c.front.Cross(c.worldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}
