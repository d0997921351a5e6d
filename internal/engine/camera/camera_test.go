package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/polyview/pkg/math"
)

func TestNewFreeCameraLooksDownNegativeZ(t *testing.T) {
	c := NewFreeCamera(math.Vec3{Z: 10})

	if !c.Front().ApproxEqual(math.Vec3{Z: -1}, 1e-6) {
		t.Errorf("front = %v, want (0,0,-1)", c.Front())
	}
	if !c.Right().ApproxEqual(math.Vec3{X: 1}, 1e-6) {
		t.Errorf("right = %v, want (1,0,0)", c.Right())
	}
	if c.Zoom != DefaultZoom {
		t.Errorf("zoom = %v, want %v", c.Zoom, DefaultZoom)
	}
}

func TestViewMatrixMatchesLookAt(t *testing.T) {
	c := NewFreeCamera(math.Vec3{X: 1, Y: 2, Z: 10})
	c.HandleDrag(150, -80)

	eye := mgl32.Vec3{c.Position.X, c.Position.Y, c.Position.Z}
	f := c.Front()
	want := mgl32.LookAtV(eye, eye.Add(mgl32.Vec3{f.X, f.Y, f.Z}), mgl32.Vec3{0, 1, 0})

	got := c.ViewMatrix()
	for i := 0; i < 16; i++ {
		if d := got[i] - want[i]; d > 1e-4 || d < -1e-4 {
			t.Fatalf("view[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestHandleMovement(t *testing.T) {
	tests := []struct {
		dir  Movement
		want math.Vec3
	}{
		{Forward, math.Vec3{Z: 10 - 2.5}},
		{Backward, math.Vec3{Z: 10 + 2.5}},
		{Left, math.Vec3{X: -2.5, Z: 10}},
		{Right, math.Vec3{X: 2.5, Z: 10}},
		{Up, math.Vec3{Y: 2.5, Z: 10}},
		{Down, math.Vec3{Y: -2.5, Z: 10}},
	}
	for _, tt := range tests {
		c := NewFreeCamera(math.Vec3{Z: 10})
		c.HandleMovement(tt.dir, 1)
		if !c.Position.ApproxEqual(tt.want, 1e-5) {
			t.Errorf("HandleMovement(%d) position = %v, want %v", tt.dir, c.Position, tt.want)
		}
	}
}

func TestHandleMovementScalesWithTime(t *testing.T) {
	c := NewFreeCamera(math.Vec3{})
	c.Speed = 4
	c.HandleMovement(Forward, 0.25)
	if !c.Position.ApproxEqual(math.Vec3{Z: -1}, 1e-6) {
		t.Errorf("position = %v, want (0,0,-1)", c.Position)
	}
}

func TestHandleDragClampsPitch(t *testing.T) {
	c := NewFreeCamera(math.Vec3{})

	c.HandleDrag(0, 10000)
	if c.Pitch != MaxPitch {
		t.Errorf("pitch = %v, want %v", c.Pitch, MaxPitch)
	}
	c.HandleDrag(0, -20000)
	if c.Pitch != -MaxPitch {
		t.Errorf("pitch = %v, want %v", c.Pitch, -MaxPitch)
	}
	if c.Front().HasNaN() || c.Right().HasNaN() {
		t.Error("camera basis has NaN at the pitch limit")
	}
}

func TestHandleDragTurnsYaw(t *testing.T) {
	c := NewFreeCamera(math.Vec3{})
	// 900 px * 0.1 deg/px = 90 degrees to the right.
	c.HandleDrag(900, 0)
	if !c.Front().ApproxEqual(math.Vec3{X: 1}, 1e-5) {
		t.Errorf("front = %v, want (1,0,0)", c.Front())
	}
}

func TestHandleZoomClamps(t *testing.T) {
	tests := []struct {
		delta float32
		want  float32
	}{
		{5, 40},
		{100, MinZoom},
		{-100, MaxZoom},
	}
	for _, tt := range tests {
		c := NewFreeCamera(math.Vec3{})
		c.HandleZoom(tt.delta)
		if c.Zoom != tt.want {
			t.Errorf("HandleZoom(%v) zoom = %v, want %v", tt.delta, c.Zoom, tt.want)
		}
	}
}
