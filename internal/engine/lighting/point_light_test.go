package lighting

import (
	"testing"

	"github.com/Faultbox/polyview/pkg/math"
)

func TestNewPointLightClampsColor(t *testing.T) {
	l := NewPointLight(math.Vec3{X: -10, Y: 4, Z: 7}, math.Vec3{X: 1.5, Y: -0.2, Z: 0.5})

	want := math.Vec3{X: 1, Y: 0, Z: 0.5}
	if l.Color != want {
		t.Errorf("color = %v, want %v", l.Color, want)
	}
	if l.Position != (math.Vec3{X: -10, Y: 4, Z: 7}) {
		t.Errorf("position = %v", l.Position)
	}
}

func TestAtMovesCopy(t *testing.T) {
	l := NewPointLight(math.Vec3{X: 1}, math.Splat(1))
	moved := l.At(math.Vec3{Y: 5})

	if moved.Position != (math.Vec3{Y: 5}) {
		t.Errorf("moved position = %v, want (0,5,0)", moved.Position)
	}
	if l.Position != (math.Vec3{X: 1}) {
		t.Error("At must not modify the receiver")
	}
	if moved.Color != l.Color {
		t.Error("At must keep the color")
	}
}
