package picking

import (
	"testing"

	"github.com/Faultbox/polyview/pkg/math"
	"github.com/Faultbox/polyview/pkg/mesh"
)

var unitBox = mesh.Bounds{Min: math.Splat(-1), Max: math.Splat(1)}

func TestIntersectBounds(t *testing.T) {
	tests := []struct {
		name    string
		ray     Ray
		wantHit bool
		wantT   float32
	}{
		{"hit from front", Ray{math.Vec3{Z: 5}, math.Vec3{Z: -1}}, true, 4},
		{"miss beside", Ray{math.Vec3{X: 3, Z: 5}, math.Vec3{Z: -1}}, false, 0},
		{"pointing away", Ray{math.Vec3{Z: 5}, math.Vec3{Z: 1}}, false, 0},
		{"inside returns exit", Ray{math.Vec3{}, math.Vec3{X: 1}}, true, 1},
		{"diagonal", Ray{math.Vec3{X: 3, Y: 3, Z: 3}, math.Splat(-1).Normalize()}, true, 2 * 1.7320508},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.IntersectBounds(unitBox)
			if hit != tt.wantHit {
				t.Fatalf("hit = %v, want %v", hit, tt.wantHit)
			}
			if hit && (got-tt.wantT > 1e-4 || tt.wantT-got > 1e-4) {
				t.Errorf("t = %v, want %v", got, tt.wantT)
			}
		})
	}
}

func TestScreenToRayCenter(t *testing.T) {
	view := math.LookAt(math.Vec3{Z: 10}, math.Vec3{}, math.Vec3{Y: 1})
	proj := math.Perspective(math.Radians(45), 1, 0.1, 100)
	inv := proj.Mul(view).Inverse()

	r := ScreenToRay(400, 400, 800, 800, inv)
	if !r.Direction.ApproxEqual(math.Vec3{Z: -1}, 1e-4) {
		t.Errorf("direction = %v, want -Z", r.Direction)
	}
	if !r.Origin.ApproxEqual(math.Vec3{Z: 9.9}, 1e-3) {
		t.Errorf("origin = %v, want on the near plane", r.Origin)
	}

	// Upper half of the screen looks up.
	if up := ScreenToRay(400, 100, 800, 800, inv); up.Direction.Y <= 0 {
		t.Errorf("direction = %v, want positive Y", up.Direction)
	}
}

func TestTransformBounds(t *testing.T) {
	model := math.Translate(2.5, 0, 0).Mul(math.RotateY(math.Radians(45))).Mul(math.Scale(1, 2, 1))
	got := TransformBounds(mesh.Bounds{Min: math.Splat(-0.5), Max: math.Splat(0.5)}, model)

	half := float32(0.70710677)
	want := mesh.Bounds{
		Min: math.Vec3{X: 2.5 - half, Y: -1, Z: -half},
		Max: math.Vec3{X: 2.5 + half, Y: 1, Z: half},
	}
	if !got.Min.ApproxEqual(want.Min, 1e-5) || !got.Max.ApproxEqual(want.Max, 1e-5) {
		t.Errorf("TransformBounds = %+v, want %+v", got, want)
	}
}

func TestNearest(t *testing.T) {
	r := Ray{math.Vec3{Z: 10}, math.Vec3{Z: -1}}
	boxes := []mesh.Bounds{
		{Min: math.Vec3{X: -1, Y: -1, Z: -6}, Max: math.Vec3{X: 1, Y: 1, Z: -4}},
		{Min: math.Vec3{X: 5, Y: 5, Z: 0}, Max: math.Vec3{X: 6, Y: 6, Z: 1}},
		unitBox,
	}

	i, d := Nearest(r, boxes)
	if i != 2 || d != 9 {
		t.Errorf("Nearest = (%d, %v), want (2, 9)", i, d)
	}

	if i, _ := Nearest(Ray{math.Vec3{Z: 10}, math.Vec3{Z: 1}}, boxes); i != -1 {
		t.Errorf("Nearest = %d, want -1", i)
	}
}

func TestRayAt(t *testing.T) {
	r := Ray{math.Vec3{X: 1}, math.Vec3{Y: 1}}
	if got := r.At(3); got != (math.Vec3{X: 1, Y: 3}) {
		t.Errorf("At(3) = %v", got)
	}
}
