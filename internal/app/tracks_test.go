package app

import (
	"testing"

	"github.com/Faultbox/polyview/pkg/keyframe"
	"github.com/Faultbox/polyview/pkg/math"
)

func TestCityTrackTimes(t *testing.T) {
	tests := []struct {
		name  string
		build func() ([]float32, error)
		want  []float32
	}{
		{"horizontal", func() ([]float32, error) {
			tr, err := HorizontalTrack()
			if err != nil {
				return nil, err
			}
			return frameTimes(tr.Frames()), nil
		}, []float32{0, 4, 11, 21, 31}},
		{"vertical", func() ([]float32, error) {
			tr, err := VerticalTrack()
			if err != nil {
				return nil, err
			}
			return frameTimes(tr.Frames()), nil
		}, []float32{0, 4, 8, 23}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.build()
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d frames, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("frame %d time = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCityTrackStartPoses(t *testing.T) {
	h, err := HorizontalTrack()
	if err != nil {
		t.Fatal(err)
	}
	if got := h.Position(); got != (math.Vec3{Y: 5, Z: 10}) {
		t.Errorf("horizontal start = %v", got)
	}
	last := h.Frames()[h.Len()-1]
	if !last.Rotation.ApproxEqual(yaw(180), 1e-5) {
		t.Errorf("horizontal end rotation = %v", last.Rotation)
	}

	v, err := VerticalTrack()
	if err != nil {
		t.Fatal(err)
	}
	if got := v.Position(); got != (math.Vec3{Y: 1, Z: 20}) {
		t.Errorf("vertical start = %v", got)
	}
	if got := v.Frames()[1].Rotation; !got.ApproxEqual(pitch(-40), 1e-5) {
		t.Errorf("vertical frame 1 rotation = %v", got)
	}
}

func TestTrackIDString(t *testing.T) {
	if TrackHorizontal.String() != "horizontal" || TrackVertical.String() != "vertical" {
		t.Errorf("unexpected names %q %q", TrackHorizontal, TrackVertical)
	}
	if got := TrackID(7).String(); got != "track(7)" {
		t.Errorf("String() = %q", got)
	}
}

func frameTimes(frames []keyframe.Keyframe) []float32 {
	out := make([]float32, len(frames))
	for i, f := range frames {
		out[i] = f.Time
	}
	return out
}
