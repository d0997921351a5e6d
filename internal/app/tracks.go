package app

import (
	"fmt"

	"github.com/Faultbox/polyview/pkg/keyframe"
	"github.com/Faultbox/polyview/pkg/math"
)

// TrackID selects one of the city camera tracks.
type TrackID int

const (
	TrackHorizontal TrackID = iota
	TrackVertical
)

func (id TrackID) String() string {
	switch id {
	case TrackHorizontal:
		return "horizontal"
	case TrackVertical:
		return "vertical"
	default:
		return fmt.Sprintf("track(%d)", int(id))
	}
}

type framePlan struct {
	position math.Vec3
	rotation math.Quat
	duration float32
}

func yaw(deg float32) math.Quat {
	return math.QuatFromAxisAngle(math.Vec3{Y: 1}, math.Radians(deg))
}

func pitch(deg float32) math.Quat {
	return math.QuatFromAxisAngle(math.Vec3{X: 1}, math.Radians(deg))
}

// HorizontalTrack circles the city at street height.
func HorizontalTrack(opts ...keyframe.Option) (*keyframe.Track, error) {
	return buildTrack(math.Vec3{Y: 5, Z: 10}, []framePlan{
		{math.Vec3{X: -20, Y: 5, Z: 15}, yaw(-40), 4},
		{math.Vec3{X: 20, Y: 5, Z: 20}, yaw(40), 7},
		{math.Vec3{X: 20, Y: 5, Z: -40}, yaw(130), 10},
		{math.Vec3{X: 0, Y: 5, Z: -40}, yaw(180), 10},
	}, opts)
}

// VerticalTrack rises over the city looking down, then drops behind it.
func VerticalTrack(opts ...keyframe.Option) (*keyframe.Track, error) {
	return buildTrack(math.Vec3{Y: 1, Z: 20}, []framePlan{
		{math.Vec3{X: -10, Y: 15, Z: 15}, pitch(-40), 4},
		{math.Vec3{X: -10, Y: 20, Z: -5}, pitch(-60), 4},
		{math.Vec3{X: 0, Y: 5, Z: -40}, yaw(180), 15},
	}, opts)
}

func buildTrack(start math.Vec3, plan []framePlan, opts []keyframe.Option) (*keyframe.Track, error) {
	t := keyframe.New(start, math.QuatIdentity(), opts...)
	for i, f := range plan {
		if err := t.PushFrame(f.position, f.rotation, f.duration); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i+1, err)
		}
	}
	return t, nil
}
