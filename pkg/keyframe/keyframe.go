// Package keyframe interpolates a camera pose along a timed sequence of keyframes.
//
// A Track starts Idle holding its start pose. Start puts it in the Playing state,
// after which the pose follows the keyframes by elapsed time: positions are blended
// linearly and rotations spherically between the two frames bracketing that time.
// Once the last keyframe has passed, the track holds the final rotation and the last
// interpolated position for as long as it keeps playing; there is no stop transition.
package keyframe

import (
	"errors"
	"fmt"
	"time"

	"github.com/chewxy/math32"

	"github.com/Faultbox/polyview/pkg/math"
)

// ErrNegativeDuration is returned by PushFrame for durations below zero.
var ErrNegativeDuration = errors.New("keyframe: negative duration")

// Keyframe is a target pose reached Time seconds after playback starts.
type Keyframe struct {
	Position math.Vec3
	Rotation math.Quat
	Time     float32
}

// Option configures a Track.
type Option func(*Track)

// WithClock replaces the wall clock used to measure elapsed playback time.
func WithClock(now func() time.Time) Option {
	return func(t *Track) {
		t.now = now
	}
}

// Track is an ordered list of keyframes plus a playback clock.
// Tracks are not safe for concurrent use; they are driven from the render loop.
type Track struct {
	frames []Keyframe

	now       func() time.Time
	startedAt time.Time
	playing   bool

	// Last computed pose.
	position math.Vec3
	rotation math.Quat
}

// New creates an idle track whose first keyframe is the given start pose at time 0.
func New(position math.Vec3, rotation math.Quat, opts ...Option) *Track {
	t := &Track{
		frames:   []Keyframe{{Position: position, Rotation: rotation, Time: 0}},
		now:      time.Now,
		position: position,
		rotation: rotation,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// PushFrame appends a keyframe reached duration seconds after the previous one.
// A zero duration is an instantaneous cut.
func (t *Track) PushFrame(position math.Vec3, rotation math.Quat, duration float32) error {
	if duration < 0 || math32.IsNaN(duration) {
		return fmt.Errorf("%w: %v", ErrNegativeDuration, duration)
	}
	last := t.frames[len(t.frames)-1]
	t.frames = append(t.frames, Keyframe{
		Position: position,
		Rotation: rotation,
		Time:     last.Time + duration,
	})
	return nil
}

// Start rewinds the clock to zero and begins playback from the first keyframe.
func (t *Track) Start() {
	t.startedAt = t.now()
	t.playing = true
}

// Playing reports whether Start has been called.
func (t *Track) Playing() bool {
	return t.playing
}

// Elapsed returns seconds since Start, or 0 while idle.
func (t *Track) Elapsed() float32 {
	if !t.playing {
		return 0
	}
	return float32(t.now().Sub(t.startedAt).Seconds())
}

// Len returns the number of keyframes, including the start pose.
func (t *Track) Len() int {
	return len(t.frames)
}

// Frames returns a copy of the keyframes.
func (t *Track) Frames() []Keyframe {
	out := make([]Keyframe, len(t.frames))
	copy(out, t.frames)
	return out
}

// Duration returns the time of the last keyframe.
func (t *Track) Duration() float32 {
	return t.frames[len(t.frames)-1].Time
}

// Position returns the last computed position.
func (t *Track) Position() math.Vec3 {
	return t.position
}

// Rotation returns the last computed rotation.
func (t *Track) Rotation() math.Quat {
	return t.rotation
}

// CurrentPose returns the pose at the given number of seconds since Start.
// While idle it returns the last computed pose unchanged.
func (t *Track) CurrentPose(elapsed float32) (math.Vec3, math.Quat) {
	if !t.playing {
		return t.position, t.rotation
	}
	if elapsed < 0 || math32.IsNaN(elapsed) {
		elapsed = 0
	}

	i, ok := t.segment(elapsed)
	if !ok {
		last := t.frames[len(t.frames)-1]
		if elapsed == last.Time {
			t.position, t.rotation = last.Position, last.Rotation
		} else {
			// Past the end: hold the final rotation, keep the last position.
			t.rotation = last.Rotation
		}
		return t.position, t.rotation
	}

	a, b := t.frames[i], t.frames[i+1]
	switch T := segmentT(a.Time, b.Time, elapsed); T {
	case 0:
		t.position, t.rotation = a.Position, a.Rotation
	case 1:
		t.position, t.rotation = b.Position, b.Rotation
	default:
		t.position = a.Position.Lerp(b.Position, T)
		t.rotation = a.Rotation.Slerp(b.Rotation, T)
	}
	return t.position, t.rotation
}

// Pose returns the pose at the live clock.
func (t *Track) Pose() (math.Vec3, math.Quat) {
	return t.CurrentPose(t.Elapsed())
}

// ViewMatrix converts the live camera pose into a view matrix:
// inverse(translate(position) * rotation).
func (t *Track) ViewMatrix() math.Mat4 {
	pos, rot := t.Pose()
	return math.TranslateVec(pos).Mul(rot.ToMat4()).Inverse()
}

// segment finds i with frames[i].Time <= elapsed < frames[i+1].Time by scanning from the start.
func (t *Track) segment(elapsed float32) (int, bool) {
	for i := 0; i+1 < len(t.frames); i++ {
		if t.frames[i].Time <= elapsed && elapsed < t.frames[i+1].Time {
			return i, true
		}
	}
	return 0, false
}

// segmentT maps elapsed into [0,1] across [start, end]. A zero-length segment snaps to 1.
func segmentT(start, end, elapsed float32) float32 {
	span := end - start
	if span == 0 {
		return 1
	}
	return math.Clamp((elapsed-start)/span, 0, 1)
}
