package keyframe

import (
	"errors"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/polyview/pkg/math"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(seconds float64) {
	c.t = c.t.Add(time.Duration(seconds * float64(time.Second)))
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func yaw(deg float32) math.Quat {
	return math.QuatFromAxisAngle(math.Vec3{Y: 1}, math.Radians(deg))
}

func mustPush(t *testing.T, tr *Track, pos math.Vec3, rot math.Quat, d float32) {
	t.Helper()
	if err := tr.PushFrame(pos, rot, d); err != nil {
		t.Fatalf("PushFrame(%v): %v", d, err)
	}
}

func TestPushFrameCumulativeTime(t *testing.T) {
	tr := New(math.Vec3{}, math.QuatIdentity())
	mustPush(t, tr, math.Vec3{X: 1}, math.QuatIdentity(), 4)
	mustPush(t, tr, math.Vec3{X: 2}, math.QuatIdentity(), 7)
	mustPush(t, tr, math.Vec3{X: 3}, math.QuatIdentity(), 0)
	mustPush(t, tr, math.Vec3{X: 4}, math.QuatIdentity(), 10)

	want := []float32{0, 4, 11, 11, 21}
	frames := tr.Frames()
	if len(frames) != len(want) {
		t.Fatalf("got %d frames, want %d", len(frames), len(want))
	}
	for i, f := range frames {
		if f.Time != want[i] {
			t.Errorf("frame %d time = %v, want %v", i, f.Time, want[i])
		}
	}
	if tr.Duration() != 21 {
		t.Errorf("Duration() = %v, want 21", tr.Duration())
	}
}

func TestPushFrameRejectsNegativeDuration(t *testing.T) {
	tr := New(math.Vec3{}, math.QuatIdentity())
	err := tr.PushFrame(math.Vec3{X: 1}, math.QuatIdentity(), -1)
	if !errors.Is(err, ErrNegativeDuration) {
		t.Fatalf("expected ErrNegativeDuration, got %v", err)
	}
	if tr.Len() != 1 {
		t.Errorf("rejected frame must not be appended, Len() = %d", tr.Len())
	}
}

func TestIdleTrackHoldsStartPose(t *testing.T) {
	start := math.Vec3{X: 0, Y: 5, Z: 10}
	tr := New(start, math.QuatIdentity())
	mustPush(t, tr, math.Vec3{X: -20, Y: 5, Z: 15}, yaw(-40), 4)

	for _, e := range []float32{0, 2, 100} {
		pos, rot := tr.CurrentPose(e)
		if pos != start || rot != math.QuatIdentity() {
			t.Errorf("idle CurrentPose(%v) = %v %v, want start pose", e, pos, rot)
		}
	}
	if tr.Playing() {
		t.Error("new track should be idle")
	}
}

func TestCurrentPoseAtZero(t *testing.T) {
	start := math.Vec3{X: 1, Y: 2, Z: 3}
	tr := New(start, yaw(15))
	mustPush(t, tr, math.Vec3{X: 9}, yaw(90), 3)

	beforePos, beforeRot := tr.CurrentPose(0)
	tr.Start()
	afterPos, afterRot := tr.CurrentPose(0)

	if beforePos != start || afterPos != start {
		t.Errorf("position at 0: before %v after %v, want %v", beforePos, afterPos, start)
	}
	if beforeRot != yaw(15) || afterRot != yaw(15) {
		t.Errorf("rotation at 0: before %v after %v, want %v", beforeRot, afterRot, yaw(15))
	}
}

func TestCurrentPoseInterpolates(t *testing.T) {
	tr := New(math.Vec3{}, math.QuatIdentity())
	mustPush(t, tr, math.Vec3{X: 10}, math.QuatIdentity(), 5)
	tr.Start()

	pos, rot := tr.CurrentPose(2.5)
	if !pos.ApproxEqual(math.Vec3{X: 5}, 1e-5) {
		t.Errorf("position = %v, want (5,0,0)", pos)
	}
	if !rot.ApproxEqual(math.QuatIdentity(), 1e-6) {
		t.Errorf("rotation = %v, want identity", rot)
	}
}

func TestCurrentPoseSlerpsRotation(t *testing.T) {
	a, b := yaw(-40), yaw(40)
	tr := New(math.Vec3{X: -20, Y: 5, Z: 15}, a)
	mustPush(t, tr, math.Vec3{X: 20, Y: 5, Z: 20}, b, 8)
	tr.Start()

	_, rot := tr.CurrentPose(2)
	ref := mgl32.QuatSlerp(
		mgl32.Quat{W: a.W, V: mgl32.Vec3{a.X, a.Y, a.Z}},
		mgl32.Quat{W: b.W, V: mgl32.Vec3{b.X, b.Y, b.Z}},
		0.25,
	)
	want := math.Quat{X: ref.V.X(), Y: ref.V.Y(), Z: ref.V.Z(), W: ref.W}
	if !rot.ApproxEqual(want, 1e-5) {
		t.Errorf("rotation = %+v, want %+v", rot, want)
	}
	if !rot.ApproxEqual(yaw(-20), 1e-5) {
		t.Errorf("rotation = %+v, want yaw(-20)", rot)
	}
}

func TestCurrentPoseAtKeyframeBoundaries(t *testing.T) {
	frames := []struct {
		pos math.Vec3
		rot math.Quat
		d   float32
	}{
		{math.Vec3{X: -20, Y: 5, Z: 15}, yaw(-40), 4},
		{math.Vec3{X: 20, Y: 5, Z: 20}, yaw(40), 7},
		{math.Vec3{X: 20, Y: 5, Z: -40}, yaw(130), 10},
		{math.Vec3{X: 0, Y: 5, Z: -40}, yaw(180), 10},
	}
	tr := New(math.Vec3{Y: 5, Z: 10}, math.QuatIdentity())
	for _, f := range frames {
		mustPush(t, tr, f.pos, f.rot, f.d)
	}
	tr.Start()

	for i, kf := range tr.Frames() {
		pos, rot := tr.CurrentPose(kf.Time)
		if pos != kf.Position {
			t.Errorf("frame %d at t=%v: position %v, want exactly %v", i, kf.Time, pos, kf.Position)
		}
		if rot != kf.Rotation {
			t.Errorf("frame %d at t=%v: rotation %v, want exactly %v", i, kf.Time, rot, kf.Rotation)
		}
	}
}

func TestCurrentPoseTiesFavorLaterSegment(t *testing.T) {
	tr := New(math.Vec3{}, math.QuatIdentity())
	mustPush(t, tr, math.Vec3{X: 10}, math.QuatIdentity(), 5)
	mustPush(t, tr, math.Vec3{X: 10, Y: 10}, math.QuatIdentity(), 5)
	tr.Start()

	// t=5 starts the second segment, so a small step moves along Y.
	pos, _ := tr.CurrentPose(5.5)
	if !pos.ApproxEqual(math.Vec3{X: 10, Y: 1}, 1e-5) {
		t.Errorf("position = %v, want (10,1,0)", pos)
	}
}

func TestCurrentPosePastEndClamps(t *testing.T) {
	tr := New(math.Vec3{}, math.QuatIdentity())
	mustPush(t, tr, math.Vec3{X: 10}, yaw(90), 5)
	tr.Start()

	lastPos, _ := tr.CurrentPose(4)
	pos, rot := tr.CurrentPose(50)

	if pos != lastPos {
		t.Errorf("past end position = %v, want last computed %v", pos, lastPos)
	}
	if rot != yaw(90) {
		t.Errorf("past end rotation = %v, want final keyframe rotation", rot)
	}

	// Still playing; no implicit stop.
	if !tr.Playing() {
		t.Error("track should keep playing after its last keyframe")
	}
}

func TestZeroDurationSegmentDoesNotDivideByZero(t *testing.T) {
	tr := New(math.Vec3{}, math.QuatIdentity())
	mustPush(t, tr, math.Vec3{X: 10}, math.QuatIdentity(), 2)
	mustPush(t, tr, math.Vec3{X: 50}, yaw(90), 0)
	mustPush(t, tr, math.Vec3{X: 60}, yaw(90), 2)
	tr.Start()

	for _, e := range []float32{0, 1, 2, 2.5, 4, 5} {
		pos, rot := tr.CurrentPose(e)
		if pos.HasNaN() || rot.HasNaN() {
			t.Fatalf("CurrentPose(%v) produced NaN: %v %v", e, pos, rot)
		}
	}

	// The cut lands on the later frame at its shared time.
	pos, _ := tr.CurrentPose(2)
	if pos != (math.Vec3{X: 50}) {
		t.Errorf("position at cut = %v, want (50,0,0)", pos)
	}

	if got := segmentT(2, 2, 2); got != 1 {
		t.Errorf("segmentT on empty span = %v, want 1", got)
	}
}

func TestSingleFrameTrack(t *testing.T) {
	start := math.Vec3{X: 0, Y: 1, Z: 20}
	tr := New(start, yaw(10))
	tr.Start()

	for _, e := range []float32{0, 1, 10} {
		pos, rot := tr.CurrentPose(e)
		if pos != start || rot != yaw(10) {
			t.Errorf("CurrentPose(%v) = %v %v, want start pose", e, pos, rot)
		}
	}
}

func TestStartRestarts(t *testing.T) {
	clock := newClock()
	tr := New(math.Vec3{}, math.QuatIdentity(), WithClock(clock.Now))
	mustPush(t, tr, math.Vec3{X: 10}, math.QuatIdentity(), 10)

	tr.Start()
	clock.Advance(5)
	if pos, _ := tr.Pose(); !pos.ApproxEqual(math.Vec3{X: 5}, 1e-4) {
		t.Fatalf("pose after 5s = %v, want (5,0,0)", pos)
	}

	tr.Start()
	if got := tr.Elapsed(); got != 0 {
		t.Errorf("Elapsed after restart = %v, want 0", got)
	}
	clock.Advance(1)
	if pos, _ := tr.Pose(); !pos.ApproxEqual(math.Vec3{X: 1}, 1e-4) {
		t.Errorf("pose 1s after restart = %v, want (1,0,0)", pos)
	}
}

func TestViewMatrix(t *testing.T) {
	clock := newClock()
	rot := yaw(40)
	tr := New(math.Vec3{X: 20, Y: 5, Z: 20}, rot, WithClock(clock.Now))

	// Idle: the start pose.
	view := tr.ViewMatrix()
	world := math.TranslateVec(math.Vec3{X: 20, Y: 5, Z: 20}).Mul(rot.ToMat4())
	if !view.Mul(world).ApproxEqual(math.Identity(), 1e-4) {
		t.Errorf("view * world should be identity, got %v", view.Mul(world))
	}

	// The camera position maps to the view-space origin.
	if got := view.TransformVec3(math.Vec3{X: 20, Y: 5, Z: 20}); !got.ApproxEqual(math.Vec3{}, 1e-4) {
		t.Errorf("camera position in view space = %v, want origin", got)
	}
}

func TestViewMatrixFollowsLiveClock(t *testing.T) {
	clock := newClock()
	tr := New(math.Vec3{}, math.QuatIdentity(), WithClock(clock.Now))
	mustPush(t, tr, math.Vec3{X: 10}, math.QuatIdentity(), 5)
	tr.Start()

	clock.Advance(2.5)
	view := tr.ViewMatrix()
	want := math.Translate(-5, 0, 0)
	if !view.ApproxEqual(want, 1e-4) {
		t.Errorf("ViewMatrix = %v, want %v", view, want)
	}
	if pos := tr.Position(); !pos.ApproxEqual(math.Vec3{X: 5}, 1e-4) {
		t.Errorf("Position() = %v, want (5,0,0)", pos)
	}
}

func TestTracksAreIndependent(t *testing.T) {
	clock := newClock()
	h := New(math.Vec3{}, math.QuatIdentity(), WithClock(clock.Now))
	v := New(math.Vec3{Y: 1}, math.QuatIdentity(), WithClock(clock.Now))
	mustPush(t, h, math.Vec3{X: 10}, math.QuatIdentity(), 10)
	mustPush(t, v, math.Vec3{Y: 11}, math.QuatIdentity(), 10)

	h.Start()
	clock.Advance(5)
	v.Start()

	if pos, _ := h.Pose(); !pos.ApproxEqual(math.Vec3{X: 5}, 1e-4) {
		t.Errorf("horizontal pose = %v, want (5,0,0)", pos)
	}
	if pos, _ := v.Pose(); !pos.ApproxEqual(math.Vec3{Y: 1}, 1e-4) {
		t.Errorf("vertical pose = %v, want (0,1,0)", pos)
	}
}
