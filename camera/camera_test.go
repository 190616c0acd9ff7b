package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/velamare/config"
)

const dt = 1.0 / 60.0

func newStillCamera() *Follow {
	f := New(config.CameraConfig{
		Offset:       [3]float64{0, 6, 12},
		LookHeight:   2,
		PositionRate: 0.08,
		LookAtRate:   0.12,
	})
	return f
}

func near(a, b r3.Vec, tol float64) bool {
	return r3.Norm(r3.Sub(a, b)) <= tol
}

func TestFirstTickSnaps(t *testing.T) {
	f := newStillCamera()
	vessel := r3.Vec{X: 10, Y: 0.5, Z: -4}

	f.Tick(vessel, r3.Vec{}, dt)

	pos, look := f.Pose()
	if !near(pos, r3.Vec{X: 10, Y: 6.5, Z: 8}, 1e-9) {
		t.Errorf("expected camera snapped behind vessel, got %+v", pos)
	}
	if !near(look, r3.Vec{X: 10, Y: 2.5, Z: -4}, 1e-9) {
		t.Errorf("expected look-at above vessel, got %+v", look)
	}
	s := f.State()
	if s.CurrentPosition != s.TargetPosition || s.CurrentLookAt != s.TargetLookAt {
		t.Error("expected current == target after first tick")
	}
}

func TestConvergesToFixedPose(t *testing.T) {
	f := newStillCamera()
	f.Tick(r3.Vec{}, r3.Vec{}, dt)

	// Vessel jumps and then holds still
	vessel := r3.Vec{X: 20, Z: -30}
	heading := r3.Vec{Y: 0.7}

	prev := math.Inf(1)
	for i := 0; i < 600; i++ {
		f.Tick(vessel, heading, dt)
		s := f.State()
		d := r3.Norm(r3.Sub(s.TargetPosition, s.CurrentPosition))
		if d >= prev && d > 1e-9 {
			t.Fatalf("tick %d: distance to target did not decrease (%v -> %v)", i, prev, d)
		}
		prev = d
	}
	if prev > 1e-3 {
		t.Errorf("expected camera to converge, still %v away", prev)
	}
}

func TestLookAtFasterThanPosition(t *testing.T) {
	f := newStillCamera()
	f.Tick(r3.Vec{}, r3.Vec{}, dt)

	jump := r3.Vec{X: 10}
	f.Tick(jump, r3.Vec{}, dt)

	s := f.State()
	posFrac := 1 - r3.Norm(r3.Sub(s.TargetPosition, s.CurrentPosition))/10
	lookFrac := 1 - r3.Norm(r3.Sub(s.TargetLookAt, s.CurrentLookAt))/10

	if math.Abs(posFrac-0.08) > 1e-9 {
		t.Errorf("expected position to close 8%% at 60fps, closed %v", posFrac)
	}
	if math.Abs(lookFrac-0.12) > 1e-9 {
		t.Errorf("expected look-at to close 12%% at 60fps, closed %v", lookFrac)
	}
}

func TestFrameRateIndependent(t *testing.T) {
	a := newStillCamera()
	b := newStillCamera()
	a.Tick(r3.Vec{}, r3.Vec{}, dt)
	b.Tick(r3.Vec{}, r3.Vec{}, dt)

	target := r3.Vec{X: 5, Z: 5}
	for i := 0; i < 60; i++ {
		a.Tick(target, r3.Vec{}, dt)
	}
	for i := 0; i < 30; i++ {
		b.Tick(target, r3.Vec{}, 2*dt)
	}

	pa, _ := a.Pose()
	pb, _ := b.Pose()
	if !near(pa, pb, 1e-9) {
		t.Errorf("expected same result at 60 and 30 fps, got %+v vs %+v", pa, pb)
	}
}

func TestOffsetFollowsHeading(t *testing.T) {
	tests := []struct {
		name    string
		heading float64
		want    r3.Vec
	}{
		{"north", 0, r3.Vec{Y: 6, Z: 12}},
		{"quarter turn", math.Pi / 2, r3.Vec{X: 12, Y: 6}},
		{"about face", math.Pi, r3.Vec{Y: 6, Z: -12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newStillCamera()
			f.Tick(r3.Vec{}, r3.Vec{Y: tt.heading}, dt)
			pos, _ := f.Pose()
			if !near(pos, tt.want, 1e-9) {
				t.Errorf("heading %v: expected %+v, got %+v", tt.heading, tt.want, pos)
			}
		})
	}
}

func TestResetSnapsAgain(t *testing.T) {
	f := newStillCamera()
	f.Tick(r3.Vec{}, r3.Vec{}, dt)
	f.Tick(r3.Vec{X: 50}, r3.Vec{}, dt)

	f.Reset()
	f.Tick(r3.Vec{X: 50}, r3.Vec{}, dt)

	s := f.State()
	if s.CurrentPosition != s.TargetPosition {
		t.Errorf("expected snap after Reset, current %+v target %+v", s.CurrentPosition, s.TargetPosition)
	}
}

func TestSwayBounded(t *testing.T) {
	f := New(config.CameraConfig{Offset: [3]float64{0, 6, 12}, PositionRate: 1, LookAtRate: 1, SwayX: 0.3, SwayY: 0.2})
	for i := 0; i < 600; i++ {
		f.Tick(r3.Vec{}, r3.Vec{}, dt)
		pos, _ := f.Pose()
		if math.Abs(pos.X) > 0.3+1e-9 || math.Abs(pos.Y-6) > 0.2+1e-9 {
			t.Fatalf("tick %d: sway out of bounds %+v", i, pos)
		}
	}
}
