package input

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/velamare/config"
)

const (
	keyW  int32 = 87
	keyA  int32 = 65
	keyS  int32 = 83
	keyD  int32 = 68
	keyQ  int32 = 81
	keyUp int32 = 265
)

func testBindings() Bindings {
	return Bindings{
		keyW:  ActionForward,
		keyUp: ActionForward,
		keyS:  ActionBackward,
		keyA:  ActionLeft,
		keyD:  ActionRight,
	}
}

func TestFlagsVector(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
		want  r2.Vec
	}{
		{"idle", Flags{}, r2.Vec{}},
		{"forward", Flags{Forward: true}, r2.Vec{Y: -1}},
		{"backward", Flags{Backward: true}, r2.Vec{Y: 1}},
		{"left", Flags{Left: true}, r2.Vec{X: -1}},
		{"right", Flags{Right: true}, r2.Vec{X: 1}},
		{"opposed cancel", Flags{Forward: true, Backward: true}, r2.Vec{}},
		{"diagonal", Flags{Forward: true, Right: true}, r2.Vec{X: 1 / math.Sqrt2, Y: -1 / math.Sqrt2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.flags.Vector()
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("Vector() = %+v, want %+v", got, tt.want)
			}
			if r2.Norm(got) > 1+1e-9 {
				t.Errorf("intent length %v exceeds 1", r2.Norm(got))
			}
		})
	}
}

func TestClampIntent(t *testing.T) {
	got := ClampIntent(r2.Vec{X: 3, Y: 4})
	if math.Abs(r2.Norm(got)-1) > 1e-9 {
		t.Errorf("expected unit length, got %v", r2.Norm(got))
	}

	got = ClampIntent(r2.Vec{X: math.NaN(), Y: 0.5})
	if got.X != 0 || got.Y != 0.5 {
		t.Errorf("expected NaN component zeroed, got %+v", got)
	}
}

func TestKeyboardPressRelease(t *testing.T) {
	kb := NewKeyboard(testBindings())

	kb.Press(keyW)
	kb.Press(keyQ) // unbound
	if f := kb.ControlFlags(); !f.Forward || f.Backward || f.Left || f.Right {
		t.Errorf("expected only forward held, got %+v", f)
	}

	// Two keys bound to the same action: releasing one keeps it held
	kb.Press(keyUp)
	kb.Release(keyW)
	if !kb.ControlFlags().Forward {
		t.Error("expected forward still held via second binding")
	}

	kb.Release(keyUp)
	if kb.ControlFlags().Any() {
		t.Error("expected no controls after releasing all keys")
	}
}

func TestKeyboardBlurResets(t *testing.T) {
	kb := NewKeyboard(testBindings())
	kb.Press(keyW)
	kb.Press(keyA)

	kb.Blur()

	if kb.ControlFlags().Any() {
		t.Error("expected blur to clear all held keys")
	}
	if v := kb.MovementVector(); v != (r2.Vec{}) {
		t.Errorf("expected zero intent after blur, got %+v", v)
	}
}

func TestKeyboardDisabled(t *testing.T) {
	kb := NewKeyboard(testBindings())
	kb.Press(keyD)

	kb.SetEnabled(false)
	if kb.ControlFlags().Any() {
		t.Error("disabling should clear held keys")
	}
	kb.Press(keyW)
	if kb.ControlFlags().Any() {
		t.Error("presses while disabled should be ignored")
	}

	kb.SetEnabled(true)
	kb.Press(keyW)
	if !kb.ControlFlags().Forward {
		t.Error("expected input accepted after re-enable")
	}
}

func TestKeyboardKeys(t *testing.T) {
	kb := NewKeyboard(testBindings())
	if got := len(kb.Keys(ActionForward)); got != 2 {
		t.Errorf("expected 2 forward keys, got %d", got)
	}
	if ActionLeft.String() != "left" {
		t.Errorf("unexpected action name %q", ActionLeft.String())
	}
}

func TestScriptedSegments(t *testing.T) {
	s := NewScripted(config.AutopilotConfig{
		Segments: []config.AutopilotSegment{
			{Duration: 1, Z: -1},
			{Duration: 0.5, X: 1},
		},
	})

	if v := s.MovementVector(); v.Y != -1 {
		t.Errorf("expected forward intent first, got %+v", v)
	}
	if !s.ControlFlags().Forward {
		t.Error("expected forward flag")
	}

	s.Advance(1.2)
	if v := s.MovementVector(); v.X != 1 || v.Y != 0 {
		t.Errorf("expected right intent in second segment, got %+v", v)
	}

	s.Advance(1)
	if !s.Done() {
		t.Error("expected non-looping script to finish")
	}
	if v := s.MovementVector(); v != (r2.Vec{}) {
		t.Errorf("expected zero intent when done, got %+v", v)
	}
}

func TestScriptedLoop(t *testing.T) {
	s := NewScripted(config.AutopilotConfig{
		Loop: true,
		Segments: []config.AutopilotSegment{
			{Duration: 1, Z: -1},
			{Duration: 1, Z: 1},
		},
	})

	s.Advance(2.5)
	if s.Done() {
		t.Fatal("looping script should never finish")
	}
	if v := s.MovementVector(); v.Y != -1 {
		t.Errorf("expected to wrap back to the first segment, got %+v", v)
	}
}
