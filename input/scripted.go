package input

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/velamare/config"
)

// Scripted replays timed intent segments. It drives the vessel in headless runs
// and in calibration, where no keyboard exists.
type Scripted struct {
	segments []config.AutopilotSegment
	loop     bool
	index    int
	elapsed  float64
	total    float64
}

// NewScripted creates a scripted source from autopilot config.
func NewScripted(cfg config.AutopilotConfig) *Scripted {
	s := &Scripted{segments: cfg.Segments, loop: cfg.Loop}
	for _, seg := range cfg.Segments {
		s.total += seg.Duration
	}
	return s
}

// Advance moves the script forward by dt seconds.
func (s *Scripted) Advance(dt float64) {
	if len(s.segments) == 0 || dt <= 0 {
		return
	}
	if s.loop && s.total <= 0 {
		return
	}
	s.elapsed += dt
	for s.index < len(s.segments) && s.elapsed >= s.segments[s.index].Duration {
		s.elapsed -= s.segments[s.index].Duration
		s.index++
		if s.index == len(s.segments) && s.loop {
			s.index = 0
		}
	}
}

// Done reports whether a non-looping script has run out.
func (s *Scripted) Done() bool {
	return s.index >= len(s.segments)
}

// MovementVector returns the intent of the current segment, or zero when done.
func (s *Scripted) MovementVector() r2.Vec {
	if s.Done() {
		return r2.Vec{}
	}
	seg := s.segments[s.index]
	return ClampIntent(r2.Vec{X: seg.X, Y: seg.Z})
}

// ControlFlags derives discrete flags from the current intent.
func (s *Scripted) ControlFlags() Flags {
	v := s.MovementVector()
	return Flags{
		Forward:  v.Y < 0,
		Backward: v.Y > 0,
		Left:     v.X < 0,
		Right:    v.X > 0,
	}
}
