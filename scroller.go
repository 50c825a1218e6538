package gridview

import (
	"image"
	"math"
	"time"
)

// DefaultDamping is the damping used when a scroll is asked to settle.
const DefaultDamping = 5

// Velocities below this many cells per second are treated as rest.
const restVelocity = 0.5

// scroller is the scrollable surface hosting a Collection: a clamped content
// offset with a velocity that decays over time.
type scroller struct {
	offset   Vector
	velocity Vector
	damping  float64

	content  image.Point
	viewport image.Point

	// panning is set while the user drags the content directly.
	panning bool
}

// maxOffset returns the largest offset on each axis.
func (s *scroller) maxOffset() Vector {
	return Vector{
		X: float64(max(s.content.X-s.viewport.X, 0)),
		Y: float64(max(s.content.Y-s.viewport.Y, 0)),
	}
}

func (s *scroller) clampOffset(v Vector) Vector {
	limit := s.maxOffset()
	return Vector{clamp(v.X, 0, limit.X), clamp(v.Y, 0, limit.Y)}
}

// point returns the offset rounded to whole cells.
func (s *scroller) point() image.Point {
	return s.offset.Point()
}

// setOffset moves to v, clamped, and reports whether the cell offset changed.
func (s *scroller) setOffset(v Vector) bool {
	before := s.point()
	s.offset = s.clampOffset(v)
	return s.point() != before
}

// resize updates the content and viewport sizes and re-clamps the offset.
func (s *scroller) resize(content, viewport image.Point) bool {
	s.content, s.viewport = content, viewport
	return s.setOffset(s.offset)
}

// atMin and atMax report whether the offset rests on a bound of an axis.
func (s *scroller) atMin(axis int) bool {
	if axis == 0 {
		return s.offset.X <= 0
	}
	return s.offset.Y <= 0
}

func (s *scroller) atMax(axis int) bool {
	limit := s.maxOffset()
	if axis == 0 {
		return s.offset.X >= limit.X
	}
	return s.offset.Y >= limit.Y
}

// scrollable reports whether the content exceeds the viewport on an axis.
func (s *scroller) scrollable(axis int) bool {
	if axis == 0 {
		return s.content.X > s.viewport.X
	}
	return s.content.Y > s.viewport.Y
}

// decay lets the current velocity settle towards zero.
func (s *scroller) decay(damping float64) {
	s.damping = damping
}

// decayFrom replaces the velocity. A zero damping keeps it constant.
func (s *scroller) decayFrom(velocity Vector, damping float64) {
	s.velocity = velocity
	s.damping = damping
}

// stop drops any velocity.
func (s *scroller) stop() {
	s.velocity = Vector{}
}

func (s *scroller) moving() bool {
	return !s.velocity.IsZero()
}

// step advances the simulation and reports whether the cell offset changed.
func (s *scroller) step(elapsed time.Duration) bool {
	if !s.moving() || elapsed <= 0 {
		return false
	}
	dt := elapsed.Seconds()
	before := s.point()
	next := s.offset.Add(s.velocity.Scale(dt))
	clamped := s.clampOffset(next)
	// Hitting a bound stops that axis.
	if clamped.X != next.X {
		s.velocity.X = 0
	}
	if clamped.Y != next.Y {
		s.velocity.Y = 0
	}
	s.offset = clamped

	if s.damping > 0 {
		s.velocity = s.velocity.Scale(math.Exp(-s.damping * dt))
		if math.Hypot(s.velocity.X, s.velocity.Y) < restVelocity {
			s.velocity = Vector{}
		}
	}
	return s.point() != before
}
