package gridview

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestScroller() *scroller {
	s := &scroller{}
	s.resize(image.Pt(10, 100), image.Pt(10, 10))
	return s
}

func TestScrollerClampsOffset(t *testing.T) {
	s := newTestScroller()

	assert.True(t, s.setOffset(Vector{5, 200}))
	assert.Equal(t, image.Pt(0, 90), s.point())
	assert.False(t, s.setOffset(Vector{0, 95}))

	// Shrinking the content pulls the offset back.
	assert.True(t, s.resize(image.Pt(10, 40), image.Pt(10, 10)))
	assert.Equal(t, image.Pt(0, 30), s.point())
	assert.True(t, s.atMax(1))
	assert.False(t, s.atMin(1))
	assert.False(t, s.scrollable(0))
	assert.True(t, s.scrollable(1))
}

func TestScrollerKeepsUndampedVelocity(t *testing.T) {
	s := newTestScroller()
	s.decayFrom(Vector{0, 10}, 0)

	assert.True(t, s.step(time.Second))
	assert.Equal(t, image.Pt(0, 10), s.point())
	assert.Equal(t, Vector{0, 10}, s.velocity)
}

func TestScrollerStopsAtBound(t *testing.T) {
	s := newTestScroller()
	s.setOffset(Vector{0, 85})
	s.decayFrom(Vector{0, 20}, 0)

	assert.True(t, s.step(time.Second))
	assert.Equal(t, image.Pt(0, 90), s.point())
	assert.False(t, s.moving())
	assert.False(t, s.step(time.Second))
}

func TestScrollerDecaysToRest(t *testing.T) {
	s := newTestScroller()
	s.decayFrom(Vector{0, 20}, DefaultDamping)

	for range 100 {
		if !s.moving() {
			break
		}
		s.step(100 * time.Millisecond)
	}
	assert.False(t, s.moving())
	// Eight steps of a geometric series with ratio exp(-0.5).
	assert.InDelta(t, 4.99, s.offset.Y, 0.01)
}

func TestScrollerStop(t *testing.T) {
	s := newTestScroller()
	s.decayFrom(Vector{3, 4}, 1)
	s.stop()
	assert.False(t, s.moving())
	assert.False(t, s.step(time.Second))
}
