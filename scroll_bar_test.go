package gridview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeScrollMetrics(t *testing.T) {
	m := computeScrollMetrics(10, 100, 10, 0)
	assert.Equal(t, 80, m.trackLen)
	assert.Equal(t, 8, m.thumbLen)
	assert.Equal(t, 0, m.thumbStart)
	assert.Equal(t, 90, m.maxOffset)

	m = computeScrollMetrics(10, 100, 10, 90)
	assert.Equal(t, 72, m.thumbStart)

	// Everything fits.
	m = computeScrollMetrics(10, 5, 10, 3)
	assert.Equal(t, 80, m.thumbLen)
	assert.Zero(t, m.maxOffset)
}

func TestScrollBarAutoHide(t *testing.T) {
	s := NewScrollBar().SetLengths(ScrollLengths{ContentLen: 5, ViewportLen: 10})
	assert.False(t, s.shouldDraw(s.metrics(10)))
	s.SetAutoHide(false)
	assert.True(t, s.shouldDraw(s.metrics(10)))
}

func TestScrollBarOffsetAt(t *testing.T) {
	s := NewScrollBar().SetLengths(ScrollLengths{ContentLen: 100, ViewportLen: 10})
	s.SetRect(0, 0, 1, 10)

	// Thumb on row zero, a click below it pages down.
	assert.Equal(t, 0, s.OffsetAt(0))
	assert.Equal(t, 10, s.OffsetAt(5))

	s.SetOffset(50)
	assert.Equal(t, 40, s.OffsetAt(0))

	s.SetTrackClickBehavior(TrackClickBehaviorJumpToClick)
	assert.Equal(t, 90, s.OffsetAt(9))

	s.SetArrows(ScrollBarArrowsBoth)
	assert.Equal(t, 49, s.OffsetAt(0))
	assert.Equal(t, 51, s.OffsetAt(9))
}

func TestScrollBarDraw(t *testing.T) {
	screen := newTestScreen(t, 1, 4)
	s := NewScrollBar().
		SetLengths(ScrollLengths{ContentLen: 8, ViewportLen: 4}).
		SetGlyphSet(UnicodeGlyphSet())
	s.SetRect(0, 0, 1, 4)
	s.Draw(screen)

	glyphs := UnicodeGlyphSet()
	top, _, _, _ := screen.GetContent(0, 0)
	bottom, _, _, _ := screen.GetContent(0, 3)
	assert.Equal(t, glyphs.ThumbVerticalLower[7], top)
	assert.Equal(t, glyphs.TrackVertical, bottom)
}
