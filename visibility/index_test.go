package visibility

import (
	"image"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listFrames(n, height int) []image.Rectangle {
	frames := make([]image.Rectangle, n)
	for i := range frames {
		frames[i] = image.Rect(0, i*height, 40, (i+1)*height)
	}
	return frames
}

func gridFrames(n, columns, size int) []image.Rectangle {
	frames := make([]image.Rectangle, n)
	for i := range frames {
		x, y := (i%columns)*size, (i/columns)*size
		frames[i] = image.Rect(x, y, x+size, y+size)
	}
	return frames
}

func viewport(y, height int) image.Rectangle {
	return image.Rect(0, y, 40, y+height)
}

func TestFullScanList(t *testing.T) {
	x := New(WithMode(FullScan))
	x.Reload(listFrames(100, 3))

	assert.Equal(t, []int{3, 4, 5, 6}, x.Visible(viewport(10, 10)))
	start, end, ok := x.Range()
	require.True(t, ok)
	assert.Equal(t, 3, start)
	assert.Equal(t, 6, end)
}

func TestIncrementalScrollMatchesFullScan(t *testing.T) {
	frames := listFrames(500, 3)
	inc, full := New(), New(WithMode(FullScan))
	inc.Reload(frames)
	full.Reload(frames)

	for y := 0; y < 1500; y += 2 {
		active := viewport(y, 24)
		require.Equal(t, full.Visible(active), inc.Visible(active), "y=%d", y)
	}
	for y := 1500; y >= 0; y -= 5 {
		active := viewport(y, 24)
		require.Equal(t, full.Visible(active), inc.Visible(active), "y=%d", y)
	}
	assert.Less(t, inc.Stats().Tests, full.Stats().Tests)
}

func TestJumpScrollReseeds(t *testing.T) {
	x := New()
	x.Reload(listFrames(1000, 2))
	x.Visible(viewport(0, 20))

	assert.Equal(t, []int{900, 901, 902, 903, 904}, x.Visible(viewport(1800, 10)))
	assert.Equal(t, 1, x.Stats().Reseeds)
}

func TestNoReseedsFallsBackToFullScan(t *testing.T) {
	x := New(WithMaxReseeds(0))
	x.Reload(listFrames(100, 2))
	x.Visible(viewport(0, 10))
	before := x.Stats().FullScans

	assert.Equal(t, []int{50, 51}, x.Visible(viewport(100, 4)))
	assert.Equal(t, before+1, x.Stats().FullScans)
	assert.Zero(t, x.Stats().Reseeds)
}

func TestEmptyResult(t *testing.T) {
	x := New()
	x.Reload(listFrames(10, 2))
	x.Visible(viewport(0, 4))

	assert.Empty(t, x.Visible(viewport(500, 10)))
	_, _, ok := x.Range()
	assert.False(t, ok)
	assert.Equal(t, []int{0, 1}, x.Visible(viewport(0, 4)))
}

func TestPinnedIndexesAreUnioned(t *testing.T) {
	x := New()
	x.Reload(listFrames(50, 2))

	assert.Equal(t, []int{0, 1, 40}, x.Visible(viewport(0, 4), 40, 1, -3, 99))
}

func TestGridPartialRows(t *testing.T) {
	frames := gridFrames(200, 5, 4)
	inc, full := New(), New(WithMode(FullScan))
	inc.Reload(frames)
	full.Reload(frames)

	// A rectangle covering only the middle columns leaves non-intersecting
	// items inside the tracked range.
	for y := 0; y < 160; y += 3 {
		active := image.Rect(6, y, 14, y+9)
		require.Equal(t, full.Visible(active), inc.Visible(active), "y=%d", y)
	}
}

func TestReversedLayoutStaysExact(t *testing.T) {
	frames := listFrames(100, 2)
	// Bottom-up ordering: index 0 at the bottom.
	for i, j := 0, len(frames)-1; i < j; i, j = i+1, j-1 {
		frames[i], frames[j] = frames[j], frames[i]
	}
	inc, full := New(), New(WithMode(FullScan))
	inc.Reload(frames)
	full.Reload(frames)

	for y := 0; y < 200; y += 7 {
		active := viewport(y, 12)
		require.Equal(t, full.Visible(active), inc.Visible(active), "y=%d", y)
	}
}

func TestRandomFramesMatchFullScan(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for round := 0; round < 50; round++ {
		n := r.IntN(60)
		frames := make([]image.Rectangle, n)
		for i := range frames {
			x, y := r.IntN(100), r.IntN(100)
			frames[i] = image.Rect(x, y, x+1+r.IntN(20), y+1+r.IntN(20))
		}
		inc, full := New(), New(WithMode(FullScan))
		inc.Reload(frames)
		full.Reload(frames)
		for q := 0; q < 20; q++ {
			x, y := r.IntN(120)-10, r.IntN(120)-10
			active := image.Rect(x, y, x+r.IntN(40), y+r.IntN(40))
			require.Equal(t, full.Visible(active), inc.Visible(active), "round=%d query=%d", round, q)
		}
	}
}

func TestReloadClampsTrackedRange(t *testing.T) {
	x := New()
	x.Reload(listFrames(100, 2))
	x.Visible(viewport(180, 10))

	x.Reload(listFrames(10, 2))
	start, end, ok := x.Range()
	require.True(t, ok)
	assert.Equal(t, 9, start)
	assert.Equal(t, 9, end)
	assert.Equal(t, []int{8, 9}, x.Visible(viewport(16, 10)))
}
