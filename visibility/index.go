// Package visibility computes which item frames intersect an active
// rectangle. The incremental mode tracks the previously visible index range
// and walks its boundaries instead of testing every frame.
package visibility

import (
	"image"
	"slices"
)

// Mode selects how Visible computes its result.
type Mode int

const (
	// Incremental reuses the previous visible range.
	Incremental Mode = iota
	// FullScan tests every frame on each call.
	FullScan
)

func (m Mode) String() string {
	switch m {
	case Incremental:
		return "incremental"
	case FullScan:
		return "full"
	}
	return "unknown"
}

// DefaultMaxReseeds is how many times one Visible call may reseed a collapsed
// range from a full scan.
const DefaultMaxReseeds = 1

// Stats counts the work done by an Index since the last Reload.
type Stats struct {
	Calls int
	// FullScans counts calls answered by testing every frame.
	FullScans int
	// Reseeds counts collapsed ranges that were re-established.
	Reseeds int
	// GuardScans counts linear scans outside the tracked range triggered by
	// the prefix or suffix bounds still intersecting.
	GuardScans int
	// Tests counts frame intersection tests.
	Tests int
}

// Index answers visibility queries against a frame table.
type Index struct {
	frames []image.Rectangle
	// prefix[i] is the union of frames[0..i], suffix[i] of frames[i..n-1].
	prefix, suffix []image.Rectangle

	start, end int
	tracked    bool

	mode       Mode
	maxReseeds int
	stats      Stats
}

// Option configures an Index.
type Option func(*Index)

// WithMode sets the initial mode.
func WithMode(mode Mode) Option {
	return func(x *Index) {
		x.mode = mode
	}
}

// WithMaxReseeds caps the reseeds per call. Once the cap is reached the call
// falls back to a full scan.
func WithMaxReseeds(n int) Option {
	return func(x *Index) {
		x.maxReseeds = max(n, 0)
	}
}

// New returns an empty index.
func New(opts ...Option) *Index {
	x := &Index{maxReseeds: DefaultMaxReseeds}
	for _, opt := range opts {
		if opt != nil {
			opt(x)
		}
	}
	return x
}

// SetMode switches the computation mode. The tracked range is kept.
func (x *Index) SetMode(mode Mode) {
	x.mode = mode
}

// Mode returns the current mode.
func (x *Index) Mode() Mode {
	return x.mode
}

// Stats returns the counters accumulated since the last Reload.
func (x *Index) Stats() Stats {
	return x.stats
}

// Len returns the number of frames.
func (x *Index) Len() int {
	return len(x.frames)
}

// Frame returns the frame at index i.
func (x *Index) Frame(i int) image.Rectangle {
	return x.frames[i]
}

// Range returns the tracked contiguous range, inclusive on both ends.
func (x *Index) Range() (start, end int, ok bool) {
	return x.start, x.end, x.tracked
}

// Reload replaces the frame table. The tracked range survives, clamped to the
// new length.
func (x *Index) Reload(frames []image.Rectangle) {
	n := len(frames)
	x.frames = slices.Clone(frames)
	x.prefix = make([]image.Rectangle, n)
	x.suffix = make([]image.Rectangle, n)
	for i := range n {
		x.prefix[i] = frames[i]
		if i > 0 {
			x.prefix[i] = x.prefix[i-1].Union(frames[i])
		}
	}
	for i := n - 1; i >= 0; i-- {
		x.suffix[i] = frames[i]
		if i < n-1 {
			x.suffix[i] = x.suffix[i+1].Union(frames[i])
		}
	}
	x.stats = Stats{}

	if n == 0 {
		x.tracked = false
		return
	}
	if x.tracked {
		x.start = min(x.start, n-1)
		x.end = min(x.end, n-1)
	}
}

func (x *Index) hit(i int, active image.Rectangle) bool {
	x.stats.Tests++
	return x.frames[i].Overlaps(active)
}

// Visible returns the sorted indexes whose frames intersect active, unioned
// with pinned. Pinned indexes outside the table are ignored.
func (x *Index) Visible(active image.Rectangle, pinned ...int) []int {
	x.stats.Calls++
	var result []int
	if x.mode == FullScan {
		result = x.FullScan(active)
	} else {
		result = x.incremental(active)
	}
	return x.pin(result, pinned)
}

func (x *Index) pin(result []int, pinned []int) []int {
	if len(pinned) == 0 {
		return result
	}
	for _, i := range pinned {
		if i >= 0 && i < len(x.frames) {
			result = append(result, i)
		}
	}
	slices.Sort(result)
	return slices.Compact(result)
}

// FullScan tests every frame and records the first and last hit as the
// tracked range.
func (x *Index) FullScan(active image.Rectangle) []int {
	x.stats.FullScans++
	var result []int
	for i := range x.frames {
		if x.hit(i, active) {
			result = append(result, i)
		}
	}
	if len(result) == 0 {
		x.tracked = false
		return result
	}
	x.start, x.end, x.tracked = result[0], result[len(result)-1], true
	return result
}

func (x *Index) incremental(active image.Rectangle) []int {
	n := len(x.frames)
	if n == 0 {
		return nil
	}
	if !x.tracked {
		return x.FullScan(active)
	}

	reseeds := 0
	for {
		// Drop boundary items that left the rectangle.
		for x.start <= x.end && !x.hit(x.start, active) {
			x.start++
		}
		for x.end >= x.start && !x.hit(x.end, active) {
			x.end--
		}
		if x.start <= x.end {
			break
		}
		// The range collapsed, typically after a jump scroll.
		if reseeds >= x.maxReseeds {
			return x.FullScan(active)
		}
		reseeds++
		x.stats.Reseeds++
		if !x.reseed(active) {
			return nil
		}
	}

	for x.end+1 < n && x.hit(x.end+1, active) {
		x.end++
	}
	for x.start > 0 && x.hit(x.start-1, active) {
		x.start--
	}

	var result []int
	if x.start > 0 && x.prefix[x.start-1].Overlaps(active) {
		x.stats.GuardScans++
		for i := 0; i < x.start; i++ {
			if x.hit(i, active) {
				result = append(result, i)
			}
		}
	}
	for i := x.start; i <= x.end; i++ {
		if i == x.start || i == x.end || x.hit(i, active) {
			result = append(result, i)
		}
	}
	if x.end+1 < n && x.suffix[x.end+1].Overlaps(active) {
		x.stats.GuardScans++
		for i := x.end + 1; i < n; i++ {
			if x.hit(i, active) {
				result = append(result, i)
			}
		}
	}
	return result
}

// reseed re-establishes the tracked range from the first and last frame that
// intersect active. It returns false if none does.
func (x *Index) reseed(active image.Rectangle) bool {
	first, last := -1, -1
	for i := range x.frames {
		if x.hit(i, active) {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		x.tracked = false
		return false
	}
	x.start, x.end, x.tracked = first, last, true
	return true
}
