package gridview

import "github.com/gdamore/tcell/v2"

// ScrollBarArrows controls which endcaps are rendered.
type ScrollBarArrows uint8

const (
	ScrollBarArrowsNone ScrollBarArrows = iota
	ScrollBarArrowsStart
	ScrollBarArrowsEnd
	ScrollBarArrowsBoth
)

func (a ScrollBarArrows) hasStart() bool {
	return a == ScrollBarArrowsStart || a == ScrollBarArrowsBoth
}

func (a ScrollBarArrows) hasEnd() bool {
	return a == ScrollBarArrowsEnd || a == ScrollBarArrowsBoth
}

// TrackClickBehavior configures what a click on the track outside the thumb
// does.
type TrackClickBehavior uint8

const (
	// TrackClickBehaviorPage scrolls one viewport towards the click.
	TrackClickBehaviorPage TrackClickBehavior = iota
	// TrackClickBehaviorJumpToClick centers the thumb on the click.
	TrackClickBehaviorJumpToClick
)

// ScrollLengths bundles content and viewport lengths in cells.
type ScrollLengths struct {
	ContentLen  int
	ViewportLen int
}

const subcell = 8

// GlyphSet defines vertical track, arrow, and fractional thumb glyphs.
type GlyphSet struct {
	TrackVertical rune

	ArrowVerticalStart rune
	ArrowVerticalEnd   rune

	ThumbVerticalLower [8]rune
	ThumbVerticalUpper [8]rune
}

// MinimalGlyphSet returns the minimal glyph set (space track, fractional thumbs).
func MinimalGlyphSet() GlyphSet {
	g := UnicodeGlyphSet()
	g.TrackVertical = ' '
	return g
}

// LegacyComputingGlyphSet returns legacy-computing symbols for full 1/8
// fractional fidelity. Not every terminal font has them.
func LegacyComputingGlyphSet() GlyphSet {
	return GlyphSet{
		TrackVertical: '│',

		ArrowVerticalStart: '▲',
		ArrowVerticalEnd:   '▼',

		ThumbVerticalLower: [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'},
		ThumbVerticalUpper: [8]rune{'▔', '🮂', '🮃', '▀', '🮄', '🮅', '🮆', '█'},
	}
}

// UnicodeGlyphSet returns a standard-unicode-only approximation set.
func UnicodeGlyphSet() GlyphSet {
	return GlyphSet{
		TrackVertical: '│',

		ArrowVerticalStart: '▲',
		ArrowVerticalEnd:   '▼',

		ThumbVerticalLower: [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'},
		ThumbVerticalUpper: [8]rune{'▔', '▔', '▀', '▀', '▀', '▀', '█', '█'},
	}
}

// ScrollBar renders a vertical scroll bar for a content and viewport length.
type ScrollBar struct {
	*Box

	autoHide    bool
	contentLen  int
	viewportLen int
	offset      int

	trackStyle tcell.Style
	thumbStyle tcell.Style
	arrowStyle tcell.Style

	glyphSet GlyphSet
	arrows   ScrollBarArrows

	trackClickBehavior TrackClickBehavior
}

// NewScrollBar returns a new vertical scroll bar.
func NewScrollBar() *ScrollBar {
	box := NewBox()
	box.dontClear = true
	return &ScrollBar{
		Box:                box,
		autoHide:           true,
		trackStyle:         tcell.StyleDefault.Dim(true),
		thumbStyle:         tcell.StyleDefault.Foreground(Styles.SecondaryTextColor),
		arrowStyle:         tcell.StyleDefault.Dim(true),
		glyphSet:           MinimalGlyphSet(),
		arrows:             ScrollBarArrowsNone,
		trackClickBehavior: TrackClickBehaviorPage,
	}
}

// SetLengths sets content and viewport lengths.
func (s *ScrollBar) SetLengths(lengths ScrollLengths) *ScrollBar {
	s.contentLen = max(lengths.ContentLen, 0)
	s.viewportLen = max(lengths.ViewportLen, 0)
	return s
}

// SetOffset sets the offset of the viewport into the content.
func (s *ScrollBar) SetOffset(offset int) *ScrollBar {
	s.offset = max(offset, 0)
	return s
}

// SetGlyphSet applies a glyph set.
func (s *ScrollBar) SetGlyphSet(g GlyphSet) *ScrollBar {
	s.glyphSet = g
	return s
}

// SetArrows sets which arrow endcaps are rendered.
func (s *ScrollBar) SetArrows(arrows ScrollBarArrows) *ScrollBar {
	s.arrows = arrows
	return s
}

// SetTrackClickBehavior sets behavior used for track clicks.
func (s *ScrollBar) SetTrackClickBehavior(behavior TrackClickBehavior) *ScrollBar {
	s.trackClickBehavior = behavior
	return s
}

// SetAutoHide controls whether the scroll bar is hidden when there is
// nothing to scroll.
func (s *ScrollBar) SetAutoHide(autoHide bool) *ScrollBar {
	s.autoHide = autoHide
	return s
}

// SetThumbStyle sets the thumb style.
func (s *ScrollBar) SetThumbStyle(style tcell.Style) *ScrollBar {
	s.thumbStyle = style
	return s
}

// SetTrackStyle sets the track style.
func (s *ScrollBar) SetTrackStyle(style tcell.Style) *ScrollBar {
	s.trackStyle = style
	return s
}

// SetArrowStyle sets the arrow endcap style.
func (s *ScrollBar) SetArrowStyle(style tcell.Style) *ScrollBar {
	s.arrowStyle = style
	return s
}

func (s *ScrollBar) trackCells(length int) int {
	if length <= 0 {
		return 0
	}
	arrows := 0
	if s.arrows.hasStart() {
		arrows++
	}
	if s.arrows.hasEnd() {
		arrows++
	}
	return max(length-arrows, 0)
}

func (s *ScrollBar) viewportLength(length int) int {
	if s.viewportLen > 0 {
		return s.viewportLen
	}
	return max(length, 0)
}

type scrollMetrics struct {
	trackCells int
	trackLen   int
	thumbLen   int
	thumbStart int
	maxOffset  int
}

// metrics computes scroll bar geometry in subcell units.
func (s *ScrollBar) metrics(length int) scrollMetrics {
	return computeScrollMetrics(s.trackCells(length), s.contentLen, s.viewportLength(length), s.offset)
}

func computeScrollMetrics(trackCells int, contentLen int, viewportLen int, offset int) scrollMetrics {
	trackLen := trackCells * subcell
	if trackLen == 0 {
		return scrollMetrics{}
	}

	contentLen = max(contentLen, 1)
	viewportLen = min(max(viewportLen, 1), contentLen)
	maxOffset := max(contentLen-viewportLen, 0)
	offset = min(max(offset, 0), maxOffset)

	if maxOffset == 0 {
		return scrollMetrics{trackCells: trackCells, trackLen: trackLen, thumbLen: trackLen}
	}

	// Subcell math moves the thumb in 1/8-cell steps while staying
	// proportional to viewport/content size.
	thumbLen := min(max((trackLen*viewportLen)/contentLen, subcell), trackLen)
	thumbTravel := max(trackLen-thumbLen, 0)
	thumbStart := (thumbTravel * offset) / maxOffset
	return scrollMetrics{trackCells: trackCells, trackLen: trackLen, thumbLen: thumbLen, thumbStart: thumbStart, maxOffset: maxOffset}
}

func (s *ScrollBar) shouldDraw(m scrollMetrics) bool {
	if m.trackLen == 0 || s.contentLen <= 0 {
		return false
	}
	return !s.autoHide || m.maxOffset > 0
}

func cellFill(m scrollMetrics, cellIndex int) (start int, fillLen int) {
	if m.thumbLen == 0 {
		return 0, 0
	}
	cellStart := cellIndex * subcell
	cellEnd := cellStart + subcell
	thumbEnd := m.thumbStart + m.thumbLen
	start = max(m.thumbStart, cellStart)
	end := min(thumbEnd, cellEnd)
	if end <= start {
		return 0, 0
	}
	fillLen = min(end-start, subcell)
	start = min(max(start-cellStart, 0), subcell)
	return start, fillLen
}

func (s *ScrollBar) glyphForVertical(start, fillLen int) (rune, tcell.Style) {
	if fillLen <= 0 {
		return s.glyphSet.TrackVertical, s.trackStyle
	}
	if fillLen >= subcell {
		return s.glyphSet.ThumbVerticalLower[7], s.thumbStyle
	}
	ix := fillLen - 1
	if start == 0 {
		return s.glyphSet.ThumbVerticalUpper[ix], s.thumbStyle
	}
	return s.glyphSet.ThumbVerticalLower[ix], s.thumbStyle
}

// OffsetAt returns the offset a click on the given row of the scroll bar
// scrolls to. Rows outside the track and clicks on the thumb keep the
// current offset.
func (s *ScrollBar) OffsetAt(row int) int {
	_, _, _, height := s.GetInnerRect()
	m := s.metrics(height)
	if m.maxOffset == 0 {
		return s.offset
	}
	if s.arrows.hasStart() {
		if row == 0 {
			return max(s.offset-1, 0)
		}
		row--
	}
	if row >= m.trackCells {
		if s.arrows.hasEnd() && row == m.trackCells {
			return min(s.offset+1, m.maxOffset)
		}
		return s.offset
	}
	if row < 0 {
		return s.offset
	}

	pos := row*subcell + subcell/2
	switch {
	case pos >= m.thumbStart && pos < m.thumbStart+m.thumbLen:
		return s.offset
	case s.trackClickBehavior == TrackClickBehaviorJumpToClick:
		travel := max(m.trackLen-m.thumbLen, 1)
		return clamp((pos-m.thumbLen/2)*m.maxOffset/travel, 0, m.maxOffset)
	case pos < m.thumbStart:
		return max(s.offset-s.viewportLength(height), 0)
	}
	return min(s.offset+s.viewportLength(height), m.maxOffset)
}

// Draw draws the scroll bar.
func (s *ScrollBar) Draw(screen tcell.Screen) {
	s.DrawForSubclass(screen, s)

	x, y, _, height := s.GetInnerRect()
	if height <= 0 {
		return
	}
	m := s.metrics(height)
	if !s.shouldDraw(m) {
		return
	}

	row := y
	if s.arrows.hasStart() {
		screen.SetContent(x, row, s.glyphSet.ArrowVerticalStart, nil, s.arrowStyle)
		row++
	}
	for cell := 0; cell < m.trackCells; cell++ {
		glyph, style := s.glyphForVertical(cellFill(m, cell))
		screen.SetContent(x, row, glyph, nil, style)
		row++
	}
	if s.arrows.hasEnd() {
		screen.SetContent(x, row, s.glyphSet.ArrowVerticalEnd, nil, s.arrowStyle)
	}
}

var _ Primitive = &ScrollBar{}
