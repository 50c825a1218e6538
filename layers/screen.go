package layers

import (
	"image"

	"github.com/gdamore/tcell/v2"
)

// layerScreen translates layer coordinates to screen coordinates and drops
// cells outside the clip rectangle.
type layerScreen struct {
	tcell.Screen
	origin image.Point
	clip   image.Rectangle
}

func newLayerScreen(screen tcell.Screen, origin image.Point, clip image.Rectangle) tcell.Screen {
	if origin == (image.Point{}) && clip.Empty() {
		return screen
	}
	return &layerScreen{Screen: screen, origin: origin, clip: clip}
}

func (s *layerScreen) translate(x, y int) (image.Point, bool) {
	p := image.Pt(x, y).Add(s.origin)
	if !s.clip.Empty() && !p.In(s.clip) {
		return p, false
	}
	return p, true
}

func (s *layerScreen) SetContent(x int, y int, primary rune, combining []rune, style tcell.Style) {
	p, ok := s.translate(x, y)
	if !ok {
		return
	}
	s.Screen.SetContent(p.X, p.Y, primary, combining, style)
}

func (s *layerScreen) GetContent(x int, y int) (rune, []rune, tcell.Style, int) {
	p, ok := s.translate(x, y)
	if !ok {
		return ' ', nil, tcell.StyleDefault, 1
	}
	return s.Screen.GetContent(p.X, p.Y)
}

func (s *layerScreen) ShowCursor(x int, y int) {
	p, ok := s.translate(x, y)
	if !ok {
		s.Screen.HideCursor()
		return
	}
	s.Screen.ShowCursor(p.X, p.Y)
}

type overlayScreen struct {
	tcell.Screen
	overlay tcell.Style
}

func newOverlayScreen(screen tcell.Screen, overlay tcell.Style) *overlayScreen {
	return &overlayScreen{
		Screen:  screen,
		overlay: overlay,
	}
}

func (s *overlayScreen) SetContent(x int, y int, primary rune, combining []rune, style tcell.Style) {
	s.Screen.SetContent(x, y, primary, combining, applyBackgroundStyle(style, s.overlay))
}

func applyBackgroundStyle(base tcell.Style, overlay tcell.Style) tcell.Style {
	overlayFg, overlayBg, overlayAttrs := overlay.Decompose()
	_, _, baseAttrs := base.Decompose()

	// Apply overlay foreground/background only when explicitly set. This avoids
	// forcing defaults that could unexpectedly replace existing content colors.
	if overlayFg != tcell.ColorDefault {
		base = base.Foreground(overlayFg)
	}
	if overlayBg != tcell.ColorDefault {
		base = base.Background(overlayBg)
	}

	// Attributes are added, never removed.
	return base.Attributes(baseAttrs | overlayAttrs)
}
