// Package layout computes item frames for a Collection. A layout only
// produces rectangles; it never touches views.
package layout

import "image"

// SizeFunc returns the preferred size of item index when it may use at most
// width cells horizontally.
type SizeFunc func(index, width int) image.Point

// Layout turns item sizes into frames for a container that is width cells
// wide.
type Layout interface {
	Frames(count, width int, size SizeFunc) []image.Rectangle
}

// Vertical stacks items top to bottom, each spanning the full width.
type Vertical struct {
	// Gap is the number of empty rows between two items.
	Gap int
}

func (v Vertical) Frames(count, width int, size SizeFunc) []image.Rectangle {
	frames := make([]image.Rectangle, count)
	y := 0
	for i := range count {
		height := max(size(i, width).Y, 1)
		frames[i] = image.Rect(0, y, width, y+height)
		y += height + v.Gap
	}
	return frames
}

// Flow places items left to right and wraps to a new row when the next item
// would not fit. Rows are as tall as their tallest item.
type Flow struct {
	// Gap is the number of empty columns between two items of a row.
	Gap int
	// RowGap is the number of empty rows between two rows.
	RowGap int
}

func (f Flow) Frames(count, width int, size SizeFunc) []image.Rectangle {
	frames := make([]image.Rectangle, count)
	x, y, rowHeight := 0, 0, 0
	for i := range count {
		s := size(i, width)
		w, h := min(max(s.X, 1), max(width, 1)), max(s.Y, 1)
		if x > 0 && x+w > width {
			x = 0
			y += rowHeight + f.RowGap
			rowHeight = 0
		}
		frames[i] = image.Rect(x, y, x+w, y+h)
		x += w + f.Gap
		rowHeight = max(rowHeight, h)
	}
	return frames
}

// Side is the edge a chat message is aligned to.
type Side int

const (
	Left Side = iota
	Right
)

// Message describes how a chat item is placed.
type Message struct {
	Side Side
	// Tile marks items, such as pictures, that are placed side by side with
	// the previous tile of the same side while there is room.
	Tile bool
}

// Chat lays out message bubbles aligned to either edge. Consecutive tiles of
// the same side share a row while they fit.
type Chat struct {
	// Message describes item index. Nil means every item is a left-aligned
	// bubble.
	Message func(index int) Message
	// MaxWidthPercent caps the bubble width relative to the container.
	// Zero means 75.
	MaxWidthPercent int
	// Gap separates consecutive messages of the same side.
	Gap int
	// SideGap separates messages of different sides.
	SideGap int
	// TileGap separates tiles sharing a row.
	TileGap int
}

func (c Chat) Frames(count, width int, size SizeFunc) []image.Rectangle {
	percent := c.MaxWidthPercent
	if percent <= 0 {
		percent = 75
	}
	maxWidth := max(width*percent/100, 1)

	frames := make([]image.Rectangle, count)
	var last image.Rectangle
	var lastMessage Message
	for i := range count {
		var message Message
		if c.Message != nil {
			message = c.Message(i)
		}
		s := size(i, maxWidth)
		w, h := min(max(s.X, 1), maxWidth), max(s.Y, 1)

		x := 0
		if message.Side == Right {
			x = width - w
		}
		y := 0
		if i > 0 {
			placed := false
			if message.Tile && lastMessage.Tile && message.Side == lastMessage.Side {
				switch {
				case message.Side == Left && last.Max.X+c.TileGap+w <= width:
					x, y, placed = last.Max.X+c.TileGap, last.Min.Y, true
				case message.Side == Right && last.Min.X-c.TileGap-w >= 0:
					x, y, placed = last.Min.X-c.TileGap-w, last.Min.Y, true
				}
			}
			if !placed {
				gap := c.Gap
				if message.Side != lastMessage.Side {
					gap = c.SideGap
				}
				y = last.Max.Y + gap
			}
		}

		frames[i] = image.Rect(x, y, x+w, y+h)
		last, lastMessage = frames[i], message
	}
	return frames
}
