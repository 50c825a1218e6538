package gridview

import (
	"image"

	"github.com/gdamore/tcell/v2"

	"github.com/xqrs/gridview/keybind"
)

// Cursor returns the index of the keyboard cursor.
func (c *Collection) Cursor() int {
	return c.cursor
}

// SetCursor moves the keyboard cursor to index, clamped to the items, and
// scrolls it into view.
func (c *Collection) SetCursor(index int) *Collection {
	count := c.ItemCount()
	if count == 0 {
		c.cursor = 0
		return c
	}
	c.cursor = clamp(index, 0, count-1)
	return c.ScrollToIndex(c.cursor)
}

// TapAt taps the first visible item whose view contains the viewport point.
// It moves the cursor there and calls the tap handler.
func (c *Collection) TapAt(point image.Point) bool {
	if c.reloading {
		return false
	}
	offset := c.scroll.point()
	content := point.Add(offset)
	for _, index := range c.views.indexes() {
		view, _ := c.views.view(index)
		rect := rectOf(view)
		if c.IsFloating(view) {
			rect = rect.Add(offset)
		}
		if content.In(rect) {
			c.cursor = index
			if c.tap != nil {
				c.tap(view, index)
			}
			return true
		}
	}
	return false
}

// InputHandler handles key events.
func (c *Collection) InputHandler(event *tcell.EventKey) Command {
	c.runDue()
	if c.provider == nil || c.reloading {
		return nil
	}
	keys := c.keyMap

	if c.move.phase != DragIdle {
		switch {
		case keybind.Matches(event, keys.Up):
			c.stepDrag(-1)
		case keybind.Matches(event, keys.Down):
			c.stepDrag(1)
		case keybind.Matches(event, keys.Grab, keys.Select, keys.Cancel):
			c.cancelPress()
			c.EndDrag()
		default:
			return nil
		}
		return RedrawCommand{}
	}

	switch {
	case keybind.Matches(event, keys.Up):
		c.SetCursor(c.cursor - 1)
	case keybind.Matches(event, keys.Down):
		c.SetCursor(c.cursor + 1)
	case keybind.Matches(event, keys.PageUp):
		c.pageCursor(-1)
	case keybind.Matches(event, keys.PageDown):
		c.pageCursor(1)
	case keybind.Matches(event, keys.Top):
		c.SetCursor(0)
	case keybind.Matches(event, keys.Bottom):
		c.SetCursor(c.ItemCount() - 1)
	case keybind.Matches(event, keys.Select):
		c.SetCursor(c.cursor)
		if view, ok := c.views.view(c.cursor); ok && c.tap != nil {
			c.tap(view, c.cursor)
		}
	case keybind.Matches(event, keys.Grab):
		c.grabCursor()
	default:
		return nil
	}
	return RedrawCommand{}
}

// pageCursor scrolls by one viewport height and moves the cursor along.
func (c *Collection) pageCursor(direction int) {
	frame, ok := c.Frame(c.cursor)
	if !ok {
		return
	}
	page := max(c.scroll.viewport.Y, 1) * direction
	c.ScrollBy(0, page)
	center := frame.Min.Add(frame.Size().Div(2)).Add(image.Pt(0, page))
	if index, ok := c.IndexAt(center); ok {
		c.SetCursor(index)
	} else if direction < 0 {
		c.SetCursor(0)
	} else {
		c.SetCursor(c.ItemCount() - 1)
	}
}

// center returns the center of an item's frame in viewport coordinates.
func (c *Collection) center(index int) image.Point {
	frame := c.frames[index]
	return frame.Min.Add(frame.Size().Div(2)).Sub(c.scroll.point())
}

// grabCursor lifts the cursor item as if it was long pressed at its center.
func (c *Collection) grabCursor() {
	if c.cursor >= c.ItemCount() {
		return
	}
	c.ScrollToIndex(c.cursor)
	c.BeginDrag(c.center(c.cursor))
}

// stepDrag moves the lifted item onto its neighbor in the given direction.
func (c *Collection) stepDrag(direction int) {
	view := c.move.view
	index, ok := c.views.index(view)
	if !ok {
		c.resetDrag()
		return
	}
	target := index + direction
	if target < 0 || target >= c.ItemCount() {
		return
	}
	c.ScrollToIndex(target)
	c.updateDrag(c.center(target), false)
	if index, ok := c.views.index(view); ok {
		c.cursor = index
	}
}

// MouseHandler handles mouse events. A press held still for the long press
// duration lifts the item under it, a press that moves first pans the
// content, and a short click taps.
func (c *Collection) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	c.runDue()
	x, y := event.Position()
	screenPoint := image.Pt(x, y)
	point := screenPoint.Sub(c.viewport.Min)
	inside := screenPoint.In(c.viewport)

	switch action {
	case MouseLeftDown:
		if c.showScrollBar && c.scrollBar.InRect(x, y) {
			_, top, _, _ := c.scrollBar.GetInnerRect()
			c.SetOffset(image.Pt(c.scroll.point().X, c.scrollBar.OffsetAt(y-top)))
			return nil, BatchCommand{SetFocusCommand{Target: c}, RedrawCommand{}}
		}
		if !inside {
			return c.Box.MouseHandler(action, event)
		}
		c.pressDown(point)
		return c, SetFocusCommand{Target: c}
	case MouseMove:
		if c.press.state == pressIdle {
			return nil, nil
		}
		if event.Buttons()&tcell.ButtonPrimary == 0 {
			c.cancelPress()
			return nil, RedrawCommand{}
		}
		c.pressMove(point)
		return c, RedrawCommand{}
	case MouseLeftUp:
		if c.press.state == pressIdle {
			return nil, nil
		}
		c.pressUp()
		return nil, RedrawCommand{}
	case MouseLeftClick:
		tappable := c.press.tappable
		c.press.tappable = false
		if inside && tappable && c.TapAt(point) {
			return nil, RedrawCommand{}
		}
	case MouseScrollUp, MouseScrollDown, MouseScrollLeft, MouseScrollRight:
		if !inside {
			return nil, nil
		}
		c.scroll.stop()
		switch action {
		case MouseScrollUp:
			c.ScrollBy(0, -c.wheelStep)
		case MouseScrollDown:
			c.ScrollBy(0, c.wheelStep)
		case MouseScrollLeft:
			c.ScrollBy(-c.wheelStep, 0)
		case MouseScrollRight:
			c.ScrollBy(c.wheelStep, 0)
		}
		if c.move.phase == DragDragging {
			c.updateDrag(c.move.last, true)
		}
		return nil, RedrawCommand{}
	}
	return nil, nil
}
