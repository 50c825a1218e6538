package gridview

import (
	"image"

	"github.com/xqrs/gridview/clock"
)

type pressState int

const (
	pressIdle pressState = iota
	// The button is down and has not moved beyond the slop.
	pressHolding
	// The press turned into a pan of the content.
	pressPanning
	// The long press lifted an item.
	pressDragging
)

// panSlop is the distance in cells a held press may move before it pans.
const panSlop = 1

// pressRecognizer tells taps, pans and long presses apart. Points are in
// viewport coordinates.
type pressRecognizer struct {
	state  pressState
	origin image.Point
	last   image.Point

	timer clock.Timer
	// Incremented on every press so a late timer of an earlier press is
	// ignored.
	token uint64
	// Set once the long press fired, approved or not.
	longPressed bool
	// Set on release when the press qualifies as a tap.
	tappable bool
}

func (p *pressRecognizer) stopTimer() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// pressDown starts a new press and arms the long press timer.
func (c *Collection) pressDown(point image.Point) {
	c.press.stopTimer()
	c.press.token++
	token := c.press.token
	c.press.state = pressHolding
	c.press.origin, c.press.last = point, point
	c.press.longPressed, c.press.tappable = false, false
	c.scroll.stop()
	c.press.timer = c.scheduler.AfterFunc(c.longPress, func() {
		if c.press.token != token || c.press.state != pressHolding {
			return
		}
		c.longPressFired()
	})
}

// longPressFired lifts the item under a held press. A declined lift resets
// the recognizer, so the rest of the press neither pans nor taps.
func (c *Collection) longPressFired() {
	c.press.timer = nil
	c.press.longPressed = true
	if c.BeginDrag(c.press.last) {
		c.press.state = pressDragging
		return
	}
	c.press.state = pressIdle
	c.press.tappable = false
}

// pressMove follows a held button.
func (c *Collection) pressMove(point image.Point) {
	switch c.press.state {
	case pressHolding:
		moved := point.Sub(c.press.origin)
		if abs(moved.X) <= panSlop && abs(moved.Y) <= panSlop {
			c.press.last = point
			return
		}
		c.press.stopTimer()
		c.press.state = pressPanning
		c.scroll.panning = true
		fallthrough
	case pressPanning:
		delta := c.press.last.Sub(point)
		c.press.last = point
		c.ScrollBy(delta.X, delta.Y)
	case pressDragging:
		c.press.last = point
		c.UpdateDrag(point)
	}
}

// pressUp ends the press.
func (c *Collection) pressUp() {
	switch c.press.state {
	case pressHolding:
		c.press.stopTimer()
		c.press.tappable = !c.press.longPressed
	case pressPanning:
		c.scroll.panning = false
	case pressDragging:
		c.EndDrag()
	}
	c.press.state = pressIdle
}

// cancelPress abandons the press, ending a drag it started.
func (c *Collection) cancelPress() {
	c.press.stopTimer()
	if c.press.state == pressDragging {
		c.CancelDrag()
	}
	c.scroll.panning = false
	c.press.state = pressIdle
	c.press.tappable = false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
