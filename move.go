package gridview

import (
	"image"
	"sync/atomic"

	"github.com/xqrs/gridview/clock"
)

// DragPhase is the state of an item drag.
type DragPhase int

const (
	// DragIdle means no item is dragged.
	DragIdle DragPhase = iota
	// DragArmed means an item was lifted but the pointer has not moved yet.
	DragArmed
	// DragDragging means the lifted item follows the pointer.
	DragDragging
)

func (p DragPhase) String() string {
	switch p {
	case DragArmed:
		return "armed"
	case DragDragging:
		return "dragging"
	}
	return "idle"
}

type moveManager struct {
	phase DragPhase
	view  Primitive
	// grab is the pointer position relative to the view's origin.
	grab image.Point
	// last is the most recent pointer position in viewport coordinates.
	last image.Point

	// Set while a reorder is cooling down. The cooldown timer may fire on
	// another goroutine.
	cooling  atomic.Bool
	cooldown clock.Timer
}

// DragPhase returns the state of the current drag.
func (c *Collection) DragPhase() DragPhase {
	return c.move.phase
}

// DraggedView returns the view being dragged, if any.
func (c *Collection) DraggedView() (Primitive, bool) {
	if c.move.phase == DragIdle {
		return nil, false
	}
	return c.move.view, true
}

// BeginDrag lifts the item under the viewport point. The item must be
// visible, not floating already, and approved by the will-drag handler. The
// lifted view floats and keeps its offset to the pointer while it is
// dragged. BeginDrag reports whether a drag started.
func (c *Collection) BeginDrag(point image.Point) bool {
	if c.reloading || c.move.phase != DragIdle {
		return false
	}
	index, ok := c.IndexAt(point.Add(c.scroll.point()))
	if !ok {
		return false
	}
	view, ok := c.views.view(index)
	if !ok || c.IsFloating(view) {
		return false
	}
	if c.willDrag == nil || !c.willDrag(view, index) {
		return false
	}

	c.scroll.panning = false
	c.Float(view)
	c.move.phase = DragArmed
	c.move.view = view
	c.move.grab = point.Sub(rectOf(view).Min)
	c.move.last = point
	return true
}

// UpdateDrag moves the dragged view to the viewport point. Near the edges of
// the viewport the content scrolls. Once the content rests, hovering another
// item asks the move handler to reorder, after which the collection reloads.
func (c *Collection) UpdateDrag(point image.Point) {
	c.updateDrag(point, true)
}

func (c *Collection) updateDrag(point image.Point, autoScroll bool) {
	if c.reloading || c.move.phase == DragIdle {
		return
	}
	view := c.move.view
	index, ok := c.views.index(view)
	if !ok || !c.IsFloating(view) {
		// The item went away under the pointer.
		c.resetDrag()
		return
	}

	c.move.phase = DragDragging
	c.move.last = point
	frame := rectOf(view)
	setRect(view, frame.Add(point.Sub(c.move.grab).Sub(frame.Min)))

	var velocity Vector
	if autoScroll {
		velocity = c.autoScrollVelocity(point)
	}
	if velocity.IsZero() {
		c.scroll.decay(DefaultDamping)
	} else {
		c.scroll.decayFrom(velocity, 0)
	}

	if !velocity.IsZero() || c.move.cooling.Load() || c.scroll.panning {
		return
	}
	to, ok := c.IndexAt(point.Add(c.scroll.point()))
	if !ok || to == index {
		return
	}
	if c.moveItem == nil || !c.moveItem(index, to) {
		return
	}
	c.startCooldown()
	c.ReloadData(nil)
}

func (c *Collection) startCooldown() {
	if c.reorderCooldown <= 0 {
		return
	}
	c.move.cooling.Store(true)
	if c.move.cooldown != nil {
		c.move.cooldown.Stop()
	}
	c.move.cooldown = c.scheduler.AfterFunc(c.reorderCooldown, func() {
		c.move.cooling.Store(false)
	})
}

// autoScrollVelocity returns the scroll velocity for a pointer at the
// viewport point. An axis only scrolls when the content overflows it and the
// offset is not resting on the bound it would scroll towards.
func (c *Collection) autoScrollVelocity(point image.Point) Vector {
	axis := func(axis, pos, length int) float64 {
		if !c.scroll.scrollable(axis) {
			return 0
		}
		if depth := c.autoMargin - pos; depth > 0 && !c.scroll.atMin(axis) {
			return -float64(depth) * c.autoSpeed
		}
		if depth := pos - (length - 1 - c.autoMargin); depth > 0 && !c.scroll.atMax(axis) {
			return float64(depth) * c.autoSpeed
		}
		return 0
	}
	size := c.scroll.viewport
	return Vector{
		X: axis(0, point.X, size.X),
		Y: axis(1, point.Y, size.Y),
	}
}

// EndDrag drops the dragged item. The view returns to the items and the
// did-drag handler is called with its final index. Nothing is reported when
// the item disappeared during the drag. It is ignored during a reload.
func (c *Collection) EndDrag() {
	if c.reloading || c.move.phase == DragIdle {
		return
	}
	view := c.move.view
	c.resetDrag()
	c.scroll.decay(DefaultDamping)

	index, ok := c.views.index(view)
	if !ok || !c.IsFloating(view) {
		return
	}
	c.Unfloat(view)
	if c.didDrag != nil {
		c.didDrag(view, index)
	}
}

// CancelDrag ends the drag the same way EndDrag does.
func (c *Collection) CancelDrag() {
	c.EndDrag()
}

func (c *Collection) resetDrag() {
	c.move.phase = DragIdle
	c.move.view = nil
	c.move.grab = image.Point{}
}
