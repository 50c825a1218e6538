package gridview

import (
	"cmp"
	"slices"
)

// Floatable is implemented by item views that look different while they
// float.
type Floatable interface {
	SetFloating(floating bool)
}

// Float lifts a visible view above all items. Its rect is converted to
// viewport coordinates, so it stays put on screen while the content scrolls,
// and it stays visible across reloads as long as its item exists. Float
// panics if the view is not visible.
func (c *Collection) Float(view Primitive) {
	if c.reloading {
		return
	}
	if _, ok := c.views.index(view); !ok {
		panic("gridview: Float called with a view that is not visible")
	}
	if c.IsFloating(view) {
		return
	}
	c.floating[view] = struct{}{}
	if f, ok := view.(Floatable); ok {
		f.SetFloating(true)
	}
	setRect(view, rectOf(view).Sub(c.scroll.point()))
	c.stack.Append(floatingLayer, view)
}

// Unfloat returns a floating view to the items at its index and asks the
// presenter to move it to its frame.
func (c *Collection) Unfloat(view Primitive) {
	if c.reloading || !c.IsFloating(view) {
		return
	}
	c.sink(view)
	index, ok := c.views.index(view)
	if !ok {
		return
	}
	c.insertItem(view, index)
	c.presenter.Update(view, index, c.frames[index])
}

// sink moves a floating view back into the item layer without placing it.
func (c *Collection) sink(view Primitive) {
	delete(c.floating, view)
	if f, ok := view.(Floatable); ok {
		f.SetFloating(false)
	}
	setRect(view, rectOf(view).Add(c.scroll.point()))
	c.stack.Append(itemsLayer, view)
}

// IsFloating reports whether the view is floating.
func (c *Collection) IsFloating(view Primitive) bool {
	_, ok := c.floating[view]
	return ok
}

// FloatingViews returns the floating views ordered by index.
func (c *Collection) FloatingViews() []Primitive {
	views := make([]Primitive, 0, len(c.floating))
	for view := range c.floating {
		views = append(views, view)
	}
	slices.SortFunc(views, func(a, b Primitive) int {
		ia, _ := c.views.index(a)
		ib, _ := c.views.index(b)
		return cmp.Compare(ia, ib)
	})
	return views
}
