package gridview

import (
	"image"
	"slices"
	"strconv"

	"github.com/xqrs/gridview/layout"
)

// ArrayProvider is a Provider over a slice. Frames come from a layout which
// is recomputed for the viewport width on every reload.
type ArrayProvider[T any] struct {
	items  []T
	layout layout.Layout
	insets Insets

	identifier func(item T, index int) string
	size       func(item T, width int) image.Point
	view       func(item T, index int) Primitive
	update     func(view Primitive, item T, index int)

	width  int
	frames []image.Rectangle
}

var (
	_ Provider       = (*ArrayProvider[int])(nil)
	_ LayoutPreparer = (*ArrayProvider[int])(nil)
	_ InsetsProvider = (*ArrayProvider[int])(nil)
	_ ItemUpdater    = (*ArrayProvider[int])(nil)
)

// NewArrayProvider returns a provider over items laid out in a vertical
// list. view builds the view of an item.
func NewArrayProvider[T any](items []T, view func(item T, index int) Primitive) *ArrayProvider[T] {
	return &ArrayProvider[T]{
		items:  items,
		layout: layout.Vertical{},
		view:   view,
	}
}

// SetItems replaces the items. The collection must be reloaded afterwards.
func (p *ArrayProvider[T]) SetItems(items []T) *ArrayProvider[T] {
	p.items = items
	p.frames = nil
	return p
}

// Items returns the items.
func (p *ArrayProvider[T]) Items() []T {
	return p.items
}

// Item returns the item at index.
func (p *ArrayProvider[T]) Item(index int) T {
	return p.items[index]
}

// SetLayout sets the layout that computes the frames.
func (p *ArrayProvider[T]) SetLayout(l layout.Layout) *ArrayProvider[T] {
	p.layout = l
	p.frames = nil
	return p
}

// SetInsets sets the padding around the content.
func (p *ArrayProvider[T]) SetInsets(insets Insets) *ArrayProvider[T] {
	p.insets = insets
	p.frames = nil
	return p
}

// SetIdentifierFunc sets how items are identified across reloads. Without it
// items are identified by their index, so every reorder looks like an update
// of all moved items.
func (p *ArrayProvider[T]) SetIdentifierFunc(identifier func(item T, index int) string) *ArrayProvider[T] {
	p.identifier = identifier
	return p
}

// SetSizeFunc sets how large an item wants to be for a given available
// width. Without it every item is one cell high and spans the width.
func (p *ArrayProvider[T]) SetSizeFunc(size func(item T, width int) image.Point) *ArrayProvider[T] {
	p.size = size
	p.frames = nil
	return p
}

// SetUpdateFunc sets the handler that binds a view to the item it shows. It
// runs whenever a view is assigned an index.
func (p *ArrayProvider[T]) SetUpdateFunc(update func(view Primitive, item T, index int)) *ArrayProvider[T] {
	p.update = update
	return p
}

// Move moves the item at from to index to, shifting the items in between.
func (p *ArrayProvider[T]) Move(from, to int) bool {
	if from < 0 || from >= len(p.items) || to < 0 || to >= len(p.items) {
		return false
	}
	if from == to {
		return true
	}
	item := p.items[from]
	p.items = slices.Delete(p.items, from, from+1)
	p.items = slices.Insert(p.items, to, item)
	p.frames = nil
	return true
}

// Insert inserts an item at index.
func (p *ArrayProvider[T]) Insert(index int, item T) {
	p.items = slices.Insert(p.items, clamp(index, 0, len(p.items)), item)
	p.frames = nil
}

// Remove removes the item at index.
func (p *ArrayProvider[T]) Remove(index int) bool {
	if index < 0 || index >= len(p.items) {
		return false
	}
	p.items = slices.Delete(p.items, index, index+1)
	p.frames = nil
	return true
}

// PrepareLayout computes the frames for the viewport.
func (p *ArrayProvider[T]) PrepareLayout(viewport image.Point) {
	p.width = max(viewport.X-p.insets.Left-p.insets.Right, 0)
	p.frames = nil
}

func (p *ArrayProvider[T]) computeFrames() {
	l := p.layout
	if l == nil {
		l = layout.Vertical{}
	}
	p.frames = l.Frames(len(p.items), p.width, func(index, width int) image.Point {
		if p.size == nil {
			return image.Pt(width, 1)
		}
		return p.size(p.items[index], width)
	})
}

func (p *ArrayProvider[T]) ItemCount() int {
	return len(p.items)
}

func (p *ArrayProvider[T]) Frame(index int) image.Rectangle {
	if len(p.frames) != len(p.items) {
		p.computeFrames()
	}
	return p.frames[index]
}

func (p *ArrayProvider[T]) Identifier(index int) string {
	if p.identifier == nil {
		return strconv.Itoa(index)
	}
	return p.identifier(p.items[index], index)
}

func (p *ArrayProvider[T]) View(index int) Primitive {
	if p.view == nil {
		return NewBox()
	}
	return p.view(p.items[index], index)
}

func (p *ArrayProvider[T]) Insets() Insets {
	return p.insets
}

func (p *ArrayProvider[T]) UpdateItem(view Primitive, index int) {
	if p.update != nil {
		p.update(view, p.items[index], index)
	}
}
