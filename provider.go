package gridview

import (
	"image"
	"strconv"
)

// Provider supplies the items of a Collection. Frames are in content
// coordinates before insets are applied. Identifiers must be stable across
// reloads for continuing items to keep their views.
type Provider interface {
	ItemCount() int
	Frame(index int) image.Rectangle
	Identifier(index int) string
	// View returns a view for the item, either recycled from a reuse pool or
	// freshly constructed.
	View(index int) Primitive
}

// The following interfaces are optional extension points a Provider may
// implement.

// InsetsProvider adds padding around the content. Frames are translated by
// the leading insets.
type InsetsProvider interface {
	Insets() Insets
}

// LayoutPreparer is called at the start of every reload with the size of the
// viewport, before frames are queried.
type LayoutPreparer interface {
	PrepareLayout(viewport image.Point)
}

// ReloadObserver is notified around every reload.
type ReloadObserver interface {
	WillReload()
	DidReload()
}

// ItemUpdater receives the identity update of a view: the index it now
// represents. It is called for continuing items on every reload and for new
// items before they are inserted.
type ItemUpdater interface {
	UpdateItem(view Primitive, index int)
}

// ProviderFuncs adapts plain functions to the Provider interface and its
// optional extensions. Nil fields fall back to neutral behavior.
type ProviderFuncs struct {
	CountFunc      func() int
	FrameFunc      func(index int) image.Rectangle
	IdentifierFunc func(index int) string
	ViewFunc       func(index int) Primitive
	InsetsFunc     func() Insets
	UpdateFunc     func(view Primitive, index int)
	WillReloadFunc func()
	DidReloadFunc  func()
}

var (
	_ Provider       = (*ProviderFuncs)(nil)
	_ InsetsProvider = (*ProviderFuncs)(nil)
	_ ItemUpdater    = (*ProviderFuncs)(nil)
	_ ReloadObserver = (*ProviderFuncs)(nil)
)

func (p *ProviderFuncs) ItemCount() int {
	if p.CountFunc == nil {
		return 0
	}
	return p.CountFunc()
}

func (p *ProviderFuncs) Frame(index int) image.Rectangle {
	if p.FrameFunc == nil {
		return image.Rectangle{}
	}
	return p.FrameFunc(index)
}

func (p *ProviderFuncs) Identifier(index int) string {
	if p.IdentifierFunc == nil {
		return strconv.Itoa(index)
	}
	return p.IdentifierFunc(index)
}

func (p *ProviderFuncs) View(index int) Primitive {
	if p.ViewFunc == nil {
		return NewBox()
	}
	return p.ViewFunc(index)
}

func (p *ProviderFuncs) Insets() Insets {
	if p.InsetsFunc == nil {
		return Insets{}
	}
	return p.InsetsFunc()
}

func (p *ProviderFuncs) UpdateItem(view Primitive, index int) {
	if p.UpdateFunc != nil {
		p.UpdateFunc(view, index)
	}
}

func (p *ProviderFuncs) WillReload() {
	if p.WillReloadFunc != nil {
		p.WillReloadFunc()
	}
}

func (p *ProviderFuncs) DidReload() {
	if p.DidReloadFunc != nil {
		p.DidReloadFunc()
	}
}
