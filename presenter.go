package gridview

import "image"

// Presenter moves item views between frames. Frames are in content
// coordinates. The Collection owns view lifetime: after Delete returns the
// view is detached and retired into the reuse pool.
type Presenter interface {
	// Insert places a view that just became visible.
	Insert(view Primitive, index int, frame image.Rectangle)
	// Delete is called right before a view stops being visible.
	Delete(view Primitive, index int, frame image.Rectangle)
	// Update moves a visible, non-floating view to its current frame.
	Update(view Primitive, index int, frame image.Rectangle)
}

// DefaultPresenter places views at their frame immediately.
type DefaultPresenter struct{}

func (DefaultPresenter) Insert(view Primitive, index int, frame image.Rectangle) {
	setRect(view, frame)
}

func (DefaultPresenter) Delete(view Primitive, index int, frame image.Rectangle) {}

func (DefaultPresenter) Update(view Primitive, index int, frame image.Rectangle) {
	setRect(view, frame)
}

// PresenterFuncs wraps a base presenter and lets individual callbacks be
// observed or replaced. Nil fields defer to Base.
type PresenterFuncs struct {
	Base       Presenter
	InsertFunc func(view Primitive, index int, frame image.Rectangle)
	DeleteFunc func(view Primitive, index int, frame image.Rectangle)
	UpdateFunc func(view Primitive, index int, frame image.Rectangle)
}

func (p PresenterFuncs) base() Presenter {
	if p.Base == nil {
		return DefaultPresenter{}
	}
	return p.Base
}

func (p PresenterFuncs) Insert(view Primitive, index int, frame image.Rectangle) {
	if p.InsertFunc != nil {
		p.InsertFunc(view, index, frame)
		return
	}
	p.base().Insert(view, index, frame)
}

func (p PresenterFuncs) Delete(view Primitive, index int, frame image.Rectangle) {
	if p.DeleteFunc != nil {
		p.DeleteFunc(view, index, frame)
		return
	}
	p.base().Delete(view, index, frame)
}

func (p PresenterFuncs) Update(view Primitive, index int, frame image.Rectangle) {
	if p.UpdateFunc != nil {
		p.UpdateFunc(view, index, frame)
		return
	}
	p.base().Update(view, index, frame)
}
