package gridview

import (
	"image"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/xqrs/gridview/clock"
	"github.com/xqrs/gridview/layers"
	"github.com/xqrs/gridview/reuse"
	"github.com/xqrs/gridview/visibility"
)

// Names of the two layers a Collection draws.
const (
	itemsLayer    = "items"
	floatingLayer = "floating"
)

// Default settings of a new Collection.
const (
	DefaultActiveMarginMin   = 1
	DefaultActiveMarginMax   = 8
	DefaultAutoScrollMargin  = 2
	DefaultAutoScrollSpeed   = 8
	DefaultReorderCooldown   = 100 * time.Millisecond
	DefaultLongPressDuration = 500 * time.Millisecond
	DefaultWheelStep         = 3
)

var (
	sharedPool     *reuse.Pool[Primitive]
	sharedPoolOnce sync.Once
)

// SharedPool returns the process-wide reuse pool new collections retire
// their views into.
func SharedPool() *reuse.Pool[Primitive] {
	sharedPoolOnce.Do(func() {
		sharedPool = reuse.New[Primitive]()
	})
	return sharedPool
}

// Collection is a virtualized view over a possibly large list of items. Only
// items whose frame intersects the viewport (plus a small margin that grows
// with the scroll velocity) have a view. Views are matched across reloads by
// item identifier, so a reload keeps the views of continuing items and only
// creates or retires the difference.
//
// Item views are primitives whose rect is in content coordinates. The
// collection translates them by the scroll offset and clips them to its inner
// rect while drawing. A floating view is drawn above all items and keeps its
// rect in viewport coordinates.
//
// Views handed out by the provider should be fetched with [DequeueView] so
// that retired views are recycled.
type Collection struct {
	*Box

	provider  Provider
	presenter Presenter
	pool      *reuse.Pool[Primitive]
	scheduler clock.Scheduler
	// deferred is the scheduler in use while none was set. Its due callbacks
	// run at the start of Draw, Animate and the event handlers.
	deferred *clock.Deferred
	logger    *slog.Logger

	// The geometry of the last reload, frames already translated by the
	// leading insets.
	frames      []image.Rectangle
	ids         identifierMap
	index       *visibility.Index
	contentSize image.Point
	minContent  image.Point

	// The visible views and the subset of them that floats.
	views    viewMap
	floating map[Primitive]struct{}
	stack    *layers.Layers[Primitive]

	scroll   scroller
	viewport image.Rectangle

	marginMin, marginMax float64
	activeSlop           Insets

	reloading   bool
	loading     bool
	hasReloaded bool
	generation  uint64
	lastReload  ReloadStats

	move            moveManager
	press           pressRecognizer
	longPress       time.Duration
	reorderCooldown time.Duration
	autoMargin      int
	autoSpeed       float64
	wheelStep       int

	cursor        int
	keyMap        KeyMap
	scrollBar     *ScrollBar
	showScrollBar bool

	willDrag  func(view Primitive, index int) bool
	moveItem  func(from, to int) bool
	didDrag   func(view Primitive, index int)
	tap       func(view Primitive, index int)
	didReload func(stats ReloadStats)
}

// NewCollection returns an empty collection. Nothing is shown until a
// provider is set.
func NewCollection() *Collection {
	c := &Collection{
		Box:             NewBox(),
		presenter:       DefaultPresenter{},
		pool:            SharedPool(),
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		index:           visibility.New(),
		views:           newViewMap(0),
		floating:        make(map[Primitive]struct{}),
		stack:           layers.New[Primitive](),
		marginMin:       DefaultActiveMarginMin,
		marginMax:       DefaultActiveMarginMax,
		longPress:       DefaultLongPressDuration,
		reorderCooldown: DefaultReorderCooldown,
		autoMargin:      DefaultAutoScrollMargin,
		autoSpeed:       DefaultAutoScrollSpeed,
		wheelStep:       DefaultWheelStep,
		keyMap:          DefaultKeyMap(),
		scrollBar:       NewScrollBar(),
	}
	c.SetScheduler(nil)
	c.stack.AddLayer(itemsLayer)
	c.stack.AddLayer(floatingLayer, layers.WithOverlay())
	c.stack.SetBackgroundLayerStyle(tcell.StyleDefault.Dim(true))
	return c
}

// SetProvider sets the item provider and reloads.
func (c *Collection) SetProvider(provider Provider) *Collection {
	if c.reloading {
		return c
	}
	c.provider = provider
	c.ReloadData(nil)
	return c
}

// GetProvider returns the item provider.
func (c *Collection) GetProvider() Provider {
	return c.provider
}

// SetPresenter sets the presenter that places views. A nil presenter restores
// the default one.
func (c *Collection) SetPresenter(presenter Presenter) *Collection {
	if presenter == nil {
		presenter = DefaultPresenter{}
	}
	c.presenter = presenter
	return c
}

// SetReusePool sets the pool views are retired into. A nil pool restores the
// shared pool.
func (c *Collection) SetReusePool(pool *reuse.Pool[Primitive]) *Collection {
	if pool == nil {
		pool = SharedPool()
	}
	c.pool = pool
	return c
}

// GetReusePool returns the pool views are retired into.
func (c *Collection) GetReusePool() *reuse.Pool[Primitive] {
	return c.pool
}

// SetScheduler sets the scheduler used for the long press and reorder
// cooldown timers. Its callbacks mutate the collection and must run on the
// goroutine that drives it. An [Application] satisfies this. Without a
// scheduler, due callbacks wait for the next Draw, Animate or event.
func (c *Collection) SetScheduler(scheduler clock.Scheduler) *Collection {
	c.deferred = nil
	if scheduler == nil {
		c.deferred = clock.NewDeferred()
		scheduler = c.deferred
	}
	c.scheduler = scheduler
	return c
}

// adoptScheduler sets scheduler unless one was set explicitly.
func (c *Collection) adoptScheduler(scheduler clock.Scheduler) {
	if c.deferred != nil {
		c.SetScheduler(scheduler)
	}
}

// runDue runs the timer callbacks of the default scheduler that are due. It
// reports whether any ran.
func (c *Collection) runDue() bool {
	return c.deferred != nil && c.deferred.Run() > 0
}

// SetLogger sets the logger. A nil logger discards everything.
func (c *Collection) SetLogger(logger *slog.Logger) *Collection {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c.logger = logger
	return c
}

// SetVisibilityMode switches the visibility index between incremental
// tracking and full scans.
func (c *Collection) SetVisibilityMode(mode visibility.Mode) *Collection {
	c.index.SetMode(mode)
	return c
}

// VisibilityStats returns the counters of the visibility index.
func (c *Collection) VisibilityStats() visibility.Stats {
	return c.index.Stats()
}

// SetMinimumContentSize sets a lower bound for the content size. It takes
// effect on the next reload.
func (c *Collection) SetMinimumContentSize(size image.Point) *Collection {
	c.minContent = size
	return c
}

// SetActiveMargin sets the bounds of the margin, in cells, by which the
// visible rect is extended to find the active items. The margin grows with
// the scroll velocity.
func (c *Collection) SetActiveMargin(lo, hi float64) *Collection {
	lo = max(lo, 0)
	c.marginMin, c.marginMax = lo, max(hi, lo)
	c.loadCells()
	return c
}

// SetActiveSlop shrinks the active rect by the given insets.
func (c *Collection) SetActiveSlop(slop Insets) *Collection {
	c.activeSlop = slop
	c.loadCells()
	return c
}

// GetActiveSlop returns the insets the active rect is shrunk by.
func (c *Collection) GetActiveSlop() Insets {
	return c.activeSlop
}

// SetLongPressDuration sets how long a mouse button must be held before a
// drag begins.
func (c *Collection) SetLongPressDuration(d time.Duration) *Collection {
	c.longPress = d
	return c
}

// SetReorderCooldown sets the pause after a reorder before the next one may
// happen.
func (c *Collection) SetReorderCooldown(d time.Duration) *Collection {
	c.reorderCooldown = d
	return c
}

// SetAutoScroll sets the width of the edge band, in cells, that scrolls the
// content while an item is dragged, and the speed in cells per second for
// each cell the pointer is inside that band.
func (c *Collection) SetAutoScroll(margin int, speed float64) *Collection {
	c.autoMargin = max(margin, 0)
	c.autoSpeed = speed
	return c
}

// SetWheelStep sets the number of cells a mouse wheel tick scrolls.
func (c *Collection) SetWheelStep(step int) *Collection {
	c.wheelStep = max(step, 1)
	return c
}

// SetFloatingStyle sets the style applied to the items behind a floating
// view.
func (c *Collection) SetFloatingStyle(style tcell.Style) *Collection {
	c.stack.SetBackgroundLayerStyle(style)
	return c
}

// SetShowScrollBar shows a vertical scroll bar in the rightmost column.
func (c *Collection) SetShowScrollBar(show bool) *Collection {
	c.showScrollBar = show
	return c
}

// GetScrollBar returns the scroll bar so it can be styled.
func (c *Collection) GetScrollBar() *ScrollBar {
	return c.scrollBar
}

// SetKeyMap replaces the key bindings.
func (c *Collection) SetKeyMap(keyMap KeyMap) *Collection {
	c.keyMap = keyMap
	return c
}

// GetKeyMap returns the key bindings.
func (c *Collection) GetKeyMap() KeyMap {
	return c.keyMap
}

// SetWillDragFunc sets the handler asked whether an item may be dragged. No
// item can be dragged without it.
func (c *Collection) SetWillDragFunc(handler func(view Primitive, index int) bool) *Collection {
	c.willDrag = handler
	return c
}

// SetMoveItemFunc sets the handler asked to move an item while it is
// dragged. It must update the provider's data and return true, after which
// the collection reloads.
func (c *Collection) SetMoveItemFunc(handler func(from, to int) bool) *Collection {
	c.moveItem = handler
	return c
}

// SetDidDragFunc sets the handler called when a dragged item was dropped.
func (c *Collection) SetDidDragFunc(handler func(view Primitive, index int)) *Collection {
	c.didDrag = handler
	return c
}

// SetTapFunc sets the handler called when an item is clicked or selected
// with the keyboard.
func (c *Collection) SetTapFunc(handler func(view Primitive, index int)) *Collection {
	c.tap = handler
	return c
}

// SetDidReloadFunc sets the handler called at the end of every reload.
func (c *Collection) SetDidReloadFunc(handler func(stats ReloadStats)) *Collection {
	c.didReload = handler
	return c
}

// DequeueView returns a retired view of type V from the collection's pool,
// or a new one built by create.
func DequeueView[V Primitive](c *Collection, create func() V) V {
	if view, ok := reuse.Get[V](c.pool); ok {
		return view
	}
	return create()
}

// viewportRect returns the screen rect the items are drawn into.
func (c *Collection) viewportRect() image.Rectangle {
	x, y, width, height := c.GetInnerRect()
	if c.showScrollBar && width > 0 {
		width--
	}
	return image.Rect(x, y, x+width, y+height)
}

// layout catches up with the collection's current rect. A change of the
// viewport size reloads.
func (c *Collection) layout() {
	viewport := c.viewportRect()
	resized := viewport.Size() != c.viewport.Size()
	c.viewport = viewport
	if resized {
		c.scroll.viewport = viewport.Size()
		c.ReloadData(nil)
	}
	c.syncLayers()
}

// syncLayers positions both layers for the current viewport and offset.
func (c *Collection) syncLayers() {
	c.stack.SetOrigin(itemsLayer, c.viewport.Min.Sub(c.scroll.point()))
	c.stack.SetClip(itemsLayer, c.viewport)
	c.stack.SetOrigin(floatingLayer, c.viewport.Min)
	c.stack.SetClip(floatingLayer, c.viewport)
}

// activeRect returns the content rect whose items should have views.
func (c *Collection) activeRect() image.Rectangle {
	offset := c.scroll.point()
	visible := image.Rectangle{Min: offset, Max: offset.Add(c.scroll.viewport)}
	margin := func(v float64) int {
		return int(math.Ceil(clamp(math.Abs(v)/10, c.marginMin, c.marginMax)))
	}
	dx, dy := margin(c.scroll.velocity.X), margin(c.scroll.velocity.Y)
	active := image.Rect(visible.Min.X-dx, visible.Min.Y-dy, visible.Max.X+dx, visible.Max.Y+dy)
	return c.activeSlop.Shrink(active)
}

// Draw draws the visible items and the floating views above them.
func (c *Collection) Draw(screen tcell.Screen) {
	c.runDue()
	c.DrawForSubclass(screen, c)
	c.layout()

	focused := c.HasFocus()
	for _, index := range c.views.indexes() {
		view, _ := c.views.view(index)
		if h, ok := view.(Highlighter); ok {
			h.SetHighlighted(focused && index == c.cursor)
		}
	}
	c.stack.Draw(screen)

	if c.showScrollBar {
		x, y, width, height := c.GetInnerRect()
		c.scrollBar.SetRect(x+width-1, y, 1, height)
		c.scrollBar.SetLengths(ScrollLengths{ContentLen: c.contentSize.Y, ViewportLen: c.scroll.viewport.Y})
		c.scrollBar.SetOffset(c.scroll.point().Y)
		c.scrollBar.Draw(screen)
	}
}

// Highlighter is implemented by item views that show the keyboard cursor.
type Highlighter interface {
	SetHighlighted(highlighted bool)
}

// Animate advances the scroll velocity. It reports whether the offset moved
// or a due timer callback ran.
func (c *Collection) Animate(elapsed time.Duration) bool {
	ran := c.runDue()
	if c.reloading || !c.scroll.step(elapsed) {
		return ran
	}
	c.syncLayers()
	c.loadCells()
	if c.move.phase == DragDragging {
		// The content moved under a resting pointer.
		c.updateDrag(c.move.last, true)
	}
	return true
}

// SetOffset scrolls to the given content offset, clamped to the content.
func (c *Collection) SetOffset(offset image.Point) *Collection {
	if c.reloading {
		return c
	}
	if c.scroll.setOffset(vectorOf(offset)) {
		c.syncLayers()
		c.loadCells()
	}
	return c
}

// Offset returns the content offset shown at the viewport's top-left corner.
func (c *Collection) Offset() image.Point {
	return c.scroll.point()
}

// ScrollBy scrolls by the given number of cells.
func (c *Collection) ScrollBy(dx, dy int) *Collection {
	return c.SetOffset(c.scroll.point().Add(image.Pt(dx, dy)))
}

// Decay lets the current scroll velocity settle with the given damping.
func (c *Collection) Decay(damping float64) {
	c.scroll.decay(damping)
}

// DecayFrom sets the scroll velocity in cells per second. A damping of zero
// keeps the velocity until it is replaced or the content hits a bound.
func (c *Collection) DecayFrom(velocity Vector, damping float64) {
	c.scroll.decayFrom(velocity, damping)
}

// Velocity returns the scroll velocity in cells per second.
func (c *Collection) Velocity() Vector {
	return c.scroll.velocity
}

// Panning reports whether the content is being dragged directly.
func (c *Collection) Panning() bool {
	return c.scroll.panning
}

// ScrollToIndex scrolls by the smallest amount that brings the item's frame
// into view.
func (c *Collection) ScrollToIndex(index int) *Collection {
	frame, ok := c.Frame(index)
	if !ok {
		return c
	}
	offset := c.scroll.point()
	size := c.scroll.viewport
	fit := func(offset, lo, hi, length int) int {
		switch {
		case hi-lo > length || lo < offset:
			return lo
		case hi > offset+length:
			return hi - length
		}
		return offset
	}
	return c.SetOffset(image.Pt(
		fit(offset.X, frame.Min.X, frame.Max.X, size.X),
		fit(offset.Y, frame.Min.Y, frame.Max.Y, size.Y),
	))
}
