package gridview

import (
	"bytes"
	"image"
	"log/slog"
	"slices"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xqrs/gridview/clock"
	"github.com/xqrs/gridview/reuse"
)

// listFixture is a collection over rows of equal height identified by the
// strings in ids.
type listFixture struct {
	c     *Collection
	clock *clock.Manual
	pool  *reuse.Pool[Primitive]
	ids   []string
}

func newListFixture(t *testing.T, ids []string, width, height, rowHeight int) *listFixture {
	t.Helper()
	f := &listFixture{clock: clock.NewManual(), ids: ids}
	f.pool = reuse.New[Primitive](reuse.WithScheduler(f.clock))
	f.c = NewCollection().SetScheduler(f.clock).SetReusePool(f.pool)
	f.c.SetRect(0, 0, width, height)
	f.c.SetProvider(&ProviderFuncs{
		CountFunc: func() int { return len(f.ids) },
		FrameFunc: func(i int) image.Rectangle {
			return image.Rect(0, i*rowHeight, width, (i+1)*rowHeight)
		},
		IdentifierFunc: func(i int) string { return f.ids[i] },
		ViewFunc:       func(i int) Primitive { return DequeueView(f.c, NewTextCell) },
		UpdateFunc:     func(view Primitive, i int) { view.(*TextCell).SetText(f.ids[i]) },
	})
	f.c.layout()
	return f
}

func (f *listFixture) viewsByID() map[string]Primitive {
	views := make(map[string]Primitive)
	for _, index := range f.c.VisibleIndexes() {
		view, _ := f.c.ViewAt(index)
		views[f.ids[index]] = view
	}
	return views
}

// move moves the identifier at from to index to.
func (f *listFixture) move(from, to int) {
	id := f.ids[from]
	f.ids = slices.Delete(f.ids, from, from+1)
	f.ids = slices.Insert(f.ids, to, id)
}

func letters(n int) []string {
	ids := make([]string, 0, n)
	for i := range n {
		ids = append(ids, string(rune('a'+i)))
	}
	return ids
}

func TestReloadWithoutProviderIsNoop(t *testing.T) {
	c := NewCollection()
	assert.NotPanics(t, func() { c.ReloadData(nil) })
	assert.False(t, c.HasReloaded())
	assert.Zero(t, c.ItemCount())
	assert.Empty(t, c.VisibleIndexes())
}

func TestInitialLoad(t *testing.T) {
	f := newListFixture(t, letters(20), 10, 5, 1)

	// The viewport plus the minimum margin of one row.
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, f.c.VisibleIndexes())
	assert.Equal(t, image.Pt(10, 20), f.c.ContentSize())
	assert.True(t, f.c.HasReloaded())
	for _, index := range f.c.VisibleIndexes() {
		view, _ := f.c.ViewAt(index)
		assert.Equal(t, image.Rect(0, index, 10, index+1), rectOf(view))
	}
}

func TestReloadKeepsViewsOfContinuingItems(t *testing.T) {
	f := newListFixture(t, letters(20), 10, 5, 1)
	before := f.viewsByID()

	// Drop "b" and put a new item in front.
	f.ids = append([]string{"x"}, slices.Delete(slices.Clone(f.ids), 1, 2)...)
	f.c.ReloadData(nil)

	after := f.viewsByID()
	require.Len(t, after, 6)
	for _, id := range []string{"a", "c", "d", "e", "f"} {
		assert.Same(t, before[id], after[id], id)
	}
	// The retired view of "b" is recycled for "x".
	assert.Same(t, before["b"], after["x"])
	assert.Equal(t, "x", after["x"].(*TextCell).GetText())
	assert.Equal(t, image.Rect(0, 1, 10, 2), rectOf(after["a"]))

	stats := f.c.LastReload()
	assert.Equal(t, 20, stats.Items)
	assert.Equal(t, 1, stats.Inserted)
	assert.Equal(t, 1, stats.Deleted)
	assert.Equal(t, 1, stats.Moved)
	assert.Equal(t, 4, stats.Kept)
}

func TestReloadRetiresViewsOfRemovedItems(t *testing.T) {
	f := newListFixture(t, letters(3), 10, 5, 1)
	views := f.c.VisibleViews()
	require.Len(t, views, 3)

	f.ids = nil
	f.c.ReloadData(nil)

	assert.Empty(t, f.c.VisibleIndexes())
	for _, view := range views {
		assert.True(t, f.pool.Contains(view))
	}
	assert.Equal(t, 3, f.c.LastReload().Deleted)

	f.clock.Advance(reuse.DefaultIdleWindow)
	assert.Zero(t, f.pool.Size())
}

func TestDuplicateIdentifiersAreRenamed(t *testing.T) {
	f := newListFixture(t, []string{"a", "a", "a"}, 10, 5, 1)
	var logs bytes.Buffer
	f.c.SetLogger(slog.New(slog.NewTextHandler(&logs, nil)))
	f.c.ReloadData(nil)

	assert.Equal(t, []string{"a", "a2", "a3"}, f.c.ids.byIndex)
	views := f.c.VisibleViews()
	require.Len(t, views, 3)
	assert.NotSame(t, views[0], views[1])
	assert.NotSame(t, views[1], views[2])
	assert.Equal(t, 2, f.c.LastReload().Renamed)
	assert.Contains(t, logs.String(), "duplicate item identifier")
	assert.Contains(t, logs.String(), "renamed=a3")
}

func TestReloadIsNotReentrant(t *testing.T) {
	var c *Collection
	counts := 0
	c = NewCollection()
	c.SetRect(0, 0, 10, 5)
	c.SetProvider(&ProviderFuncs{
		CountFunc: func() int {
			counts++
			return 2
		},
		FrameFunc:      func(i int) image.Rectangle { return image.Rect(0, i, 10, i+1) },
		WillReloadFunc: func() { c.ReloadData(nil) },
		UpdateFunc: func(view Primitive, index int) {
			assert.Panics(t, func() { c.IndexOf(view) })
		},
	})
	assert.Equal(t, 1, counts)
	// Only the first row touches the empty viewport's margin.
	assert.Equal(t, []int{0}, c.VisibleIndexes())
}

func TestScrollLoadsAndRetiresViews(t *testing.T) {
	f := newListFixture(t, letters(26), 10, 5, 1)

	f.c.SetOffset(image.Pt(0, 10))

	assert.Equal(t, image.Pt(0, 10), f.c.Offset())
	assert.Equal(t, []int{9, 10, 11, 12, 13, 14, 15}, f.c.VisibleIndexes())
	for _, index := range f.c.VisibleIndexes() {
		view, _ := f.c.ViewAt(index)
		assert.Equal(t, image.Rect(0, index, 10, index+1), rectOf(view))
		assert.Equal(t, f.ids[index], view.(*TextCell).GetText())
	}
	// Six retired views were handed out again.
	assert.Zero(t, f.pool.Size())

	f.c.SetOffset(image.Pt(0, 100))
	assert.Equal(t, image.Pt(0, 21), f.c.Offset())
}

func TestReloadKeepsContinuingViewsStationary(t *testing.T) {
	f := newListFixture(t, letters(20), 10, 5, 1)
	before := f.viewsByID()
	seen := make(map[Primitive]image.Rectangle)
	f.c.SetPresenter(PresenterFuncs{
		UpdateFunc: func(view Primitive, index int, frame image.Rectangle) {
			if _, ok := seen[view]; !ok {
				seen[view] = rectOf(view)
			}
			setRect(view, frame)
		},
	})

	// Prepend three items and scroll by their height.
	f.ids = append([]string{"x", "y", "z"}, f.ids...)
	f.c.ReloadData(func() image.Point {
		return f.c.Offset().Add(image.Pt(0, 3))
	})

	require.Equal(t, image.Pt(0, 3), f.c.Offset())
	assert.Equal(t, image.Pt(0, 3), f.c.LastReload().OffsetDelta)
	assert.Equal(t, 6, f.c.LastReload().Moved)
	for oldIndex, id := range letters(6) {
		view := before[id]
		// Shifted by the offset change before the presenter saw it, so the
		// on-screen position did not move.
		assert.Equal(t, image.Rect(0, oldIndex+3, 10, oldIndex+4), seen[view], id)
		index, ok := f.c.IndexOf(view)
		require.True(t, ok)
		assert.Equal(t, oldIndex+3, index)
	}
}

func TestFloatingViewFollowsItsItem(t *testing.T) {
	f := newListFixture(t, letters(20), 10, 5, 1)
	f.c.SetOffset(image.Pt(0, 1))
	view, ok := f.c.ViewAt(2)
	require.True(t, ok)

	f.c.Float(view)
	assert.True(t, f.c.IsFloating(view))
	assert.Equal(t, []Primitive{view}, f.c.FloatingViews())
	// Viewport coordinates.
	assert.Equal(t, image.Rect(0, 1, 10, 2), rectOf(view))
	layer, _ := f.c.stack.LayerOf(view)
	assert.Equal(t, floatingLayer, layer)

	// Far outside the viewport, yet it stays visible while floating.
	f.move(2, 15)
	f.c.ReloadData(nil)
	assert.True(t, f.c.IsFloating(view))
	index, ok := f.c.IndexOf(view)
	require.True(t, ok)
	assert.Equal(t, 15, index)
	assert.Contains(t, f.c.VisibleIndexes(), 15)

	// Gone from the data, so it is unfloated and retired.
	f.ids = slices.Delete(f.ids, 15, 16)
	f.c.ReloadData(nil)
	assert.False(t, f.c.IsFloating(view))
	assert.Empty(t, f.c.FloatingViews())
	_, ok = f.c.IndexOf(view)
	assert.False(t, ok)
	assert.True(t, f.pool.Contains(view))
	_, ok = f.c.stack.LayerOf(view)
	assert.False(t, ok)
}

func TestUnfloatRestoresZOrderAndFrame(t *testing.T) {
	f := newListFixture(t, letters(20), 10, 5, 1)
	view, _ := f.c.ViewAt(1)
	f.c.Float(view)
	setRect(view, image.Rect(3, 3, 13, 4))

	f.c.Unfloat(view)

	assert.False(t, f.c.IsFloating(view))
	assert.Equal(t, image.Rect(0, 1, 10, 2), rectOf(view))
	items := f.c.stack.Items(itemsLayer)
	at := slices.Index(items, view)
	require.GreaterOrEqual(t, at, 0)
	next, _ := f.c.ViewAt(2)
	assert.Same(t, next, items[at+1])

	// Unfloating twice is harmless.
	assert.NotPanics(t, func() { f.c.Unfloat(view) })
}

func TestFloatPanicsForInvisibleView(t *testing.T) {
	f := newListFixture(t, letters(20), 10, 5, 1)
	assert.PanicsWithValue(t, "gridview: Float called with a view that is not visible", func() {
		f.c.Float(NewBox())
	})
}

func TestReorderScenario(t *testing.T) {
	f := newListFixture(t, []string{"A", "B", "C"}, 10, 9, 3)
	var moves [][2]int
	var dropped []int
	f.c.SetWillDragFunc(func(Primitive, int) bool { return true })
	f.c.SetMoveItemFunc(func(from, to int) bool {
		moves = append(moves, [2]int{from, to})
		f.move(from, to)
		return true
	})
	f.c.SetDidDragFunc(func(view Primitive, index int) {
		dropped = append(dropped, index)
	})

	require.True(t, f.c.BeginDrag(image.Pt(1, 1)))
	a, ok := f.c.DraggedView()
	require.True(t, ok)
	assert.Equal(t, DragArmed, f.c.DragPhase())
	assert.True(t, f.c.IsFloating(a))

	f.c.UpdateDrag(image.Pt(1, 7))
	assert.Equal(t, DragDragging, f.c.DragPhase())
	assert.Equal(t, image.Rect(0, 6, 10, 9), rectOf(a))
	f.c.UpdateDrag(image.Pt(2, 7))
	f.clock.Advance(DefaultReorderCooldown)
	f.c.UpdateDrag(image.Pt(2, 8))

	assert.Equal(t, [][2]int{{0, 2}}, moves)
	index, ok := f.c.IndexOf(a)
	require.True(t, ok)
	assert.Equal(t, 2, index)
	assert.Equal(t, []string{"B", "C", "A"}, f.ids)

	f.c.EndDrag()
	assert.Equal(t, []int{2}, dropped)
	assert.Equal(t, DragIdle, f.c.DragPhase())
	assert.False(t, f.c.IsFloating(a))
	assert.Equal(t, image.Rect(0, 6, 10, 9), rectOf(a))
}

func TestReorderWaitsForCooldown(t *testing.T) {
	f := newListFixture(t, letters(5), 10, 9, 1)
	var moves [][2]int
	f.c.SetWillDragFunc(func(Primitive, int) bool { return true })
	f.c.SetMoveItemFunc(func(from, to int) bool {
		moves = append(moves, [2]int{from, to})
		f.move(from, to)
		return true
	})

	require.True(t, f.c.BeginDrag(image.Pt(0, 0)))
	f.c.UpdateDrag(image.Pt(0, 1))
	f.c.UpdateDrag(image.Pt(0, 2))
	assert.Equal(t, [][2]int{{0, 1}}, moves)

	f.clock.Advance(DefaultReorderCooldown)
	f.c.UpdateDrag(image.Pt(0, 2))
	assert.Equal(t, [][2]int{{0, 1}, {1, 2}}, moves)
}

func TestBeginDragRequiresApproval(t *testing.T) {
	f := newListFixture(t, letters(5), 10, 5, 1)
	assert.False(t, f.c.BeginDrag(image.Pt(0, 0)), "no handler")

	f.c.SetWillDragFunc(func(view Primitive, index int) bool { return index != 1 })
	assert.False(t, f.c.BeginDrag(image.Pt(0, 1)), "declined")
	assert.False(t, f.c.BeginDrag(image.Pt(0, 7)), "no item")
	assert.Equal(t, DragIdle, f.c.DragPhase())
	assert.Empty(t, f.c.FloatingViews())

	assert.True(t, f.c.BeginDrag(image.Pt(0, 2)))
	assert.False(t, f.c.BeginDrag(image.Pt(0, 3)), "already dragging")
}

func TestDragEndsSilentlyWhenItemVanishes(t *testing.T) {
	f := newListFixture(t, letters(5), 10, 5, 1)
	dropped := 0
	f.c.SetWillDragFunc(func(Primitive, int) bool { return true })
	f.c.SetDidDragFunc(func(Primitive, int) { dropped++ })
	require.True(t, f.c.BeginDrag(image.Pt(0, 1)))

	f.ids = slices.Delete(f.ids, 1, 2)
	f.c.ReloadData(nil)
	f.c.UpdateDrag(image.Pt(0, 2))
	f.c.EndDrag()

	assert.Equal(t, DragIdle, f.c.DragPhase())
	assert.Zero(t, dropped)
}

func TestAutoScrollWhileDragging(t *testing.T) {
	f := newListFixture(t, letters(20), 10, 5, 1)
	var moves [][2]int
	f.c.SetWillDragFunc(func(Primitive, int) bool { return true })
	f.c.SetMoveItemFunc(func(from, to int) bool {
		moves = append(moves, [2]int{from, to})
		f.move(from, to)
		return true
	})
	require.True(t, f.c.BeginDrag(image.Pt(1, 2)))

	// Top band at offset zero cannot scroll further up.
	f.c.UpdateDrag(image.Pt(1, 0))
	assert.True(t, f.c.Velocity().IsZero())
	f.clock.Advance(DefaultReorderCooldown)

	// Bottom band, one row short of the edge and at the edge.
	f.c.UpdateDrag(image.Pt(1, 3))
	assert.Equal(t, Vector{0, DefaultAutoScrollSpeed}, f.c.Velocity())
	f.c.UpdateDrag(image.Pt(1, 4))
	assert.Equal(t, Vector{0, 2 * DefaultAutoScrollSpeed}, f.c.Velocity())
	assert.Equal(t, [][2]int{{2, 0}}, moves, "no reorder while scrolling")

	assert.True(t, f.c.Animate(500_000_000))
	assert.Equal(t, image.Pt(0, 8), f.c.Offset())

	f.c.UpdateDrag(image.Pt(1, 2))
	assert.Equal(t, [][2]int{{2, 0}, {0, 10}}, moves)
}

func TestTapWithMouse(t *testing.T) {
	f := newListFixture(t, letters(5), 10, 5, 1)
	var tapped []int
	f.c.SetTapFunc(func(view Primitive, index int) {
		tapped = append(tapped, index)
	})

	down := tcell.NewEventMouse(3, 2, tcell.ButtonPrimary, 0)
	up := tcell.NewEventMouse(3, 2, tcell.ButtonNone, 0)
	capture, _ := f.c.MouseHandler(MouseLeftDown, down)
	assert.Same(t, f.c, capture)
	f.c.MouseHandler(MouseLeftUp, up)
	f.c.MouseHandler(MouseLeftClick, up)

	assert.Equal(t, []int{2}, tapped)
	assert.Equal(t, 2, f.c.Cursor())
}

func TestLongPressDragsWithMouse(t *testing.T) {
	f := newListFixture(t, []string{"A", "B", "C"}, 10, 9, 3)
	var moves [][2]int
	tapped := 0
	f.c.SetWillDragFunc(func(Primitive, int) bool { return true })
	f.c.SetMoveItemFunc(func(from, to int) bool {
		moves = append(moves, [2]int{from, to})
		f.move(from, to)
		return true
	})
	f.c.SetTapFunc(func(Primitive, int) { tapped++ })

	f.c.MouseHandler(MouseLeftDown, tcell.NewEventMouse(1, 1, tcell.ButtonPrimary, 0))
	f.clock.Advance(DefaultLongPressDuration)
	assert.Equal(t, DragArmed, f.c.DragPhase())

	f.c.MouseHandler(MouseMove, tcell.NewEventMouse(1, 7, tcell.ButtonPrimary, 0))
	assert.Equal(t, [][2]int{{0, 2}}, moves)

	up := tcell.NewEventMouse(1, 7, tcell.ButtonNone, 0)
	f.c.MouseHandler(MouseLeftUp, up)
	f.c.MouseHandler(MouseLeftClick, up)
	assert.Equal(t, DragIdle, f.c.DragPhase())
	assert.Empty(t, f.c.FloatingViews())
	assert.Zero(t, tapped)
}

func TestPressThatMovesPans(t *testing.T) {
	f := newListFixture(t, letters(20), 10, 5, 1)
	f.c.SetWillDragFunc(func(Primitive, int) bool { return true })

	f.c.MouseHandler(MouseLeftDown, tcell.NewEventMouse(1, 4, tcell.ButtonPrimary, 0))
	f.c.MouseHandler(MouseMove, tcell.NewEventMouse(1, 1, tcell.ButtonPrimary, 0))
	assert.True(t, f.c.Panning())
	assert.Equal(t, image.Pt(0, 3), f.c.Offset())

	// The long press no longer fires.
	f.clock.Advance(DefaultLongPressDuration)
	assert.Equal(t, DragIdle, f.c.DragPhase())

	f.c.MouseHandler(MouseLeftUp, tcell.NewEventMouse(1, 1, tcell.ButtonNone, 0))
	assert.False(t, f.c.Panning())
}

func TestWheelScrolls(t *testing.T) {
	f := newListFixture(t, letters(20), 10, 5, 1)
	f.c.MouseHandler(MouseScrollDown, tcell.NewEventMouse(1, 1, tcell.WheelDown, 0))
	assert.Equal(t, image.Pt(0, DefaultWheelStep), f.c.Offset())
	f.c.MouseHandler(MouseScrollUp, tcell.NewEventMouse(1, 1, tcell.WheelUp, 0))
	assert.Equal(t, image.Pt(0, 0), f.c.Offset())
}

func TestKeyboardCursorAndGrab(t *testing.T) {
	f := newListFixture(t, letters(20), 10, 5, 1)
	var moves [][2]int
	var dropped []int
	f.c.SetWillDragFunc(func(Primitive, int) bool { return true })
	f.c.SetMoveItemFunc(func(from, to int) bool {
		moves = append(moves, [2]int{from, to})
		f.move(from, to)
		return true
	})
	f.c.SetDidDragFunc(func(view Primitive, index int) { dropped = append(dropped, index) })

	down := tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)
	assert.Equal(t, RedrawCommand{}, f.c.InputHandler(down))
	assert.Equal(t, 1, f.c.Cursor())

	f.c.InputHandler(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	assert.Equal(t, DragArmed, f.c.DragPhase())

	f.c.InputHandler(down)
	assert.Equal(t, [][2]int{{1, 2}}, moves)
	assert.Equal(t, 2, f.c.Cursor())

	f.c.InputHandler(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	assert.Equal(t, DragIdle, f.c.DragPhase())
	assert.Equal(t, []int{2}, dropped)

	f.c.InputHandler(tcell.NewEventKey(tcell.KeyEnd, 0, tcell.ModNone))
	assert.Equal(t, 19, f.c.Cursor())
	assert.Equal(t, image.Pt(0, 15), f.c.Offset())
}

func TestScrollToIndex(t *testing.T) {
	f := newListFixture(t, letters(20), 10, 5, 1)
	f.c.ScrollToIndex(12)
	assert.Equal(t, image.Pt(0, 8), f.c.Offset())
	f.c.ScrollToIndex(10)
	assert.Equal(t, image.Pt(0, 8), f.c.Offset())
	f.c.ScrollToIndex(3)
	assert.Equal(t, image.Pt(0, 3), f.c.Offset())
}

func TestMinimumContentSizeAndInsets(t *testing.T) {
	c := NewCollection()
	c.SetRect(0, 0, 10, 5)
	c.SetMinimumContentSize(image.Pt(0, 30))
	c.SetProvider(&ProviderFuncs{
		CountFunc:  func() int { return 2 },
		FrameFunc:  func(i int) image.Rectangle { return image.Rect(0, i, 8, i+1) },
		InsetsFunc: func() Insets { return Insets{Top: 1, Left: 2, Bottom: 3, Right: 4} },
	})
	frame, ok := c.Frame(1)
	require.True(t, ok)
	assert.Equal(t, image.Rect(2, 2, 10, 3), frame)
	assert.Equal(t, image.Pt(14, 30), c.ContentSize())
}

func TestResizeReloads(t *testing.T) {
	f := newListFixture(t, letters(20), 10, 5, 1)
	generation := f.c.Generation()
	f.c.SetRect(0, 0, 10, 8)
	f.c.layout()
	assert.Equal(t, generation+1, f.c.Generation())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, f.c.VisibleIndexes())
}

func TestDrawTranslatesItems(t *testing.T) {
	f := newListFixture(t, letters(5), 12, 9, 3)
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(12, 9)

	f.c.Draw(screen)
	r, _, _, _ := screen.GetContent(1, 1)
	assert.Equal(t, 'a', r)
	r, _, _, _ = screen.GetContent(1, 4)
	assert.Equal(t, 'b', r)

	f.c.SetOffset(image.Pt(0, 3))
	screen.Clear()
	f.c.Draw(screen)
	r, _, _, _ = screen.GetContent(1, 1)
	assert.Equal(t, 'b', r)
	r, _, _, _ = screen.GetContent(1, 7)
	assert.Equal(t, 'd', r)
}
