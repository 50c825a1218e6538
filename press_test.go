package gridview

import (
	"image"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLongPressWaitsForTheDrivingGoroutine(t *testing.T) {
	ids := letters(5)
	c := NewCollection().SetLongPressDuration(time.Millisecond)
	c.SetRect(0, 0, 10, 5)
	c.SetProvider(&ProviderFuncs{
		CountFunc:      func() int { return len(ids) },
		FrameFunc:      func(i int) image.Rectangle { return image.Rect(0, i, 10, i+1) },
		IdentifierFunc: func(i int) string { return ids[i] },
		ViewFunc:       func(i int) Primitive { return DequeueView(c, NewTextCell) },
	})
	c.layout()
	c.SetWillDragFunc(func(Primitive, int) bool { return true })

	c.pressDown(image.Pt(1, 1))
	require.Eventually(t, func() bool { return c.deferred.Due() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, DragIdle, c.DragPhase())
	assert.Empty(t, c.FloatingViews())
	assert.NotEmpty(t, c.VisibleIndexes())

	assert.True(t, c.Animate(0))
	assert.Equal(t, DragArmed, c.DragPhase())
	assert.Len(t, c.FloatingViews(), 1)
}

func TestDeclinedLongPressResetsThePress(t *testing.T) {
	f := newListFixture(t, letters(20), 10, 5, 1)
	asked := 0
	tapped := 0
	f.c.SetWillDragFunc(func(Primitive, int) bool {
		asked++
		return false
	})
	f.c.SetTapFunc(func(Primitive, int) { tapped++ })

	f.c.MouseHandler(MouseLeftDown, tcell.NewEventMouse(1, 2, tcell.ButtonPrimary, 0))
	f.clock.Advance(DefaultLongPressDuration)
	assert.Equal(t, 1, asked)
	assert.Equal(t, DragIdle, f.c.DragPhase())

	// The rest of the press is ignored.
	capture, _ := f.c.MouseHandler(MouseMove, tcell.NewEventMouse(1, 0, tcell.ButtonPrimary, 0))
	assert.Nil(t, capture)
	assert.False(t, f.c.Panning())
	assert.Equal(t, image.Pt(0, 0), f.c.Offset())

	up := tcell.NewEventMouse(1, 0, tcell.ButtonNone, 0)
	f.c.MouseHandler(MouseLeftUp, up)
	f.c.MouseHandler(MouseLeftClick, up)
	assert.Zero(t, tapped)

	// The next press is recognized again.
	down := tcell.NewEventMouse(1, 3, tcell.ButtonPrimary, 0)
	up = tcell.NewEventMouse(1, 3, tcell.ButtonNone, 0)
	f.c.MouseHandler(MouseLeftDown, down)
	f.c.MouseHandler(MouseLeftUp, up)
	f.c.MouseHandler(MouseLeftClick, up)
	assert.Equal(t, 1, tapped)
}

func TestEndDragIsIgnoredDuringReload(t *testing.T) {
	f := newListFixture(t, letters(5), 10, 5, 1)
	dropped := 0
	f.c.SetWillDragFunc(func(Primitive, int) bool { return true })
	f.c.SetDidDragFunc(func(Primitive, int) { dropped++ })
	require.True(t, f.c.BeginDrag(image.Pt(0, 1)))
	view, ok := f.c.DraggedView()
	require.True(t, ok)

	provider := f.c.GetProvider().(*ProviderFuncs)
	provider.WillReloadFunc = func() { f.c.EndDrag() }
	f.c.ReloadData(nil)

	assert.Equal(t, DragArmed, f.c.DragPhase())
	assert.True(t, f.c.IsFloating(view))
	assert.Zero(t, dropped)

	provider.WillReloadFunc = nil
	f.c.EndDrag()
	assert.Equal(t, DragIdle, f.c.DragPhase())
	assert.False(t, f.c.IsFloating(view))
	assert.Equal(t, 1, dropped)
}

func TestAppearSkipsViewsOfOtherItems(t *testing.T) {
	f := newListFixture(t, letters(20), 10, 5, 1)
	first, ok := f.c.ViewAt(0)
	require.True(t, ok)

	provider := f.c.GetProvider().(*ProviderFuncs)
	provider.ViewFunc = func(int) Primitive { return first }
	f.c.ScrollBy(0, 1)

	assert.Equal(t, "a", first.(*TextCell).GetText())
	index, ok := f.c.IndexOf(first)
	require.True(t, ok)
	assert.Equal(t, 0, index)
	_, ok = f.c.ViewAt(6)
	assert.False(t, ok)
}
