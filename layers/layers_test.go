package layers

import (
	"image"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mark struct {
	r  rune
	at image.Point
}

func (m *mark) Draw(screen tcell.Screen) {
	screen.SetContent(m.at.X, m.at.Y, m.r, nil, tcell.StyleDefault)
}

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(20, 10)
	t.Cleanup(s.Fini)
	return s
}

func TestInsertBelowAndRemove(t *testing.T) {
	l := New[*mark]().AddLayer("items")
	a, b, c := &mark{r: 'a'}, &mark{r: 'b'}, &mark{r: 'c'}

	l.Append("items", a)
	l.Append("items", c)
	l.InsertBelow("items", b, c)
	assert.Equal(t, []*mark{a, b, c}, l.Items("items"))

	require.True(t, l.Remove(b))
	assert.False(t, l.Remove(b))
	assert.Equal(t, []*mark{a, c}, l.Items("items"))

	l.InsertBelow("items", b, &mark{})
	assert.Equal(t, []*mark{a, c, b}, l.Items("items"))
}

func TestAppendMovesBetweenLayers(t *testing.T) {
	l := New[*mark]().AddLayer("items").AddLayer("floating", WithOverlay())
	a := &mark{r: 'a'}
	l.Append("items", a)
	l.Append("floating", a)

	name, ok := l.LayerOf(a)
	require.True(t, ok)
	assert.Equal(t, "floating", name)
	assert.Empty(t, l.Items("items"))
	assert.Equal(t, []string{"floating", "items"}, l.GetLayerNames())
	assert.False(t, l.Append("missing", a))
}

func TestSort(t *testing.T) {
	l := New[*mark]().AddLayer("items")
	for _, r := range "cab" {
		l.Append("items", &mark{r: r})
	}
	l.Sort("items", func(a, b *mark) int { return int(a.r) - int(b.r) })

	var got []rune
	for _, m := range l.Items("items") {
		got = append(got, m.r)
	}
	assert.Equal(t, []rune("abc"), got)
}

func TestDrawTranslatesAndClips(t *testing.T) {
	screen := newScreen(t)
	l := New[*mark]().AddLayer("items",
		WithOrigin(image.Pt(2, 3)),
		WithClip(image.Rect(2, 3, 6, 6)),
	)
	l.Append("items", &mark{r: 'x', at: image.Pt(1, 1)})
	l.Append("items", &mark{r: 'y', at: image.Pt(10, 1)})
	l.Draw(screen)

	r, _, _, _ := screen.GetContent(3, 4)
	assert.Equal(t, 'x', r)
	r, _, _, _ = screen.GetContent(12, 4)
	assert.Equal(t, ' ', r)
}

func TestOverlayStylesLayersBehind(t *testing.T) {
	screen := newScreen(t)
	l := New[*mark]().
		AddLayer("items").
		AddLayer("floating", WithOverlay()).
		SetBackgroundLayerStyle(tcell.StyleDefault.Dim(true))
	l.Append("items", &mark{r: 'a', at: image.Pt(0, 0)})
	l.Draw(screen)

	_, _, style, _ := screen.GetContent(0, 0)
	_, _, attrs := style.Decompose()
	assert.Zero(t, attrs&tcell.AttrDim, "empty overlay layer must not apply")

	l.Append("floating", &mark{r: 'f', at: image.Pt(1, 0)})
	l.Draw(screen)
	_, _, style, _ = screen.GetContent(0, 0)
	_, _, attrs = style.Decompose()
	assert.NotZero(t, attrs&tcell.AttrDim)
	_, _, style, _ = screen.GetContent(1, 0)
	_, _, attrs = style.Decompose()
	assert.Zero(t, attrs&tcell.AttrDim)
}

func TestHiddenLayerIsSkipped(t *testing.T) {
	screen := newScreen(t)
	l := New[*mark]().AddLayer("items", WithVisible(false))
	l.Append("items", &mark{r: 'h'})
	l.Draw(screen)

	r, _, _, _ := screen.GetContent(0, 0)
	assert.Equal(t, ' ', r)
	l.SetVisible("items", true)
	assert.True(t, l.GetVisible("items"))
}
