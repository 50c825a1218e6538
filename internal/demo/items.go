package demo

import (
	"fmt"
	"image"
	"strings"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/xqrs/gridview"
	"github.com/xqrs/gridview/internal/config"
	"github.com/xqrs/gridview/layout"
)

// Item is one generated note.
type Item struct {
	ID    string
	Title string
	Text  string
	Color tcell.Color
	// Message places the item in the chat layout. It travels with the item
	// when it is reordered.
	Message layout.Message
}

var words = strings.Fields(`virtual lists only build views for the rows you can see
while the rest wait in a pool until scrolling brings them back into the
viewport and a drag lifts one above the others`)

// tileSize is the size of a chat tile.
var tileSize = image.Pt(14, 4)

// Generate returns n items with texts of varying length and colors spread
// around the hue circle.
func Generate(n int) []Item {
	items := make([]Item, n)
	for i := range n {
		hue := 360 * float64(i) / float64(max(n, 1))
		r, g, b := colorful.Hsv(hue, 0.5, 0.3).RGB255()

		count := 3 + (i*7)%17
		text := make([]string, count)
		for w := range count {
			text[w] = words[(i+w*5)%len(words)]
		}
		items[i] = Item{
			ID:      fmt.Sprintf("item-%04d", i+1),
			Title:   fmt.Sprintf("#%d", i+1),
			Text:    strings.Join(text, " "),
			Color:   tcell.NewRGBColor(int32(r), int32(g), int32(b)),
			Message: config.ChatMessage(i),
		}
	}
	return items
}

// itemSize returns the size an item wants for the layout, given the width
// it may use.
func itemSize(name string, item Item, width int) image.Point {
	switch name {
	case config.LayoutGrid:
		w := min(width, 28)
		return image.Pt(w, gridview.TextCellHeight(item.Text, w))
	case config.LayoutChat:
		if item.Message.Tile {
			return tileSize
		}
		w := min(gridview.StringWidth(item.Text)+2, width)
		return image.Pt(w, gridview.TextCellHeight(item.Text, w))
	}
	return image.Pt(width, gridview.TextCellHeight(item.Text, width))
}

// bind shows item in a cell. A tile shows a pattern instead of its text.
func bind(cell *gridview.TextCell, item Item, tile bool) {
	text := item.Text
	if tile {
		text = "▚▞▚▞▚▞▚▞▚▞▚▞"
	}
	cell.SetText(text).SetCellBackgroundColor(item.Color)
	cell.SetTitle(item.Title)
}

// layoutFor returns the layout named by cfg. The chat layout reads the
// placement of every message from item.
func layoutFor(cfg *config.Config, item func(index int) Item) (layout.Layout, error) {
	l, err := cfg.ItemLayout()
	if err != nil {
		return nil, err
	}
	if chat, ok := l.(layout.Chat); ok {
		chat.Message = func(index int) layout.Message {
			return item(index).Message
		}
		l = chat
	}
	return l, nil
}

// Frames lays out items in a container of the given width the way the demo
// collection does, without insets.
func Frames(cfg *config.Config, items []Item, width int) ([]image.Rectangle, error) {
	l, err := layoutFor(cfg, func(index int) Item { return items[index] })
	if err != nil {
		return nil, err
	}
	return l.Frames(len(items), width, func(index, w int) image.Point {
		return itemSize(cfg.Layout, items[index], w)
	}), nil
}
