package demo

import (
	"github.com/gdamore/tcell/v2"

	"github.com/xqrs/gridview"
	"github.com/xqrs/gridview/help"
	"github.com/xqrs/gridview/keybind"
)

// keyMap adds the demo's own bindings to those of the collection.
type keyMap struct {
	gridview.KeyMap
	Help keybind.Keybind
	Quit keybind.Keybind
}

func defaultKeyMap(collection gridview.KeyMap) keyMap {
	return keyMap{
		KeyMap: collection,
		Help: keybind.NewKeybind(
			keybind.WithKeys("?"),
			keybind.WithHelp("?", "more"),
		),
		Quit: keybind.NewKeybind(
			keybind.WithKeys("q", "ctrl+c"),
			keybind.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []keybind.Keybind {
	return append(k.KeyMap.ShortHelp(), k.Help, k.Quit)
}

func (k keyMap) FullHelp() [][]keybind.Keybind {
	return append(k.KeyMap.FullHelp(), []keybind.Keybind{k.Help, k.Quit})
}

// root stacks the collection above the help bar and routes events to them.
type root struct {
	*gridview.Box
	collection *gridview.Collection
	help       *help.Help
	keys       keyMap
}

func newRoot(collection *gridview.Collection) *root {
	r := &root{
		Box:        gridview.NewBox(),
		collection: collection,
		help:       help.New(),
		keys:       defaultKeyMap(collection.GetKeyMap()),
	}
	r.help.SetKeyMap(r.keys)
	return r
}

// helpHeight returns the number of rows the help bar takes.
func (r *root) helpHeight() int {
	if !r.help.ShowAll() {
		return 1
	}
	rows := 1
	for _, column := range r.keys.FullHelp() {
		rows = max(rows, len(column))
	}
	return rows
}

func (r *root) Draw(screen tcell.Screen) {
	r.DrawForSubclass(screen, r)
	x, y, width, height := r.GetInnerRect()
	helpHeight := min(r.helpHeight(), height)
	r.collection.SetRect(x, y, width, height-helpHeight)
	r.help.SetRect(x, y+height-helpHeight, width, helpHeight)
	r.collection.Draw(screen)
	r.help.Draw(screen)
}

func (r *root) InputHandler(event *tcell.EventKey) gridview.Command {
	switch {
	case keybind.Matches(event, r.keys.Quit):
		return gridview.QuitCommand{}
	case keybind.Matches(event, r.keys.Help):
		r.help.SetShowAll(!r.help.ShowAll())
		return gridview.RedrawCommand{}
	}
	return r.collection.InputHandler(event)
}

func (r *root) MouseHandler(action gridview.MouseAction, event *tcell.EventMouse) (gridview.Primitive, gridview.Command) {
	if r.collection.InRect(event.Position()) {
		return r.collection.MouseHandler(action, event)
	}
	return nil, nil
}

func (r *root) Focus(delegate func(p gridview.Primitive)) {
	delegate(r.collection)
}

func (r *root) HasFocus() bool {
	return r.collection.HasFocus() || r.Box.HasFocus()
}

func (r *root) Blur() {
	r.collection.Blur()
	r.Box.Blur()
}
