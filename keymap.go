package gridview

import "github.com/xqrs/gridview/keybind"

// KeyMap holds the key bindings of a Collection. It satisfies the key map
// interface of the help package.
type KeyMap struct {
	Up       keybind.Keybind
	Down     keybind.Keybind
	PageUp   keybind.Keybind
	PageDown keybind.Keybind
	Top      keybind.Keybind
	Bottom   keybind.Keybind
	Select   keybind.Keybind
	// Grab lifts the cursor item. While it is lifted Up and Down move it and
	// Grab drops it again.
	Grab   keybind.Keybind
	Cancel keybind.Keybind
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: keybind.NewKeybind(
			keybind.WithKeys("up", "k"),
			keybind.WithHelp("↑/k", "up"),
		),
		Down: keybind.NewKeybind(
			keybind.WithKeys("down", "j"),
			keybind.WithHelp("↓/j", "down"),
		),
		PageUp: keybind.NewKeybind(
			keybind.WithKeys("pgup", "ctrl+b"),
			keybind.WithHelp("pgup", "page up"),
		),
		PageDown: keybind.NewKeybind(
			keybind.WithKeys("pgdn", "ctrl+f"),
			keybind.WithHelp("pgdn", "page down"),
		),
		Top: keybind.NewKeybind(
			keybind.WithKeys("home", "g"),
			keybind.WithHelp("g", "top"),
		),
		Bottom: keybind.NewKeybind(
			keybind.WithKeys("end", "G"),
			keybind.WithHelp("G", "bottom"),
		),
		Select: keybind.NewKeybind(
			keybind.WithKeys("enter"),
			keybind.WithHelp("enter", "select"),
		),
		Grab: keybind.NewKeybind(
			keybind.WithKeys("space", "m"),
			keybind.WithHelp("space", "move"),
		),
		Cancel: keybind.NewKeybind(
			keybind.WithKeys("esc"),
			keybind.WithHelp("esc", "drop"),
		),
	}
}

// ShortHelp returns the bindings shown in a one-line help bar.
func (k KeyMap) ShortHelp() []keybind.Keybind {
	return []keybind.Keybind{k.Up, k.Down, k.Select, k.Grab}
}

// FullHelp returns the bindings grouped in columns.
func (k KeyMap) FullHelp() [][]keybind.Keybind {
	return [][]keybind.Keybind{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Top, k.Bottom},
		{k.Select, k.Grab, k.Cancel},
	}
}
