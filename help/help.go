// Package help renders a key map as a one-line or multi-column help bar,
// with an optional status text on the right.
package help

import (
	"cmp"
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/xqrs/gridview"
	"github.com/xqrs/gridview/keybind"
)

type KeyMap interface {
	// ShortHelp returns keybinds for single-line help.
	ShortHelp() []keybind.Keybind
	// FullHelp returns keybind groups, where each top-level entry is a column.
	FullHelp() [][]keybind.Keybind
}

type Help struct {
	*gridview.Box
	Styles Styles

	keyMap         KeyMap
	showAll        bool
	status         string
	shortSeparator string
	fullSeparator  string
	ellipsis       string
}

func New() *Help {
	return &Help{
		Box:            gridview.NewBox(),
		Styles:         DefaultStyles(),
		shortSeparator: " • ",
		fullSeparator:  "    ",
		ellipsis:       "…",
	}
}

// SetKeyMap sets the key map used by this help primitive.
func (h *Help) SetKeyMap(keyMap KeyMap) *Help {
	h.keyMap = keyMap
	return h
}

// SetShowAll enables or disables full help mode.
func (h *Help) SetShowAll(showAll bool) *Help {
	h.showAll = showAll
	return h
}

// ShowAll returns whether full help mode is enabled.
func (h *Help) ShowAll() bool {
	return h.showAll
}

// SetStatus sets a text drawn right-aligned on the first line. The key help
// gives way to it when space runs out.
func (h *Help) SetStatus(status string) *Help {
	h.status = status
	return h
}

// Status returns the text set with SetStatus.
func (h *Help) Status() string {
	return h.status
}

// SetShortSeparator sets the separator used in short help mode.
func (h *Help) SetShortSeparator(separator string) *Help {
	h.shortSeparator = separator
	return h
}

// SetFullSeparator sets the separator used between full help columns.
func (h *Help) SetFullSeparator(separator string) *Help {
	h.fullSeparator = separator
	return h
}

// SetStyles sets help styles.
func (h *Help) SetStyles(styles Styles) *Help {
	h.Styles = styles
	return h
}

// Draw draws this primitive onto the screen.
func (h *Help) Draw(screen tcell.Screen) {
	h.DrawForSubclass(screen, h)

	x, y, width, height := h.GetInnerRect()
	if width <= 0 || height <= 0 {
		return
	}

	available := width
	if h.status != "" {
		statusWidth := min(gridview.StringWidth(h.status), width)
		gridview.PrintWithStyle(screen, h.status, x+width-statusWidth, y, statusWidth, gridview.AlignmentLeft, h.Styles.StatusStyle)
		available = max(width-statusWidth-1, 0)
	}
	if h.keyMap == nil {
		return
	}

	var lines [][]segment
	if h.showAll {
		lines = h.fullHelpSegments(h.keyMap.FullHelp(), available)
	} else {
		lines = [][]segment{h.shortHelpSegments(h.keyMap.ShortHelp(), available)}
	}
	for row := 0; row < len(lines) && row < height; row++ {
		h.drawSegments(screen, x, y+row, available, lines[row])
	}
}

// FullHelpLines renders grouped help into full mode lines as plain text.
func (h *Help) FullHelpLines(groups [][]keybind.Keybind, maxWidth int) []string {
	styled := h.fullHelpSegments(groups, maxWidth)
	lines := make([]string, 0, len(styled))
	for _, line := range styled {
		var b strings.Builder
		for _, s := range line {
			b.WriteString(s.text)
		}
		lines = append(lines, b.String())
	}
	return lines
}

// ShortHelpLine renders the single-line help as plain text.
func (h *Help) ShortHelpLine(bindings []keybind.Keybind, maxWidth int) string {
	var b strings.Builder
	for _, s := range h.shortHelpSegments(bindings, maxWidth) {
		b.WriteString(s.text)
	}
	return b.String()
}

type segment struct {
	text  string
	style tcell.Style
}

func (h *Help) shortHelpSegments(bindings []keybind.Keybind, maxWidth int) []segment {
	items := make([][]segment, 0, len(bindings))
	for _, kb := range bindings {
		if !kb.Enabled() {
			continue
		}
		if item := shortItemSegments(kb, h.Styles.ShortKeyStyle, h.Styles.ShortDescStyle); len(item) > 0 {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil
	}

	sep := segment{text: cmp.Or(h.shortSeparator, " "), style: h.Styles.ShortSeparatorStyle}
	out := slices.Clone(items[0])
	if maxWidth > 0 && segmentsWidth(out) > maxWidth {
		return nil
	}
	for _, item := range items[1:] {
		candidate := append(slices.Clone(out), sep)
		candidate = append(candidate, item...)
		if maxWidth > 0 && segmentsWidth(candidate) > maxWidth {
			return append(out, h.truncationTail(out, maxWidth)...)
		}
		out = candidate
	}
	return out
}

type column struct {
	entries []keybind.Help
	keyW    int
	colW    int
}

func (h *Help) columns(groups [][]keybind.Keybind) []column {
	columns := make([]column, 0, len(groups))
	for _, group := range groups {
		var col column
		for _, kb := range group {
			hp := kb.Help()
			if !kb.Enabled() || (hp.Key == "" && hp.Desc == "") {
				continue
			}
			col.entries = append(col.entries, hp)
			col.keyW = max(col.keyW, gridview.StringWidth(hp.Key))
		}
		if len(col.entries) == 0 {
			continue
		}
		// colW is the widest row so separators stay aligned.
		for _, e := range col.entries {
			w := col.keyW + gridview.StringWidth(e.Desc)
			if e.Key != "" && e.Desc != "" {
				w++
			}
			col.colW = max(col.colW, w)
		}
		columns = append(columns, col)
	}
	return columns
}

func (h *Help) fullHelpSegments(groups [][]keybind.Keybind, maxWidth int) [][]segment {
	columns := h.columns(groups)
	if len(columns) == 0 {
		return nil
	}

	sepText := cmp.Or(h.fullSeparator, " ")
	sepW := gridview.StringWidth(sepText)

	// Columns are taken left to right until the next one would overflow.
	included, totalW := 0, 0
	for i, col := range columns {
		nextW := col.colW
		if i > 0 {
			nextW += sepW
		}
		if maxWidth > 0 && totalW+nextW > maxWidth {
			break
		}
		included++
		totalW += nextW
	}
	if included == 0 {
		return [][]segment{{{text: h.ellipsis, style: h.Styles.EllipsisStyle}}}
	}

	maxRows := 0
	for _, col := range columns[:included] {
		maxRows = max(maxRows, len(col.entries))
	}

	lines := make([][]segment, 0, maxRows)
	for row := range maxRows {
		line := make([]segment, 0, included*4)
		for i, c := range columns[:included] {
			if i > 0 {
				line = append(line, segment{text: sepText, style: h.Styles.FullSeparatorStyle})
			}
			if row >= len(c.entries) {
				line = append(line, segment{text: strings.Repeat(" ", c.colW), style: h.Styles.FullDescStyle})
				continue
			}

			e := c.entries[row]
			cell := make([]segment, 0, 4)
			if e.Key != "" {
				cell = append(cell, segment{text: e.Key, style: h.Styles.FullKeyStyle})
			}
			if pad := c.keyW - gridview.StringWidth(e.Key); pad > 0 {
				cell = append(cell, segment{text: strings.Repeat(" ", pad), style: h.Styles.FullKeyStyle})
			}
			if e.Key != "" && e.Desc != "" {
				cell = append(cell, segment{text: " ", style: h.Styles.FullDescStyle})
			}
			if e.Desc != "" {
				cell = append(cell, segment{text: e.Desc, style: h.Styles.FullDescStyle})
			}
			if i < included-1 {
				if pad := c.colW - segmentsWidth(cell); pad > 0 {
					cell = append(cell, segment{text: strings.Repeat(" ", pad), style: h.Styles.FullDescStyle})
				}
			}
			line = append(line, cell...)
		}
		lines = append(lines, line)
	}

	if included < len(columns) && len(lines) > 0 {
		lines[0] = append(lines[0], h.truncationTail(lines[0], maxWidth)...)
	}
	return lines
}

// truncationTail returns the ellipsis marker if it fits entirely.
func (h *Help) truncationTail(current []segment, maxWidth int) []segment {
	if maxWidth <= 0 || h.ellipsis == "" {
		return nil
	}
	tail := []segment{
		{text: " ", style: h.Styles.EllipsisStyle},
		{text: h.ellipsis, style: h.Styles.EllipsisStyle},
	}
	if segmentsWidth(current)+segmentsWidth(tail) <= maxWidth {
		return tail
	}
	return nil
}

func (h *Help) drawSegments(screen tcell.Screen, x, y, width int, segments []segment) {
	cursor, remaining := x, width
	for _, s := range segments {
		if s.text == "" || remaining <= 0 {
			continue
		}
		_, printed := gridview.PrintWithStyle(screen, s.text, cursor, y, remaining, gridview.AlignmentLeft, s.style)
		cursor += printed
		remaining -= printed
	}
}

func shortItemSegments(kb keybind.Keybind, keyStyle, descStyle tcell.Style) []segment {
	help := kb.Help()
	switch {
	case help.Key == "" && help.Desc == "":
		return nil
	case help.Key == "":
		return []segment{{text: help.Desc, style: descStyle}}
	case help.Desc == "":
		return []segment{{text: help.Key, style: keyStyle}}
	default:
		return []segment{{text: help.Key, style: keyStyle}, {text: " ", style: descStyle}, {text: help.Desc, style: descStyle}}
	}
}

func segmentsWidth(segments []segment) int {
	width := 0
	for _, s := range segments {
		width += gridview.StringWidth(s.text)
	}
	return width
}
