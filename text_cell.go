package gridview

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// TextCell is a reusable item view showing word-wrapped text inside a
// border. The border color tells whether the cell is under the keyboard
// cursor or floating.
type TextCell struct {
	*Box

	// The text to be displayed inside the cell.
	text string

	// Alignment of every wrapped line.
	alignment Alignment

	// The text style.
	style tcell.Style

	// Border styles for the plain, highlighted and floating states.
	borderStyle     tcell.Style
	cursorStyle     tcell.Style
	floatingStyle   tcell.Style
	highlighted     bool
	floating        bool
	backgroundColor tcell.Color
}

// NewTextCell returns an empty cell with a rounded border.
func NewTextCell() *TextCell {
	box := NewBox().SetBorders(BordersAll).SetBorderSet(BorderSetRound())
	c := &TextCell{
		Box:             box,
		alignment:       AlignmentLeft,
		style:           tcell.StyleDefault.Foreground(Styles.PrimaryTextColor).Background(Styles.PrimitiveBackgroundColor),
		borderStyle:     tcell.StyleDefault.Foreground(Styles.BorderColor).Background(Styles.PrimitiveBackgroundColor),
		cursorStyle:     tcell.StyleDefault.Foreground(Styles.CursorBorderColor).Background(Styles.PrimitiveBackgroundColor),
		floatingStyle:   tcell.StyleDefault.Foreground(Styles.FloatingBorderColor).Background(Styles.PrimitiveBackgroundColor),
		backgroundColor: Styles.PrimitiveBackgroundColor,
	}
	return c
}

// SetText sets the cell text.
func (c *TextCell) SetText(text string) *TextCell {
	c.text = text
	return c
}

// GetText returns the cell text.
func (c *TextCell) GetText() string {
	return c.text
}

// SetTextStyle sets the style of the text.
func (c *TextCell) SetTextStyle(style tcell.Style) *TextCell {
	c.style = style
	return c
}

// SetTextAlignment sets the alignment of the wrapped lines.
func (c *TextCell) SetTextAlignment(alignment Alignment) *TextCell {
	c.alignment = alignment
	return c
}

// SetCellBackgroundColor sets the background of the cell and its text.
func (c *TextCell) SetCellBackgroundColor(color tcell.Color) *TextCell {
	c.backgroundColor = color
	c.style = c.style.Background(color)
	c.borderStyle = c.borderStyle.Background(color)
	c.cursorStyle = c.cursorStyle.Background(color)
	c.floatingStyle = c.floatingStyle.Background(color)
	return c
}

// SetHighlighted marks the cell as the one under the keyboard cursor.
func (c *TextCell) SetHighlighted(highlighted bool) {
	c.highlighted = highlighted
}

// SetFloating marks the cell as floating.
func (c *TextCell) SetFloating(floating bool) {
	c.floating = floating
}

// PrepareForReuse clears the cell before it is handed out again.
func (c *TextCell) PrepareForReuse() {
	c.text = ""
	c.highlighted = false
	c.floating = false
	c.SetTitle("")
}

// Lines returns the text wrapped to width cells.
func (c *TextCell) Lines(width int) []string {
	return wrapText(c.text, width)
}

// TextCellHeight returns the height a bordered TextCell of the given width
// needs to show all of text.
func TextCellHeight(text string, width int) int {
	return len(wrapText(text, width-2)) + 2
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	// Word wrap first, then hard wrap words longer than the line.
	wrapped := wrap.String(wordwrap.String(text, width), width)
	return strings.Split(strings.TrimRight(wrapped, "\n"), "\n")
}

// Draw draws this primitive onto the screen.
func (c *TextCell) Draw(screen tcell.Screen) {
	border := c.borderStyle
	switch {
	case c.floating:
		border = c.floatingStyle
	case c.highlighted:
		border = c.cursorStyle
	}
	c.SetBorderStyle(border)
	c.SetBackgroundColor(c.backgroundColor)
	c.DrawForSubclass(screen, c)

	x, y, width, height := c.GetInnerRect()
	if width <= 0 || height <= 0 {
		return
	}
	for row, line := range c.Lines(width) {
		if row >= height {
			break
		}
		printWithStyle(screen, line, x, y+row, 0, width, c.alignment, c.style, true)
	}
}
