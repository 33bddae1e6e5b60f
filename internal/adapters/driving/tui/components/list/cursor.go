// Package list provides list navigation for the TUI views.
package list

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/keymap"
)

// Cursor tracks the selected row of a list and the rows that fit on screen.
type Cursor struct {
	keymap   *keymap.KeyMap
	selected int
	count    int
	height   int
}

// NewCursor creates a cursor over an empty list.
func NewCursor(km *keymap.KeyMap) *Cursor {
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Cursor{keymap: km, height: 10}
}

// Update moves the cursor on up/down keys. It reports whether the key was used.
func (c *Cursor) Update(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, c.keymap.Up):
		c.MoveUp()
	case key.Matches(msg, c.keymap.Down):
		c.MoveDown()
	case msg.Type == tea.KeyHome:
		c.selected = 0
	case msg.Type == tea.KeyEnd:
		c.SetSelected(c.count - 1)
	default:
		return false
	}
	return true
}

// SetCount sets the number of rows and keeps the cursor in range.
func (c *Cursor) SetCount(n int) {
	c.count = n
	if c.selected >= n {
		c.selected = n - 1
	}
	if c.selected < 0 {
		c.selected = 0
	}
}

// Count returns the number of rows.
func (c *Cursor) Count() int {
	return c.count
}

// SetHeight sets how many rows fit on screen.
func (c *Cursor) SetHeight(h int) {
	if h < 1 {
		h = 1
	}
	c.height = h
}

// Selected returns the index of the selected row.
func (c *Cursor) Selected() int {
	return c.selected
}

// SetSelected selects index if it is in range.
func (c *Cursor) SetSelected(index int) {
	if index >= 0 && index < c.count {
		c.selected = index
	}
}

// MoveUp moves selection up.
func (c *Cursor) MoveUp() {
	if c.selected > 0 {
		c.selected--
	}
}

// MoveDown moves selection down.
func (c *Cursor) MoveDown() {
	if c.selected < c.count-1 {
		c.selected++
	}
}

// Window returns the half-open range of rows to render so that the
// selected row is visible.
func (c *Cursor) Window() (start, end int) {
	if c.selected >= c.height {
		start = c.selected - c.height + 1
	}
	end = start + c.height
	if end > c.count {
		end = c.count
	}
	return start, end
}

// Indicator returns the row prefix for index.
func (c *Cursor) Indicator(index int) string {
	if index == c.selected {
		return "> "
	}
	return "  "
}
