// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view or leaves an input.
	Back key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Select confirms a selection or starts editing a field.
	Select key.Binding

	// Toggle flips a boolean field or cycles an enumerated one.
	Toggle key.Binding

	// Save sends pending edits.
	Save key.Binding

	// Discard drops pending edits.
	Discard key.Binding

	// Delete removes the selected item.
	Delete key.Binding

	// Add opens the form for a new item.
	Add key.Binding

	// Refresh reloads from the backend.
	Refresh key.Binding

	// Schedule asks the backend to pull a source now.
	Schedule key.Binding

	// Sort cycles the sort column.
	Sort key.Binding

	// Reverse flips the sort direction.
	Reverse key.Binding

	// Filter starts typing a filter.
	Filter key.Binding

	// More and Less adjust a count.
	More key.Binding
	Less key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Discard: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "discard"),
		),
		Delete: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Schedule: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "update now"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		Reverse: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "reverse"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		More: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more"),
		),
		Less: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "fewer"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Help, k.Quit}
}

// EditorHelp returns keybindings for the source editor.
func (k *KeyMap) EditorHelp() []key.Binding {
	return []key.Binding{k.Select, k.Toggle, k.Save, k.Discard, k.Delete, k.Schedule, k.Add, k.Back}
}

// TableHelp returns keybindings for sortable tables.
func (k *KeyMap) TableHelp() []key.Binding {
	return []key.Binding{k.Sort, k.Reverse, k.Filter, k.Refresh, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back},
		{k.Toggle, k.Save, k.Discard, k.Delete, k.Add, k.Schedule},
		{k.Sort, k.Reverse, k.Filter, k.More, k.Less, k.Refresh},
		{k.Help, k.Quit},
	}
}

// HelpLine renders bindings as "[key] desc" pairs.
func HelpLine(bindings ...key.Binding) string {
	var out string
	for i, b := range bindings {
		h := b.Help()
		if i > 0 {
			out += "  "
		}
		out += "[" + h.Key + "] " + h.Desc
	}
	return out
}
