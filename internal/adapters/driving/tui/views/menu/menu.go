// Package menu provides the main navigation menu view for the TUI.
package menu

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/styles"
)

// Item represents a single menu option.
type Item struct {
	Label string
	View  messages.ViewType
	// NeedsEvent marks items that act on the active event.
	NeedsEvent bool
	Quit       bool
}

// View represents the main menu view.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	items    []Item
	selected int
	event    string
	width    int
	height   int
	ready    bool
}

// NewView creates a new menu view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		keymap: keymap.DefaultKeyMap(),
		items: []Item{
			{Label: "Events", View: messages.ViewEvents},
			{Label: "Sources", View: messages.ViewSources, NeedsEvent: true},
			{Label: "Votes", View: messages.ViewVotes, NeedsEvent: true},
			{Label: "Conflicts", View: messages.ViewConflicts, NeedsEvent: true},
			{Label: "Users", View: messages.ViewUsers, NeedsEvent: true},
			{Label: "Settings", View: messages.ViewSettings},
			{Label: "Help", View: messages.ViewHelp},
			{Label: "Quit", Quit: true},
		},
		width:  80,
		height: 24,
	}
}

// SetEvent sets the active event shown under the title.
func (v *View) SetEvent(slug string) {
	v.event = slug
}

// Init initialises the menu view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keymap.Up):
			if v.selected > 0 {
				v.selected--
			}
		case key.Matches(msg, v.keymap.Down):
			if v.selected < len(v.items)-1 {
				v.selected++
			}
		case key.Matches(msg, v.keymap.Select):
			item := v.items[v.selected]
			if item.Quit {
				return v, tea.Quit
			}
			// Without an active event these views have nothing to show.
			target := item.View
			if item.NeedsEvent && v.event == "" {
				target = messages.ViewEvents
			}
			return v, func() tea.Msg {
				return messages.ViewChanged{View: target}
			}
		case key.Matches(msg, v.keymap.Quit):
			return v, tea.Quit
		}
	}

	return v, nil
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("confadmin"))
	b.WriteString("\n\n")

	if v.event != "" {
		b.WriteString(v.styles.Subtitle.Render("Event: " + v.event))
	} else {
		b.WriteString(v.styles.Muted.Render("No active event. Pick one under Events."))
	}
	b.WriteString("\n\n")

	for i, item := range v.items {
		cursor := "  "
		style := v.styles.Normal
		if i == v.selected {
			cursor = "> "
			style = v.styles.Selected
		} else if item.NeedsEvent && v.event == "" {
			style = v.styles.Muted
		}
		b.WriteString(cursor + style.Render(item.Label))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Select  [q] Quit"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}

// Items returns the menu items.
func (v *View) Items() []Item {
	return v.items
}
