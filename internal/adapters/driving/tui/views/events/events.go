// Package events provides the event picker view for the TUI.
package events

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/confadmin/internal/core/domain"
	"github.com/custodia-labs/confadmin/internal/core/ports/driving"
)

// View lists the visible events and selects the active one.
type View struct {
	ctx          context.Context
	styles       *styles.Styles
	keymap       *keymap.KeyMap
	eventService driving.EventService

	events  []domain.Event
	user    domain.Account
	active  string
	rows    *list.Cursor
	loading bool
	err     error
}

// NewView creates a new events view.
func NewView(s *styles.Styles, eventService driving.EventService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	return &View{
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		eventService: eventService,
		rows:         list.NewCursor(km),
	}
}

// SetContext sets the context used for network calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Init loads the events.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return Load(v.ctx, v.eventService)
}

// Load returns a command that lists events and reads the active slug.
func Load(ctx context.Context, svc driving.EventService) tea.Cmd {
	return func() tea.Msg {
		if svc == nil {
			return messages.EventsLoaded{Err: errors.New("event service not available")}
		}
		list, err := svc.List(ctx)
		if err != nil {
			return messages.EventsLoaded{Err: err}
		}
		// No active event yet is not an error.
		active, _ := svc.Active(ctx)
		return messages.EventsLoaded{List: list, Active: active}
	}
}

// Update handles messages for the events view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.EventsLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil && msg.List != nil {
			v.events = msg.List.Events
			v.user = msg.List.User
			v.active = msg.Active
			v.rows.SetCount(len(v.events))
			v.selectActive()
		}
		return v, nil

	case messages.EventSelected:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.active = msg.Slug
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case v.rows.Update(msg):
	case key.Matches(msg, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	case key.Matches(msg, v.keymap.Refresh):
		return v, v.Init()
	case key.Matches(msg, v.keymap.Select):
		if i := v.rows.Selected(); i < len(v.events) {
			return v, v.use(v.events[i].Slug)
		}
	}
	return v, nil
}

// use returns a command that makes slug the active event.
func (v *View) use(slug string) tea.Cmd {
	ctx, svc := v.ctx, v.eventService
	return func() tea.Msg {
		return messages.EventSelected{Slug: slug, Err: svc.Use(ctx, slug)}
	}
}

// selectActive moves the cursor to the active event.
func (v *View) selectActive() {
	for i, e := range v.events {
		if e.Slug == v.active {
			v.rows.SetSelected(i)
			return
		}
	}
}

// View renders the events view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Events"))
	if v.user.Name != "" {
		b.WriteString(v.styles.Muted.Render("  signed in as " + v.user.Name))
	}
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading events..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.events) == 0:
		b.WriteString(v.styles.Muted.Render("No events visible to this account."))
	default:
		start, end := v.rows.Window()
		for i := start; i < end; i++ {
			e := v.events[i]
			marker := " "
			if e.Slug == v.active {
				marker = "*"
			}
			line := fmt.Sprintf("%s%s %-24s %-30s %s", v.rows.Indicator(i), marker, e.Slug, e.Name, e.Permissions.Role)
			if i == v.rows.Selected() {
				b.WriteString(v.styles.Selected.Render(line))
			} else {
				b.WriteString(v.styles.Normal.Render(line))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render(keymap.HelpLine(v.keymap.Select, v.keymap.Refresh, v.keymap.Back)))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(_, height int) {
	v.rows.SetHeight(height - 6)
}

// Active returns the active event slug.
func (v *View) Active() string {
	return v.active
}

// Events returns the loaded events.
func (v *View) Events() []domain.Event {
	return v.events
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
