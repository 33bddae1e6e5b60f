// Package status provides status bar components for the TUI.
package status

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/confadmin/internal/adapters/driven/notify"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady   State = "ready"
	StateLoading State = "loading"
	StateNotice  State = "notice"
)

// Bar displays the active event, the latest notification and keybinding hints.
type Bar struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	state  State
	event  string
	notice notify.Notification
	hints  []key.Binding
	width  int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		hints:  km.ShortHelp(),
		width:  80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.styles.Muted.Render(keymap.HelpLine(s.hints...))

	// Calculate padding
	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the event and the state or notice.
func (s *Bar) renderLeft() string {
	event := s.styles.Subtitle.Render(s.eventLabel())

	var state string
	switch s.state {
	case StateLoading:
		state = s.styles.Muted.Render("Loading...")
	case StateNotice:
		state = s.renderNotice()
	default:
		state = s.styles.Muted.Render("Ready")
	}
	return event + "  " + state
}

func (s *Bar) eventLabel() string {
	if s.event == "" {
		return "no event"
	}
	return s.event
}

func (s *Bar) renderNotice() string {
	switch s.notice.Level {
	case notify.LevelSuccess:
		return s.styles.Success.Render("✓ " + s.notice.Message)
	case notify.LevelError:
		return s.styles.Error.Render("✗ " + s.notice.Message)
	default:
		return s.styles.Normal.Render(s.notice.Message)
	}
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetEvent sets the active event slug.
func (s *Bar) SetEvent(slug string) {
	s.event = slug
}

// Event returns the active event slug.
func (s *Bar) Event() string {
	return s.event
}

// Notify shows a notification until the next one or Clear.
func (s *Bar) Notify(n notify.Notification) {
	s.notice = n
	s.state = StateNotice
}

// Notice returns the notification on display.
func (s *Bar) Notice() notify.Notification {
	return s.notice
}

// SetHints replaces the keybinding hints. No bindings restores the short help.
func (s *Bar) SetHints(bindings ...key.Binding) {
	if len(bindings) == 0 {
		bindings = s.keymap.ShortHelp()
	}
	s.hints = bindings
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state. The event is kept.
func (s *Bar) Clear() {
	s.state = StateReady
	s.notice = notify.Notification{}
	s.hints = s.keymap.ShortHelp()
}
