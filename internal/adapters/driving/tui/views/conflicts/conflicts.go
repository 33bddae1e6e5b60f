// Package conflicts provides the audience conflict view for the TUI.
package conflicts

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

var keyType = key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "type"))

// View lists the most correlated submission pairs.
type View struct {
	ctx               context.Context
	styles            *styles.Styles
	keymap            *keymap.KeyMap
	submissionService driving.SubmissionService

	event   string
	kind    domain.ConflictType
	count   int
	rows    []domain.ConflictRow
	cursor  *list.Cursor
	loading bool
	err     error
}

// NewView creates a new conflicts view.
func NewView(s *styles.Styles, submissionService driving.SubmissionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	return &View{
		ctx:               context.Background(),
		styles:            s,
		keymap:            km,
		submissionService: submissionService,
		kind:              domain.ConflictExpanded,
		count:             domain.DefaultConflictCount,
		cursor:            list.NewCursor(km),
	}
}

// SetContext sets the context used for network calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// SetEvent sets the event whose conflicts are shown.
func (v *View) SetEvent(slug string) {
	v.event = slug
}

// Init loads the conflicts for the current type and count.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.err = nil
	ctx, svc, event, kind, n := v.ctx, v.submissionService, v.event, v.kind, v.count
	return func() tea.Msg {
		if svc == nil {
			return messages.ConflictsLoaded{Type: kind, Err: errors.New("submission service not available")}
		}
		if event == "" {
			return messages.ConflictsLoaded{Type: kind, Err: domain.ErrNoActiveEvent}
		}
		rows, err := svc.Conflicts(ctx, event, kind, n)
		return messages.ConflictsLoaded{Type: kind, Rows: rows, Err: err}
	}
}

// Update handles messages for the conflicts view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.ConflictsLoaded:
		// A reply for a type the user has already moved past.
		if msg.Type != v.kind {
			return v, nil
		}
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.rows = msg.Rows
			v.cursor.SetCount(len(v.rows))
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case v.cursor.Update(msg):
	case key.Matches(msg, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	case key.Matches(msg, keyType):
		v.kind = NextType(v.kind)
		return v, v.Init()
	case key.Matches(msg, v.keymap.More):
		if v.count < domain.MaxConflictCount {
			v.count = min(v.count+10, domain.MaxConflictCount)
			return v, v.Init()
		}
	case key.Matches(msg, v.keymap.Less):
		if v.count > 1 {
			v.count = max(v.count-10, 1)
			return v, v.Init()
		}
	case key.Matches(msg, v.keymap.Refresh):
		return v, v.Init()
	}
	return v, nil
}

// NextType returns the conflict type after t, wrapping around.
func NextType(t domain.ConflictType) domain.ConflictType {
	for i, c := range domain.ConflictTypes {
		if c == t {
			return domain.ConflictTypes[(i+1)%len(domain.ConflictTypes)]
		}
	}
	return domain.ConflictTypes[0]
}

// View renders the conflicts view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Conflicts"))
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  %s  type: %s  top %d", v.event, v.kind, v.count)))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading conflicts..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.rows) == 0:
		b.WriteString(v.styles.Muted.Render("No conflicts."))
	default:
		b.WriteString(v.styles.Header.Render(fmt.Sprintf("  %-8s %-40s %-40s", "Corr", "Submission A", "Submission B")))
		b.WriteString("\n")
		start, end := v.cursor.Window()
		for i := start; i < end; i++ {
			r := v.rows[i]
			line := fmt.Sprintf("%s%-8.3f %-40s %-40s", v.cursor.Indicator(i), r.Correlation, Label(r.A), Label(r.B))
			if i == v.cursor.Selected() {
				b.WriteString(v.styles.Selected.Render(line))
			} else {
				b.WriteString(v.styles.Normal.Render(line))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render(keymap.HelpLine(keyType, v.keymap.More, v.keymap.Less, v.keymap.Refresh, v.keymap.Back)))
	return b.String()
}

// Label renders a submission reference as "CODE: Title".
func Label(ref domain.SubmissionRef) string {
	label := ref.Code + ": " + ref.Title
	if r := []rune(label); len(r) > 40 {
		label = string(r[:39]) + "…"
	}
	return label
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(_, height int) {
	v.cursor.SetHeight(height - 7)
}

// Type returns the selected conflict type.
func (v *View) Type() domain.ConflictType {
	return v.kind
}

// Count returns the number of pairs requested.
func (v *View) Count() int {
	return v.count
}

// Rows returns the loaded conflicts.
func (v *View) Rows() []domain.ConflictRow {
	return v.rows
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
