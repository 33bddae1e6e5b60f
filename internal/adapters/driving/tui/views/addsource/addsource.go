// Package addsource provides the new-source form for the TUI.
package addsource

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/views/sources"
	"github.com/custodia-labs/confadmin/internal/core/domain"
	"github.com/custodia-labs/confadmin/internal/core/ports/driving"
)

// formFields lists the draft fields in display order.
var formFields = []domain.SourceField{
	domain.FieldSlug,
	domain.FieldURL,
	domain.FieldEventSlug,
	domain.FieldAPIKey,
	domain.FieldAutoupdate,
	domain.FieldInterval,
	domain.FieldFilter,
}

var (
	keyNext = key.NewBinding(key.WithKeys("tab", "down", "enter"))
	keyPrev = key.NewBinding(key.WithKeys("shift+tab", "up"))
)

// View is the form that creates a source from the draft.
type View struct {
	ctx           context.Context
	styles        *styles.Styles
	keymap        *keymap.KeyMap
	sourceService driving.SourceService

	inputs   map[domain.SourceField]*input.Field
	focus    int
	creating bool
	err      error
	width    int
	height   int
}

// NewView creates a new add-source view.
func NewView(s *styles.Styles, sourceService driving.SourceService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	v := &View{
		ctx:           context.Background(),
		styles:        s,
		keymap:        keymap.DefaultKeyMap(),
		sourceService: sourceService,
		width:         80,
		height:        24,
	}
	v.inputs = map[domain.SourceField]*input.Field{
		domain.FieldSlug:      input.NewField(s, sources.FieldLabel(domain.FieldSlug), "a-z, A-Z, 0-9, _ and -"),
		domain.FieldURL:       input.NewField(s, sources.FieldLabel(domain.FieldURL), "https://pretalx.example.org/api/events/conf/"),
		domain.FieldEventSlug: input.NewField(s, sources.FieldLabel(domain.FieldEventSlug), "remote event slug"),
		domain.FieldAPIKey:    input.NewSecretField(s, sources.FieldLabel(domain.FieldAPIKey), "required with URL or Event Slug"),
		domain.FieldInterval:  input.NewField(s, sources.FieldLabel(domain.FieldInterval), "seconds"),
	}
	return v
}

// SetContext sets the context used for network calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Init loads the draft into the inputs and focuses the first field.
func (v *View) Init() tea.Cmd {
	v.err = nil
	v.creating = false
	v.load()
	v.focus = 0
	return v.focusCurrent()
}

// Reset clears the draft.
func (v *View) Reset() {
	if v.sourceService != nil {
		v.sourceService.ResetDraft()
	}
	v.load()
	v.focus = 0
	v.err = nil
}

// load copies the draft values into the text inputs.
func (v *View) load() {
	if v.sourceService == nil {
		return
	}
	d := v.sourceService.Draft()
	v.inputs[domain.FieldSlug].SetValue(d.Slug)
	v.inputs[domain.FieldURL].SetValue(d.URL)
	v.inputs[domain.FieldEventSlug].SetValue(d.EventSlug)
	v.inputs[domain.FieldAPIKey].SetValue(d.APIKey)
	v.inputs[domain.FieldInterval].SetValue(strconv.Itoa(d.Interval))
}

// focusCurrent focuses the input of the current field and blurs the rest.
func (v *View) focusCurrent() tea.Cmd {
	var cmd tea.Cmd
	for field, in := range v.inputs {
		if field == formFields[v.focus] {
			cmd = in.Focus()
		} else {
			in.Blur()
		}
	}
	return cmd
}

// Update handles messages for the add-source view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SourceCreated:
		v.creating = false
		if msg.Err != nil {
			var verr *domain.ValidationError
			if !errors.As(msg.Err, &verr) {
				v.err = msg.Err
			}
			return v, nil
		}
		v.load()
		v.focus = 0
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewSources} }
	}

	if in, ok := v.inputs[formFields[v.focus]]; ok {
		var cmd tea.Cmd
		v.inputs[formFields[v.focus]], cmd = in.Update(msg)
		return v, cmd
	}
	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	field := formFields[v.focus]

	switch {
	case key.Matches(msg, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewSources} }

	case key.Matches(msg, v.keymap.Save):
		return v, v.create()

	case key.Matches(msg, keyNext):
		if v.focus < len(formFields)-1 {
			v.focus++
		}
		return v, v.focusCurrent()

	case key.Matches(msg, keyPrev):
		if v.focus > 0 {
			v.focus--
		}
		return v, v.focusCurrent()
	}

	in, isText := v.inputs[field]
	if !isText {
		if key.Matches(msg, v.keymap.Toggle) {
			d := v.sourceService.Draft()
			switch field {
			case domain.FieldAutoupdate:
				v.err = v.sourceService.EditDraft(field, !d.Autoupdate)
			case domain.FieldFilter:
				v.err = v.sourceService.EditDraft(field, sources.NextFilter(d.Filter))
			}
		}
		return v, nil
	}

	var cmd tea.Cmd
	in, cmd = in.Update(msg)
	v.inputs[field] = in
	v.err = v.sourceService.EditDraft(field, in.Value())
	return v, cmd
}

// create starts creating the source from the draft.
func (v *View) create() tea.Cmd {
	if v.creating || v.sourceService == nil {
		return nil
	}
	v.creating = true
	v.err = nil
	ctx, svc := v.ctx, v.sourceService
	return func() tea.Msg {
		created, err := svc.CreateNew(ctx)
		return messages.SourceCreated{Source: created, Err: err}
	}
}

// View renders the form.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("New Source"))
	b.WriteString("\n\n")

	var d domain.SourceDraft
	if v.sourceService != nil {
		d = v.sourceService.Draft()
	}

	for i, field := range formFields {
		indicator := "  "
		if i == v.focus {
			indicator = "> "
		}

		var line string
		switch field {
		case domain.FieldAutoupdate:
			line = fmt.Sprintf("%-12s %s", sources.FieldLabel(field), checkbox(d.Autoupdate))
		case domain.FieldFilter:
			line = fmt.Sprintf("%-12s %s", sources.FieldLabel(field), d.Filter.OrDefault())
		default:
			line = v.inputs[field].View()
		}
		b.WriteString(indicator + line)

		if msg, ok := d.Errors[string(field)]; ok {
			b.WriteString("  " + v.styles.Error.Render(msg))
		}
		b.WriteString("\n")
	}

	if v.creating {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Creating..."))
	}
	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[tab/↓] next  [↑] previous  [space] toggle  [ctrl+s] create  [esc] back"))
	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	for _, in := range v.inputs {
		in.SetWidth(width)
	}
}

// Focused returns the field that has focus.
func (v *View) Focused() domain.SourceField {
	return formFields[v.focus]
}

// Creating reports whether a create is in flight.
func (v *View) Creating() bool {
	return v.creating
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
