// Package sources provides the source editor view for the TUI.
package sources

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/confadmin/internal/core/domain"
	"github.com/custodia-labs/confadmin/internal/core/ports/driving"
	"github.com/custodia-labs/confadmin/internal/core/services"
)

// mode is what the keyboard currently drives.
type mode int

const (
	modeList mode = iota
	modeFields
	modeInput
)

// editableFields lists the fields of an existing source in display order.
var editableFields = []domain.SourceField{
	domain.FieldURL,
	domain.FieldEventSlug,
	domain.FieldAPIKey,
	domain.FieldAutoupdate,
	domain.FieldInterval,
	domain.FieldFilter,
}

// FieldLabel returns the display label of a source field.
func FieldLabel(f domain.SourceField) string {
	switch f {
	case domain.FieldSlug:
		return "URL Slug"
	case domain.FieldURL:
		return "URL"
	case domain.FieldEventSlug:
		return "Event Slug"
	case domain.FieldAPIKey:
		return "API Key"
	case domain.FieldAutoupdate:
		return "Autoupdate"
	case domain.FieldInterval:
		return "Interval"
	case domain.FieldFilter:
		return "Filter"
	default:
		return string(f)
	}
}

// NextFilter returns the filter after f in display order.
func NextFilter(f domain.SourceFilter) domain.SourceFilter {
	for i, candidate := range domain.SourceFilters {
		if candidate == f {
			return domain.SourceFilters[(i+1)%len(domain.SourceFilters)]
		}
	}
	return domain.FilterAccepted
}

// View is the source editor.
type View struct {
	ctx           context.Context
	styles        *styles.Styles
	keymap        *keymap.KeyMap
	sourceService driving.SourceService

	event   string
	sources []domain.EditableSource
	rows    *list.Cursor
	field   int
	mode    mode
	input   *input.Field
	width   int
	height  int
	loading bool
	err     error
}

// NewView creates a new sources view.
func NewView(s *styles.Styles, sourceService driving.SourceService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	return &View{
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		sourceService: sourceService,
		rows:          list.NewCursor(km),
		width:         80,
		height:        24,
	}
}

// SetContext sets the context used for network calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// SetEvent sets the event whose sources are edited.
func (v *View) SetEvent(slug string) {
	v.event = slug
}

// Init loads the sources of the event.
func (v *View) Init() tea.Cmd {
	v.mode = modeList
	v.err = nil
	if v.sourceService != nil && v.sourceService.Event() == v.event && v.event != "" {
		// Already loaded; keep pending edits.
		v.sync()
		return nil
	}
	return v.refresh()
}

// refresh returns a command that fetches the event's sources.
func (v *View) refresh() tea.Cmd {
	v.loading = true
	event := v.event
	ctx := v.ctx
	svc := v.sourceService
	return func() tea.Msg {
		if svc == nil {
			return messages.SourcesLoaded{Event: event, Err: errors.New("source service not available")}
		}
		return messages.SourcesLoaded{Event: event, Err: svc.Refresh(ctx, event)}
	}
}

// sync copies the editable list from the service.
func (v *View) sync() {
	if v.sourceService == nil {
		return
	}
	v.sources = v.sourceService.List()
	v.rows.SetCount(len(v.sources))
}

// Update handles messages for the sources view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SourcesLoaded:
		if msg.Event != v.event {
			return v, nil
		}
		v.loading = false
		v.err = msg.Err
		v.sync()
		return v, nil

	case messages.SourceSaved:
		v.sourceService.CompleteSave(msg.Op, msg.Record, msg.Err)
		v.sync()
		return v, nil

	case messages.SourceDeleted:
		v.sourceService.CompleteDelete(msg.Op, msg.Err)
		v.sync()
		if v.mode != modeList && v.selected() == nil {
			v.mode = modeList
		}
		return v, nil

	case messages.SourceCreated, messages.UpdateScheduled:
		v.sync()
		return v, nil
	}

	if v.mode == modeInput {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.mode == modeInput {
		return v.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, v.keymap.Back):
		if v.mode == modeFields {
			v.mode = modeList
			return v, nil
		}
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }

	case key.Matches(msg, v.keymap.Save):
		return v, v.save()

	case key.Matches(msg, v.keymap.Delete):
		return v, v.delete()

	case key.Matches(msg, v.keymap.Discard):
		if src := v.selected(); src != nil {
			v.err = v.sourceService.Discard(src.ID)
			v.sync()
		}
		return v, nil

	case key.Matches(msg, v.keymap.Schedule):
		return v, v.schedule()
	}

	if v.mode == modeFields {
		return v.handleFieldKey(msg)
	}

	switch {
	case v.rows.Update(msg):
		v.field = 0
	case key.Matches(msg, v.keymap.Select):
		if v.selected() != nil {
			v.mode = modeFields
		}
	case key.Matches(msg, v.keymap.Add):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewAddSource} }
	case key.Matches(msg, v.keymap.Refresh):
		return v, v.refresh()
	}
	return v, nil
}

// handleFieldKey navigates and edits the fields of the selected source.
func (v *View) handleFieldKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	src := v.selected()
	if src == nil {
		v.mode = modeList
		return v, nil
	}
	field := editableFields[v.field]

	switch {
	case key.Matches(msg, v.keymap.Up):
		if v.field > 0 {
			v.field--
		}
	case key.Matches(msg, v.keymap.Down):
		if v.field < len(editableFields)-1 {
			v.field++
		}
	case key.Matches(msg, v.keymap.Toggle), key.Matches(msg, v.keymap.Select):
		switch field {
		case domain.FieldAutoupdate:
			v.edit(src.ID, field, !src.Current.Autoupdate)
		case domain.FieldFilter:
			v.edit(src.ID, field, NextFilter(src.Current.Filter))
		default:
			if key.Matches(msg, v.keymap.Select) {
				return v, v.startInput(src, field)
			}
		}
	}
	return v, nil
}

// startInput opens the text input for a string or integer field.
func (v *View) startInput(src *domain.EditableSource, field domain.SourceField) tea.Cmd {
	if field == domain.FieldAPIKey {
		v.input = input.NewSecretField(v.styles, FieldLabel(field), "required when URL or Event Slug changes")
		v.input.SetValue(src.APIKey)
	} else {
		v.input = input.NewField(v.styles, FieldLabel(field), "")
		v.input.SetValue(fieldValue(src.Current, field))
	}
	v.input.SetWidth(v.width)
	v.mode = modeInput
	return v.input.Focus()
}

// handleInputKey commits or cancels the text input.
func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		v.mode = modeFields
		return v, nil
	case msg.Type == tea.KeyEnter:
		if src := v.selected(); src != nil {
			v.edit(src.ID, editableFields[v.field], v.input.Value())
		}
		v.mode = modeFields
		return v, nil
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// edit applies one field change through the service.
func (v *View) edit(id string, field domain.SourceField, value any) {
	v.err = v.sourceService.EditField(id, field, value)
	v.sync()
}

// save starts an asynchronous save of the selected source.
func (v *View) save() tea.Cmd {
	src := v.selected()
	if src == nil {
		return nil
	}
	op, err := v.sourceService.BeginSave(src.ID)
	v.sync()
	if err != nil {
		// Validation and empty saves are reported by the service.
		if errors.Is(err, domain.ErrInFlight) {
			v.err = err
		}
		return nil
	}
	v.err = nil
	ctx, svc := v.ctx, v.sourceService
	return func() tea.Msg {
		record, err := svc.RunSave(ctx, op)
		return messages.SourceSaved{Op: op, Record: record, Err: err}
	}
}

// delete starts an asynchronous delete of the selected source.
func (v *View) delete() tea.Cmd {
	src := v.selected()
	if src == nil {
		return nil
	}
	op, err := v.sourceService.BeginDelete(src.ID)
	v.sync()
	if err != nil {
		v.err = err
		return nil
	}
	v.err = nil
	ctx, svc := v.ctx, v.sourceService
	return func() tea.Msg {
		return messages.SourceDeleted{Op: op, Err: svc.RunDelete(ctx, op)}
	}
}

// schedule asks the backend to pull the selected source.
func (v *View) schedule() tea.Cmd {
	src := v.selected()
	if src == nil {
		return nil
	}
	id := src.ID
	ctx, svc := v.ctx, v.sourceService
	return func() tea.Msg {
		return messages.UpdateScheduled{ID: id, Err: svc.ScheduleUpdate(ctx, id)}
	}
}

// selected returns the selected source, or nil if the list is empty.
func (v *View) selected() *domain.EditableSource {
	i := v.rows.Selected()
	if i < 0 || i >= len(v.sources) {
		return nil
	}
	return &v.sources[i]
}

// View renders the sources view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Sources"))
	if v.event != "" {
		b.WriteString(v.styles.Muted.Render("  " + v.event))
	}
	b.WriteString("\n\n")

	switch {
	case v.event == "":
		b.WriteString(v.styles.Muted.Render("No active event. Select one under Events."))
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading sources..."))
	case len(v.sources) == 0 && v.err == nil:
		b.WriteString(v.styles.Muted.Render("No sources configured. Press [a] to add one."))
	default:
		v.renderList(&b)
		if src := v.selected(); src != nil {
			b.WriteString("\n")
			v.renderDetail(&b, src)
		}
	}

	if v.err != nil {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderList(b *strings.Builder) {
	start, end := v.rows.Window()
	for i := start; i < end; i++ {
		src := &v.sources[i]
		line := fmt.Sprintf("%s%-20s %-10s %s", v.rows.Indicator(i), src.ID, stateLabel(src), locator(src.Current))
		if i == v.rows.Selected() {
			b.WriteString(v.styles.Selected.Render(line))
		} else if services.IsDirty(src) {
			b.WriteString(v.styles.Warning.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}
}

func (v *View) renderDetail(b *strings.Builder, src *domain.EditableSource) {
	b.WriteString(v.styles.Subtitle.Render(src.ID))
	b.WriteString("\n")
	for i, field := range editableFields {
		indicator := "  "
		if v.mode != modeList && i == v.field {
			indicator = "> "
		}
		if v.mode == modeInput && i == v.field {
			b.WriteString(indicator + v.input.View() + "\n")
			continue
		}

		value := fieldValue(src.Current, field)
		if field == domain.FieldAPIKey {
			value = strings.Repeat("•", len(src.APIKey))
		}
		line := fmt.Sprintf("%s%-12s %s", indicator, FieldLabel(field), value)
		if field != domain.FieldAPIKey {
			if orig := fieldValue(src.Original, field); orig != value {
				line += v.styles.Muted.Render(fmt.Sprintf("  (was %s)", displayEmpty(orig)))
			}
		}
		b.WriteString(v.styles.Normal.Render(line))
		if msg, ok := src.Errors[string(field)]; ok {
			b.WriteString("  " + v.styles.Error.Render(msg))
		}
		b.WriteString("\n")
	}
	if src.State == domain.StateFailed && src.LastError != nil {
		b.WriteString(v.styles.Error.Render("Last attempt failed: " + src.LastError.Error()))
		b.WriteString("\n")
	}
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	km := v.keymap
	switch v.mode {
	case modeInput:
		return v.styles.Help.Render("[enter] apply  [esc] cancel")
	case modeFields:
		return v.styles.Help.Render(keymap.HelpLine(km.Select, km.Toggle, km.Save, km.Discard, km.Delete, km.Back))
	default:
		return v.styles.Help.Render(keymap.HelpLine(km.Select, km.Add, km.Save, km.Discard, km.Delete,
			km.Schedule, km.Refresh, km.Back))
	}
}

// stateLabel summarises the lifecycle state of a source.
func stateLabel(src *domain.EditableSource) string {
	switch {
	case src.IsSaving():
		return "saving…"
	case src.IsDeleting():
		return "deleting…"
	case src.State == domain.StateFailed:
		return "failed"
	case services.IsDirty(src):
		return "modified"
	case !src.Errors.Empty():
		return "invalid"
	default:
		return ""
	}
}

func locator(f domain.SourceFields) string {
	var parts []string
	if f.URL != "" {
		parts = append(parts, f.URL)
	}
	if f.EventSlug != "" {
		parts = append(parts, "event "+f.EventSlug)
	}
	if f.Autoupdate {
		parts = append(parts, fmt.Sprintf("every %ds", f.Interval))
	}
	return strings.Join(parts, ", ")
}

func fieldValue(f domain.SourceFields, field domain.SourceField) string {
	switch field {
	case domain.FieldURL:
		return f.URL
	case domain.FieldEventSlug:
		return f.EventSlug
	case domain.FieldAutoupdate:
		return strconv.FormatBool(f.Autoupdate)
	case domain.FieldInterval:
		return strconv.Itoa(f.Interval)
	case domain.FieldFilter:
		return f.Filter.String()
	default:
		return ""
	}
}

func displayEmpty(s string) string {
	if s == "" {
		return "empty"
	}
	return s
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	// Leave room for the title, detail pane and help.
	v.rows.SetHeight(height - len(editableFields) - 10)
}

// Sources returns the current list of sources.
func (v *View) Sources() []domain.EditableSource {
	return v.sources
}

// SelectedIndex returns the currently selected source index.
func (v *View) SelectedIndex() int {
	return v.rows.Selected()
}

// Editing reports whether the field pane or text input has focus.
func (v *View) Editing() bool {
	return v.mode != modeList
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
