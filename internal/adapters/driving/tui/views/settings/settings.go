// Package settings provides the settings view for the TUI.
//
// The view edits the connection settings stored in the config file and,
// when an event is active, the event's name and voting switch.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/confadmin/internal/core/domain"
	"github.com/custodia-labs/confadmin/internal/core/ports/driving"
)

// Item identifies an editable row.
type Item int

// Editable rows in display order. Event rows only show with an active event.
const (
	ItemAPIURL Item = iota
	ItemOIDCProvider
	ItemOIDCClient
	ItemEventName
	ItemVoting
)

var itemLabels = map[Item]string{
	ItemAPIURL:       "API URL",
	ItemOIDCProvider: "OIDC provider",
	ItemOIDCClient:   "OIDC client ID",
	ItemEventName:    "Event name",
	ItemVoting:       "Voting enabled",
}

var errServiceUnavailable = errors.New("settings service not available")

// View is the settings view.
type View struct {
	ctx             context.Context
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	settingsService driving.SettingsService
	eventService    driving.EventService

	settings *domain.AppSettings
	event    string
	form     *domain.GeneralSettings
	selected int
	editing  bool
	input    *input.Field
	saving   bool
	err      error

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService, eventService driving.EventService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		ctx:             context.Background(),
		styles:          s,
		keymap:          keymap.DefaultKeyMap(),
		settingsService: settingsService,
		eventService:    eventService,
		input:           input.NewField(s, "", ""),
	}
}

// SetContext sets the context used for network calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// SetEvent sets the event whose general settings are edited.
func (v *View) SetEvent(slug string) {
	if slug != v.event {
		v.form = nil
	}
	v.event = slug
}

// Init loads the settings and the active event.
func (v *View) Init() tea.Cmd {
	v.editing = false
	v.err = nil
	if v.event == "" || v.eventService == nil {
		return v.loadSettings()
	}
	return tea.Batch(v.loadSettings(), v.loadEvent())
}

// loadSettings returns a command that loads current settings.
func (v *View) loadSettings() tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsLoaded{Err: errServiceUnavailable}
		}
		settings, err := svc.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// loadEvent returns a command that fetches the active event.
func (v *View) loadEvent() tea.Cmd {
	ctx, svc, slug := v.ctx, v.eventService, v.event
	return func() tea.Msg {
		event, err := svc.Get(ctx, slug)
		return messages.EventLoaded{Event: event, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
		}
		return v, nil

	case messages.EventLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		if msg.Event != nil && msg.Event.Slug == v.event {
			form := domain.NewGeneralSettings(*msg.Event)
			v.form = &form
		}
		return v, nil

	case messages.SettingsSaved:
		v.saving = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		return v, v.loadSettings()

	case messages.DetailsSaved:
		v.saving = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		return v, v.loadEvent()

	case tea.KeyMsg:
		if v.editing {
			return v.handleInputKey(msg)
		}
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg handles key presses on the settings list.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	items := v.Items()
	switch {
	case key.Matches(msg, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	case key.Matches(msg, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case key.Matches(msg, v.keymap.Down):
		if v.selected < len(items)-1 {
			v.selected++
		}
	case key.Matches(msg, v.keymap.Save):
		return v, v.saveDetails()
	case key.Matches(msg, v.keymap.Discard):
		if v.form != nil {
			v.form.Name = v.form.OriginalName
			v.form.VotingEnabled = v.form.OriginalVotingEnabled
		}
	case key.Matches(msg, v.keymap.Select), key.Matches(msg, v.keymap.Toggle):
		if v.selected >= len(items) {
			return v, nil
		}
		item := items[v.selected]
		if item == ItemVoting {
			v.form.VotingEnabled = !v.form.VotingEnabled
			return v, nil
		}
		v.editing = true
		v.input.SetValue(v.value(item))
		return v, v.input.Focus()
	}
	return v, nil
}

// handleInputKey edits the selected text setting.
func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.editing = false
		v.input.Blur()
		return v, nil
	case tea.KeyEnter:
		v.editing = false
		v.input.Blur()
		return v, v.apply(v.Items()[v.selected], v.input.Value())
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// apply stores an edited value. Connection settings save immediately;
// the event name waits for an explicit save.
func (v *View) apply(item Item, value string) tea.Cmd {
	if item == ItemEventName {
		v.form.Name = value
		return nil
	}
	if v.settings == nil {
		return nil
	}
	svc := v.settingsService
	oidc := v.settings.OIDC
	v.saving = true
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Err: errServiceUnavailable}
		}
		var err error
		switch item {
		case ItemAPIURL:
			err = svc.SetAPIURL(value)
		case ItemOIDCProvider:
			err = svc.SetOIDC(value, oidc.ClientID)
		case ItemOIDCClient:
			err = svc.SetOIDC(oidc.ProviderURL, value)
		}
		return messages.SettingsSaved{Err: err}
	}
}

// saveDetails returns a command that saves the event's general settings.
func (v *View) saveDetails() tea.Cmd {
	if v.form == nil || v.saving || v.eventService == nil {
		return nil
	}
	v.saving = true
	ctx, svc, form := v.ctx, v.eventService, *v.form
	return func() tea.Msg {
		return messages.DetailsSaved{Err: svc.UpdateDetails(ctx, form)}
	}
}

// Items returns the editable rows currently shown.
func (v *View) Items() []Item {
	items := []Item{ItemAPIURL, ItemOIDCProvider, ItemOIDCClient}
	if v.form != nil {
		items = append(items, ItemEventName, ItemVoting)
	}
	return items
}

// value returns the current text of an item.
func (v *View) value(item Item) string {
	switch item {
	case ItemEventName:
		if v.form != nil {
			return v.form.Name
		}
	case ItemVoting:
		if v.form != nil {
			return checkbox(v.form.VotingEnabled)
		}
	}
	if v.settings == nil {
		return ""
	}
	switch item {
	case ItemAPIURL:
		return v.settings.API.BaseURL
	case ItemOIDCProvider:
		return v.settings.OIDC.ProviderURL
	case ItemOIDCClient:
		return v.settings.OIDC.ClientID
	}
	return ""
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.settings == nil && v.err == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	b.WriteString(v.styles.Header.Render("Connection"))
	b.WriteString("\n")
	for i, item := range v.Items() {
		if item == ItemEventName {
			b.WriteString("\n")
			b.WriteString(v.styles.Header.Render("Event " + v.event))
			b.WriteString("\n")
		}
		b.WriteString(v.renderItem(i, item))
		b.WriteString("\n")
	}

	if v.settings != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf(
			"Rate limit %.0f/s  Timeout %s  Redirect %s  Scope %s",
			v.settings.API.RateLimit, v.settings.API.Timeout,
			v.settings.OIDC.RedirectPath, v.settings.OIDC.Scope,
		)))
		b.WriteString("\n")
	}

	if v.form != nil && v.form.IsDirty() {
		b.WriteString("\n")
		b.WriteString(v.styles.Warning.Render("Event settings modified. Press ctrl+s to save."))
		b.WriteString("\n")
	}
	if v.saving {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Saving..."))
	}
	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [enter] Edit  [space] Toggle  [ctrl+s] Save event  [x] Discard  [esc] Back"))
	return b.String()
}

func (v *View) renderItem(i int, item Item) string {
	cursor := "  "
	style := v.styles.Normal
	if i == v.selected {
		cursor = "> "
		style = v.styles.Selected
	}
	if v.editing && i == v.selected {
		return cursor + fmt.Sprintf("%-16s ", itemLabels[item]) + v.input.View()
	}
	value := v.value(item)
	if value == "" {
		value = "(not set)"
	}
	return cursor + style.Render(fmt.Sprintf("%-16s %s", itemLabels[item], value))
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
	v.ready = true
	v.input.SetWidth(width - 20)
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Form returns the event's general settings form, if loaded.
func (v *View) Form() *domain.GeneralSettings {
	return v.form
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
