package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/views/addsource"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/views/conflicts"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/views/events"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/views/sources"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/views/users"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/views/votes"
)

// statusHeight is the number of lines reserved below each view.
const statusHeight = 2

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	keymap    *keymap.KeyMap
	statusBar *status.Bar

	menuView      *menu.View
	eventsView    *events.View
	sourcesView   *sources.View
	addSourceView *addsource.View
	votesView     *votes.View
	conflictsView *conflicts.View
	usersView     *users.View
	settingsView  *settings.View

	// event is the active event slug shared by the event-scoped views.
	event string

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// Option configures an App.
type Option func(*appOptions)

type appOptions struct {
	theme *styles.Theme
}

// WithTheme selects the colour theme by name.
func WithTheme(name string) Option {
	return func(o *appOptions) {
		o.theme = styles.ThemeByName(name)
	}
}

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports, opts ...Option) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	var o appOptions
	for _, opt := range opts {
		opt(&o)
	}

	s := styles.NewStyles(o.theme)
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		statusBar:     status.NewBar(s, km),
		menuView:      menu.NewView(s),
		eventsView:    events.NewView(s, ports.Event),
		sourcesView:   sources.NewView(s, ports.Source),
		addSourceView: addsource.NewView(s, ports.Source),
		votesView:     votes.NewView(s, ports.Submission),
		conflictsView: conflicts.NewView(s, ports.Submission),
		usersView:     users.NewView(s, ports.User),
		settingsView:  settings.NewView(s, ports.Settings, ports.Event),
		currentView:   messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.eventsView.SetContext(ctx)
	a.sourcesView.SetContext(ctx)
	a.addSourceView.SetContext(ctx)
	a.votesView.SetContext(ctx)
	a.conflictsView.SetContext(ctx)
	a.usersView.SetContext(ctx)
	a.settingsView.SetContext(ctx)
	return a
}

// Init implements tea.Model.
// It loads the active event and starts listening for notifications.
func (a *App) Init() tea.Cmd {
	a.statusBar.SetState(status.StateLoading)
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("confadmin"),
		events.Load(a.ctx, a.ports.Event),
		a.listen(),
	)
}

// listen returns a command that waits for the next notification.
// It is re-issued after each one is delivered.
func (a *App) listen() tea.Cmd {
	ch := a.ports.Notices
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return messages.NoticeReceived{Notice: n}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}
		return a, a.forward(msg)

	case messages.NoticeReceived:
		a.statusBar.Notify(msg.Notice)
		return a, a.listen()

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.EventsLoaded:
		a.statusBar.SetState(status.StateReady)
		a.eventsView, cmd = a.eventsView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
			return a, cmd
		}
		a.setEvent(msg.Active)
		return a, cmd

	case messages.EventSelected:
		a.eventsView, cmd = a.eventsView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
			return a, cmd
		}
		a.setEvent(msg.Slug)
		return a, a.switchTo(messages.ViewMenu)

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit

	// Async results go to their view even after the user has moved on,
	// so in-flight saves and deletes always complete.
	case messages.SourcesLoaded, messages.SourceSaved, messages.SourceDeleted, messages.UpdateScheduled:
		a.sourcesView, cmd = a.sourcesView.Update(msg)
		return a, cmd

	case messages.SourceCreated:
		a.addSourceView, cmd = a.addSourceView.Update(msg)
		if msg.Err == nil {
			a.sourcesView, _ = a.sourcesView.Update(msg)
		}
		return a, cmd

	case messages.VotesLoaded:
		a.votesView, cmd = a.votesView.Update(msg)
		return a, cmd

	case messages.ConflictsLoaded:
		a.conflictsView, cmd = a.conflictsView.Update(msg)
		return a, cmd

	case messages.UsersLoaded, messages.UsersFound, messages.UserChanged:
		a.usersView, cmd = a.usersView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingsSaved, messages.EventLoaded, messages.DetailsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd
	}

	return a, a.forward(msg)
}

// forward passes a message to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewEvents:
		a.eventsView, cmd = a.eventsView.Update(msg)
	case messages.ViewSources:
		a.sourcesView, cmd = a.sourcesView.Update(msg)
	case messages.ViewAddSource:
		a.addSourceView, cmd = a.addSourceView.Update(msg)
	case messages.ViewVotes:
		a.votesView, cmd = a.votesView.Update(msg)
	case messages.ViewConflicts:
		a.conflictsView, cmd = a.conflictsView.Update(msg)
	case messages.ViewUsers:
		a.usersView, cmd = a.usersView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}
	return cmd
}

// switchTo makes view current and initialises it.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.currentView = view
	a.err = nil
	switch view {
	case messages.ViewEvents:
		a.statusBar.SetHints(a.keymap.Select, a.keymap.Refresh, a.keymap.Back)
		return a.eventsView.Init()
	case messages.ViewSources:
		a.statusBar.SetHints(a.keymap.EditorHelp()...)
		return a.sourcesView.Init()
	case messages.ViewAddSource:
		a.statusBar.SetHints(a.keymap.Save, a.keymap.Back)
		return a.addSourceView.Init()
	case messages.ViewVotes:
		a.statusBar.SetHints(a.keymap.TableHelp()...)
		return a.votesView.Init()
	case messages.ViewConflicts:
		a.statusBar.SetHints(a.keymap.More, a.keymap.Less, a.keymap.Back)
		return a.conflictsView.Init()
	case messages.ViewUsers:
		a.statusBar.SetHints(a.keymap.Add, a.keymap.Delete, a.keymap.Back)
		return a.usersView.Init()
	case messages.ViewSettings:
		a.statusBar.SetHints(a.keymap.Save, a.keymap.Back)
		return a.settingsView.Init()
	case messages.ViewMenu, messages.ViewHelp:
		a.statusBar.SetHints()
	}
	return nil
}

// setEvent shares the active event with the views that act on it.
func (a *App) setEvent(slug string) {
	a.event = slug
	a.statusBar.SetEvent(slug)
	a.menuView.SetEvent(slug)
	a.sourcesView.SetEvent(slug)
	a.votesView.SetEvent(slug)
	a.conflictsView.SetEvent(slug)
	a.usersView.SetEvent(slug)
	a.settingsView.SetEvent(slug)
}

// View implements tea.Model.
// It renders the current view above the status bar.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewEvents:
		body = a.eventsView.View()
	case messages.ViewSources:
		body = a.sourcesView.View()
	case messages.ViewAddSource:
		body = a.addSourceView.View()
	case messages.ViewVotes:
		body = a.votesView.View()
	case messages.ViewConflicts:
		body = a.conflictsView.View()
	case messages.ViewUsers:
		body = a.usersView.View()
	case messages.ViewSettings:
		body = a.settingsView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.menuView.View()
	}

	if a.err != nil {
		body += "\n" + a.styles.Error.Render("Error: "+a.err.Error())
	}
	return body + "\n\n" + a.statusBar.View()
}

// viewHelp renders the help view from the key bindings.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-12s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back to menu"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Event returns the active event slug.
func (a *App) Event() string {
	return a.event
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	h := height - statusHeight
	a.statusBar.SetWidth(width)
	a.menuView.SetDimensions(width, h)
	a.eventsView.SetDimensions(width, h)
	a.sourcesView.SetDimensions(width, h)
	a.addSourceView.SetDimensions(width, h)
	a.votesView.SetDimensions(width, h)
	a.conflictsView.SetDimensions(width, h)
	a.usersView.SetDimensions(width, h)
	a.settingsView.SetDimensions(width, h)
}
