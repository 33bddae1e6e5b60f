// Package users provides the event user management view for the TUI.
package users

import (
	"context"
	"errors"
	"fmt"
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
)

var keyPermission = key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "permission"))

var errServiceUnavailable = errors.New("user service not available")

// View lists the users of the active event and manages their permissions.
type View struct {
	ctx         context.Context
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	userService driving.UserService

	event   string
	users   []domain.EventUser
	rows    *list.Cursor
	loading bool
	pending bool
	err     error

	searching bool
	query     *input.Field
	searched  string
	results   []domain.UserSummary
	resultRow int
}

// NewView creates a new users view.
func NewView(s *styles.Styles, userService driving.UserService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	return &View{
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		userService: userService,
		rows:        list.NewCursor(km),
		query:       input.NewField(s, "Add user", "name or email"),
	}
}

// SetContext sets the context used for network calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// SetEvent sets the event whose users are shown.
func (v *View) SetEvent(slug string) {
	v.event = slug
}

// Init loads the users.
func (v *View) Init() tea.Cmd {
	v.loading = true
	ctx, svc, event := v.ctx, v.userService, v.event
	return func() tea.Msg {
		if svc == nil {
			return messages.UsersLoaded{Err: errServiceUnavailable}
		}
		if event == "" {
			return messages.UsersLoaded{Err: domain.ErrNoActiveEvent}
		}
		users, err := svc.List(ctx, event)
		return messages.UsersLoaded{Users: users, Err: err}
	}
}

// Update handles messages for the users view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.UsersLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.users = msg.Users
			v.rows.SetCount(len(v.users))
		}
		return v, nil

	case messages.UsersFound:
		if msg.Query != v.query.Value() {
			return v, nil
		}
		v.err = msg.Err
		v.searched = msg.Query
		v.results = msg.Results
		v.resultRow = 0
		return v, nil

	case messages.UserChanged:
		v.pending = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		return v, v.Init()

	case tea.KeyMsg:
		if v.searching {
			return v.handleSearchKey(msg)
		}
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

// handleKeyMsg handles key presses on the user list.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case v.rows.Update(msg):
	case key.Matches(msg, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	case key.Matches(msg, v.keymap.Refresh):
		return v, v.Init()
	case key.Matches(msg, v.keymap.Filter), key.Matches(msg, v.keymap.Add):
		v.searching = true
		v.query.Reset()
		v.results = nil
		v.searched = ""
		return v, v.query.Focus()
	case key.Matches(msg, keyPermission):
		if u, ok := v.selected(); ok {
			return v, v.setPermission(u.ID, NextPermission(u.Permission))
		}
	case key.Matches(msg, v.keymap.Delete):
		if u, ok := v.selected(); ok {
			return v, v.setPermission(u.ID, domain.PermissionNone)
		}
	}
	return v, nil
}

// handleSearchKey handles key presses while adding a user.
// Enter searches for a changed query and adds the selected result otherwise.
func (v *View) handleSearchKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.searching = false
		v.query.Blur()
		return v, nil
	case tea.KeyUp:
		if v.resultRow > 0 {
			v.resultRow--
		}
		return v, nil
	case tea.KeyDown:
		if v.resultRow < len(v.results)-1 {
			v.resultRow++
		}
		return v, nil
	case tea.KeyEnter:
		q := v.query.Value()
		if q != v.searched || len(v.results) == 0 {
			return v, v.search(q)
		}
		u := v.results[v.resultRow]
		v.searching = false
		v.query.Blur()
		return v, v.setPermission(u.ID, domain.DefaultPermission)
	}

	var cmd tea.Cmd
	v.query, cmd = v.query.Update(msg)
	return v, cmd
}

// selected returns the user under the cursor unless it is the signed-in user.
func (v *View) selected() (domain.EventUser, bool) {
	i := v.rows.Selected()
	if i >= len(v.users) {
		return domain.EventUser{}, false
	}
	u := v.users[i]
	if u.IsSelf() {
		v.err = errors.New("you cannot change your own permissions")
		return domain.EventUser{}, false
	}
	return u, true
}

// search returns a command that finds users matching query.
func (v *View) search(query string) tea.Cmd {
	ctx, svc, event := v.ctx, v.userService, v.event
	return func() tea.Msg {
		if svc == nil {
			return messages.UsersFound{Query: query, Err: errServiceUnavailable}
		}
		results, err := svc.Search(ctx, event, query)
		return messages.UsersFound{Query: query, Results: results, Err: err}
	}
}

// setPermission returns a command that changes or removes a permission.
func (v *View) setPermission(userID string, perm domain.Permission) tea.Cmd {
	if v.pending || v.userService == nil {
		return nil
	}
	v.pending = true
	ctx, svc, event := v.ctx, v.userService, v.event
	return func() tea.Msg {
		var err error
		if perm == domain.PermissionNone {
			err = svc.Remove(ctx, event, userID)
		} else {
			err = svc.SetPermission(ctx, event, userID, perm)
		}
		return messages.UserChanged{UserID: userID, Permission: perm, Err: err}
	}
}

// NextPermission returns the settable permission after p, wrapping around.
func NextPermission(p domain.Permission) domain.Permission {
	for i, s := range domain.SettablePermissions {
		if s == p {
			return domain.SettablePermissions[(i+1)%len(domain.SettablePermissions)]
		}
	}
	return domain.DefaultPermission
}

// View renders the users view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Users"))
	if v.event != "" {
		b.WriteString(v.styles.Muted.Render("  " + v.event))
	}
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading users..."))
	case len(v.users) == 0 && v.err == nil:
		b.WriteString(v.styles.Muted.Render("No users."))
	default:
		start, end := v.rows.Window()
		for i := start; i < end; i++ {
			u := v.users[i]
			perm := string(u.Permission)
			if u.IsSelf() {
				perm = "you"
			}
			line := fmt.Sprintf("%s%-24s %-32s %s", v.rows.Indicator(i), u.Name, u.Email, perm)
			if i == v.rows.Selected() {
				b.WriteString(v.styles.Selected.Render(line))
			} else {
				b.WriteString(v.styles.Normal.Render(line))
			}
			b.WriteString("\n")
		}
	}

	if v.searching {
		b.WriteString("\n")
		b.WriteString(v.query.View())
		b.WriteString("\n")
		if v.searched != "" && len(v.results) == 0 {
			b.WriteString(v.styles.Muted.Render("  No matching users."))
			b.WriteString("\n")
		}
		for i, u := range v.results {
			line := fmt.Sprintf("%s (%s)", u.Name, u.Email)
			if i == v.resultRow {
				b.WriteString(v.styles.Selected.Render("> " + line))
			} else {
				b.WriteString(v.styles.Normal.Render("  " + line))
			}
			b.WriteString("\n")
		}
	}

	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	}

	b.WriteString("\n\n")
	if v.searching {
		b.WriteString(v.styles.Help.Render("[enter] search/add  [↑/↓] choose  [esc] cancel"))
	} else {
		b.WriteString(v.styles.Help.Render(keymap.HelpLine(
			keyPermission, v.keymap.Delete, v.keymap.Add, v.keymap.Refresh, v.keymap.Back,
		)))
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.rows.SetHeight(height - 12)
	v.query.SetWidth(width)
}

// Users returns the loaded users.
func (v *View) Users() []domain.EventUser {
	return v.users
}

// Results returns the last search results.
func (v *View) Results() []domain.UserSummary {
	return v.results
}

// Searching reports whether the add-user search is open.
func (v *View) Searching() bool {
	return v.searching
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
