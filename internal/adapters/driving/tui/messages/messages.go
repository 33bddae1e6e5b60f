// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/confadmin/internal/adapters/driven/notify"
	"github.com/custodia-labs/confadmin/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewEvents lists events and selects the active one.
	ViewEvents
	// ViewSources is the source editor.
	ViewSources
	// ViewAddSource is the new-source form.
	ViewAddSource
	// ViewVotes is the sortable votes table.
	ViewVotes
	// ViewConflicts lists correlated submission pairs.
	ViewConflicts
	// ViewUsers manages event access.
	ViewUsers
	// ViewSettings shows and edits application settings.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewEvents:
		return "events"
	case ViewSources:
		return "sources"
	case ViewAddSource:
		return "add_source"
	case ViewVotes:
		return "votes"
	case ViewConflicts:
		return "conflicts"
	case ViewUsers:
		return "users"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// NoticeReceived carries a service notification to the status bar.
type NoticeReceived struct {
	Notice notify.Notification
}

// EventsLoaded carries the visible events and the active slug.
type EventsLoaded struct {
	List   *domain.EventList
	Active string
	Err    error
}

// EventSelected signals the active event changed.
type EventSelected struct {
	Slug string
	Err  error
}

// SourcesLoaded signals the source editor was refreshed for an event.
type SourcesLoaded struct {
	Event string
	Err   error
}

// SourceSaved carries the outcome of a save started with BeginSave.
type SourceSaved struct {
	Op     domain.SourceOp
	Record *domain.SourceRecord
	Err    error
}

// SourceDeleted carries the outcome of a delete started with BeginDelete.
type SourceDeleted struct {
	Op  domain.SourceOp
	Err error
}

// SourceCreated signals a draft was created.
type SourceCreated struct {
	Source domain.EditableSource
	Err    error
}

// UpdateScheduled signals a pull was scheduled for a source.
type UpdateScheduled struct {
	ID  string
	Err error
}

// VotesLoaded carries the vote rows of the active event.
type VotesLoaded struct {
	Rows []domain.VoteRow
	Err  error
}

// ConflictsLoaded carries correlated pairs for one conflict type.
type ConflictsLoaded struct {
	Type domain.ConflictType
	Rows []domain.ConflictRow
	Err  error
}

// UsersLoaded carries the users of the active event.
type UsersLoaded struct {
	Users []domain.EventUser
	Err   error
}

// UsersFound carries user search results.
type UsersFound struct {
	Query   string
	Results []domain.UserSummary
	Err     error
}

// UserChanged signals a permission change or removal finished.
type UserChanged struct {
	UserID     string
	Permission domain.Permission
	Err        error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}

// EventLoaded carries the active event for the general settings form.
type EventLoaded struct {
	Event *domain.Event
	Err   error
}

// DetailsSaved signals the event's general settings were saved.
type DetailsSaved struct {
	Err error
}
