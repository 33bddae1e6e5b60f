package domain

// EventRole is the signed-in user's role on an event.
type EventRole string

// Event roles as reported by the backend.
const (
	RoleAdmin  EventRole = "admin"
	RoleViewer EventRole = "viewer"
	RoleUser   EventRole = "user"
)

// EventPermissions describes what the signed-in user may do on an event.
type EventPermissions struct {
	View      bool      `json:"view"`
	Configure bool      `json:"configure"`
	Update    bool      `json:"update"`
	Role      EventRole `json:"role"`
}

// Event is a conference visible to the signed-in user.
type Event struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Slug          string           `json:"slug"`
	Permissions   EventPermissions `json:"permissions"`
	VotingEnabled bool             `json:"voting_enabled"`
}

// CanManage reports whether the user may manage sources, users and settings.
func (e Event) CanManage() bool {
	return e.Permissions.Configure || e.Permissions.Role == RoleAdmin
}

// Account identifies the signed-in user.
type Account struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// EventList is the result of listing events.
type EventList struct {
	// CanCreate reports whether the user may create events.
	CanCreate bool

	// User is the signed-in account.
	User Account

	// Events is ordered by name.
	Events []Event
}

// Find returns the event with the given slug.
func (l EventList) Find(slug string) (Event, bool) {
	for _, e := range l.Events {
		if e.Slug == slug {
			return e, true
		}
	}
	return Event{}, false
}

// Overview holds the headline counters of an event.
type Overview struct {
	TotalVoters      int `json:"total_voters"`
	TotalSources     int `json:"total_sources"`
	TotalSubmissions int `json:"total_submissions"`
}

// EventDetailsPatch updates the general settings of an event.
type EventDetailsPatch struct {
	Name          *string `json:"name,omitempty"`
	VotingEnabled *bool   `json:"voting_enabled,omitempty"`
}

// IsEmpty reports whether the patch carries no fields.
func (p EventDetailsPatch) IsEmpty() bool {
	return p.Name == nil && p.VotingEnabled == nil
}

// GeneralSettings is the editable form for an event's name and voting switch.
type GeneralSettings struct {
	Slug                  string
	OriginalName          string
	OriginalVotingEnabled bool
	Name                  string
	VotingEnabled         bool
}

// NewGeneralSettings creates a form for the event with no edits.
func NewGeneralSettings(e Event) GeneralSettings {
	return GeneralSettings{
		Slug:                  e.Slug,
		OriginalName:          e.Name,
		OriginalVotingEnabled: e.VotingEnabled,
		Name:                  e.Name,
		VotingEnabled:         e.VotingEnabled,
	}
}

// IsDirty reports whether the name or voting switch was edited.
func (g GeneralSettings) IsDirty() bool {
	return g.Name != g.OriginalName || g.VotingEnabled != g.OriginalVotingEnabled
}

// Patch returns only the edited fields.
func (g GeneralSettings) Patch() EventDetailsPatch {
	var p EventDetailsPatch
	if g.Name != g.OriginalName {
		name := g.Name
		p.Name = &name
	}
	if g.VotingEnabled != g.OriginalVotingEnabled {
		enabled := g.VotingEnabled
		p.VotingEnabled = &enabled
	}
	return p
}
