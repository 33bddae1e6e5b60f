package domain

// SourceFilter selects which submissions a source pulls.
type SourceFilter string

// Available source filters.
const (
	// FilterAccepted pulls accepted submissions. This is the default.
	FilterAccepted SourceFilter = "accepted"

	// FilterConfirmed pulls confirmed submissions only.
	FilterConfirmed SourceFilter = "confirmed"
)

// SourceFilters lists the wire values in display order.
var SourceFilters = []SourceFilter{FilterAccepted, FilterConfirmed}

// IsValid returns true if the filter is recognised.
func (f SourceFilter) IsValid() bool {
	return f == FilterAccepted || f == FilterConfirmed
}

// String returns the wire value.
func (f SourceFilter) String() string {
	return string(f)
}

// OrDefault returns FilterAccepted for an empty or unknown filter.
func (f SourceFilter) OrDefault() SourceFilter {
	if !f.IsValid() {
		return FilterAccepted
	}
	return f
}

// Polling interval bounds, in seconds.
const (
	MinInterval     = 60
	MaxInterval     = 7200
	DefaultInterval = 300
)

// IntervalInRange reports whether seconds lies within [MinInterval, MaxInterval].
func IntervalInRange(seconds int) bool {
	return seconds >= MinInterval && seconds <= MaxInterval
}

// SourceField names an editable source field.
type SourceField string

// Editable fields. FieldSlug is only meaningful on a draft.
const (
	FieldURL        SourceField = "url"
	FieldEventSlug  SourceField = "eventSlug"
	FieldAutoupdate SourceField = "autoupdate"
	FieldInterval   SourceField = "interval"
	FieldFilter     SourceField = "filter"
	FieldAPIKey     SourceField = "apiKey"
	FieldSlug       SourceField = "slug"
)

// SourceRecord is a source as the backend holds it.
// The ID is an opaque string, unique within one event.
type SourceRecord struct {
	ID         string       `json:"id,omitempty"`
	URL        string       `json:"url"`
	EventSlug  string       `json:"eventSlug"`
	Autoupdate bool         `json:"autoupdate"`
	Interval   int          `json:"interval"`
	Filter     SourceFilter `json:"filter"`
}

// Fields returns the mutable fields with server defaults applied
// for a missing interval or filter.
func (r SourceRecord) Fields() SourceFields {
	interval := r.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	return SourceFields{
		URL:        r.URL,
		EventSlug:  r.EventSlug,
		Autoupdate: r.Autoupdate,
		Interval:   interval,
		Filter:     r.Filter.OrDefault(),
	}
}

// SourceFields is one snapshot of the mutable fields of a source.
type SourceFields struct {
	URL        string
	EventSlug  string
	Autoupdate bool
	Interval   int
	Filter     SourceFilter
}

// Record returns the fields as a SourceRecord with the given id.
func (f SourceFields) Record(id string) SourceRecord {
	return SourceRecord{
		ID:         id,
		URL:        f.URL,
		EventSlug:  f.EventSlug,
		Autoupdate: f.Autoupdate,
		Interval:   f.Interval,
		Filter:     f.Filter,
	}
}

// SourcePatch is the partial payload sent to create or update a source.
// A nil field is not sent.
type SourcePatch struct {
	URL        *string       `json:"url,omitempty"`
	EventSlug  *string       `json:"eventSlug,omitempty"`
	Autoupdate *bool         `json:"autoupdate,omitempty"`
	Interval   *int          `json:"interval,omitempty"`
	Filter     *SourceFilter `json:"filter,omitempty"`
	APIKey     *string       `json:"apikey,omitempty"`
}

// IsEmpty reports whether the patch carries no fields.
func (p SourcePatch) IsEmpty() bool {
	return p.URL == nil && p.EventSlug == nil && p.Autoupdate == nil &&
		p.Interval == nil && p.Filter == nil && p.APIKey == nil
}

// HasLocator reports whether the patch sets url or eventSlug.
// The backend rejects such a patch unless APIKey is also set.
func (p SourcePatch) HasLocator() bool {
	return (p.URL != nil && *p.URL != "") || (p.EventSlug != nil && *p.EventSlug != "")
}

// SourceState is the lifecycle state of an EditableSource.
type SourceState string

// Source states. A record moves editing -> saving -> confirmed | failed,
// or editing -> deleting -> (removed) | failed.
const (
	StateEditing   SourceState = "editing"
	StateSaving    SourceState = "saving"
	StateDeleting  SourceState = "deleting"
	StateConfirmed SourceState = "confirmed"
	StateFailed    SourceState = "failed"
)

// EditableSource wraps a SourceRecord with the last confirmed snapshot,
// the in-progress edits and derived validation state.
type EditableSource struct {
	// ID is the source identifier.
	ID string

	// Original is the last server-confirmed state.
	Original SourceFields

	// Current holds the in-progress edits.
	Current SourceFields

	// APIKey authorises a url or eventSlug change. Never persisted.
	APIKey string

	// Errors is recomputed after every edit.
	Errors FieldErrors

	// State tracks in-flight network operations and their outcome.
	State SourceState

	// LastError is set when State is StateFailed.
	LastError error
}

// NewEditableSource creates an EditableSource with current equal to original.
func NewEditableSource(r SourceRecord) *EditableSource {
	fields := r.Fields()
	return &EditableSource{
		ID:       r.ID,
		Original: fields,
		Current:  fields,
		Errors:   FieldErrors{},
		State:    StateEditing,
	}
}

// IsSaving reports whether a save is in flight.
func (s *EditableSource) IsSaving() bool { return s.State == StateSaving }

// IsDeleting reports whether a delete is in flight.
func (s *EditableSource) IsDeleting() bool { return s.State == StateDeleting }

// InFlight reports whether any network operation is running for the source.
func (s *EditableSource) InFlight() bool { return s.IsSaving() || s.IsDeleting() }

// LocatorChanged reports whether url or eventSlug differs from the original.
func (s *EditableSource) LocatorChanged() bool {
	return s.Current.URL != s.Original.URL || s.Current.EventSlug != s.Original.EventSlug
}

// Clone returns a copy that shares no maps with s.
func (s *EditableSource) Clone() EditableSource {
	c := *s
	c.Errors = make(FieldErrors, len(s.Errors))
	for k, v := range s.Errors {
		c.Errors[k] = v
	}
	return c
}

// SourceDraft is a source that has not been created yet.
type SourceDraft struct {
	Slug       string
	URL        string
	EventSlug  string
	APIKey     string
	Autoupdate bool
	Interval   int
	Filter     SourceFilter
	Errors     FieldErrors
}

// NewSourceDraft returns an empty draft with default interval and filter.
func NewSourceDraft() SourceDraft {
	return SourceDraft{
		Interval: DefaultInterval,
		Filter:   FilterAccepted,
		Errors:   FieldErrors{},
	}
}

// SourceUpdateURL is the webhook a remote system calls to push submissions
// into one source.
type SourceUpdateURL struct {
	SourceID            string
	SubmissionUpdateURL string
}

// SourceOp identifies one in-flight save or delete. Generation is the
// editable-list generation at the time the operation began; a completion
// from an older generation is ignored.
type SourceOp struct {
	Event      string
	ID         string
	Generation uint64
	Patch      SourcePatch
}
