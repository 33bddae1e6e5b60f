package domain

// SourceSpec is the desired state of one source as declared in a manifest.
// Nil fields keep the server value of an existing source and take the
// draft default for a new one.
type SourceSpec struct {
	ID         string
	URL        *string
	EventSlug  *string
	Autoupdate *bool
	Interval   *int
	Filter     *SourceFilter
	APIKey     string
}

// SourceManifest declares the sources of one event.
type SourceManifest struct {
	// Event is the target event slug. Empty means the active event.
	Event   string
	Sources []SourceSpec
}

// ApplyAction is what applying a spec did.
type ApplyAction string

// Apply outcomes.
const (
	ApplyCreated   ApplyAction = "created"
	ApplyUpdated   ApplyAction = "updated"
	ApplyUnchanged ApplyAction = "unchanged"
	ApplyFailed    ApplyAction = "failed"
)

// ApplyResult reports the outcome for one spec.
type ApplyResult struct {
	ID     string
	Action ApplyAction
	Err    error
}

// ApplyReport collects the results of applying a manifest.
type ApplyReport struct {
	Event   string
	Results []ApplyResult
}

// Failed returns the number of specs that could not be applied.
func (r ApplyReport) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Action == ApplyFailed {
			n++
		}
	}
	return n
}
