package services

import (
	"fmt"
	"net/url"
	"regexp"

	"github.com/custodia-labs/confadmin/internal/core/domain"
)

// Validation messages shown next to the offending field.
const (
	msgInvalidURL           = "Please enter a valid HTTP/HTTPS URL."
	msgAPIKeyOnChange       = "API Key is required when URL or Event Slug is changed."
	msgLocatorForAutoupdate = "URL or Event Slug is required for autoupdates."
	msgSlugRequired         = "URL Slug is required."
	msgSlugCharset          = "Slug can only contain a-z, A-Z, 0-9, _, -."
	msgSlugTaken            = "This slug is already used by an existing source."
	msgAPIKeyForLocator     = "API Key is required if URL or Event Slug is provided."
	msgAPIKeyForAutoupdate  = "API Key is required for autoupdates with URL/Event Slug."
)

var (
	msgIntervalRange      = fmt.Sprintf("Interval must be between %d and %d seconds.", domain.MinInterval, domain.MaxInterval)
	msgIntervalRangeShort = fmt.Sprintf("Interval must be %d-%ds.", domain.MinInterval, domain.MaxInterval)
)

var slugPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// rule is one predicate of a validation table. It fires when violated
// returns true and no earlier rule has already claimed its field.
type rule[T any] struct {
	field    domain.SourceField
	message  string
	violated func(T) bool
}

// evaluate runs rules in order. The first message per field wins.
func evaluate[T any](rules []rule[T], subject T) domain.FieldErrors {
	errs := domain.FieldErrors{}
	for _, r := range rules {
		key := string(r.field)
		if errs.Has(key) {
			continue
		}
		if r.violated(subject) {
			errs[key] = r.message
		}
	}
	return errs
}

// isHTTPURL reports whether s is an absolute http or https URL.
func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

var editRules = []rule[*domain.EditableSource]{
	{
		field:   domain.FieldURL,
		message: msgInvalidURL,
		violated: func(s *domain.EditableSource) bool {
			return s.Current.URL != "" && !isHTTPURL(s.Current.URL)
		},
	},
	{
		field:   domain.FieldAPIKey,
		message: msgAPIKeyOnChange,
		violated: func(s *domain.EditableSource) bool {
			return s.LocatorChanged() && s.APIKey == ""
		},
	},
	{
		field:   domain.FieldURL,
		message: msgLocatorForAutoupdate,
		violated: func(s *domain.EditableSource) bool {
			return s.Current.Autoupdate && s.Current.URL == "" && s.Current.EventSlug == ""
		},
	},
	{
		field:   domain.FieldInterval,
		message: msgIntervalRange,
		violated: func(s *domain.EditableSource) bool {
			return s.Current.Autoupdate && !domain.IntervalInRange(s.Current.Interval)
		},
	},
}

// draftSubject pairs a draft with the ids it must not collide with.
type draftSubject struct {
	draft    *domain.SourceDraft
	existing map[string]struct{}
}

func (d draftSubject) hasLocator() bool {
	return d.draft.URL != "" || d.draft.EventSlug != ""
}

var draftRules = []rule[draftSubject]{
	{
		field:    domain.FieldSlug,
		message:  msgSlugRequired,
		violated: func(d draftSubject) bool { return d.draft.Slug == "" },
	},
	{
		field:    domain.FieldSlug,
		message:  msgSlugCharset,
		violated: func(d draftSubject) bool { return !slugPattern.MatchString(d.draft.Slug) },
	},
	{
		field:   domain.FieldSlug,
		message: msgSlugTaken,
		violated: func(d draftSubject) bool {
			_, taken := d.existing[d.draft.Slug]
			return taken
		},
	},
	{
		field:   domain.FieldURL,
		message: msgInvalidURL,
		violated: func(d draftSubject) bool {
			return d.draft.URL != "" && !isHTTPURL(d.draft.URL)
		},
	},
	{
		field:   domain.FieldURL,
		message: msgLocatorForAutoupdate,
		violated: func(d draftSubject) bool {
			return d.draft.Autoupdate && !d.hasLocator()
		},
	},
	// The autoupdate wording takes precedence over the generic one below.
	{
		field:   domain.FieldAPIKey,
		message: msgAPIKeyForAutoupdate,
		violated: func(d draftSubject) bool {
			return d.draft.Autoupdate && d.hasLocator() && d.draft.APIKey == ""
		},
	},
	{
		field:   domain.FieldAPIKey,
		message: msgAPIKeyForLocator,
		violated: func(d draftSubject) bool {
			return d.hasLocator() && d.draft.APIKey == ""
		},
	},
	{
		field:   domain.FieldInterval,
		message: msgIntervalRangeShort,
		violated: func(d draftSubject) bool {
			return d.draft.Autoupdate && !domain.IntervalInRange(d.draft.Interval)
		},
	},
}

// ValidateSource returns the field errors of an edited source.
func ValidateSource(s *domain.EditableSource) domain.FieldErrors {
	return evaluate(editRules, s)
}

// ValidateDraft returns the field errors of a new-source draft.
func ValidateDraft(d *domain.SourceDraft, existing map[string]struct{}) domain.FieldErrors {
	return evaluate(draftRules, draftSubject{draft: d, existing: existing})
}
