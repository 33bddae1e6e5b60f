package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/confadmin/internal/core/domain"
)

// IsDirty reports whether any field differs from the confirmed snapshot, or
// an API key has been supplied for a pending url or eventSlug change.
func IsDirty(s *domain.EditableSource) bool {
	if s.Current != s.Original {
		return true
	}
	return s.LocatorChanged() && s.APIKey != ""
}

// BuildSavePayload returns only the changed fields. The API key rides along
// exactly when url or eventSlug changed. Calling it twice yields equal patches.
func BuildSavePayload(s *domain.EditableSource) domain.SourcePatch {
	var p domain.SourcePatch
	cur, orig := s.Current, s.Original

	if cur.URL != orig.URL {
		p.URL = ptr(cur.URL)
	}
	if cur.EventSlug != orig.EventSlug {
		p.EventSlug = ptr(cur.EventSlug)
	}
	if s.LocatorChanged() {
		p.APIKey = ptr(s.APIKey)
	}
	if cur.Autoupdate != orig.Autoupdate {
		p.Autoupdate = ptr(cur.Autoupdate)
	}
	if cur.Interval != orig.Interval {
		p.Interval = ptr(cur.Interval)
	}
	if cur.Filter != orig.Filter {
		p.Filter = ptr(cur.Filter)
	}
	return p
}

// BuildCreatePayload returns the patch that creates a source from a draft.
func BuildCreatePayload(d domain.SourceDraft) domain.SourcePatch {
	p := domain.SourcePatch{
		Autoupdate: ptr(d.Autoupdate),
		Filter:     ptr(d.Filter.OrDefault()),
	}
	if d.Autoupdate {
		p.Interval = ptr(d.Interval)
	}
	if d.URL != "" {
		p.URL = ptr(d.URL)
	}
	if d.EventSlug != "" {
		p.EventSlug = ptr(d.EventSlug)
	}
	if d.URL != "" || d.EventSlug != "" {
		p.APIKey = ptr(d.APIKey)
	}
	return p
}

func ptr[T any](v T) *T {
	return &v
}

// applySourceField writes value into the current snapshot or the API key.
func applySourceField(s *domain.EditableSource, field domain.SourceField, value any) error {
	switch field {
	case domain.FieldAPIKey:
		return assignString(&s.APIKey, field, value)
	case domain.FieldSlug:
		return fmt.Errorf("%w: %s cannot be edited on an existing source", domain.ErrInvalidField, field)
	default:
		return applyFields(&s.Current, field, value)
	}
}

// applyDraftField writes value into the draft.
func applyDraftField(d *domain.SourceDraft, field domain.SourceField, value any) error {
	switch field {
	case domain.FieldSlug:
		return assignString(&d.Slug, field, value)
	case domain.FieldAPIKey:
		return assignString(&d.APIKey, field, value)
	}

	fields := domain.SourceFields{
		URL:        d.URL,
		EventSlug:  d.EventSlug,
		Autoupdate: d.Autoupdate,
		Interval:   d.Interval,
		Filter:     d.Filter,
	}
	if err := applyFields(&fields, field, value); err != nil {
		return err
	}
	d.URL = fields.URL
	d.EventSlug = fields.EventSlug
	d.Autoupdate = fields.Autoupdate
	d.Interval = fields.Interval
	d.Filter = fields.Filter
	return nil
}

func applyFields(f *domain.SourceFields, field domain.SourceField, value any) error {
	switch field {
	case domain.FieldURL:
		return assignString(&f.URL, field, value)
	case domain.FieldEventSlug:
		return assignString(&f.EventSlug, field, value)
	case domain.FieldAutoupdate:
		v, err := toBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrInvalidField, field, err)
		}
		f.Autoupdate = v
	case domain.FieldInterval:
		v, err := toInt(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrInvalidField, field, err)
		}
		f.Interval = v
	case domain.FieldFilter:
		var raw string
		switch v := value.(type) {
		case domain.SourceFilter:
			raw = string(v)
		case string:
			raw = v
		default:
			return fmt.Errorf("%w: %s expects a filter, got %T", domain.ErrInvalidField, field, value)
		}
		filter := domain.SourceFilter(strings.ToLower(strings.TrimSpace(raw)))
		if !filter.IsValid() {
			return fmt.Errorf("%w: filter must be %q or %q", domain.ErrInvalidField, domain.FilterAccepted, domain.FilterConfirmed)
		}
		f.Filter = filter
	default:
		return fmt.Errorf("%w: %q", domain.ErrInvalidField, field)
	}
	return nil
}

func assignString(dst *string, field domain.SourceField, value any) error {
	v, ok := value.(string)
	if !ok {
		return fmt.Errorf("%w: %s expects a string, got %T", domain.ErrInvalidField, field, value)
	}
	*dst = strings.TrimSpace(v)
	return nil
}

// toBool accepts a bool or its string form, as typed on the command line.
func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(v))
	default:
		return false, fmt.Errorf("expects a bool, got %T", value)
	}
}

// toInt accepts an int or its string form. A cleared field falls back to
// the default interval so an empty input never reaches the server as 0.
func toInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return domain.DefaultInterval, nil
		}
		return strconv.Atoi(v)
	default:
		return 0, fmt.Errorf("expects an integer, got %T", value)
	}
}
