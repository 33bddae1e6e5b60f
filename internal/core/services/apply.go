package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/confadmin/internal/core/domain"
	"github.com/custodia-labs/confadmin/internal/logger"
)

// Apply reconciles the event's sources with a manifest. Each spec is edited
// onto an existing source and saved, or drafted and created. Sources absent
// from the manifest are left alone. A failing spec does not stop the others.
func (s *SourceService) Apply(ctx context.Context, event string, manifest domain.SourceManifest) (domain.ApplyReport, error) {
	report := domain.ApplyReport{Event: event}
	if err := checkManifest(manifest); err != nil {
		return report, err
	}
	if err := s.Refresh(ctx, event); err != nil {
		return report, err
	}

	for _, spec := range manifest.Sources {
		action, err := s.applySpec(ctx, spec)
		if err != nil {
			action = domain.ApplyFailed
			logger.Debug("Apply %s failed: %v", spec.ID, err)
		}
		report.Results = append(report.Results, domain.ApplyResult{ID: spec.ID, Action: action, Err: err})
	}
	return report, nil
}

func checkManifest(m domain.SourceManifest) error {
	seen := make(map[string]struct{}, len(m.Sources))
	for i, spec := range m.Sources {
		id := strings.TrimSpace(spec.ID)
		if id == "" {
			return fmt.Errorf("%w: source #%d has no id", domain.ErrInvalidInput, i+1)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: source %q is declared twice", domain.ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func (s *SourceService) applySpec(ctx context.Context, spec domain.SourceSpec) (domain.ApplyAction, error) {
	if _, err := s.Get(spec.ID); errors.Is(err, domain.ErrSourceNotFound) {
		return s.createSpec(ctx, spec)
	}

	for _, e := range specEdits(spec) {
		if err := s.EditField(spec.ID, e.field, e.value); err != nil {
			return "", err
		}
	}
	if spec.APIKey != "" {
		if err := s.EditField(spec.ID, domain.FieldAPIKey, spec.APIKey); err != nil {
			return "", err
		}
	}

	dirty, err := s.IsDirty(spec.ID)
	if err != nil {
		return "", err
	}
	if !dirty {
		_ = s.Discard(spec.ID)
		return domain.ApplyUnchanged, nil
	}
	if err := s.Save(ctx, spec.ID); err != nil {
		_ = s.Discard(spec.ID)
		return "", err
	}
	return domain.ApplyUpdated, nil
}

func (s *SourceService) createSpec(ctx context.Context, spec domain.SourceSpec) (domain.ApplyAction, error) {
	s.ResetDraft()
	defer s.ResetDraft()

	if err := s.EditDraft(domain.FieldSlug, spec.ID); err != nil {
		return "", err
	}
	for _, e := range specEdits(spec) {
		if err := s.EditDraft(e.field, e.value); err != nil {
			return "", err
		}
	}
	if err := s.EditDraft(domain.FieldAPIKey, spec.APIKey); err != nil {
		return "", err
	}
	if _, err := s.CreateNew(ctx); err != nil {
		return "", err
	}
	return domain.ApplyCreated, nil
}

type fieldEdit struct {
	field domain.SourceField
	value any
}

// specEdits lists the fields a spec sets. Autoupdate comes before interval
// so the interval rule sees the final switch.
func specEdits(spec domain.SourceSpec) []fieldEdit {
	var edits []fieldEdit
	if spec.URL != nil {
		edits = append(edits, fieldEdit{domain.FieldURL, *spec.URL})
	}
	if spec.EventSlug != nil {
		edits = append(edits, fieldEdit{domain.FieldEventSlug, *spec.EventSlug})
	}
	if spec.Autoupdate != nil {
		edits = append(edits, fieldEdit{domain.FieldAutoupdate, *spec.Autoupdate})
	}
	if spec.Interval != nil {
		edits = append(edits, fieldEdit{domain.FieldInterval, *spec.Interval})
	}
	if spec.Filter != nil {
		edits = append(edits, fieldEdit{domain.FieldFilter, *spec.Filter})
	}
	return edits
}
