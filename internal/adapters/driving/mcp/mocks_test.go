package mcp

import (
	"context"

	"github.com/custodia-labs/confadmin/internal/core/domain"
	"github.com/custodia-labs/confadmin/internal/core/ports/driving"
)

// mockEventService is a mock implementation of driving.EventService.
type mockEventService struct {
	list     *domain.EventList
	active   string
	overview *domain.Overview
	err      error

	resolved []string
}

func (m *mockEventService) List(_ context.Context) (*domain.EventList, error) {
	if m.list == nil {
		return &domain.EventList{}, m.err
	}
	return m.list, m.err
}

func (m *mockEventService) Get(_ context.Context, slug string) (*domain.Event, error) {
	return &domain.Event{Slug: slug}, m.err
}

func (m *mockEventService) Create(_ context.Context, name, slug string) (*domain.Event, error) {
	return &domain.Event{Name: name, Slug: slug}, m.err
}

func (m *mockEventService) Use(_ context.Context, _ string) error {
	return m.err
}

func (m *mockEventService) Active(_ context.Context) (string, error) {
	if m.active == "" {
		return "", domain.ErrNoActiveEvent
	}
	return m.active, nil
}

func (m *mockEventService) Resolve(_ context.Context, slug string) (string, error) {
	m.resolved = append(m.resolved, slug)
	if slug != "" {
		return slug, nil
	}
	if m.active == "" {
		return "", domain.ErrNoActiveEvent
	}
	return m.active, nil
}

func (m *mockEventService) Overview(_ context.Context, _ string) (*domain.Overview, error) {
	return m.overview, m.err
}

func (m *mockEventService) UpdateDetails(_ context.Context, _ domain.GeneralSettings) error {
	return m.err
}

// mockSourceService implements the read side of driving.SourceService.
// Calling any other method panics on the nil embedded interface.
type mockSourceService struct {
	driving.SourceService

	sources []domain.SourceRecord
	err     error

	refreshed []string
}

func (m *mockSourceService) Refresh(_ context.Context, event string) error {
	m.refreshed = append(m.refreshed, event)
	return m.err
}

func (m *mockSourceService) List() []domain.EditableSource {
	out := make([]domain.EditableSource, len(m.sources))
	for i, r := range m.sources {
		out[i] = *domain.NewEditableSource(r)
	}
	return out
}

// mockSubmissionService is a mock implementation of driving.SubmissionService.
type mockSubmissionService struct {
	submissions []domain.Submission
	votes       []domain.VoteRow
	conflicts   []domain.ConflictRow
	err         error

	conflictKind  domain.ConflictType
	conflictCount int
}

func (m *mockSubmissionService) List(_ context.Context, _ string) ([]domain.Submission, error) {
	return m.submissions, m.err
}

func (m *mockSubmissionService) Votes(_ context.Context, _ string) ([]domain.VoteRow, error) {
	// Callers sort in place.
	rows := make([]domain.VoteRow, len(m.votes))
	copy(rows, m.votes)
	return rows, m.err
}

func (m *mockSubmissionService) Conflicts(
	_ context.Context,
	_ string,
	kind domain.ConflictType,
	n int,
) ([]domain.ConflictRow, error) {
	m.conflictKind = kind
	m.conflictCount = n
	return m.conflicts, m.err
}

func (m *mockSubmissionService) Similar(
	_ context.Context,
	_, _ string,
	_ domain.ConflictType,
	_ int,
) ([]domain.SimilarRow, error) {
	return nil, m.err
}

var (
	_ driving.EventService      = (*mockEventService)(nil)
	_ driving.SourceService     = (*mockSourceService)(nil)
	_ driving.SubmissionService = (*mockSubmissionService)(nil)
)
