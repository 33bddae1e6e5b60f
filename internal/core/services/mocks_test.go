package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/confadmin/internal/core/domain"
)

// MockSourceAPI implements driven.SourceAPI for testing.
type MockSourceAPI struct {
	FetchFunc    func(ctx context.Context, event string) (map[string]domain.SourceRecord, error)
	UpsertFunc   func(ctx context.Context, event, id string, patch domain.SourcePatch) (*domain.SourceRecord, error)
	DeleteFunc   func(ctx context.Context, event, id string) error
	URLsFunc     func(ctx context.Context, event string) ([]domain.SourceUpdateURL, error)
	ScheduleFunc func(ctx context.Context, event, id string) error

	mu          sync.Mutex
	UpsertCalls []domain.SourcePatch
	DeleteCalls []string
}

func (m *MockSourceAPI) FetchSources(ctx context.Context, event string) (map[string]domain.SourceRecord, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, event)
	}
	return map[string]domain.SourceRecord{}, nil
}

func (m *MockSourceAPI) UpsertSource(ctx context.Context, event, id string, patch domain.SourcePatch) (*domain.SourceRecord, error) {
	m.mu.Lock()
	m.UpsertCalls = append(m.UpsertCalls, patch)
	m.mu.Unlock()
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, event, id, patch)
	}
	return &domain.SourceRecord{ID: id}, nil
}

func (m *MockSourceAPI) DeleteSource(ctx context.Context, event, id string) error {
	m.mu.Lock()
	m.DeleteCalls = append(m.DeleteCalls, id)
	m.mu.Unlock()
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, event, id)
	}
	return nil
}

func (m *MockSourceAPI) SourceUpdateURLs(ctx context.Context, event string) ([]domain.SourceUpdateURL, error) {
	if m.URLsFunc != nil {
		return m.URLsFunc(ctx, event)
	}
	return nil, nil
}

func (m *MockSourceAPI) ScheduleUpdate(ctx context.Context, event, id string) error {
	if m.ScheduleFunc != nil {
		return m.ScheduleFunc(ctx, event, id)
	}
	return nil
}

// MockNotifier records notifications.
type MockNotifier struct {
	mu        sync.Mutex
	Successes []string
	Infos     []string
	Errors    []string
}

func (m *MockNotifier) Success(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Successes = append(m.Successes, msg)
}

func (m *MockNotifier) Info(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Infos = append(m.Infos, msg)
}

func (m *MockNotifier) Error(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors = append(m.Errors, msg)
}

// MockAuthAPI implements driven.AuthAPI for testing.
type MockAuthAPI struct {
	LoginFunc    func(ctx context.Context, username, password string) (string, error)
	ExchangeFunc func(ctx context.Context, code string) (string, error)
}

func (m *MockAuthAPI) Login(ctx context.Context, username, password string) (string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	return "token", nil
}

func (m *MockAuthAPI) ExchangeCode(ctx context.Context, code string) (string, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, code)
	}
	return "token", nil
}

// MockEventAPI implements driven.EventAPI for testing.
type MockEventAPI struct {
	ListFunc     func(ctx context.Context) (*domain.EventList, error)
	CreateFunc   func(ctx context.Context, name, slug string) (*domain.Event, error)
	UpdateFunc   func(ctx context.Context, slug string, patch domain.EventDetailsPatch) error
	OverviewFunc func(ctx context.Context, slug string) (*domain.Overview, error)

	UpdateCalls []domain.EventDetailsPatch
}

func (m *MockEventAPI) ListEvents(ctx context.Context) (*domain.EventList, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return &domain.EventList{}, nil
}

func (m *MockEventAPI) CreateEvent(ctx context.Context, name, slug string) (*domain.Event, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, name, slug)
	}
	return &domain.Event{Name: name, Slug: slug}, nil
}

func (m *MockEventAPI) UpdateEvent(ctx context.Context, slug string, patch domain.EventDetailsPatch) error {
	m.UpdateCalls = append(m.UpdateCalls, patch)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, slug, patch)
	}
	return nil
}

func (m *MockEventAPI) Overview(ctx context.Context, slug string) (*domain.Overview, error) {
	if m.OverviewFunc != nil {
		return m.OverviewFunc(ctx, slug)
	}
	return &domain.Overview{}, nil
}

// MockSubmissionAPI implements driven.SubmissionAPI for testing.
type MockSubmissionAPI struct {
	SubmissionsFunc func(ctx context.Context, event string) ([]domain.Submission, error)
	RatingsFunc     func(ctx context.Context, event string) (map[string]domain.Rating, error)
	ConflictsFunc   func(ctx context.Context, event string, kind domain.ConflictType, n int) ([]domain.Conflict, error)
	SimilarFunc     func(ctx context.Context, event, submissionID string, kind domain.ConflictType, n int) ([]domain.Similarity, error)
}

func (m *MockSubmissionAPI) Submissions(ctx context.Context, event string) ([]domain.Submission, error) {
	if m.SubmissionsFunc != nil {
		return m.SubmissionsFunc(ctx, event)
	}
	return nil, nil
}

func (m *MockSubmissionAPI) Ratings(ctx context.Context, event string) (map[string]domain.Rating, error) {
	if m.RatingsFunc != nil {
		return m.RatingsFunc(ctx, event)
	}
	return map[string]domain.Rating{}, nil
}

func (m *MockSubmissionAPI) Conflicts(ctx context.Context, event string, kind domain.ConflictType, n int) ([]domain.Conflict, error) {
	if m.ConflictsFunc != nil {
		return m.ConflictsFunc(ctx, event, kind, n)
	}
	return nil, nil
}

func (m *MockSubmissionAPI) Similar(ctx context.Context, event, submissionID string, kind domain.ConflictType, n int) ([]domain.Similarity, error) {
	if m.SimilarFunc != nil {
		return m.SimilarFunc(ctx, event, submissionID, kind, n)
	}
	return nil, nil
}

// MockUserAPI implements driven.UserAPI for testing.
type MockUserAPI struct {
	UsersFunc  func(ctx context.Context, event string) ([]domain.EventUser, error)
	SetFunc    func(ctx context.Context, event, userID string, perm domain.Permission) error
	SearchFunc func(ctx context.Context, event, query string, n int) ([]domain.UserSummary, error)

	SetCalls    []domain.Permission
	SearchCalls int
}

func (m *MockUserAPI) EventUsers(ctx context.Context, event string) ([]domain.EventUser, error) {
	if m.UsersFunc != nil {
		return m.UsersFunc(ctx, event)
	}
	return nil, nil
}

func (m *MockUserAPI) SetUserPermission(ctx context.Context, event, userID string, perm domain.Permission) error {
	m.SetCalls = append(m.SetCalls, perm)
	if m.SetFunc != nil {
		return m.SetFunc(ctx, event, userID, perm)
	}
	return nil
}

func (m *MockUserAPI) SearchUsers(ctx context.Context, event, query string, n int) ([]domain.UserSummary, error) {
	m.SearchCalls++
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, event, query, n)
	}
	return nil, nil
}

// MockAuthURLBuilder implements driven.AuthURLBuilder for testing.
type MockAuthURLBuilder struct{}

func (m *MockAuthURLBuilder) AuthCodeURL(settings domain.OIDCSettings, redirectURI, state string) string {
	return settings.ProviderURL + "?client_id=" + settings.ClientID + "&redirect_uri=" + redirectURI + "&state=" + state
}

// MockTokenInspector implements driven.TokenInspector for testing.
type MockTokenInspector struct {
	InspectFunc func(token string) (domain.TokenInfo, error)
}

func (m *MockTokenInspector) Inspect(token string) (domain.TokenInfo, error) {
	if m.InspectFunc != nil {
		return m.InspectFunc(token)
	}
	return domain.TokenInfo{Subject: token}, nil
}
