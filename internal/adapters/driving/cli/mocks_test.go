package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/confadmin/internal/core/domain"
	"github.com/custodia-labs/confadmin/internal/core/services"
)

// MockEventService implements driving.EventService for testing.
type MockEventService struct {
	ListFunc          func(ctx context.Context) (*domain.EventList, error)
	GetFunc           func(ctx context.Context, slug string) (*domain.Event, error)
	CreateFunc        func(ctx context.Context, name, slug string) (*domain.Event, error)
	UseFunc           func(ctx context.Context, slug string) error
	ActiveFunc        func(ctx context.Context) (string, error)
	OverviewFunc      func(ctx context.Context, slug string) (*domain.Overview, error)
	UpdateDetailsFunc func(ctx context.Context, form domain.GeneralSettings) error

	// ActiveSlug is returned by Active and Resolve unless overridden.
	ActiveSlug string
}

func (m *MockEventService) List(ctx context.Context) (*domain.EventList, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return &domain.EventList{}, nil
}

func (m *MockEventService) Get(ctx context.Context, slug string) (*domain.Event, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, slug)
	}
	return &domain.Event{Slug: slug}, nil
}

func (m *MockEventService) Create(ctx context.Context, name, slug string) (*domain.Event, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, name, slug)
	}
	return &domain.Event{Name: name, Slug: slug}, nil
}

func (m *MockEventService) Use(ctx context.Context, slug string) error {
	if m.UseFunc != nil {
		return m.UseFunc(ctx, slug)
	}
	return nil
}

func (m *MockEventService) Active(ctx context.Context) (string, error) {
	if m.ActiveFunc != nil {
		return m.ActiveFunc(ctx)
	}
	return m.ActiveSlug, nil
}

func (m *MockEventService) Resolve(ctx context.Context, slug string) (string, error) {
	if slug != "" {
		return slug, nil
	}
	active, err := m.Active(ctx)
	if err != nil {
		return "", err
	}
	if active == "" {
		return "", domain.ErrNoActiveEvent
	}
	return active, nil
}

func (m *MockEventService) Overview(ctx context.Context, slug string) (*domain.Overview, error) {
	if m.OverviewFunc != nil {
		return m.OverviewFunc(ctx, slug)
	}
	return &domain.Overview{}, nil
}

func (m *MockEventService) UpdateDetails(ctx context.Context, form domain.GeneralSettings) error {
	if m.UpdateDetailsFunc != nil {
		return m.UpdateDetailsFunc(ctx, form)
	}
	return nil
}

// MockSubmissionService implements driving.SubmissionService for testing.
type MockSubmissionService struct {
	ListFunc      func(ctx context.Context, event string) ([]domain.Submission, error)
	VotesFunc     func(ctx context.Context, event string) ([]domain.VoteRow, error)
	ConflictsFunc func(ctx context.Context, event string, kind domain.ConflictType, n int) ([]domain.ConflictRow, error)
	SimilarFunc   func(ctx context.Context, event, id string, kind domain.ConflictType, n int) ([]domain.SimilarRow, error)
}

func (m *MockSubmissionService) List(ctx context.Context, event string) ([]domain.Submission, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, event)
	}
	return nil, nil
}

func (m *MockSubmissionService) Votes(ctx context.Context, event string) ([]domain.VoteRow, error) {
	if m.VotesFunc != nil {
		return m.VotesFunc(ctx, event)
	}
	return nil, nil
}

func (m *MockSubmissionService) Conflicts(
	ctx context.Context, event string, kind domain.ConflictType, n int,
) ([]domain.ConflictRow, error) {
	if m.ConflictsFunc != nil {
		return m.ConflictsFunc(ctx, event, kind, n)
	}
	return nil, nil
}

func (m *MockSubmissionService) Similar(
	ctx context.Context, event, id string, kind domain.ConflictType, n int,
) ([]domain.SimilarRow, error) {
	if m.SimilarFunc != nil {
		return m.SimilarFunc(ctx, event, id, kind, n)
	}
	return nil, nil
}

// MockUserService implements driving.UserService for testing.
type MockUserService struct {
	ListFunc          func(ctx context.Context, event string) ([]domain.EventUser, error)
	SearchFunc        func(ctx context.Context, event, query string) ([]domain.UserSummary, error)
	SetPermissionFunc func(ctx context.Context, event, userID string, perm domain.Permission) error
	RemoveFunc        func(ctx context.Context, event, userID string) error
}

func (m *MockUserService) List(ctx context.Context, event string) ([]domain.EventUser, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, event)
	}
	return nil, nil
}

func (m *MockUserService) Search(ctx context.Context, event, query string) ([]domain.UserSummary, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, event, query)
	}
	return nil, nil
}

func (m *MockUserService) SetPermission(ctx context.Context, event, userID string, perm domain.Permission) error {
	if m.SetPermissionFunc != nil {
		return m.SetPermissionFunc(ctx, event, userID, perm)
	}
	return nil
}

func (m *MockUserService) Remove(ctx context.Context, event, userID string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, event, userID)
	}
	return nil
}

// MockSettingsService implements driving.SettingsService for testing.
type MockSettingsService struct {
	GetFunc        func() (*domain.AppSettings, error)
	SetAPIURLFunc  func(url string) error
	SetOIDCFunc    func(providerURL, clientID string) error
	OIDCConfigured bool
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	if m.GetFunc != nil {
		return m.GetFunc()
	}
	s := m.GetDefaults()
	return &s, nil
}

func (m *MockSettingsService) SetAPIURL(url string) error {
	if m.SetAPIURLFunc != nil {
		return m.SetAPIURLFunc(url)
	}
	return nil
}

func (m *MockSettingsService) SetOIDC(providerURL, clientID string) error {
	if m.SetOIDCFunc != nil {
		return m.SetOIDCFunc(providerURL, clientID)
	}
	return nil
}

func (m *MockSettingsService) IsOIDCConfigured() bool {
	return m.OIDCConfigured
}

func (m *MockSettingsService) GetDefaults() domain.AppSettings {
	return domain.AppSettings{API: domain.DefaultAPISettings(), OIDC: domain.DefaultOIDCSettings()}
}

// MockAuthService implements driving.AuthService for testing.
type MockAuthService struct {
	LoginFunc        func(ctx context.Context, username, password string) error
	OIDCAuthURLFunc  func(redirectURI string) (string, string, error)
	CompleteOIDCFunc func(ctx context.Context, code string) error
	LogoutFunc       func(ctx context.Context) error
	SessionFunc      func(ctx context.Context) (*domain.Session, error)
	TokenInfoFunc    func(ctx context.Context) (domain.TokenInfo, error)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) error {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	return nil
}

func (m *MockAuthService) OIDCAuthURL(redirectURI string) (string, string, error) {
	if m.OIDCAuthURLFunc != nil {
		return m.OIDCAuthURLFunc(redirectURI)
	}
	return "", "", domain.ErrOIDCNotConfigured
}

func (m *MockAuthService) CompleteOIDC(ctx context.Context, code string) error {
	if m.CompleteOIDCFunc != nil {
		return m.CompleteOIDCFunc(ctx, code)
	}
	return nil
}

func (m *MockAuthService) Logout(ctx context.Context) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx)
	}
	return nil
}

func (m *MockAuthService) Session(ctx context.Context) (*domain.Session, error) {
	if m.SessionFunc != nil {
		return m.SessionFunc(ctx)
	}
	return &domain.Session{}, nil
}

func (m *MockAuthService) TokenInfo(ctx context.Context) (domain.TokenInfo, error) {
	if m.TokenInfoFunc != nil {
		return m.TokenInfoFunc(ctx)
	}
	return domain.TokenInfo{}, nil
}

// fakeSourceAPI implements driven.SourceAPI over a map so commands run
// against the real source service.
type fakeSourceAPI struct {
	mu        sync.Mutex
	records   map[string]domain.SourceRecord
	patches   map[string]domain.SourcePatch
	deleted   []string
	scheduled []string
	urls      []domain.SourceUpdateURL
	fetchErr  error
}

func newFakeSourceAPI(records ...domain.SourceRecord) *fakeSourceAPI {
	api := &fakeSourceAPI{
		records: make(map[string]domain.SourceRecord),
		patches: make(map[string]domain.SourcePatch),
	}
	for _, r := range records {
		api.records[r.ID] = r
	}
	return api
}

func (f *fakeSourceAPI) FetchSources(_ context.Context, _ string) (map[string]domain.SourceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make(map[string]domain.SourceRecord, len(f.records))
	for k, v := range f.records {
		out[k] = v
	}
	return out, nil
}

func (f *fakeSourceAPI) UpsertSource(
	_ context.Context, _, id string, patch domain.SourcePatch,
) (*domain.SourceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches[id] = patch
	rec := f.records[id]
	rec.ID = id
	if patch.URL != nil {
		rec.URL = *patch.URL
	}
	if patch.EventSlug != nil {
		rec.EventSlug = *patch.EventSlug
	}
	if patch.Autoupdate != nil {
		rec.Autoupdate = *patch.Autoupdate
	}
	if patch.Interval != nil {
		rec.Interval = *patch.Interval
	}
	if patch.Filter != nil {
		rec.Filter = *patch.Filter
	}
	f.records[id] = rec
	return &rec, nil
}

func (f *fakeSourceAPI) DeleteSource(_ context.Context, _, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	delete(f.records, id)
	return nil
}

func (f *fakeSourceAPI) SourceUpdateURLs(_ context.Context, _ string) ([]domain.SourceUpdateURL, error) {
	return f.urls, nil
}

func (f *fakeSourceAPI) ScheduleUpdate(_ context.Context, _, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled = append(f.scheduled, id)
	return nil
}

// setupTestServices installs s for the duration of the test and restores
// the previous services afterwards. A nil Event gets a mock with "conf"
// active.
func setupTestServices(t *testing.T, s Services) {
	t.Helper()

	prev := Services{
		Auth:         authService,
		Event:        eventService,
		Source:       sourceService,
		Submission:   submissionService,
		User:         userService,
		Settings:     settingsService,
		Notifier:     notifyRelay,
		LoadManifest: loadManifest,
		Theme:        tuiTheme,
	}
	t.Cleanup(func() { SetServices(prev) })

	if s.Event == nil {
		s.Event = &MockEventService{ActiveSlug: "conf"}
	}
	SetServices(s)
}

// withSourceAPI installs a real source service backed by api.
func withSourceAPI(t *testing.T, api *fakeSourceAPI, s Services) {
	t.Helper()
	s.Source = services.NewSourceService(api, nil)
	setupTestServices(t, s)
}

// resetFlags puts every flag of cmd and its children back to its default.
// Flag values outlive Execute because the command tree is global.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns what it wrote to
// stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}
