package events

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/confadmin/internal/core/domain"
)

// mockEventService implements driving.EventService for tests.
type mockEventService struct {
	list    *domain.EventList
	listErr error
	active  string
	useErr  error
	used    []string
}

func (m *mockEventService) List(_ context.Context) (*domain.EventList, error) {
	return m.list, m.listErr
}

func (m *mockEventService) Get(_ context.Context, slug string) (*domain.Event, error) {
	if e, ok := m.list.Find(slug); ok {
		return &e, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockEventService) Create(_ context.Context, name, slug string) (*domain.Event, error) {
	return &domain.Event{Name: name, Slug: slug}, nil
}

func (m *mockEventService) Use(_ context.Context, slug string) error {
	m.used = append(m.used, slug)
	return m.useErr
}

func (m *mockEventService) Active(_ context.Context) (string, error) {
	if m.active == "" {
		return "", domain.ErrNoActiveEvent
	}
	return m.active, nil
}

func (m *mockEventService) Resolve(ctx context.Context, slug string) (string, error) {
	if slug != "" {
		return slug, nil
	}
	return m.Active(ctx)
}

func (m *mockEventService) Overview(_ context.Context, _ string) (*domain.Overview, error) {
	return &domain.Overview{}, nil
}

func (m *mockEventService) UpdateDetails(_ context.Context, _ domain.GeneralSettings) error {
	return nil
}

func testList() *domain.EventList {
	return &domain.EventList{
		User: domain.Account{Name: "Ada"},
		Events: []domain.Event{
			{Slug: "conf23", Name: "Conf 2023", Permissions: domain.EventPermissions{Role: domain.RoleViewer}},
			{Slug: "conf24", Name: "Conf 2024", Permissions: domain.EventPermissions{Role: domain.RoleAdmin}},
		},
	}
}

func newLoadedView(t *testing.T, svc *mockEventService) *View {
	t.Helper()
	v := NewView(nil, svc)
	v.SetDimensions(100, 30)
	cmd := v.Init()
	require.NotNil(t, cmd)
	v.Update(cmd())
	return v
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil)

	require.NotNil(t, v)
	assert.Empty(t, v.Events())
	assert.Empty(t, v.Active())
}

func TestView_InitSelectsActive(t *testing.T) {
	v := newLoadedView(t, &mockEventService{list: testList(), active: "conf24"})

	require.Len(t, v.Events(), 2)
	assert.Equal(t, "conf24", v.Active())
	assert.Equal(t, 1, v.rows.Selected())

	view := v.View()
	assert.Contains(t, view, "signed in as Ada")
	assert.Contains(t, view, "*")
	assert.Contains(t, view, "admin")
}

func TestView_InitWithoutActiveEvent(t *testing.T) {
	v := newLoadedView(t, &mockEventService{list: testList()})

	assert.NoError(t, v.Err())
	assert.Empty(t, v.Active())
	assert.Equal(t, 0, v.rows.Selected())
}

func TestView_InitError(t *testing.T) {
	v := newLoadedView(t, &mockEventService{listErr: errors.New("unauthorized")})

	require.Error(t, v.Err())
	assert.Contains(t, v.View(), "unauthorized")
}

func TestLoad_NilService(t *testing.T) {
	msg := Load(context.Background(), nil)()

	loaded, ok := msg.(messages.EventsLoaded)
	require.True(t, ok)
	assert.Error(t, loaded.Err)
}

func TestView_SelectEvent(t *testing.T) {
	svc := &mockEventService{list: testList()}
	v := newLoadedView(t, svc)

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd()
	assert.Equal(t, messages.EventSelected{Slug: "conf24"}, msg)
	assert.Equal(t, []string{"conf24"}, svc.used)

	v.Update(msg)
	assert.Equal(t, "conf24", v.Active())
}

func TestView_SelectEventError(t *testing.T) {
	svc := &mockEventService{list: testList(), useErr: errors.New("write failed")}
	v := newLoadedView(t, svc)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v.Update(cmd())

	require.Error(t, v.Err())
	assert.Empty(t, v.Active())
}

func TestView_Back(t *testing.T) {
	v := newLoadedView(t, &mockEventService{list: testList()})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}
