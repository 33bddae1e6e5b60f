package addsource

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/confadmin/internal/core/domain"
	"github.com/custodia-labs/confadmin/internal/core/services"
)

// fakeSourceAPI implements driven.SourceAPI and records creates.
type fakeSourceAPI struct {
	existing map[string]domain.SourceRecord
	created  map[string]domain.SourcePatch
	err      error
}

func (f *fakeSourceAPI) FetchSources(_ context.Context, _ string) (map[string]domain.SourceRecord, error) {
	return f.existing, nil
}

func (f *fakeSourceAPI) UpsertSource(
	_ context.Context, _, id string, patch domain.SourcePatch,
) (*domain.SourceRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.created == nil {
		f.created = make(map[string]domain.SourcePatch)
	}
	f.created[id] = patch
	return nil, nil
}

func (f *fakeSourceAPI) DeleteSource(_ context.Context, _, _ string) error { return nil }

func (f *fakeSourceAPI) SourceUpdateURLs(_ context.Context, _ string) ([]domain.SourceUpdateURL, error) {
	return nil, nil
}

func (f *fakeSourceAPI) ScheduleUpdate(_ context.Context, _, _ string) error { return nil }

func newTestView(t *testing.T, api *fakeSourceAPI) (*View, *services.SourceService) {
	t.Helper()
	svc := services.NewSourceService(api, nil)
	require.NoError(t, svc.Refresh(context.Background(), "conf"))
	v := NewView(nil, svc)
	v.SetDimensions(120, 40)
	v.Init()
	return v, svc
}

func typeText(v *View, s string) {
	for _, r := range s {
		v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func next(v *View, n int) {
	for i := 0; i < n; i++ {
		v.Update(tea.KeyMsg{Type: tea.KeyTab})
	}
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil)

	require.NotNil(t, v)
	assert.Equal(t, domain.FieldSlug, v.Focused())
	assert.False(t, v.Creating())
}

func TestView_TypingEditsDraft(t *testing.T) {
	v, svc := newTestView(t, &fakeSourceAPI{})

	typeText(v, "pretalx")
	assert.Equal(t, "pretalx", svc.Draft().Slug)

	next(v, 1)
	assert.Equal(t, domain.FieldURL, v.Focused())
	typeText(v, "ftp://x")

	assert.Equal(t, "ftp://x", svc.Draft().URL)
	assert.Contains(t, v.View(), "Please enter a valid HTTP/HTTPS URL.")
}

func TestView_InvalidSlugShowsError(t *testing.T) {
	v, _ := newTestView(t, &fakeSourceAPI{})

	typeText(v, "bad slug!")

	assert.Contains(t, v.View(), "Slug can only contain a-z, A-Z, 0-9, _, -.")
}

func TestView_ToggleAutoupdateAndFilter(t *testing.T) {
	v, svc := newTestView(t, &fakeSourceAPI{})

	next(v, 4)
	require.Equal(t, domain.FieldAutoupdate, v.Focused())
	v.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	assert.True(t, svc.Draft().Autoupdate)
	assert.Contains(t, v.View(), "[x]")

	next(v, 2)
	require.Equal(t, domain.FieldFilter, v.Focused())
	v.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	assert.Equal(t, domain.FilterConfirmed, svc.Draft().Filter)
}

func TestView_CreateSuccess(t *testing.T) {
	api := &fakeSourceAPI{}
	v, svc := newTestView(t, api)

	typeText(v, "manual")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.True(t, v.Creating())

	msg := cmd()
	created, ok := msg.(messages.SourceCreated)
	require.True(t, ok)
	require.NoError(t, created.Err)
	assert.Equal(t, "manual", created.Source.ID)

	_, cmd = v.Update(msg)
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewSources}, cmd())
	assert.False(t, v.Creating())

	assert.Contains(t, api.created, "manual")
	assert.Empty(t, svc.Draft().Slug, "draft is reset after create")
	assert.Len(t, svc.List(), 1)
}

func TestView_CreateValidationErrorStaysOnForm(t *testing.T) {
	api := &fakeSourceAPI{}
	v, _ := newTestView(t, api)

	next(v, 1)
	typeText(v, "https://pretalx.example")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	msg := cmd()

	_, cmd = v.Update(msg)

	assert.Nil(t, cmd)
	assert.NoError(t, v.Err())
	assert.Empty(t, api.created)
	view := v.View()
	assert.Contains(t, view, "URL Slug is required.")
	assert.Contains(t, view, "API Key is required if URL or Event Slug is provided.")
}

func TestView_CreateBackendError(t *testing.T) {
	api := &fakeSourceAPI{err: errors.New("conflict")}
	v, _ := newTestView(t, api)

	typeText(v, "manual")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	v.Update(cmd())

	require.Error(t, v.Err())
	assert.Contains(t, v.View(), "conflict")
}

func TestView_EscKeepsDraft(t *testing.T) {
	v, svc := newTestView(t, &fakeSourceAPI{})
	typeText(v, "keep")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, messages.ViewChanged{View: messages.ViewSources}, cmd())
	assert.Equal(t, "keep", svc.Draft().Slug)

	v.Reset()
	assert.Empty(t, svc.Draft().Slug)
}
