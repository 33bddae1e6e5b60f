package cli

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/confadmin/internal/core/domain"
)

func testEventList() *domain.EventList {
	return &domain.EventList{
		CanCreate: true,
		Events: []domain.Event{
			{
				Slug:          "conf24",
				Name:          "Conference 2024",
				VotingEnabled: true,
				Permissions:   domain.EventPermissions{View: true, Configure: true, Update: true, Role: domain.RoleAdmin},
			},
			{
				Slug:        "meetup",
				Name:        "Meetup",
				Permissions: domain.EventPermissions{View: true, Role: domain.RoleViewer},
			},
		},
	}
}

func TestEventList(t *testing.T) {
	events := &MockEventService{
		ListFunc:   func(_ context.Context) (*domain.EventList, error) { return testEventList(), nil },
		ActiveSlug: "conf24",
	}
	setupTestServices(t, Services{Event: events})

	out, _, err := execute(t, "", "event", "list", "-o", "json")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "*", rows[0]["active"])
	assert.Equal(t, "conf24", rows[0]["slug"])
	assert.Equal(t, "admin", rows[0]["role"])
	assert.Equal(t, "", rows[1]["active"])
	assert.NotContains(t, rows[0], "voters")
}

func TestEventList_Table(t *testing.T) {
	events := &MockEventService{
		ListFunc: func(_ context.Context) (*domain.EventList, error) { return testEventList(), nil },
	}
	setupTestServices(t, Services{Event: events})

	out, _, err := execute(t, "", "events", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "Conference 2024")
	assert.Contains(t, out, "meetup")
}

func TestEventList_Empty(t *testing.T) {
	setupTestServices(t, Services{})

	out, _, err := execute(t, "", "event", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No events found.")
}

func TestEventList_Counts(t *testing.T) {
	var mu sync.Mutex
	var requested []string
	events := &MockEventService{
		ListFunc: func(_ context.Context) (*domain.EventList, error) { return testEventList(), nil },
		OverviewFunc: func(_ context.Context, slug string) (*domain.Overview, error) {
			mu.Lock()
			requested = append(requested, slug)
			mu.Unlock()
			if slug == "conf24" {
				return &domain.Overview{TotalVoters: 12, TotalSources: 2, TotalSubmissions: 40}, nil
			}
			return &domain.Overview{}, nil
		},
	}
	setupTestServices(t, Services{Event: events})

	out, _, err := execute(t, "", "event", "list", "--counts", "-o", "json")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.InDelta(t, 12, rows[0]["voters"], 0)
	assert.InDelta(t, 40, rows[0]["submissions"], 0)
	assert.ElementsMatch(t, []string{"conf24", "meetup"}, requested)
}

func TestEventList_CountsError(t *testing.T) {
	events := &MockEventService{
		ListFunc: func(_ context.Context) (*domain.EventList, error) { return testEventList(), nil },
		OverviewFunc: func(_ context.Context, slug string) (*domain.Overview, error) {
			return nil, errors.New("forbidden")
		},
	}
	setupTestServices(t, Services{Event: events})

	_, _, err := execute(t, "", "event", "list", "--counts")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "forbidden")
}

func TestEventList_Error(t *testing.T) {
	events := &MockEventService{
		ListFunc: func(_ context.Context) (*domain.EventList, error) { return nil, domain.ErrUnauthorized },
	}
	setupTestServices(t, Services{Event: events})

	_, _, err := execute(t, "", "event", "list")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestEventCreate(t *testing.T) {
	var gotName, gotSlug string
	events := &MockEventService{
		CreateFunc: func(_ context.Context, name, slug string) (*domain.Event, error) {
			gotName, gotSlug = name, slug
			return &domain.Event{Name: name, Slug: slug}, nil
		},
	}
	setupTestServices(t, Services{Event: events})

	out, _, err := execute(t, "", "event", "create", "Conference 2025", "conf25")

	require.NoError(t, err)
	assert.Equal(t, "Conference 2025", gotName)
	assert.Equal(t, "conf25", gotSlug)
	assert.Contains(t, out, "confadmin event use conf25")
}

func TestEventUse(t *testing.T) {
	var used string
	events := &MockEventService{
		UseFunc: func(_ context.Context, slug string) error {
			used = slug
			return nil
		},
	}
	setupTestServices(t, Services{Event: events})

	out, _, err := execute(t, "", "event", "use", "meetup")

	require.NoError(t, err)
	assert.Equal(t, "meetup", used)
	assert.Contains(t, out, "Active event: meetup")
}

func TestEventUse_Error(t *testing.T) {
	events := &MockEventService{
		UseFunc: func(_ context.Context, _ string) error { return domain.ErrNotFound },
	}
	setupTestServices(t, Services{Event: events})

	_, _, err := execute(t, "", "event", "use", "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventOverview(t *testing.T) {
	var asked string
	events := &MockEventService{
		ActiveSlug: "conf24",
		OverviewFunc: func(_ context.Context, slug string) (*domain.Overview, error) {
			asked = slug
			return &domain.Overview{TotalVoters: 7, TotalSources: 1, TotalSubmissions: 33}, nil
		},
	}
	setupTestServices(t, Services{Event: events})

	out, _, err := execute(t, "", "event", "overview", "--event", "other")

	require.NoError(t, err)
	assert.Equal(t, "other", asked)
	assert.Contains(t, out, "voters:")
	assert.Contains(t, out, "33")
}

func TestEventUpdate_Name(t *testing.T) {
	var form domain.GeneralSettings
	events := &MockEventService{
		ActiveSlug: "conf24",
		GetFunc: func(_ context.Context, slug string) (*domain.Event, error) {
			return &domain.Event{Slug: slug, Name: "Old", VotingEnabled: true}, nil
		},
		UpdateDetailsFunc: func(_ context.Context, f domain.GeneralSettings) error {
			form = f
			return nil
		},
	}
	setupTestServices(t, Services{Event: events})

	_, _, err := execute(t, "", "event", "update", "--name", "New")

	require.NoError(t, err)
	assert.Equal(t, "conf24", form.Slug)
	assert.Equal(t, "New", form.Name)
	assert.True(t, form.VotingEnabled, "voting is untouched")
	assert.Equal(t, domain.EventDetailsPatch{Name: &form.Name}, form.Patch())
}

func TestEventUpdate_Voting(t *testing.T) {
	var form domain.GeneralSettings
	events := &MockEventService{
		ActiveSlug: "conf24",
		GetFunc: func(_ context.Context, slug string) (*domain.Event, error) {
			return &domain.Event{Slug: slug, Name: "Conf", VotingEnabled: true}, nil
		},
		UpdateDetailsFunc: func(_ context.Context, f domain.GeneralSettings) error {
			form = f
			return nil
		},
	}
	setupTestServices(t, Services{Event: events})

	_, _, err := execute(t, "", "event", "update", "--voting=false")

	require.NoError(t, err)
	assert.Equal(t, "Conf", form.Name)
	assert.False(t, form.VotingEnabled)
}

func TestEventUpdate_NothingToSave(t *testing.T) {
	events := &MockEventService{
		ActiveSlug: "conf24",
		UpdateDetailsFunc: func(_ context.Context, _ domain.GeneralSettings) error {
			return domain.ErrNothingToSave
		},
	}
	setupTestServices(t, Services{Event: events})

	out, _, err := execute(t, "", "event", "update")

	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to update.")
}

func TestEventCmd_ServiceNotConfigured(t *testing.T) {
	setupTestServices(t, Services{})
	eventService = nil

	_, _, err := execute(t, "", "event", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "event service not configured")
}
