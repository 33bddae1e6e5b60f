package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/confadmin/internal/core/domain"
	"github.com/custodia-labs/confadmin/internal/core/services"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleListEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("returns events with active slug", func(t *testing.T) {
		events := &mockEventService{
			active: "conf24",
			list: &domain.EventList{
				CanCreate: true,
				Events: []domain.Event{
					{Slug: "conf24", Name: "Conf 2024", Permissions: domain.EventPermissions{Role: domain.RoleAdmin}},
					{Slug: "meetup", Name: "Meetup", VotingEnabled: true, Permissions: domain.EventPermissions{Role: domain.RoleViewer}},
				},
			},
		}
		server := newTestServer(t, &Ports{Event: events})

		_, output, err := server.handleListEvents(ctx, nil, ListEventsInput{})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, "conf24", output.Active)
		assert.True(t, output.CanCreate)
		assert.Equal(t, "admin", output.Events[0].Role)
		assert.True(t, output.Events[0].CanManage)
		assert.False(t, output.Events[1].CanManage)
		assert.True(t, output.Events[1].VotingEnabled)
	})

	t.Run("no active event is not an error", func(t *testing.T) {
		server := newTestServer(t, &Ports{Event: &mockEventService{}})

		_, output, err := server.handleListEvents(ctx, nil, ListEventsInput{})

		require.NoError(t, err)
		assert.Empty(t, output.Active)
		assert.Equal(t, 0, output.Count)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		server := newTestServer(t, &Ports{Event: &mockEventService{err: errors.New("backend down")}})

		_, _, err := server.handleListEvents(ctx, nil, ListEventsInput{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "backend down")
	})
}

func TestServer_handleEventOverview(t *testing.T) {
	ctx := context.Background()

	t.Run("uses active event when none given", func(t *testing.T) {
		events := &mockEventService{
			active:   "conf24",
			overview: &domain.Overview{TotalVoters: 12, TotalSources: 2, TotalSubmissions: 40},
		}
		server := newTestServer(t, &Ports{Event: events})

		_, output, err := server.handleEventOverview(ctx, nil, EventArg{})

		require.NoError(t, err)
		assert.Equal(t, "conf24", output.Event)
		assert.Equal(t, 12, output.TotalVoters)
		assert.Equal(t, 2, output.TotalSources)
		assert.Equal(t, 40, output.TotalSubmissions)
	})

	t.Run("no event and no active event fails", func(t *testing.T) {
		server := newTestServer(t, &Ports{Event: &mockEventService{}})

		_, _, err := server.handleEventOverview(ctx, nil, EventArg{})

		assert.ErrorIs(t, err, domain.ErrNoActiveEvent)
	})
}

func TestServer_handleListSources(t *testing.T) {
	ctx := context.Background()

	t.Run("refreshes the event and lists sources", func(t *testing.T) {
		sources := &mockSourceService{
			sources: []domain.SourceRecord{
				{ID: "s1", URL: "https://pretalx.example/api", Autoupdate: true, Interval: 900, Filter: domain.FilterConfirmed},
				{ID: "s2"},
			},
		}
		server := newTestServer(t, &Ports{Event: &mockEventService{}, Source: sources})

		_, output, err := server.handleListSources(ctx, nil, EventArg{Event: "conf24"})

		require.NoError(t, err)
		assert.Equal(t, []string{"conf24"}, sources.refreshed)
		assert.Equal(t, "conf24", output.Event)
		require.Equal(t, 2, output.Count)
		assert.Equal(t, "s1", output.Sources[0].ID)
		assert.Equal(t, 900, output.Sources[0].Interval)
		assert.Equal(t, "confirmed", output.Sources[0].Filter)
		assert.Equal(t, domain.DefaultInterval, output.Sources[1].Interval)
		assert.Equal(t, "accepted", output.Sources[1].Filter)
	})

	t.Run("missing source service", func(t *testing.T) {
		server := newTestServer(t, &Ports{Event: &mockEventService{active: "conf24"}})

		_, _, err := server.handleListSources(ctx, nil, EventArg{})

		assert.ErrorIs(t, err, ErrServiceUnavailable)
	})

	t.Run("refresh failure", func(t *testing.T) {
		sources := &mockSourceService{err: domain.ErrUnauthorized}
		server := newTestServer(t, &Ports{Event: &mockEventService{active: "conf24"}, Source: sources})

		_, _, err := server.handleListSources(ctx, nil, EventArg{})

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestServer_handleListSubmissions(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	subs := &mockSubmissionService{
		submissions: []domain.Submission{
			{ID: "1", Code: "ABC", Title: "Go at scale", Time: &domain.TimeSlot{Start: start, Room: "A"}},
			{ID: "2", Code: "DEF", Title: "Rust in practice", Abstract: "<p>Memory <b>safety</b></p>"},
			{ID: "3", Code: "GHI", Title: "Going further"},
		},
	}
	server := newTestServer(t, &Ports{Event: &mockEventService{active: "conf24"}, Submission: subs})

	t.Run("lists all with slot", func(t *testing.T) {
		_, output, err := server.handleListSubmissions(ctx, nil, ListSubmissionsInput{})

		require.NoError(t, err)
		assert.Equal(t, 3, output.Count)
		assert.Equal(t, 3, output.Total)
		require.NotNil(t, output.Submissions[0].Start)
		assert.Equal(t, start, *output.Submissions[0].Start)
		assert.Equal(t, "A", output.Submissions[0].Room)
		assert.Nil(t, output.Submissions[1].Start)
	})

	t.Run("filters by title", func(t *testing.T) {
		_, output, err := server.handleListSubmissions(ctx, nil, ListSubmissionsInput{Filter: "go"})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
	})

	t.Run("filters through markup", func(t *testing.T) {
		_, output, err := server.handleListSubmissions(ctx, nil, ListSubmissionsInput{Filter: "memory safety"})

		require.NoError(t, err)
		require.Equal(t, 1, output.Count)
		assert.Equal(t, "DEF", output.Submissions[0].Code)
	})

	t.Run("limit keeps total", func(t *testing.T) {
		_, output, err := server.handleListSubmissions(ctx, nil, ListSubmissionsInput{Limit: 1})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, 3, output.Total)
	})
}

func TestServer_handleListVotes(t *testing.T) {
	ctx := context.Background()

	subs := &mockSubmissionService{
		votes: []domain.VoteRow{
			services.NewVoteRow(domain.Submission{Code: "A", Title: "Alpha"}, domain.Rating{Up: 1, Down: 3, Views: 10}, true),
			services.NewVoteRow(domain.Submission{Code: "B", Title: "Beta"}, domain.Rating{}, false),
			services.NewVoteRow(domain.Submission{Code: "C", Title: "Gamma"}, domain.Rating{Up: 3, Down: 1, Views: 10}, true),
		},
	}
	server := newTestServer(t, &Ports{Event: &mockEventService{active: "conf24"}, Submission: subs})

	t.Run("sorts by ratio descending with undefined last", func(t *testing.T) {
		_, output, err := server.handleListVotes(ctx, nil, ListVotesInput{Sort: "up_ratio", Desc: true})

		require.NoError(t, err)
		require.Equal(t, 3, output.Count)
		assert.Equal(t, "C", output.Rows[0].Code)
		assert.Equal(t, "A", output.Rows[1].Code)
		assert.Equal(t, "B", output.Rows[2].Code)
		require.NotNil(t, output.Rows[0].UpRatio)
		assert.InDelta(t, 0.75, *output.Rows[0].UpRatio, 1e-9)
		assert.Nil(t, output.Rows[2].UpRatio)
	})

	t.Run("default sort is code", func(t *testing.T) {
		_, output, err := server.handleListVotes(ctx, nil, ListVotesInput{})

		require.NoError(t, err)
		assert.Equal(t, "A", output.Rows[0].Code)
		assert.Equal(t, "C", output.Rows[2].Code)
	})

	t.Run("filter and limit", func(t *testing.T) {
		_, output, err := server.handleListVotes(ctx, nil, ListVotesInput{Filter: "a", Limit: 1})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
	})

	t.Run("unknown column", func(t *testing.T) {
		_, _, err := server.handleListVotes(ctx, nil, ListVotesInput{Sort: "popularity"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestServer_handleListConflicts(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults type and count", func(t *testing.T) {
		subs := &mockSubmissionService{
			conflicts: []domain.ConflictRow{{
				A:           domain.SubmissionRef{ID: "1", Code: "ABC", Title: "Go"},
				B:           domain.SubmissionRef{ID: "9", Code: "N/A", Title: "Unknown (9)"},
				Correlation: 0.8,
			}},
		}
		server := newTestServer(t, &Ports{Event: &mockEventService{active: "conf24"}, Submission: subs})

		_, output, err := server.handleListConflicts(ctx, nil, ListConflictsInput{})

		require.NoError(t, err)
		assert.Equal(t, domain.ConflictExpanded, subs.conflictKind)
		assert.Equal(t, domain.DefaultConflictCount, subs.conflictCount)
		assert.Equal(t, "expanded", output.Type)
		require.Equal(t, 1, output.Count)
		assert.Equal(t, "ABC: Go", output.Conflicts[0].A)
		assert.Equal(t, "N/A: Unknown (9)", output.Conflicts[0].B)
		assert.Equal(t, 0.8, output.Conflicts[0].Correlation)
	})

	t.Run("passes explicit arguments", func(t *testing.T) {
		subs := &mockSubmissionService{}
		server := newTestServer(t, &Ports{Event: &mockEventService{}, Submission: subs})

		_, output, err := server.handleListConflicts(ctx, nil, ListConflictsInput{
			EventArg: EventArg{Event: "meetup"},
			Type:     "up",
			Count:    5,
		})

		require.NoError(t, err)
		assert.Equal(t, "meetup", output.Event)
		assert.Equal(t, domain.ConflictUp, subs.conflictKind)
		assert.Equal(t, 5, subs.conflictCount)
	})
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 3, clampLimit(0, 3))
	assert.Equal(t, defaultLimit, clampLimit(0, 100))
	assert.Equal(t, 2, clampLimit(2, 3))
	assert.Equal(t, 3, clampLimit(10, 3))
}
