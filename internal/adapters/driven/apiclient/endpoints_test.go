package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/confadmin/internal/core/domain"
)

func TestClient_ListEvents(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/events", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"can_create": true,
			"user": {"name": "Foo", "email": "foo@example.org"},
			"events": {
				"e2": {"name": "pycon", "slug": "pycon", "permissions": {"view": true, "configure": false, "update": false, "role": "viewer"}, "voting_enabled": false},
				"e1": {"name": "EuroPython", "slug": "ep", "permissions": {"view": true, "configure": true, "update": true, "role": "admin"}, "voting_enabled": true}
			}
		}`))
	}))

	list, err := client.ListEvents(context.Background())
	require.NoError(t, err)
	assert.True(t, list.CanCreate)
	assert.Equal(t, "Foo", list.User.Name)
	require.Len(t, list.Events, 2)
	assert.Equal(t, "e1", list.Events[0].ID)
	assert.Equal(t, "ep", list.Events[0].Slug)
	assert.True(t, list.Events[0].VotingEnabled)
	assert.True(t, list.Events[0].CanManage())
	assert.Equal(t, domain.RoleViewer, list.Events[1].Permissions.Role)
	assert.False(t, list.Events[1].CanManage())
}

func TestClient_CreateEvent(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "DjangoCon", in["name"])
		writeJSON(w, http.StatusCreated, map[string]any{
			"name": in["name"], "slug": in["slug"], "voting_enabled": true,
			"permissions": map[string]any{"view": true, "configure": true, "update": true, "role": "admin"},
		})
	}))

	event, err := client.CreateEvent(context.Background(), "DjangoCon", "djc")
	require.NoError(t, err)
	assert.Equal(t, "djc", event.Slug)
	assert.Equal(t, domain.RoleAdmin, event.Permissions.Role)
}

func TestClient_UpdateEvent_SendsOnlyChangedFields(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events/ep", r.URL.Path)
		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, map[string]any{"voting_enabled": false}, in)
		writeJSON(w, http.StatusOK, "success")
	}))

	disabled := false
	err := client.UpdateEvent(context.Background(), "ep", domain.EventDetailsPatch{VotingEnabled: &disabled})
	require.NoError(t, err)
}

func TestClient_FetchSources(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sources/ep", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"pretalx": {"autoupdate": true, "url": "https://pretalx.com", "eventSlug": "ep26", "interval": 600, "filter": "confirmed"},
			"manual": {"autoupdate": false, "url": "", "eventSlug": "", "interval": 300}
		}`))
	}))

	records, err := client.FetchSources(context.Background(), "ep")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "pretalx", records["pretalx"].ID)
	assert.Equal(t, domain.FilterConfirmed, records["pretalx"].Filter)
	assert.Equal(t, 600, records["pretalx"].Interval)
	assert.Equal(t, domain.FilterAccepted, records["manual"].Fields().Filter)
}

func TestClient_UpsertSource(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/sources/ep/pretalx", r.URL.Path)
		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, map[string]any{"url": "https://pretalx.com", "apikey": "k"}, in)
		writeJSON(w, http.StatusCreated, map[string]any{
			"id": "pretalx", "url": "https://pretalx.com", "eventSlug": "", "autoupdate": false,
			"interval": 300, "filter": "accepted",
		})
	}))

	url, key := "https://pretalx.com", "k"
	rec, err := client.UpsertSource(context.Background(), "ep", "pretalx", domain.SourcePatch{URL: &url, APIKey: &key})
	require.NoError(t, err)
	assert.Equal(t, "pretalx", rec.ID)
	assert.Equal(t, 300, rec.Interval)
	assert.Equal(t, domain.FilterAccepted, rec.Filter)
}

func TestClient_UpsertSource_LocatorWithoutKey(t *testing.T) {
	called := false
	client, _ := newTestClient(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	slug := "ep26"
	_, err := client.UpsertSource(context.Background(), "ep", "pretalx", domain.SourcePatch{EventSlug: &slug})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = client.UpsertSource(context.Background(), "ep", " ", domain.SourcePatch{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.False(t, called)
}

func TestClient_DeleteSource(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		if r.URL.Path == "/sources/ep/gone" {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": `Source with ID/slug "gone" not found in event "ep".`})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	ctx := context.Background()

	require.NoError(t, client.DeleteSource(ctx, "ep", "pretalx"))

	err := client.DeleteSource(ctx, "ep", "gone")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_SourceUpdateURLs(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/urls/ep", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"b": map[string]string{"submission_update_url": "/api/sources/ep/b/submissions"},
			"a": map[string]string{"submission_update_url": "https://hooks.example.org/a"},
		})
	}))

	urls, err := client.SourceUpdateURLs(context.Background(), "ep")
	require.NoError(t, err)
	require.Len(t, urls, 2)
	assert.Equal(t, "a", urls[0].SourceID)
	assert.Equal(t, "https://hooks.example.org/a", urls[0].SubmissionUpdateURL)
	assert.Equal(t, client.BaseURL()+"/sources/ep/b/submissions", urls[1].SubmissionUpdateURL)
}

func TestClient_ScheduleUpdate(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/sources/ep/pretalx/scheduleupdate", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, client.ScheduleUpdate(context.Background(), "ep", "pretalx"))
}

func TestClient_Submissions(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"submissions": {
			"s1": {"code": "A01", "lastupdate": 1700000000, "title": "Typing", "abstract": "<p>x</p>",
			       "time": {"start": 1700086400, "end": 1700090000, "room": "Foo"}},
			"s2": {"code": "B02", "lastupdate": 1700000000, "title": "Async", "abstract": ""}
		}}`))
	}))

	subs, err := client.Submissions(context.Background(), "ep")
	require.NoError(t, err)
	require.Len(t, subs, 2)

	byID := map[string]domain.Submission{}
	for _, s := range subs {
		byID[s.ID] = s
	}
	require.NotNil(t, byID["s1"].Time)
	assert.Equal(t, int64(1700086400), byID["s1"].Time.Start.Unix())
	assert.Equal(t, "Foo", byID["s1"].Time.Room)
	assert.Nil(t, byID["s2"].Time)
	assert.Equal(t, int64(1700000000), byID["s2"].LastUpdate.Unix())
}

func TestClient_RatingsConflictsSimilar(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.EscapedPath() {
		case "/ratings/ep":
			writeJSON(w, http.StatusOK, map[string]domain.Rating{"s1": {Up: 2, Down: 1, Views: 9, Expanded: 4}})
		case "/conflicts/ep/expanded-without-down/20":
			writeJSON(w, http.StatusOK, []domain.Conflict{{A: "s1", B: "s2", Correlation: 0.42}})
		case "/similarities/ep/s%2F1/up/5":
			writeJSON(w, http.StatusOK, []domain.Similarity{{ID: "s2", Metric: 0.9}})
		default:
			t.Errorf("unexpected path %s", r.URL.EscapedPath())
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	ctx := context.Background()

	ratings, err := client.Ratings(ctx, "ep")
	require.NoError(t, err)
	assert.Equal(t, 4, ratings["s1"].Expanded)

	conflicts, err := client.Conflicts(ctx, "ep", domain.ConflictExpandedWithoutDown, 20)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.InDelta(t, 0.42, conflicts[0].Correlation, 0.0001)

	similar, err := client.Similar(ctx, "ep", "s/1", domain.ConflictUp, 5)
	require.NoError(t, err)
	require.Len(t, similar, 1)
	assert.Equal(t, "s2", similar[0].ID)
}

func TestClient_Users(t *testing.T) {
	var posted []map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/users/ep":
			_, _ = w.Write([]byte(`[
				{"id": "u1", "name": "Ann", "email": "ann@example.org", "permissions": "self"},
				{"id": "u2", "name": "Bob", "email": "bob@example.org", "permissions": null}
			]`))
		case r.Method == http.MethodPost && r.URL.Path == "/users/ep/u2":
			var in map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			posted = append(posted, in)
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Path == "/usersearch/ep":
			assert.Equal(t, "bo b", r.URL.Query().Get("q"))
			assert.Equal(t, "5", r.URL.Query().Get("n"))
			writeJSON(w, http.StatusOK, []map[string]string{{"id": "u2", "name": "Bob", "email": "bob@example.org"}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	ctx := context.Background()

	users, err := client.EventUsers(ctx, "ep")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.True(t, users[0].IsSelf())
	assert.Equal(t, domain.PermissionNone, users[1].Permission)

	require.NoError(t, client.SetUserPermission(ctx, "ep", "u2", domain.PermissionAdmin))
	require.NoError(t, client.SetUserPermission(ctx, "ep", "u2", domain.PermissionNone))
	require.Len(t, posted, 2)
	assert.Equal(t, map[string]any{"permissions": "admin"}, posted[0])
	assert.Equal(t, map[string]any{"permissions": nil}, posted[1])

	found, err := client.SearchUsers(ctx, "ep", "bo b", 5)
	require.NoError(t, err)
	assert.Equal(t, []domain.UserSummary{{ID: "u2", Name: "Bob", Email: "bob@example.org"}}, found)
}
