package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/custodia-labs/confadmin/internal/core/domain"
)

type eventDetail struct {
	Name          string                  `json:"name"`
	Slug          string                  `json:"slug"`
	Permissions   domain.EventPermissions `json:"permissions"`
	VotingEnabled bool                    `json:"voting_enabled"`
}

func (d eventDetail) toDomain(id string) domain.Event {
	return domain.Event{
		ID:            id,
		Name:          d.Name,
		Slug:          d.Slug,
		Permissions:   d.Permissions,
		VotingEnabled: d.VotingEnabled,
	}
}

type eventsResponse struct {
	CanCreate bool                   `json:"can_create"`
	User      domain.Account         `json:"user"`
	Events    map[string]eventDetail `json:"events"`
}

// ListEvents returns the events visible to the signed-in user, ordered by name.
func (c *Client) ListEvents(ctx context.Context) (*domain.EventList, error) {
	var out eventsResponse
	if err := c.do(ctx, http.MethodGet, "/events", nil, &out); err != nil {
		return nil, err
	}

	list := &domain.EventList{
		CanCreate: out.CanCreate,
		User:      out.User,
		Events:    make([]domain.Event, 0, len(out.Events)),
	}
	for id, d := range out.Events {
		list.Events = append(list.Events, d.toDomain(id))
	}
	sort.Slice(list.Events, func(i, j int) bool {
		a, b := strings.ToLower(list.Events[i].Name), strings.ToLower(list.Events[j].Name)
		if a != b {
			return a < b
		}
		return list.Events[i].Slug < list.Events[j].Slug
	})
	return list, nil
}

// CreateEvent creates an event.
func (c *Client) CreateEvent(ctx context.Context, name, slug string) (*domain.Event, error) {
	in := map[string]string{"name": name, "slug": slug}
	var out eventDetail
	if err := c.do(ctx, http.MethodPost, "/events", in, &out); err != nil {
		return nil, err
	}
	event := out.toDomain("")
	if event.Slug == "" {
		event.Slug = slug
	}
	if event.Name == "" {
		event.Name = name
	}
	return &event, nil
}

// UpdateEvent changes an event's name or voting switch.
func (c *Client) UpdateEvent(ctx context.Context, slug string, patch domain.EventDetailsPatch) error {
	if slug == "" {
		return fmt.Errorf("%w: event slug is required", domain.ErrInvalidInput)
	}
	return c.do(ctx, http.MethodPost, "/events/"+segment(slug), patch, nil)
}

// Overview returns the headline counters of an event.
func (c *Client) Overview(ctx context.Context, slug string) (*domain.Overview, error) {
	var out domain.Overview
	if err := c.do(ctx, http.MethodGet, "/overview/"+segment(slug), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
