package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/confadmin/internal/core/domain"
	"github.com/custodia-labs/confadmin/internal/core/ports/driven"
	"github.com/custodia-labs/confadmin/internal/core/ports/driving"
)

// Ensure EventService implements the interface.
var _ driving.EventService = (*EventService)(nil)

// EventService manages events and the session's active event.
type EventService struct {
	api      driven.EventAPI
	sessions driven.SessionStore
	notifier driven.Notifier
}

// NewEventService creates a new event service.
func NewEventService(api driven.EventAPI, sessions driven.SessionStore, notifier driven.Notifier) *EventService {
	return &EventService{
		api:      api,
		sessions: sessions,
		notifier: notifier,
	}
}

// List returns the visible events and remembers the signed-in account.
func (s *EventService) List(ctx context.Context) (*domain.EventList, error) {
	if s.api == nil {
		return nil, domain.ErrNotImplemented
	}
	list, err := s.api.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	if s.sessions != nil {
		sess, err := s.sessions.Load(ctx)
		if err == nil && sess.IsAuthenticated() && sess.User != list.User {
			sess.User = list.User
			if err := s.sessions.Save(ctx, *sess); err != nil {
				return nil, fmt.Errorf("save session: %w", err)
			}
		}
	}
	return list, nil
}

// Get returns one event by slug.
func (s *EventService) Get(ctx context.Context, slug string) (*domain.Event, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	e, ok := list.Find(slug)
	if !ok {
		return nil, fmt.Errorf("event %q: %w", slug, domain.ErrNotFound)
	}
	return &e, nil
}

// Create creates an event.
func (s *EventService) Create(ctx context.Context, name, slug string) (*domain.Event, error) {
	if s.api == nil {
		return nil, domain.ErrNotImplemented
	}
	name, slug = strings.TrimSpace(name), strings.TrimSpace(slug)
	if name == "" || slug == "" {
		return nil, fmt.Errorf("%w: Name and slug cannot be empty.", domain.ErrInvalidInput)
	}
	event, err := s.api.CreateEvent(ctx, name, slug)
	if err != nil {
		s.notifyError(fmt.Sprintf("Failed to create conference: %v", err))
		return nil, err
	}
	s.notifySuccess(fmt.Sprintf("Conference %q created.", name))
	return event, nil
}

// Use makes the event the active one. The event must be visible to the user.
func (s *EventService) Use(ctx context.Context, slug string) error {
	if s.sessions == nil {
		return domain.ErrNotImplemented
	}
	if _, err := s.Get(ctx, slug); err != nil {
		return err
	}
	sess, err := s.sessions.Load(ctx)
	if err != nil {
		return err
	}
	sess.ActiveEvent = slug
	return s.sessions.Save(ctx, *sess)
}

// Active returns the active event slug.
func (s *EventService) Active(ctx context.Context) (string, error) {
	if s.sessions == nil {
		return "", domain.ErrNotImplemented
	}
	sess, err := s.sessions.Load(ctx)
	if err != nil {
		return "", err
	}
	return sess.ActiveEvent, nil
}

// Resolve returns slug if set, else the active event.
func (s *EventService) Resolve(ctx context.Context, slug string) (string, error) {
	if slug != "" {
		return slug, nil
	}
	active, err := s.Active(ctx)
	if err != nil {
		return "", err
	}
	if active == "" {
		return "", domain.ErrNoActiveEvent
	}
	return active, nil
}

// Overview returns the headline counters of an event.
func (s *EventService) Overview(ctx context.Context, slug string) (*domain.Overview, error) {
	if s.api == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.api.Overview(ctx, slug)
}

// UpdateDetails saves the edited fields of the general settings form.
func (s *EventService) UpdateDetails(ctx context.Context, form domain.GeneralSettings) error {
	if s.api == nil {
		return domain.ErrNotImplemented
	}
	if strings.TrimSpace(form.Name) == "" {
		return &domain.ValidationError{Fields: domain.FieldErrors{"name": "Event name cannot be empty."}}
	}
	if !form.IsDirty() {
		return domain.ErrNothingToSave
	}
	if err := s.api.UpdateEvent(ctx, form.Slug, form.Patch()); err != nil {
		s.notifyError(fmt.Sprintf("Failed to update event settings: %v", err))
		return err
	}
	s.notifySuccess("Event settings updated successfully.")
	return nil
}

func (s *EventService) notifySuccess(msg string) {
	if s.notifier != nil {
		s.notifier.Success(msg)
	}
}

func (s *EventService) notifyError(msg string) {
	if s.notifier != nil {
		s.notifier.Error(msg)
	}
}
