package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/confadmin/internal/core/domain"
	"github.com/custodia-labs/confadmin/internal/core/ports/driven"
	"github.com/custodia-labs/confadmin/internal/core/ports/driving"
)

// Ensure UserService implements the interface.
var _ driving.UserService = (*UserService)(nil)

// UserService manages per-event user permissions.
type UserService struct {
	api      driven.UserAPI
	notifier driven.Notifier
}

// NewUserService creates a new user service.
func NewUserService(api driven.UserAPI, notifier driven.Notifier) *UserService {
	return &UserService{api: api, notifier: notifier}
}

// List returns the event's users with the signed-in user first, then by name.
func (s *UserService) List(ctx context.Context, event string) ([]domain.EventUser, error) {
	if s.api == nil {
		return nil, domain.ErrNotImplemented
	}
	users, err := s.api.EventUsers(ctx, event)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(users, func(i, j int) bool {
		if users[i].IsSelf() != users[j].IsSelf() {
			return users[i].IsSelf()
		}
		return fold(users[i].Name) < fold(users[j].Name)
	})
	return users, nil
}

// Search finds users not yet assigned to the event. Queries shorter than
// two characters return nothing without a request.
func (s *UserService) Search(ctx context.Context, event, query string) ([]domain.UserSummary, error) {
	if s.api == nil {
		return nil, domain.ErrNotImplemented
	}
	query = strings.TrimSpace(query)
	if len([]rune(query)) < domain.MinUserQueryLength {
		return nil, nil
	}

	found, err := s.api.SearchUsers(ctx, event, query, domain.DefaultUserResults)
	if err != nil {
		return nil, err
	}
	assigned, err := s.api.EventUsers(ctx, event)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]struct{}, len(assigned))
	for _, u := range assigned {
		taken[u.ID] = struct{}{}
	}

	out := make([]domain.UserSummary, 0, len(found))
	for _, u := range found {
		if _, ok := taken[u.ID]; !ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// SetPermission assigns a settable permission.
func (s *UserService) SetPermission(ctx context.Context, event, userID string, perm domain.Permission) error {
	if s.api == nil {
		return domain.ErrNotImplemented
	}
	if userID == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if !perm.IsSettable() {
		return fmt.Errorf("%w: permission must be view, update or admin", domain.ErrInvalidInput)
	}
	if err := s.api.SetUserPermission(ctx, event, userID, perm); err != nil {
		s.notifyError(fmt.Sprintf("Failed to update permissions for %s: %v", userID, err))
		return err
	}
	s.notifySuccess(fmt.Sprintf("Permissions for %s set to %s.", userID, perm))
	return nil
}

// Remove takes the user off the event.
func (s *UserService) Remove(ctx context.Context, event, userID string) error {
	if s.api == nil {
		return domain.ErrNotImplemented
	}
	if userID == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if err := s.api.SetUserPermission(ctx, event, userID, domain.PermissionNone); err != nil {
		s.notifyError(fmt.Sprintf("Failed to remove %s: %v", userID, err))
		return err
	}
	s.notifySuccess(fmt.Sprintf("Removed %s from the event.", userID))
	return nil
}

func (s *UserService) notifySuccess(msg string) {
	if s.notifier != nil {
		s.notifier.Success(msg)
	}
}

func (s *UserService) notifyError(msg string) {
	if s.notifier != nil {
		s.notifier.Error(msg)
	}
}
