package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/custodia-labs/confadmin/internal/core/domain"
)

type eventUser struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	Permissions *domain.Permission `json:"permissions"`
}

// EventUsers lists the users assigned to an event.
func (c *Client) EventUsers(ctx context.Context, event string) ([]domain.EventUser, error) {
	var out []eventUser
	if err := c.do(ctx, http.MethodGet, "/users/"+segment(event), nil, &out); err != nil {
		return nil, err
	}
	users := make([]domain.EventUser, 0, len(out))
	for _, u := range out {
		user := domain.EventUser{ID: u.ID, Name: u.Name, Email: u.Email}
		if u.Permissions != nil {
			user.Permission = *u.Permissions
		}
		users = append(users, user)
	}
	return users, nil
}

// SetUserPermission assigns a permission. domain.PermissionNone is sent as
// null, which removes the user from the event.
func (c *Client) SetUserPermission(ctx context.Context, event, userID string, perm domain.Permission) error {
	in := struct {
		Permissions *domain.Permission `json:"permissions"`
	}{}
	if perm != domain.PermissionNone {
		in.Permissions = &perm
	}
	return c.do(ctx, http.MethodPost, "/users/"+segment(event)+"/"+segment(userID), in, nil)
}

// SearchUsers finds users by name or email.
func (c *Client) SearchUsers(ctx context.Context, event, query string, n int) ([]domain.UserSummary, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("n", strconv.Itoa(n))
	var out []struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.do(ctx, http.MethodGet, "/usersearch/"+segment(event)+"?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	users := make([]domain.UserSummary, 0, len(out))
	for _, u := range out {
		users = append(users, domain.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	return users, nil
}
