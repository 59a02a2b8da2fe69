package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sufield/libadmin/internal/domain"
)

// Users wraps /users.
type Users struct{ c *Client }

// List returns every user.
func (s *Users) List(ctx context.Context) ([]domain.User, error) {
	users, err := getJSON[[]domain.User](ctx, s.c, "/users")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Get returns one user. A missing id matches domain.ErrNotFound.
func (s *Users) Get(ctx context.Context, id string) (domain.User, error) {
	u, err := getJSON[domain.User](ctx, s.c, "/users/"+url.PathEscape(id))
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return u, nil
}

// Create adds a user and returns it with its backend id.
func (s *Users) Create(ctx context.Context, in domain.UserInput) (domain.User, error) {
	u, err := sendJSON[domain.User](ctx, s.c, http.MethodPost, "/users", in)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// Update changes a user. A blank password is left out of the payload.
func (s *Users) Update(ctx context.Context, id string, in domain.UserUpdate) (domain.User, error) {
	u, err := sendJSON[domain.User](ctx, s.c, http.MethodPut, "/users/"+url.PathEscape(id), in)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to update user %s: %w", id, err)
	}
	return u, nil
}

// Delete removes a user.
func (s *Users) Delete(ctx context.Context, id string) error {
	if err := s.c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}
