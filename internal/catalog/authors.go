package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sufield/libadmin/internal/domain"
)

// Authors wraps /authors.
type Authors struct{ c *Client }

// List returns every author.
func (s *Authors) List(ctx context.Context) ([]domain.Author, error) {
	authors, err := getJSON[[]domain.Author](ctx, s.c, "/authors")
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}
	return authors, nil
}

// Get returns one author. A missing id matches domain.ErrNotFound.
func (s *Authors) Get(ctx context.Context, id string) (domain.Author, error) {
	a, err := getJSON[domain.Author](ctx, s.c, "/authors/"+url.PathEscape(id))
	if err != nil {
		return domain.Author{}, fmt.Errorf("failed to get author %s: %w", id, err)
	}
	return a, nil
}

// Create adds an author and returns it with its backend id.
func (s *Authors) Create(ctx context.Context, in domain.AuthorInput) (domain.Author, error) {
	a, err := sendJSON[domain.Author](ctx, s.c, http.MethodPost, "/authors", in)
	if err != nil {
		return domain.Author{}, fmt.Errorf("failed to create author: %w", err)
	}
	return a, nil
}

// Update changes an author.
func (s *Authors) Update(ctx context.Context, id string, in domain.AuthorUpdate) (domain.Author, error) {
	a, err := sendJSON[domain.Author](ctx, s.c, http.MethodPut, "/authors/"+url.PathEscape(id), in)
	if err != nil {
		return domain.Author{}, fmt.Errorf("failed to update author %s: %w", id, err)
	}
	return a, nil
}

// Delete removes an author.
func (s *Authors) Delete(ctx context.Context, id string) error {
	if err := s.c.do(ctx, http.MethodDelete, "/authors/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete author %s: %w", id, err)
	}
	return nil
}
