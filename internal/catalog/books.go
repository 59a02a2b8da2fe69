package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sufield/libadmin/internal/domain"
)

// Books wraps /books.
type Books struct{ c *Client }

// List returns every book with its authors.
func (s *Books) List(ctx context.Context) ([]domain.Book, error) {
	books, err := getJSON[[]domain.Book](ctx, s.c, "/books")
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

// Get returns one book. A missing id matches domain.ErrNotFound.
func (s *Books) Get(ctx context.Context, id string) (domain.Book, error) {
	b, err := getJSON[domain.Book](ctx, s.c, "/books/"+url.PathEscape(id))
	if err != nil {
		return domain.Book{}, fmt.Errorf("failed to get book %s: %w", id, err)
	}
	return b, nil
}

// Create adds a book. A nil AuthorIDs is sent as an empty list.
func (s *Books) Create(ctx context.Context, in domain.BookInput) (domain.Book, error) {
	if in.AuthorIDs == nil {
		in.AuthorIDs = []string{}
	}
	b, err := sendJSON[domain.Book](ctx, s.c, http.MethodPost, "/books", in)
	if err != nil {
		return domain.Book{}, fmt.Errorf("failed to create book: %w", err)
	}
	return b, nil
}

// Update sends only the non-nil fields of in.
func (s *Books) Update(ctx context.Context, id string, in domain.BookUpdate) (domain.Book, error) {
	b, err := sendJSON[domain.Book](ctx, s.c, http.MethodPut, "/books/"+url.PathEscape(id), in)
	if err != nil {
		return domain.Book{}, fmt.Errorf("failed to update book %s: %w", id, err)
	}
	return b, nil
}

// Delete removes a book.
func (s *Books) Delete(ctx context.Context, id string) error {
	if err := s.c.do(ctx, http.MethodDelete, "/books/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete book %s: %w", id, err)
	}
	return nil
}
