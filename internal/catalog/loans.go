package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sufield/libadmin/internal/domain"
)

// Loans wraps /loans. Loans are never edited; they are returned or deleted.
type Loans struct{ c *Client }

// List returns every loan with its user and book embedded.
func (s *Loans) List(ctx context.Context) ([]domain.Loan, error) {
	loans, err := getJSON[[]domain.Loan](ctx, s.c, "/loans")
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	return loans, nil
}

// Get returns one loan. A missing id matches domain.ErrNotFound.
func (s *Loans) Get(ctx context.Context, id string) (domain.Loan, error) {
	l, err := getJSON[domain.Loan](ctx, s.c, "/loans/"+url.PathEscape(id))
	if err != nil {
		return domain.Loan{}, fmt.Errorf("failed to get loan %s: %w", id, err)
	}
	return l, nil
}

// Create opens a loan. The backend decrements the book's stock.
func (s *Loans) Create(ctx context.Context, in domain.LoanInput) (domain.Loan, error) {
	l, err := sendJSON[domain.Loan](ctx, s.c, http.MethodPost, "/loans", in)
	if err != nil {
		return domain.Loan{}, fmt.Errorf("failed to create loan: %w", err)
	}
	return l, nil
}

// Return marks the loan returned (PATCH /loans/{id}/return, no body).
func (s *Loans) Return(ctx context.Context, id string) (domain.Loan, error) {
	l, err := sendJSON[domain.Loan](ctx, s.c, http.MethodPatch, "/loans/"+url.PathEscape(id)+"/return", nil)
	if err != nil {
		return domain.Loan{}, fmt.Errorf("failed to return loan %s: %w", id, err)
	}
	return l, nil
}

// Delete removes a loan record.
func (s *Loans) Delete(ctx context.Context, id string) error {
	if err := s.c.do(ctx, http.MethodDelete, "/loans/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete loan %s: %w", id, err)
	}
	return nil
}
