package catalog

import (
	"context"

	"github.com/sufield/libadmin/internal/domain"
)

// Flat list helpers so the client satisfies narrow reader interfaces such as
// the dashboard's.

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) { return c.Users.List(ctx) }

func (c *Client) ListAuthors(ctx context.Context) ([]domain.Author, error) {
	return c.Authors.List(ctx)
}

func (c *Client) ListBooks(ctx context.Context) ([]domain.Book, error) { return c.Books.List(ctx) }

func (c *Client) ListLoans(ctx context.Context) ([]domain.Loan, error) { return c.Loans.List(ctx) }
