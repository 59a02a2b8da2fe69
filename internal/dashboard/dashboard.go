// Package dashboard assembles the overview page: four counters and the most
// recent loans and books.
package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sufield/libadmin/internal/domain"
)

// RecentLimit is how many loans and books the recent activity cards show.
const RecentLimit = 5

// Catalog is the subset of the catalog client the dashboard reads from.
type Catalog interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListBooks(ctx context.Context) ([]domain.Book, error)
	ListLoans(ctx context.Context) ([]domain.Loan, error)
}

// Stats are the dashboard counters. Overdue is the number of loans the
// backend reports as overdue.
type Stats struct {
	TotalUsers   int
	TotalBooks   int
	ActiveLoans  int
	OverdueLoans int
}

// Overview is everything the dashboard renders.
type Overview struct {
	Stats       Stats
	RecentLoans []domain.Loan
	RecentBooks []domain.Book
}

// Load fetches users, books and loans concurrently and derives the overview.
// If any request fails no partial overview is returned.
func Load(ctx context.Context, cat Catalog) (Overview, error) {
	var (
		users []domain.User
		books []domain.Book
		loans []domain.Loan
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = cat.ListUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		books, err = cat.ListBooks(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		loans, err = cat.ListLoans(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, fmt.Errorf("failed to load dashboard: %w", err)
	}

	return Summarize(users, books, loans), nil
}

// Summarize derives the overview from already-fetched lists.
func Summarize(users []domain.User, books []domain.Book, loans []domain.Loan) Overview {
	return Overview{
		Stats: Stats{
			TotalUsers:   len(users),
			TotalBooks:   len(books),
			ActiveLoans:  domain.CountStatus(loans, domain.LoanActive),
			OverdueLoans: domain.CountStatus(loans, domain.LoanOverdue),
		},
		RecentLoans: firstN(loans, RecentLimit),
		RecentBooks: firstN(books, RecentLimit),
	}
}

// firstN returns the first n items in backend order.
func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		items = items[:n]
	}
	return append([]T(nil), items...)
}
