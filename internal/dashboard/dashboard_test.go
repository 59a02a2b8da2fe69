package dashboard_test

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/libadmin/internal/catalog"
	"github.com/sufield/libadmin/internal/dashboard"
	"github.com/sufield/libadmin/internal/domain"
	"github.com/sufield/libadmin/internal/testhelpers"
)

type stubCatalog struct {
	users    []domain.User
	books    []domain.Book
	loans    []domain.Loan
	loansErr error
	calls    atomic.Int32
}

func (s *stubCatalog) ListUsers(context.Context) ([]domain.User, error) {
	s.calls.Add(1)
	return s.users, nil
}

func (s *stubCatalog) ListBooks(context.Context) ([]domain.Book, error) {
	s.calls.Add(1)
	return s.books, nil
}

func (s *stubCatalog) ListLoans(context.Context) ([]domain.Loan, error) {
	s.calls.Add(1)
	return s.loans, s.loansErr
}

func TestLoad_Counters(t *testing.T) {
	stub := &stubCatalog{
		users: make([]domain.User, 3),
		books: make([]domain.Book, 7),
		loans: []domain.Loan{
			{ID: "1", Status: domain.LoanActive},
			{ID: "2", Status: domain.LoanActive},
			{ID: "3", Status: domain.LoanReturned},
			{ID: "4", Status: domain.LoanOverdue},
		},
	}

	ov, err := dashboard.Load(context.Background(), stub)
	require.NoError(t, err)

	assert.Equal(t, dashboard.Stats{TotalUsers: 3, TotalBooks: 7, ActiveLoans: 2, OverdueLoans: 1}, ov.Stats)
	assert.Equal(t, int32(3), stub.calls.Load(), "one request per list")
}

func TestLoad_RecentIsFirstFive(t *testing.T) {
	var loans []domain.Loan
	var books []domain.Book
	for i := 1; i <= 8; i++ {
		loans = append(loans, domain.Loan{ID: strconv.Itoa(i)})
		books = append(books, domain.Book{ID: strconv.Itoa(i)})
	}

	ov, err := dashboard.Load(context.Background(), &stubCatalog{loans: loans, books: books})
	require.NoError(t, err)

	require.Len(t, ov.RecentLoans, dashboard.RecentLimit)
	require.Len(t, ov.RecentBooks, dashboard.RecentLimit)
	assert.Equal(t, "1", ov.RecentLoans[0].ID)
	assert.Equal(t, "5", ov.RecentLoans[4].ID)
	assert.Equal(t, "5", ov.RecentBooks[4].ID)
}

func TestLoad_FewerThanFive(t *testing.T) {
	ov, err := dashboard.Load(context.Background(), &stubCatalog{books: []domain.Book{{ID: "a"}, {ID: "b"}}})
	require.NoError(t, err)
	assert.Len(t, ov.RecentBooks, 2)
	assert.Empty(t, ov.RecentLoans)
}

func TestLoad_FailureReturnsNoPartialResult(t *testing.T) {
	boom := errors.New("backend down")
	stub := &stubCatalog{users: make([]domain.User, 2), loansErr: boom}

	ov, err := dashboard.Load(context.Background(), stub)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, dashboard.Overview{}, ov)
}

func TestLoad_OverdueNotRecomputed(t *testing.T) {
	// An active loan from long ago stays active on the dashboard.
	stub := &stubCatalog{loans: []domain.Loan{{LoanDate: "1990-01-01", Status: domain.LoanActive}}}

	ov, err := dashboard.Load(context.Background(), stub)
	require.NoError(t, err)
	assert.Equal(t, 1, ov.Stats.ActiveLoans)
	assert.Zero(t, ov.Stats.OverdueLoans)
}

func TestLoad_AgainstBackend(t *testing.T) {
	backend := testhelpers.NewBackend(t)
	u := backend.AddUser(domain.User{Name: "Ada"})
	b := backend.AddBook(domain.Book{Title: "Dune", Stock: 2})
	backend.AddLoan(domain.Loan{UserID: u.ID, BookID: b.ID, Status: domain.LoanOverdue})

	ov, err := dashboard.Load(context.Background(), catalog.New(backend.URL()))
	require.NoError(t, err)

	assert.Equal(t, dashboard.Stats{TotalUsers: 1, TotalBooks: 1, OverdueLoans: 1}, ov.Stats)
	require.Len(t, ov.RecentLoans, 1)
	assert.Equal(t, "Dune", ov.RecentLoans[0].BookTitle())

	for _, path := range []string{"/users", "/books", "/loans"} {
		assert.Len(t, backend.CallsTo(http.MethodGet, path), 1, path)
	}
}
