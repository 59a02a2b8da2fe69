package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/libadmin/internal/catalog"
	"github.com/sufield/libadmin/internal/domain"
	"github.com/sufield/libadmin/internal/testhelpers"
)

func newClient(t *testing.T) (*catalog.Client, *testhelpers.Backend) {
	t.Helper()
	backend := testhelpers.NewBackend(t)
	return catalog.New(backend.URL()), backend
}

func TestUsers_CRUD(t *testing.T) {
	ctx := context.Background()
	c, backend := newClient(t)

	created, err := c.Users.Create(ctx, domain.UserInput{
		Name: "Ada", Email: "ada@example.org", Password: "pw", MembershipDate: "2024-01-02",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	users, err := c.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Ada", users[0].Name)

	got, err := c.Users.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.org", got.Email)

	_, err = c.Users.Update(ctx, created.ID, domain.UserUpdate{Name: "Ada L.", Email: "ada@example.org"})
	require.NoError(t, err)

	calls := backend.CallsTo(http.MethodPut, "/users/"+created.ID)
	require.Len(t, calls, 1)
	var sent map[string]any
	calls[0].Decode(t, &sent)
	assert.Equal(t, "Ada L.", sent["name"])
	assert.NotContains(t, sent, "password", "a blank password is not sent")

	require.NoError(t, c.Users.Delete(ctx, created.ID))
	users, err = c.Users.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestAuthors_CRUD(t *testing.T) {
	ctx := context.Background()
	c, backend := newClient(t)

	a, err := c.Authors.Create(ctx, domain.AuthorInput{Name: "Pramoedya", Nationality: "Indonesian", Birthdate: "1925-02-06"})
	require.NoError(t, err)

	_, err = c.Authors.Update(ctx, a.ID, domain.AuthorUpdate{Name: "Pramoedya A. Toer", Nationality: "Indonesian"})
	require.NoError(t, err)

	got, err := c.Authors.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pramoedya A. Toer", got.Name)
	assert.Equal(t, "1925-02-06", got.Birthdate)

	require.NoError(t, c.Authors.Delete(ctx, a.ID))
	assert.Len(t, backend.CallsTo(http.MethodDelete, "/authors/"+a.ID), 1)
}

func TestBooks_CreateSendsAuthorIDs(t *testing.T) {
	ctx := context.Background()
	c, backend := newClient(t)
	author := backend.AddAuthor(domain.Author{Name: "Tolkien"})

	b, err := c.Books.Create(ctx, domain.BookInput{
		Title: "The Hobbit", ISBN: "978-0", Publisher: "Allen & Unwin",
		YearPublished: "1937", Stock: 3, AuthorIDs: []string{author.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Tolkien"}, b.AuthorNames())

	_, err = c.Books.Create(ctx, domain.BookInput{Title: "Anon", ISBN: "1", Publisher: "P", YearPublished: "2000"})
	require.NoError(t, err)

	calls := backend.CallsTo(http.MethodPost, "/books")
	require.Len(t, calls, 2)
	assert.Contains(t, string(calls[1].Body), `"author_ids":[]`)
}

func TestBooks_UpdatePartial(t *testing.T) {
	ctx := context.Background()
	c, backend := newClient(t)
	b := backend.AddBook(domain.Book{Title: "Old", ISBN: "1", Stock: 1})

	stock := 5
	updated, err := c.Books.Update(ctx, b.ID, domain.BookUpdate{Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, "Old", updated.Title)
	assert.Equal(t, 5, updated.Stock)

	calls := backend.CallsTo(http.MethodPut, "/books/"+b.ID)
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"stock":5}`, string(calls[0].Body))
}

func TestLoans_CreateReturnDelete(t *testing.T) {
	ctx := context.Background()
	c, backend := newClient(t)
	u := backend.AddUser(domain.User{Name: "Ada"})
	b := backend.AddBook(domain.Book{Title: "Dune", Stock: 1})

	l, err := c.Loans.Create(ctx, domain.LoanInput{UserID: u.ID, BookID: b.ID, LoanDate: "2024-03-01", DueDate: "2024-03-15"})
	require.NoError(t, err)
	assert.Equal(t, domain.LoanActive, l.Status)
	assert.Equal(t, "Dune", l.BookTitle())

	returned, err := c.Loans.Return(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanReturned, returned.Status)
	require.NotNil(t, returned.ReturnDate)

	calls := backend.CallsTo(http.MethodPatch, "/loans/"+l.ID+"/return")
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].Body)

	require.NoError(t, c.Loans.Delete(ctx, l.ID))
	_, err = c.Loans.Get(ctx, l.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoans_StatusCarriedVerbatim(t *testing.T) {
	c, backend := newClient(t)
	due := "2000-01-01"
	backend.AddLoan(domain.Loan{LoanDate: "1999-12-01", ReturnDate: nil, Status: domain.LoanActive})
	backend.AddLoan(domain.Loan{LoanDate: due, Status: "lost"})

	loans, err := c.Loans.List(context.Background())
	require.NoError(t, err)
	require.Len(t, loans, 2)
	assert.Equal(t, domain.LoanActive, loans[0].Status, "status is never recomputed from dates")
	assert.Equal(t, domain.LoanStatus("lost"), loans[1].Status)
}

func TestClient_BareResponses(t *testing.T) {
	c, backend := newClient(t)
	backend.AddUser(domain.User{Name: "Ada"})
	backend.SetBare(true)

	users, err := c.Users.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Ada", users[0].Name)
}

func TestClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
		want    string
	}{
		{"backend message", http.StatusBadRequest, "email already taken", "email already taken"},
		{"no message", http.StatusInternalServerError, "", "Request failed with status code 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, backend := newClient(t)
			backend.Fail(http.MethodPost, "/users", tt.status, tt.message)

			_, err := c.Users.Create(context.Background(), domain.UserInput{Name: "x"})
			require.Error(t, err)

			var apiErr *catalog.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.want, catalog.Message(err))
		})
	}
}

func TestClient_NotFound(t *testing.T) {
	c, _ := newClient(t)

	_, err := c.Books.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "book not found", catalog.Message(err))
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := catalog.New(srv.URL + "/api")
	_, err := c.Users.List(context.Background())
	require.Error(t, err)

	var apiErr *catalog.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.Status)
	assert.NotEmpty(t, apiErr.Message)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}

func TestClient_CanceledContext(t *testing.T) {
	c, backend := newClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Users.List(ctx)
	require.Error(t, err)
	assert.Empty(t, backend.Calls())
}

func TestClient_HeadersAndCookies(t *testing.T) {
	var seen []*http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Clone(context.Background()))
		http.SetCookie(w, &http.Cookie{Name: "backend_session", Value: "abc", Path: "/"})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c := catalog.New(srv.URL+"/api/", catalog.WithHTTPClient(&http.Client{Jar: jar}))

	_, err = c.Authors.List(context.Background())
	require.NoError(t, err)
	_, err = c.Authors.List(context.Background())
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, "/api/authors", seen[0].URL.Path)
	assert.Equal(t, "application/json", seen[0].Header.Get("Content-Type"))
	assert.Equal(t, "application/json", seen[0].Header.Get("Accept"))

	cookie, err := seen[1].Cookie("backend_session")
	require.NoError(t, err, "cookies set by the backend travel with later requests")
	assert.Equal(t, "abc", cookie.Value)
}

func TestNew_DefaultBaseURL(t *testing.T) {
	assert.Equal(t, catalog.DefaultBaseURL, catalog.New("").BaseURL())
}
