// Package testhelpers provides fixtures shared by the libadmin test suites.
//
// Backend is an in-memory catalog REST API that records every request it
// serves. RabbitMQ starts a broker container for the audit integration test.
package testhelpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sufield/libadmin/internal/domain"
)

// Call is one request received by the fake backend.
type Call struct {
	Method string
	Path   string // without the /api prefix, e.g. "/loans/3/return"
	Body   []byte
}

// Decode unmarshals the recorded request body into v.
func (c Call) Decode(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(c.Body, v); err != nil {
		t.Fatalf("decode %s %s body %q: %v", c.Method, c.Path, c.Body, err)
	}
}

type failure struct {
	status  int
	message string
}

// table keeps rows in insertion order so list responses are stable.
type table[T any] struct {
	order []string
	rows  map[string]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) put(id string, v T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) get(id string) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) remove(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, o := range t.order {
		if o == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

func (t *table[T]) list() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

// Backend is a fake catalog API mounted under /api.
//
// Responses use the {"data": ...} envelope unless Bare is set. Errors use
// {"message": ...}. Loans embed their user and book the way the real
// backend joins them in.
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	nextID   int
	users    *table[domain.User]
	authors  *table[domain.Author]
	books    *table[domain.Book]
	loans    *table[domain.Loan]
	calls    []Call
	failures map[string]failure
	bare     bool
	now      func() time.Time
}

// NewBackend starts a fake backend that is closed when the test finishes.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		nextID:   1,
		users:    newTable[domain.User](),
		authors:  newTable[domain.Author](),
		books:    newTable[domain.Book](),
		loans:    newTable[domain.Loan](),
		failures: make(map[string]failure),
		now:      time.Now,
	}
	b.Server = httptest.NewServer(b.routes())
	t.Cleanup(b.Server.Close)
	return b
}

// URL is the API base URL to hand to the catalog client.
func (b *Backend) URL() string {
	return b.Server.URL + "/api"
}

// SetBare switches responses to unwrapped payloads.
func (b *Backend) SetBare(bare bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bare = bare
}

// Fail makes method+path answer with status and message until cleared.
// Path excludes the /api prefix, e.g. Fail("GET", "/users", 500, "db down").
func (b *Backend) Fail(method, path string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{status: status, message: message}
}

// Calls returns every request received so far.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// CallsTo returns the recorded requests matching method and path.
func (b *Backend) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range b.Calls() {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// Mutations returns the recorded non-GET requests.
func (b *Backend) Mutations() []Call {
	var out []Call
	for _, c := range b.Calls() {
		if c.Method != http.MethodGet {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls forgets recorded requests, typically after seeding.
func (b *Backend) ResetCalls() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = nil
}

// AddUser stores u, assigning an id when it has none.
func (b *Backend) AddUser(u domain.User) domain.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	if u.ID == "" {
		u.ID = b.id()
	}
	b.users.put(u.ID, u)
	return u
}

// AddAuthor stores a, assigning an id when it has none.
func (b *Backend) AddAuthor(a domain.Author) domain.Author {
	b.mu.Lock()
	defer b.mu.Unlock()
	if a.ID == "" {
		a.ID = b.id()
	}
	b.authors.put(a.ID, a)
	return a
}

// AddBook stores bk, assigning an id when it has none.
func (b *Backend) AddBook(bk domain.Book) domain.Book {
	b.mu.Lock()
	defer b.mu.Unlock()
	if bk.ID == "" {
		bk.ID = b.id()
	}
	b.books.put(bk.ID, bk)
	return bk
}

// AddLoan stores l as given, assigning an id when it has none.
// The status is not derived from dates.
func (b *Backend) AddLoan(l domain.Loan) domain.Loan {
	b.mu.Lock()
	defer b.mu.Unlock()
	if l.ID == "" {
		l.ID = b.id()
	}
	b.loans.put(l.ID, l)
	return l
}

// User returns the stored user with id.
func (b *Backend) User(id string) (domain.User, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.users.get(id)
}

// Book returns the stored book with id.
func (b *Backend) Book(id string) (domain.Book, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.books.get(id)
}

// Loan returns the stored loan with id.
func (b *Backend) Loan(id string) (domain.Loan, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loans.get(id)
}

func (b *Backend) id() string {
	id := strconv.Itoa(b.nextID)
	b.nextID++
	return id
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(b.record)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Get("/", b.listUsers)
			r.Post("/", b.createUser)
			r.Get("/{id}", b.getUser)
			r.Put("/{id}", b.updateUser)
			r.Delete("/{id}", b.deleteUser)
		})
		r.Route("/authors", func(r chi.Router) {
			r.Get("/", b.listAuthors)
			r.Post("/", b.createAuthor)
			r.Get("/{id}", b.getAuthor)
			r.Put("/{id}", b.updateAuthor)
			r.Delete("/{id}", b.deleteAuthor)
		})
		r.Route("/books", func(r chi.Router) {
			r.Get("/", b.listBooks)
			r.Post("/", b.createBook)
			r.Get("/{id}", b.getBook)
			r.Put("/{id}", b.updateBook)
			r.Delete("/{id}", b.deleteBook)
		})
		r.Route("/loans", func(r chi.Router) {
			r.Get("/", b.listLoans)
			r.Post("/", b.createLoan)
			r.Get("/{id}", b.getLoan)
			r.Patch("/{id}/return", b.returnLoan)
			r.Delete("/{id}", b.deleteLoan)
		})
	})
	return r
}

// record stores the call and short-circuits configured failures.
func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		path := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api"), "/")
		if path == "" {
			path = "/"
		}

		b.mu.Lock()
		b.calls = append(b.calls, Call{Method: r.Method, Path: path, Body: body})
		f, failing := b.failures[r.Method+" "+path]
		b.mu.Unlock()

		if failing {
			writeJSON(w, f.status, map[string]string{"message": f.message})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *Backend) data(w http.ResponseWriter, status int, v any) {
	b.mu.Lock()
	bare := b.bare
	b.mu.Unlock()

	if bare {
		writeJSON(w, status, v)
		return
	}
	writeJSON(w, status, map[string]any{"data": v, "message": "ok"})
}

func notFound(w http.ResponseWriter, what string) {
	writeJSON(w, http.StatusNotFound, map[string]string{"message": what + " not found"})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON body"})
		return false
	}
	return true
}

// Users

func (b *Backend) listUsers(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	users := b.users.list()
	b.mu.Unlock()
	b.data(w, http.StatusOK, users)
}

func (b *Backend) getUser(w http.ResponseWriter, r *http.Request) {
	u, ok := b.User(chi.URLParam(r, "id"))
	if !ok {
		notFound(w, "user")
		return
	}
	b.data(w, http.StatusOK, u)
}

func (b *Backend) createUser(w http.ResponseWriter, r *http.Request) {
	var in domain.UserInput
	if !decode(w, r, &in) {
		return
	}
	u := b.AddUser(domain.User{Name: in.Name, Email: in.Email, MembershipDate: in.MembershipDate})
	b.data(w, http.StatusCreated, u)
}

func (b *Backend) updateUser(w http.ResponseWriter, r *http.Request) {
	var in domain.UserUpdate
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	u, ok := b.users.get(chi.URLParam(r, "id"))
	if ok {
		u.Name, u.Email = in.Name, in.Email
		if in.MembershipDate != "" {
			u.MembershipDate = in.MembershipDate
		}
		b.users.put(u.ID, u)
	}
	b.mu.Unlock()
	if !ok {
		notFound(w, "user")
		return
	}
	b.data(w, http.StatusOK, u)
}

func (b *Backend) deleteUser(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	ok := b.users.remove(chi.URLParam(r, "id"))
	b.mu.Unlock()
	if !ok {
		notFound(w, "user")
		return
	}
	b.data(w, http.StatusOK, nil)
}

// Authors

func (b *Backend) listAuthors(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	authors := b.authors.list()
	b.mu.Unlock()
	b.data(w, http.StatusOK, authors)
}

func (b *Backend) getAuthor(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	a, ok := b.authors.get(chi.URLParam(r, "id"))
	b.mu.Unlock()
	if !ok {
		notFound(w, "author")
		return
	}
	b.data(w, http.StatusOK, a)
}

func (b *Backend) createAuthor(w http.ResponseWriter, r *http.Request) {
	var in domain.AuthorInput
	if !decode(w, r, &in) {
		return
	}
	a := b.AddAuthor(domain.Author{Name: in.Name, Nationality: in.Nationality, Birthdate: in.Birthdate})
	b.data(w, http.StatusCreated, a)
}

func (b *Backend) updateAuthor(w http.ResponseWriter, r *http.Request) {
	var in domain.AuthorUpdate
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	a, ok := b.authors.get(chi.URLParam(r, "id"))
	if ok {
		a.Name, a.Nationality = in.Name, in.Nationality
		if in.Birthdate != "" {
			a.Birthdate = in.Birthdate
		}
		b.authors.put(a.ID, a)
	}
	b.mu.Unlock()
	if !ok {
		notFound(w, "author")
		return
	}
	b.data(w, http.StatusOK, a)
}

func (b *Backend) deleteAuthor(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	ok := b.authors.remove(chi.URLParam(r, "id"))
	b.mu.Unlock()
	if !ok {
		notFound(w, "author")
		return
	}
	b.data(w, http.StatusOK, nil)
}

// Books

func (b *Backend) listBooks(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	books := b.books.list()
	b.mu.Unlock()
	b.data(w, http.StatusOK, books)
}

func (b *Backend) getBook(w http.ResponseWriter, r *http.Request) {
	bk, ok := b.Book(chi.URLParam(r, "id"))
	if !ok {
		notFound(w, "book")
		return
	}
	b.data(w, http.StatusOK, bk)
}

// authorsFor resolves ids against the author table. Caller holds b.mu.
func (b *Backend) authorsFor(ids []string) []domain.Author {
	var out []domain.Author
	for _, id := range ids {
		if a, ok := b.authors.get(id); ok {
			out = append(out, a)
		}
	}
	return out
}

func (b *Backend) createBook(w http.ResponseWriter, r *http.Request) {
	var in domain.BookInput
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	bk := domain.Book{
		ID:            b.id(),
		Title:         in.Title,
		ISBN:          in.ISBN,
		Publisher:     in.Publisher,
		YearPublished: in.YearPublished,
		Stock:         in.Stock,
		Authors:       b.authorsFor(in.AuthorIDs),
	}
	b.books.put(bk.ID, bk)
	b.mu.Unlock()
	b.data(w, http.StatusCreated, bk)
}

func (b *Backend) updateBook(w http.ResponseWriter, r *http.Request) {
	var in domain.BookUpdate
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	bk, ok := b.books.get(chi.URLParam(r, "id"))
	if ok {
		if in.Title != nil {
			bk.Title = *in.Title
		}
		if in.ISBN != nil {
			bk.ISBN = *in.ISBN
		}
		if in.Publisher != nil {
			bk.Publisher = *in.Publisher
		}
		if in.YearPublished != nil {
			bk.YearPublished = *in.YearPublished
		}
		if in.Stock != nil {
			bk.Stock = *in.Stock
		}
		if in.AuthorIDs != nil {
			bk.Authors = b.authorsFor(*in.AuthorIDs)
		}
		b.books.put(bk.ID, bk)
	}
	b.mu.Unlock()
	if !ok {
		notFound(w, "book")
		return
	}
	b.data(w, http.StatusOK, bk)
}

func (b *Backend) deleteBook(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	ok := b.books.remove(chi.URLParam(r, "id"))
	b.mu.Unlock()
	if !ok {
		notFound(w, "book")
		return
	}
	b.data(w, http.StatusOK, nil)
}

// Loans

// joined embeds the loan's user and book. Caller holds b.mu.
func (b *Backend) joined(l domain.Loan) domain.Loan {
	if u, ok := b.users.get(l.UserID); ok {
		l.User = &u
	}
	if bk, ok := b.books.get(l.BookID); ok {
		l.Book = &bk
	}
	return l
}

func (b *Backend) listLoans(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	loans := b.loans.list()
	for i := range loans {
		loans[i] = b.joined(loans[i])
	}
	b.mu.Unlock()
	b.data(w, http.StatusOK, loans)
}

func (b *Backend) getLoan(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	l, ok := b.loans.get(chi.URLParam(r, "id"))
	if ok {
		l = b.joined(l)
	}
	b.mu.Unlock()
	if !ok {
		notFound(w, "loan")
		return
	}
	b.data(w, http.StatusOK, l)
}

func (b *Backend) createLoan(w http.ResponseWriter, r *http.Request) {
	var in domain.LoanInput
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	bk, ok := b.books.get(in.BookID)
	if !ok || bk.Stock <= 0 {
		b.mu.Unlock()
		writeJSON(w, http.StatusConflict, map[string]string{"message": "book is not available"})
		return
	}
	bk.Stock--
	b.books.put(bk.ID, bk)
	l := domain.Loan{
		ID:       b.id(),
		UserID:   in.UserID,
		BookID:   in.BookID,
		LoanDate: in.LoanDate,
		Status:   domain.LoanActive,
	}
	b.loans.put(l.ID, l)
	l = b.joined(l)
	b.mu.Unlock()
	b.data(w, http.StatusCreated, l)
}

func (b *Backend) returnLoan(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	l, ok := b.loans.get(chi.URLParam(r, "id"))
	if ok {
		returned := domain.FormatDate(b.now())
		l.ReturnDate = &returned
		l.Status = domain.LoanReturned
		b.loans.put(l.ID, l)
		if bk, found := b.books.get(l.BookID); found {
			bk.Stock++
			b.books.put(bk.ID, bk)
		}
		l = b.joined(l)
	}
	b.mu.Unlock()
	if !ok {
		notFound(w, "loan")
		return
	}
	b.data(w, http.StatusOK, l)
}

func (b *Backend) deleteLoan(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	ok := b.loans.remove(chi.URLParam(r, "id"))
	b.mu.Unlock()
	if !ok {
		notFound(w, "loan")
		return
	}
	b.data(w, http.StatusOK, nil)
}
