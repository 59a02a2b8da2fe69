// Package console is the server-rendered admin console.
//
// Every catalog page is behind the session gate. Pages fetch from the backend
// on every request; mutations redirect back to the list so the next render
// reflects the backend's state. Destructive actions render a confirmation
// page first and only run on an explicit confirm=yes submission.
package console

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sufield/libadmin/internal/audit"
	"github.com/sufield/libadmin/internal/catalog"
	"github.com/sufield/libadmin/internal/debug"
	"github.com/sufield/libadmin/internal/session"
)

// Options configures a Server. Catalog and Gate are required.
type Options struct {
	Catalog *catalog.Client
	Gate    *session.Gate

	// Audit receives an event per successful mutation. Nil drops events.
	Audit audit.Publisher

	// SecureCookies marks the session cookies Secure.
	SecureCookies bool

	Logger debug.Logger

	// Now is the clock used for form defaults and loan dates.
	Now func() time.Time
}

// Server renders the console.
type Server struct {
	cat     *catalog.Client
	gate    *session.Gate
	audit   audit.Publisher
	secure  bool
	log     debug.Logger
	now     func() time.Time
	pages   *pages
	handler http.Handler
}

// New parses the templates and builds the router.
func New(opts Options) (*Server, error) {
	if opts.Catalog == nil {
		return nil, errors.New("catalog client is required")
	}
	if opts.Gate == nil {
		return nil, errors.New("session gate is required")
	}

	p, err := parsePages()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cat:    opts.Catalog,
		gate:   opts.Gate,
		audit:  opts.Audit,
		secure: opts.SecureCookies,
		log:    opts.Logger,
		now:    opts.Now,
		pages:  p,
	}
	if s.audit == nil {
		s.audit = audit.Nop{}
	}
	if s.log == nil {
		s.log = debug.GetLogger()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.handler = s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/login", s.loginPage)
	r.Post("/login", s.login)
	r.Post("/logout", s.logout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		})
		r.Get("/dashboard", s.dashboard)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.listUsers)
			r.Get("/new", s.newUser)
			r.Post("/", s.createUser)
			r.Get("/{id}/edit", s.editUser)
			r.Post("/{id}", s.updateUser)
			r.Get("/{id}/delete", s.confirmPage("users", "Delete User", "Are you sure you want to delete this user?", "delete"))
			r.Post("/{id}/delete", s.confirmed("users", audit.ActionDelete, s.cat.Users.Delete))
		})

		r.Route("/authors", func(r chi.Router) {
			r.Get("/", s.listAuthors)
			r.Get("/new", s.newAuthor)
			r.Post("/", s.createAuthor)
			r.Get("/{id}/edit", s.editAuthor)
			r.Post("/{id}", s.updateAuthor)
			r.Get("/{id}/delete", s.confirmPage("authors", "Delete Author", "Are you sure you want to delete this author?", "delete"))
			r.Post("/{id}/delete", s.confirmed("authors", audit.ActionDelete, s.cat.Authors.Delete))
		})

		r.Route("/books", func(r chi.Router) {
			r.Get("/", s.listBooks)
			r.Get("/new", s.newBook)
			r.Post("/", s.createBook)
			r.Get("/{id}/edit", s.editBook)
			r.Post("/{id}", s.updateBook)
			r.Get("/{id}/delete", s.confirmPage("books", "Delete Book", "Are you sure you want to delete this book?", "delete"))
			r.Post("/{id}/delete", s.confirmed("books", audit.ActionDelete, s.cat.Books.Delete))
		})

		r.Route("/loans", func(r chi.Router) {
			r.Get("/", s.listLoans)
			r.Get("/new", s.newLoan)
			r.Post("/", s.createLoan)
			r.Get("/{id}/return", s.returnPage)
			r.Post("/{id}/return", s.confirmed("loans", audit.ActionReturn, s.returnLoan))
			r.Get("/{id}/delete", s.confirmPage("loans", "Delete Loan", "Are you sure you want to delete this loan record?", "delete"))
			r.Post("/{id}/delete", s.confirmed("loans", audit.ActionDelete, s.cat.Loans.Delete))
		})
	})

	return r
}
