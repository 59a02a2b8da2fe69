package console

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/sufield/libadmin/internal/audit"
	"github.com/sufield/libadmin/internal/domain"
)

// Messages shown on the loan form.
const (
	loanSelectBoth   = "Please select both user and book"
	loanCreateFailed = "Failed to create loan. Please try again."
)

type loanFormData struct {
	Users    []domain.User
	Books    []domain.Book // in stock only
	UserID   string
	BookID   string
	Period   int
	LoanDate string
	DueDate  string
	Cancel   string
}

func (s *Server) listLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := s.cat.Loans.List(r.Context())
	if err != nil {
		log.Printf("Error fetching loans: %v", err)
		loans = nil
	}
	s.render(w, r, http.StatusOK, "loans", view{Title: "Loans", Active: "/loans", Data: loans})
}

// loanChoices fetches users and books in parallel. On failure both lists are empty.
func (s *Server) loanChoices(ctx context.Context) ([]domain.User, []domain.Book) {
	var (
		users []domain.User
		books []domain.Book
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.cat.Users.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		books, err = s.cat.Books.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Printf("Failed to fetch data: %v", err)
		return nil, nil
	}
	return users, domain.InStock(books)
}

func (s *Server) loanForm(w http.ResponseWriter, r *http.Request, status int, userID, bookID, flash string) {
	users, books := s.loanChoices(r.Context())
	now := s.now()
	s.render(w, r, status, "loan_form", view{
		Title:  "Create New Loan",
		Active: "/loans",
		Flash:  flash,
		Data: loanFormData{
			Users:    users,
			Books:    books,
			UserID:   userID,
			BookID:   bookID,
			Period:   domain.LoanPeriodDays,
			LoanDate: domain.FormatDate(now),
			DueDate:  domain.FormatDate(domain.DueDate(now)),
			Cancel:   "/loans",
		},
	})
}

func (s *Server) newLoan(w http.ResponseWriter, r *http.Request) {
	s.loanForm(w, r, http.StatusOK, "", "", "")
}

func (s *Server) createLoan(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	userID := r.PostFormValue("user_id")
	bookID := r.PostFormValue("book_id")

	in := domain.NewLoanInput(userID, bookID, s.now())
	if err := in.Validate(); err != nil {
		s.loanForm(w, r, http.StatusUnprocessableEntity, userID, bookID, loanSelectBoth)
		return
	}

	l, err := s.cat.Loans.Create(r.Context(), in)
	if err != nil {
		log.Printf("Error creating loan: %v", err)
		s.loanForm(w, r, http.StatusBadGateway, userID, bookID, loanCreateFailed)
		return
	}
	s.log.Debugf("console: created loan %s due %s", l.ID, in.DueDate)
	s.publish(r, audit.ActionCreate, "loans", l.ID)
	redirect(w, r, "/loans")
}

// returnPage asks for confirmation only for a loan that is still active.
// Anything else, including a loan the backend cannot find, goes back to the list.
func (s *Server) returnPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	l, err := s.cat.Loans.Get(r.Context(), id)
	if err != nil {
		log.Printf("Error fetching loan %s: %v", id, err)
		redirect(w, r, "/loans")
		return
	}
	if !l.Returnable() {
		s.log.Debugf("console: loan %s is %s, not returnable", id, l.Status)
		redirect(w, r, "/loans")
		return
	}
	s.confirmPage("loans", "Return Book", "Are you sure you want to return this book?", "return")(w, r)
}

// returnLoan rechecks the status so a stale confirmation page cannot return a
// loan twice.
func (s *Server) returnLoan(ctx context.Context, id string) error {
	l, err := s.cat.Loans.Get(ctx, id)
	if err != nil {
		return err
	}
	if !l.Returnable() {
		return fmt.Errorf("%w: loan %s is %s", domain.ErrInvalidInput, id, l.Status)
	}
	_, err = s.cat.Loans.Return(ctx, id)
	return err
}
