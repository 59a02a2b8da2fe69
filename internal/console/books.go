package console

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sufield/libadmin/internal/audit"
	"github.com/sufield/libadmin/internal/domain"
)

// bookInput is the book form plus the authors offered in its multi-select.
type bookInput struct {
	domain.BookInput
	Authors []domain.Author
}

func (s *Server) listBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.cat.Books.List(r.Context())
	if err != nil {
		log.Printf("Error fetching books: %v", err)
		books = nil
	}
	s.render(w, r, http.StatusOK, "books", view{Title: "Books", Active: "/books", Data: books})
}

func bookFormInput(r *http.Request) domain.BookInput {
	return domain.BookInput{
		Title:         r.PostFormValue("title"),
		ISBN:          r.PostFormValue("isbn"),
		Publisher:     r.PostFormValue("publisher"),
		YearPublished: r.PostFormValue("year_published"),
		Stock:         atoi(r.PostFormValue("stock")),
		AuthorIDs:     nonEmpty(r.PostForm["author_ids"]),
	}
}

// authorChoices lists authors for the multi-select. A failure leaves it empty.
func (s *Server) authorChoices(ctx context.Context) []domain.Author {
	authors, err := s.cat.Authors.List(ctx)
	if err != nil {
		log.Printf("Failed to fetch authors: %v", err)
		return nil
	}
	return authors
}

func (s *Server) bookForm(w http.ResponseWriter, r *http.Request, status int, f form[bookInput], flash string) {
	f.Cancel = "/books"
	f.Input.Authors = s.authorChoices(r.Context())
	s.render(w, r, status, "book_form", view{Title: f.Heading, Active: "/books", Flash: flash, Data: f})
}

func (s *Server) newBook(w http.ResponseWriter, r *http.Request) {
	s.bookForm(w, r, http.StatusOK, form[bookInput]{Heading: "Add New Book", Action: "/books"}, "")
}

func (s *Server) createBook(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	in := bookFormInput(r)
	f := form[bookInput]{Heading: "Add New Book", Action: "/books", Input: bookInput{BookInput: in}}

	if err := in.Validate(); err != nil {
		s.bookForm(w, r, http.StatusUnprocessableEntity, f, err.Error())
		return
	}
	b, err := s.cat.Books.Create(r.Context(), in)
	if err != nil {
		log.Printf("Error saving book: %v", err)
		s.bookForm(w, r, http.StatusBadGateway, f, saveFailed("book"))
		return
	}
	s.publish(r, audit.ActionCreate, "books", b.ID)
	redirect(w, r, "/books")
}

func (s *Server) editBook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b, err := s.cat.Books.Get(r.Context(), id)
	if err != nil {
		log.Printf("Error fetching book %s: %v", id, err)
		redirect(w, r, "/books")
		return
	}
	s.bookForm(w, r, http.StatusOK, form[bookInput]{
		Heading: "Edit Book",
		Action:  "/books/" + id,
		Editing: true,
		Input:   bookInput{BookInput: b.EditForm()},
	}, "")
}

func (s *Server) updateBook(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := chi.URLParam(r, "id")
	in := bookFormInput(r)
	f := form[bookInput]{Heading: "Edit Book", Action: "/books/" + id, Editing: true, Input: bookInput{BookInput: in}}

	if err := in.Validate(); err != nil {
		s.bookForm(w, r, http.StatusUnprocessableEntity, f, err.Error())
		return
	}
	if _, err := s.cat.Books.Update(r.Context(), id, in.Update()); err != nil {
		log.Printf("Error saving book %s: %v", id, err)
		s.bookForm(w, r, http.StatusBadGateway, f, saveFailed("book"))
		return
	}
	s.publish(r, audit.ActionUpdate, "books", id)
	redirect(w, r, "/books")
}
