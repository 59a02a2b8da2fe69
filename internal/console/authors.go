package console

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sufield/libadmin/internal/audit"
	"github.com/sufield/libadmin/internal/domain"
)

func (s *Server) listAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := s.cat.Authors.List(r.Context())
	if err != nil {
		log.Printf("Error fetching authors: %v", err)
		authors = nil
	}
	s.render(w, r, http.StatusOK, "authors", view{Title: "Authors", Active: "/authors", Data: authors})
}

func authorFormInput(r *http.Request) domain.AuthorInput {
	return domain.AuthorInput{
		Name:        r.PostFormValue("name"),
		Nationality: r.PostFormValue("nationality"),
		Birthdate:   r.PostFormValue("birthdate"),
	}
}

func (s *Server) authorForm(w http.ResponseWriter, r *http.Request, status int, f form[domain.AuthorInput], flash string) {
	f.Cancel = "/authors"
	s.render(w, r, status, "author_form", view{Title: f.Heading, Active: "/authors", Flash: flash, Data: f})
}

func (s *Server) newAuthor(w http.ResponseWriter, r *http.Request) {
	s.authorForm(w, r, http.StatusOK, form[domain.AuthorInput]{Heading: "Add New Author", Action: "/authors"}, "")
}

func (s *Server) createAuthor(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	in := authorFormInput(r)
	f := form[domain.AuthorInput]{Heading: "Add New Author", Action: "/authors", Input: in}

	if err := in.Validate(); err != nil {
		s.authorForm(w, r, http.StatusUnprocessableEntity, f, err.Error())
		return
	}
	a, err := s.cat.Authors.Create(r.Context(), in)
	if err != nil {
		log.Printf("Error saving author: %v", err)
		s.authorForm(w, r, http.StatusBadGateway, f, saveFailed("author"))
		return
	}
	s.publish(r, audit.ActionCreate, "authors", a.ID)
	redirect(w, r, "/authors")
}

func (s *Server) editAuthor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, err := s.cat.Authors.Get(r.Context(), id)
	if err != nil {
		log.Printf("Error fetching author %s: %v", id, err)
		redirect(w, r, "/authors")
		return
	}
	s.authorForm(w, r, http.StatusOK, form[domain.AuthorInput]{
		Heading: "Edit Author",
		Action:  "/authors/" + id,
		Editing: true,
		Input:   a.EditForm(),
	}, "")
}

func (s *Server) updateAuthor(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := chi.URLParam(r, "id")
	in := authorFormInput(r)
	f := form[domain.AuthorInput]{Heading: "Edit Author", Action: "/authors/" + id, Editing: true, Input: in}

	upd := in.Update()
	if err := upd.Validate(); err != nil {
		s.authorForm(w, r, http.StatusUnprocessableEntity, f, err.Error())
		return
	}
	if _, err := s.cat.Authors.Update(r.Context(), id, upd); err != nil {
		log.Printf("Error saving author %s: %v", id, err)
		s.authorForm(w, r, http.StatusBadGateway, f, saveFailed("author"))
		return
	}
	s.publish(r, audit.ActionUpdate, "authors", id)
	redirect(w, r, "/authors")
}
