package console

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sufield/libadmin/internal/audit"
	"github.com/sufield/libadmin/internal/domain"
)

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.cat.Users.List(r.Context())
	if err != nil {
		log.Printf("Error fetching users: %v", err)
		users = nil
	}
	s.render(w, r, http.StatusOK, "users", view{Title: "Users", Active: "/users", Data: users})
}

func userFormInput(r *http.Request) domain.UserInput {
	return domain.UserInput{
		Name:           r.PostFormValue("name"),
		Email:          r.PostFormValue("email"),
		Password:       r.PostFormValue("password"),
		MembershipDate: r.PostFormValue("membership_date"),
	}
}

func (s *Server) userForm(w http.ResponseWriter, r *http.Request, status int, f form[domain.UserInput], flash string) {
	f.Cancel = "/users"
	s.render(w, r, status, "user_form", view{Title: f.Heading, Active: "/users", Flash: flash, Data: f})
}

func (s *Server) newUser(w http.ResponseWriter, r *http.Request) {
	s.userForm(w, r, http.StatusOK, form[domain.UserInput]{
		Heading: "Add New User",
		Action:  "/users",
		Input:   domain.UserInput{MembershipDate: domain.FormatDate(s.now())},
	}, "")
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	in := userFormInput(r)
	f := form[domain.UserInput]{Heading: "Add New User", Action: "/users", Input: in}
	// Never echo the password back into the form.
	f.Input.Password = ""

	if err := in.Validate(); err != nil {
		s.userForm(w, r, http.StatusUnprocessableEntity, f, err.Error())
		return
	}
	u, err := s.cat.Users.Create(r.Context(), in)
	if err != nil {
		log.Printf("Error saving user: %v", err)
		s.userForm(w, r, http.StatusBadGateway, f, saveFailed("user"))
		return
	}
	s.publish(r, audit.ActionCreate, "users", u.ID)
	redirect(w, r, "/users")
}

func (s *Server) editUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u, err := s.cat.Users.Get(r.Context(), id)
	if err != nil {
		log.Printf("Error fetching user %s: %v", id, err)
		redirect(w, r, "/users")
		return
	}
	s.userForm(w, r, http.StatusOK, form[domain.UserInput]{
		Heading: "Edit User",
		Action:  "/users/" + id,
		Editing: true,
		Input:   u.EditForm(),
	}, "")
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := chi.URLParam(r, "id")
	in := userFormInput(r)
	f := form[domain.UserInput]{Heading: "Edit User", Action: "/users/" + id, Editing: true, Input: in}
	f.Input.Password = ""

	upd := in.Update()
	if err := upd.Validate(); err != nil {
		s.userForm(w, r, http.StatusUnprocessableEntity, f, err.Error())
		return
	}
	if _, err := s.cat.Users.Update(r.Context(), id, upd); err != nil {
		log.Printf("Error saving user %s: %v", id, err)
		s.userForm(w, r, http.StatusBadGateway, f, saveFailed("user"))
		return
	}
	s.publish(r, audit.ActionUpdate, "users", id)
	redirect(w, r, "/users")
}
