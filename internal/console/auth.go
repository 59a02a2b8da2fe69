package console

import (
	"errors"
	"log"
	"net/http"

	"github.com/sufield/libadmin/internal/session"
)

type loginData struct {
	Username string
}

func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	st, _ := s.store(w, r).Load()
	if st.Authenticated {
		redirect(w, r, "/dashboard")
		return
	}
	s.render(w, r, http.StatusOK, "login", view{Title: "Sign in", Data: loginData{}})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	_, err := s.gate.SignIn(s.store(w, r), username, password)
	switch {
	case err == nil:
		log.Printf("signed in: %s", username)
		redirect(w, r, "/dashboard")
	case errors.Is(err, session.ErrInvalidCredentials):
		s.log.Debugf("console: rejected login for %q", username)
		s.render(w, r, http.StatusUnauthorized, "login", view{
			Title: "Sign in",
			Flash: session.FailedLoginMessage,
			Data:  loginData{Username: username},
		})
	default:
		log.Printf("login failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := session.SignOut(s.store(w, r)); err != nil {
		log.Printf("logout failed: %v", err)
	}
	redirect(w, r, "/login")
}
