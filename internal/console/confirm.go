package console

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sufield/libadmin/internal/audit"
)

type confirmData struct {
	Message string
	Action  string // form target
	Cancel  string // list page
	Verb    string // submit button label
}

// confirmPage renders the question for a destructive action on /{entity}/{id}/{verb}.
func (s *Server) confirmPage(entity, title, message, verb string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		s.render(w, r, http.StatusOK, "confirm", view{
			Title:  title,
			Active: "/" + entity,
			Data: confirmData{
				Message: message,
				Action:  "/" + entity + "/" + id + "/" + verb,
				Cancel:  "/" + entity,
				Verb:    title,
			},
		})
	}
}

// confirmed runs action only when the submission carries confirm=yes, then
// returns to the list. Anything else returns to the list without a backend call.
func (s *Server) confirmed(entity, auditAction string, action func(ctx context.Context, id string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if r.PostFormValue("confirm") != "yes" {
			s.log.Debugf("console: %s %s %s not confirmed", auditAction, entity, id)
			redirect(w, r, "/"+entity)
			return
		}

		if err := action(r.Context(), id); err != nil {
			log.Printf("Error on %s %s %s: %v", auditAction, entity, id, err)
		} else {
			s.publish(r, auditAction, entity, id)
		}
		redirect(w, r, "/"+entity)
	}
}

func (s *Server) publish(r *http.Request, action, entity, id string) {
	s.audit.Publish(r.Context(), audit.NewEvent(action, entity, id, stateFrom(r.Context()).Username()))
}
