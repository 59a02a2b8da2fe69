package console

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/sufield/libadmin/internal/session"
)

type ctxKey struct{}

// stateFrom returns the session state stored by requireSession.
func stateFrom(ctx context.Context) session.State {
	st, _ := ctx.Value(ctxKey{}).(session.State)
	return st
}

// requestLog logs method, path, status and duration for every request.
func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.Printf("%s %s %d %s [%s]", r.Method, r.URL.Path, ww.Status(), time.Since(start).Round(time.Microsecond), middleware.GetReqID(r.Context()))
	})
}

// requireSession redirects to /login unless the session cookies restore an
// authenticated state.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st, err := s.store(w, r).Load()
		if err != nil {
			log.Printf("failed to restore session: %v", err)
		}
		if !st.Authenticated {
			s.log.Debugf("console: unauthenticated %s %s", r.Method, r.URL.Path)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, st)))
	})
}

func (s *Server) store(w http.ResponseWriter, r *http.Request) *session.CookieStore {
	return session.NewCookieStore(w, r, s.secure)
}
