package session

import (
	"encoding/base64"
	"errors"
	"net/http"
)

// CookieStore keeps the session in two browser cookies for one request.
// The user record is JSON, base64url-encoded to stay cookie-safe.
type CookieStore struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool
}

// NewCookieStore binds a store to a request/response pair.
func NewCookieStore(w http.ResponseWriter, r *http.Request, secure bool) *CookieStore {
	return &CookieStore{w: w, r: r, secure: secure}
}

// Load restores the state from the request cookies.
func (s *CookieStore) Load() (State, error) {
	flag, err := s.r.Cookie(FlagKey)
	if errors.Is(err, http.ErrNoCookie) {
		return State{}, nil
	}
	user, err := s.r.Cookie(UserKey)
	if errors.Is(err, http.ErrNoCookie) {
		return State{}, nil
	}
	record, err := base64.RawURLEncoding.DecodeString(user.Value)
	if err != nil {
		return State{}, nil
	}
	return restore(flag.Value, record), nil
}

// Save sets both cookies, or clears them for a logged-out state.
func (s *CookieStore) Save(st State) error {
	flag, record, err := encode(st)
	if err != nil {
		return err
	}
	if flag == "" {
		return s.Clear()
	}
	http.SetCookie(s.w, s.cookie(FlagKey, flag, 0))
	http.SetCookie(s.w, s.cookie(UserKey, base64.RawURLEncoding.EncodeToString(record), 0))
	return nil
}

// Clear expires both cookies.
func (s *CookieStore) Clear() error {
	http.SetCookie(s.w, s.cookie(FlagKey, "", -1))
	http.SetCookie(s.w, s.cookie(UserKey, "", -1))
	return nil
}

func (s *CookieStore) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
