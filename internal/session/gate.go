// Package session is the console's login gate.
//
// The gate accepts a single configured username/password pair and remembers
// the outcome in a Store: browser cookies for the web console, a state file
// for the CLI. It is a presentation gate only. There is no token and no expiry,
// and the backend never sees or verifies the session.
package session

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by Gate.SignIn for any pair other than the configured one.
var ErrInvalidCredentials = errors.New("invalid username or password")

// FailedLoginMessage is shown on the login form after a rejected attempt.
const FailedLoginMessage = "Invalid username or password"

// Gate checks credentials against the configured pair.
// The password is kept only as a bcrypt hash.
type Gate struct {
	username []byte
	hash     []byte
}

// NewGate hashes password and returns a gate for the pair.
func NewGate(username, password string) (*Gate, error) {
	if username == "" || password == "" {
		return nil, errors.New("username and password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &Gate{username: []byte(username), hash: hash}, nil
}

// Login reports whether username and password match the configured pair exactly.
func (g *Gate) Login(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), g.username) == 1
	// Always run bcrypt so a wrong username costs the same as a wrong password.
	passOK := bcrypt.CompareHashAndPassword(g.hash, []byte(password)) == nil
	return userOK && passOK
}

// SignIn checks the pair and, on success, persists an authenticated state.
// On failure the store is left untouched.
func (g *Gate) SignIn(store Store, username, password string) (State, error) {
	if !g.Login(username, password) {
		return State{}, ErrInvalidCredentials
	}
	st := State{Authenticated: true, User: &User{Username: username}}
	if err := store.Save(st); err != nil {
		return State{}, fmt.Errorf("failed to save session: %w", err)
	}
	return st, nil
}

// SignOut clears the persisted state.
func SignOut(store Store) error {
	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
