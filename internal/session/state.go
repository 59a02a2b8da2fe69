package session

import (
	"encoding/json"
	"fmt"
)

// Storage keys shared by every Store.
const (
	FlagKey = "isAuthenticated"
	UserKey = "user"
)

// User is the signed-in operator.
type User struct {
	Username string `json:"username"`
}

// State is the gate's view of the current session.
type State struct {
	Authenticated bool
	User          *User
}

// Username returns the signed-in username, or "" when logged out.
func (s State) Username() string {
	if !s.Authenticated || s.User == nil {
		return ""
	}
	return s.User.Username
}

// Store persists State between requests or CLI invocations.
type Store interface {
	Load() (State, error)
	Save(State) error
	Clear() error
}

// restore rebuilds a State from the two stored values. The session is
// authenticated only when the flag is exactly "true" and the user record
// decodes. Anything else is the logged-out default.
func restore(flag string, record []byte) State {
	if flag != "true" || len(record) == 0 {
		return State{}
	}
	var u User
	if err := json.Unmarshal(record, &u); err != nil {
		return State{}
	}
	return State{Authenticated: true, User: &u}
}

// encode returns the two stored values for st.
func encode(st State) (flag string, record []byte, err error) {
	if !st.Authenticated || st.User == nil {
		return "", nil, nil
	}
	record, err = json.Marshal(st.User)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode user: %w", err)
	}
	return "true", record, nil
}
