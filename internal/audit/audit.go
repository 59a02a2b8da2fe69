// Package audit publishes a record of every catalog mutation made through
// the console.
//
// Publishing is best effort: failures are logged and never reach the
// operator, and a mutation is never rolled back because its event was lost.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Actions recorded for console mutations.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionReturn = "return"
)

// Event describes one successful mutation.
type Event struct {
	ID       string    `json:"id"`
	Action   string    `json:"action"`
	Entity   string    `json:"entity"`
	EntityID string    `json:"entity_id"`
	Actor    string    `json:"actor"`
	At       time.Time `json:"at"`
}

// NewEvent stamps a new event with a random id and the current time.
func NewEvent(action, entity, entityID, actor string) Event {
	return Event{
		ID:       uuid.NewString(),
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Actor:    actor,
		At:       time.Now().UTC(),
	}
}

// Publisher sends events somewhere. Publish must not block the caller for long.
type Publisher interface {
	Publish(ctx context.Context, e Event)
	Close() error
}

// Nop drops every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
func (Nop) Close() error                   { return nil }

// Recorder keeps events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of what has been published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
