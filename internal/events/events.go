// Package events publishes domain events (group created, progress logged,
// ...) so other services can follow activity without polling.
package events

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/multierr"
)

// Event types.
const (
	GroupCreated   = "group.created"
	GroupJoined    = "group.joined"
	WorkoutCreated = "workout.created"
	ProgressLogged = "progress.logged"
)

// Event is the envelope published for every domain change.
type Event struct {
	Type       string    `json:"type"`
	GroupID    string    `json:"groupId,omitempty"`
	WorkoutID  string    `json:"workoutId,omitempty"`
	UserID     string    `json:"userId,omitempty"`
	ProgressID string    `json:"progressId,omitempty"`
	Score      int       `json:"score,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Encode returns the JSON form of the event.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events. Publishing is best effort: callers log
// failures but do not fail the operation that produced the event.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi delivers each event to every publisher and combines their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs error
	for _, p := range m {
		errs = multierr.Append(errs, p.Publish(ctx, e))
	}
	return errs
}

// Recorder keeps published events in memory; useful in tests.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.Events = append(r.Events, e)
	return nil
}

// Types returns the types of recorded events in order.
func (r *Recorder) Types() []string {
	out := make([]string, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.Type
	}
	return out
}
