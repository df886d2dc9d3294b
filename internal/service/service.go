// Package service implements the group, workout, progress, leaderboard
// and authentication operations on top of the store.
package service

import (
	"context"
	"time"

	"alcyxob/group-fitness/internal/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Deps are the collaborators shared by all services.
type Deps struct {
	Events events.Publisher
	Now    func() time.Time
	NewID  func() string
}

func (d Deps) withDefaults() Deps {
	if d.Events == nil {
		d.Events = events.Nop{}
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	return d
}

func (d Deps) publish(ctx context.Context, e events.Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = d.Now()
	}
	if err := d.Events.Publish(ctx, e); err != nil {
		log.Warnf("publish %s event: %v", e.Type, err)
	}
}
