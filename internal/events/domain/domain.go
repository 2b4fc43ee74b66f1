package domain

import (
	"context"
	"time"
)

// Event represents an audit event.
// Type examples: "notify.run.completed", "license.created", "settings.updated"
// Meta may contain counts, identifiers, recipient addresses, etc.
type Event struct {
	Type string
	Meta map[string]string
	Time time.Time
}

// Publisher publishes events to an external system (log, queue, etc.).
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}
