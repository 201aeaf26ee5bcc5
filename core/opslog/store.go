// Package opslog is the append-only record of domain events. The engine
// treats it as a write-once log for idempotency checks and exposes it to
// external notification and audit collaborators.
package opslog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Well-known event types. Type is an open string tag; collaborators may
// append events with their own tags.
const (
	TypeRotationRanked  = "rotation_ranked"
	TypeMessageReceived = "message_received"
	TypeReplySent       = "reply_sent"
	TypeStageAdvanced   = "stage_advanced"
)

// Event is one append-only domain event.
type Event struct {
	ID        string         `json:"id"`
	QuoteID   string         `json:"quote_id"`
	Type      string         `json:"event_type"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewEvent builds an event with a fresh id.
func NewEvent(quoteID, eventType string, payload map[string]any, at time.Time) Event {
	return Event{
		ID:        uuid.NewString(),
		QuoteID:   quoteID,
		Type:      eventType,
		Payload:   payload,
		CreatedAt: at,
	}
}

// Validate checks the mandatory fields.
func (e Event) Validate() error {
	if e.QuoteID == "" {
		return fmt.Errorf("ops event: quote id is required")
	}
	if e.Type == "" {
		return fmt.Errorf("ops event: event type is required")
	}
	return nil
}

// Query defines filters for retrieving events.
type Query struct {
	QuoteID string
	Type    string
	Start   time.Time
	End     time.Time
}

// Store persists events and supports querying. Events are never updated or
// deleted.
type Store interface {
	Append(ctx context.Context, ev Event) error
	Query(ctx context.Context, q Query) ([]Event, error)
	// Seen reports whether any event of the given type exists for the
	// quote, e.g. "was a notification already sent for this milestone".
	Seen(ctx context.Context, quoteID, eventType string) (bool, error)
	Close() error
}
