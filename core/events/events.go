// Package events defines the domain events published on the internal bus.
package events

import (
	"time"

	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/model"
)

// RotationEvent is published after a rotation ranking completes.
type RotationEvent struct {
	RfqID     string
	Suppliers []string
	Time      time.Time
}

// TriageEvent is published after a destination urgency-ranking pass.
type TriageEvent struct {
	RfqID     string
	Total     int
	Contacted int
	Time      time.Time
}

// StageEvent is published when a quote lifecycle stage advances.
type StageEvent struct {
	QuoteID string
	From    string
	To      string
	Time    time.Time
}

// ReplyStatusEvent is published when a thread classification changes the
// reply obligation.
type ReplyStatusEvent struct {
	QuoteID string
	Status  model.QuoteThreadReplyStatus
	Time    time.Time
}
