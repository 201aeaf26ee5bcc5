package model

import (
	"fmt"
	"time"
)

// DestinationStatus is the dispatch lifecycle state of one (RFQ, supplier)
// pairing. The dispatch subsystem owns the transitions; this engine only
// reads and ranks them.
type DestinationStatus string

const (
	StatusDraft     DestinationStatus = "draft"
	StatusPending   DestinationStatus = "pending"
	StatusQueued    DestinationStatus = "queued"
	StatusSent      DestinationStatus = "sent"
	StatusSubmitted DestinationStatus = "submitted"
	StatusViewed    DestinationStatus = "viewed"
	StatusQuoted    DestinationStatus = "quoted"
	StatusDeclined  DestinationStatus = "declined"
	StatusError     DestinationStatus = "error"
)

// RfqDestination records one supplier having been (or being about to be)
// dispatched an RFQ. Destinations are never deleted, only transitioned.
type RfqDestination struct {
	ID           string            `json:"id"`
	RfqID        string            `json:"rfq_id"`
	ProviderID   string            `json:"provider_id"`
	ProviderName string            `json:"provider_name,omitempty"`
	Status       DestinationStatus `json:"status"`
	// DispatchStartedAt is set once delivery to the supplier begins.
	DispatchStartedAt *time.Time `json:"dispatch_started_at,omitempty"`
	// SubmittedAt is set when the supplier submits a response.
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Validate checks the mandatory identifiers. A blank identifier is a caller
// bug, not a data condition, and is reported loudly.
func (d RfqDestination) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("destination id is required")
	}
	if d.RfqID == "" {
		return fmt.Errorf("destination %s: rfq id is required", d.ID)
	}
	if d.ProviderID == "" {
		return fmt.Errorf("destination %s: provider id is required", d.ID)
	}
	return nil
}

// Contacted reports whether the destination has left the not-yet-dispatched
// state: either delivery started or the status implies the supplier was
// reached.
func (d RfqDestination) Contacted() bool {
	if d.DispatchStartedAt != nil {
		return true
	}
	switch d.Status {
	case StatusQueued, StatusSent, StatusSubmitted, StatusViewed,
		StatusQuoted, StatusDeclined, StatusError:
		return true
	}
	return false
}

// Received reports whether the supplier responded, in either direction.
func (d RfqDestination) Received() bool {
	return d.Status == StatusQuoted || d.Status == StatusDeclined
}

// ActivityTimestamp returns the most recent known activity for display:
// submission time if present, else dispatch start, else nil.
func (d RfqDestination) ActivityTimestamp() *time.Time {
	if d.SubmittedAt != nil {
		return d.SubmittedAt
	}
	if d.DispatchStartedAt != nil {
		return d.DispatchStartedAt
	}
	return nil
}

// DisplayKey returns the value used for name-based ordering: the supplier
// display name when present, else the raw provider identifier.
func (d RfqDestination) DisplayKey() string {
	if d.ProviderName != "" {
		return d.ProviderName
	}
	return d.ProviderID
}
