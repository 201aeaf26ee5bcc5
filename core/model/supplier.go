package model

import (
	"fmt"
	"time"
)

// BidOutcome is one entry of a supplier's recent bidding history.
type BidOutcome struct {
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SupplierProfile holds the exposure facts a fairness calculation needs.
// It is derived from the supplier-profile store per calculation and never
// persisted by this engine.
type SupplierProfile struct {
	ID              string       `json:"id"`
	Name            string       `json:"name,omitempty"`
	AssignmentCount int          `json:"assignment_count"`
	RecentBids      []BidOutcome `json:"recent_bids,omitempty"`
	CreatedAt       *time.Time   `json:"created_at,omitempty"`
}

// Validate checks the mandatory supplier identifier.
func (p SupplierProfile) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("supplier id is required")
	}
	if p.AssignmentCount < 0 {
		return fmt.Errorf("supplier %s: assignment count must not be negative", p.ID)
	}
	return nil
}

// DisplayKey returns the supplier display name when present, else the id.
func (p SupplierProfile) DisplayKey() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// FairnessScore is the additive rotation-priority adjustment for one
// supplier, with one fixed reason string per rule that fired, in firing
// order. The modifier is uncapped; the ranking caller owns scale
// calibration against its base relevance score.
type FairnessScore struct {
	Modifier float64  `json:"modifier"`
	Reasons  []string `json:"reasons"`
}
