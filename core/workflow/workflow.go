// Package workflow canonicalizes and advances a quote's lifecycle stage.
package workflow

import "strings"

// Stage is one step of the quote lifecycle.
type Stage string

const (
	StageSubmitted        Stage = "submitted"
	StageReviewing        Stage = "reviewing"
	StageSupplierMatching Stage = "supplier_matching"
	StageQuoted           Stage = "quoted"
	StageApproved         Stage = "approved"
	StageInProduction     Stage = "in_production"
	StageShipped          Stage = "shipped"
	StageDelivered        Stage = "delivered"
)

// order is the strict total order of the lifecycle. Advancement is forward
// one step at a time; this API never skips or regresses.
var order = []Stage{
	StageSubmitted,
	StageReviewing,
	StageSupplierMatching,
	StageQuoted,
	StageApproved,
	StageInProduction,
	StageShipped,
	StageDelivered,
}

// tokens maps every accepted input token, canonical or legacy alias, onto
// the closed stage set.
var tokens = map[string]Stage{
	"submitted":         StageSubmitted,
	"new":               StageSubmitted,
	"reviewing":         StageReviewing,
	"review":            StageReviewing,
	"supplier_matching": StageSupplierMatching,
	"matching":          StageSupplierMatching,
	"quoted":            StageQuoted,
	"pricing":           StageQuoted,
	"approved":          StageApproved,
	"greenlit":          StageApproved,
	"in_production":     StageInProduction,
	"production":        StageInProduction,
	"shipped":           StageShipped,
	"shipping":          StageShipped,
	"delivered":         StageDelivered,
	"complete":          StageDelivered,
	"done":              StageDelivered,
}

func (s Stage) String() string { return string(s) }

// Normalize maps a raw stage token onto the canonical stage set. It reports
// ok=false for anything unrecognized; callers must treat that as "state
// unknown" and not assume a transition occurred.
func Normalize(raw string) (Stage, bool) {
	s, ok := tokens[strings.ToLower(strings.TrimSpace(raw))]
	return s, ok
}

// Next returns the single stage following current. It reports ok=false when
// current is terminal or unrecognized.
func Next(current Stage) (Stage, bool) {
	for i, s := range order {
		if s == current && i+1 < len(order) {
			return order[i+1], true
		}
	}
	return "", false
}

// Stages returns the lifecycle in order.
func Stages() []Stage {
	return append([]Stage(nil), order...)
}

// Index returns the position of the stage in the lifecycle, or -1 when the
// stage is unrecognized.
func Index(s Stage) int {
	for i, st := range order {
		if st == s {
			return i
		}
	}
	return -1
}
