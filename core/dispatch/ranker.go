package dispatch

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/model"
)

// urgencyRank maps a destination status to its display urgency. Lower is
// more urgent. Unmapped statuses sort last.
var urgencyRank = map[model.DestinationStatus]int{
	model.StatusError:     0,
	model.StatusPending:   1,
	model.StatusQueued:    2,
	model.StatusDraft:     3,
	model.StatusSent:      4,
	model.StatusSubmitted: 5,
	model.StatusViewed:    6,
	model.StatusQuoted:    7,
	model.StatusDeclined:  8,
}

const unmappedRank = 99

// newNameCollator orders supplier display names case-insensitively with
// locale-aware collation so operators see a stable alphabetical order.
// Collator state is not safe for concurrent use, so each sort builds its
// own instance.
func newNameCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}

// StatusRank returns the urgency rank of a status.
func StatusRank(s model.DestinationStatus) int {
	if r, ok := urgencyRank[s]; ok {
		return r
	}
	return unmappedRank
}

// SortByUrgency returns the destinations ordered by SLA risk. The order is
// a pure, deterministic total order: status urgency first, then supplier
// display name (or raw provider id) under collation, then destination id.
// Operators rely on a fixed visual order across repeated renders, so
// sorting identical input twice yields the identical sequence. The input
// slice is not modified.
func SortByUrgency(dests []model.RfqDestination) []model.RfqDestination {
	out := append([]model.RfqDestination(nil), dests...)
	col := newNameCollator()
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := StatusRank(out[i].Status), StatusRank(out[j].Status)
		if ri != rj {
			return ri < rj
		}
		if c := col.CompareString(out[i].DisplayKey(), out[j].DisplayKey()); c != 0 {
			return c < 0
		}
		return strings.Compare(out[i].ID, out[j].ID) < 0
	})
	return out
}

// CountContacted counts destinations that have left the not-yet-dispatched
// state, used to report rotation progress.
func CountContacted(dests []model.RfqDestination) int {
	n := 0
	for _, d := range dests {
		if d.Contacted() {
			n++
		}
	}
	return n
}

// CountReceived counts destinations in a terminal supplier-responded state.
func CountReceived(dests []model.RfqDestination) int {
	n := 0
	for _, d := range dests {
		if d.Received() {
			n++
		}
	}
	return n
}
