package dispatch

import (
	"math"
	"time"

	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/model"
)

// Fairness rule constants. The modifier is additive and uncapped; the
// ranking caller merges it into a base relevance score computed elsewhere.
const (
	underExposedMax    = 2
	overExposedMin     = 8
	underExposedBoost  = 1.0
	overExposedPenalty = 0.5
	engagementStep     = 0.3
	engagementCap      = 1.2
	coldStartBoost     = 0.4
	tenureBoost        = 0.8
	engagementWindow   = 30 * 24 * time.Hour
	freshTenureWindow  = 45 * 24 * time.Hour
	acceptedBidOutcome = "accepted"
)

// Fixed reason strings, one per rule, appended in firing order.
const (
	ReasonUnderExposed = "under-exposed, boost"
	ReasonOverExposed  = "over-exposed, penalize"
	ReasonEngaged      = "recently engaged, not selected"
	ReasonColdStart    = "new to bidding"
	ReasonFreshTenure  = "recently onboarded supplier"
)

// ComputeFairnessBoost computes a supplier's rotation-priority modifier
// from exposure history and tenure. It exists to prevent starvation
// (contacted-but-never-selected suppliers get compensating priority) and
// monopolization (over-contacted suppliers get throttled). The caller
// injects now; the function is pure.
func ComputeFairnessBoost(p model.SupplierProfile, now time.Time) model.FairnessScore {
	var score model.FairnessScore

	switch {
	case p.AssignmentCount <= underExposedMax:
		score.Modifier += underExposedBoost
		score.Reasons = append(score.Reasons, ReasonUnderExposed)
	case p.AssignmentCount >= overExposedMin:
		score.Modifier -= overExposedPenalty
		score.Reasons = append(score.Reasons, ReasonOverExposed)
	}

	cutoff := now.Add(-engagementWindow)
	recent := 0
	for _, b := range p.RecentBids {
		if b.Status == "" || b.Status == acceptedBidOutcome {
			continue
		}
		if b.UpdatedAt.After(cutoff) {
			recent++
		}
	}
	if recent > 0 {
		score.Modifier += math.Min(engagementCap, float64(recent)*engagementStep)
		score.Reasons = append(score.Reasons, ReasonEngaged)
	}

	if len(p.RecentBids) == 0 {
		score.Modifier += coldStartBoost
		score.Reasons = append(score.Reasons, ReasonColdStart)
	}

	if p.CreatedAt != nil && p.CreatedAt.After(now.Add(-freshTenureWindow)) {
		score.Modifier += tenureBoost
		score.Reasons = append(score.Reasons, ReasonFreshTenure)
	}

	return score
}
