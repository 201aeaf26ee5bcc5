package dispatch

import (
	"math"
	"testing"
	"time"

	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/model"
)

func TestComputeFairnessBoost_UnderExposed(t *testing.T) {
	now := time.Now()
	for _, count := range []int{0, 1, 2} {
		p := model.SupplierProfile{ID: "s1", AssignmentCount: count, RecentBids: []model.BidOutcome{{Status: "declined", UpdatedAt: now.Add(-90 * 24 * time.Hour)}}}
		score := ComputeFairnessBoost(p, now)
		if score.Modifier < 1.0 {
			t.Errorf("assignmentCount=%d: modifier = %v, want >= 1.0", count, score.Modifier)
		}
		if score.Reasons[0] != ReasonUnderExposed {
			t.Errorf("assignmentCount=%d: first reason = %q", count, score.Reasons[0])
		}
	}
}

func TestComputeFairnessBoost_OverExposed(t *testing.T) {
	now := time.Now()
	old := now.Add(-60 * 24 * time.Hour)
	for _, count := range []int{8, 9, 20} {
		p := model.SupplierProfile{
			ID:              "s1",
			AssignmentCount: count,
			RecentBids:      []model.BidOutcome{{Status: "declined", UpdatedAt: old}},
		}
		score := ComputeFairnessBoost(p, now)
		if score.Modifier != -0.5 {
			t.Errorf("assignmentCount=%d: modifier = %v, want -0.5", count, score.Modifier)
		}
	}
}

func TestComputeFairnessBoost_MidExposureNeutral(t *testing.T) {
	now := time.Now()
	old := now.Add(-60 * 24 * time.Hour)
	for _, count := range []int{3, 5, 7} {
		p := model.SupplierProfile{
			ID:              "s1",
			AssignmentCount: count,
			RecentBids:      []model.BidOutcome{{Status: "declined", UpdatedAt: old}},
		}
		score := ComputeFairnessBoost(p, now)
		if score.Modifier != 0 {
			t.Errorf("assignmentCount=%d: modifier = %v, want 0", count, score.Modifier)
		}
		if len(score.Reasons) != 0 {
			t.Errorf("assignmentCount=%d: reasons = %v, want none", count, score.Reasons)
		}
	}
}

func TestComputeFairnessBoost_EngagementCapped(t *testing.T) {
	now := time.Now()
	var bids []model.BidOutcome
	for i := 0; i < 10; i++ {
		bids = append(bids, model.BidOutcome{Status: "declined", UpdatedAt: now.Add(-time.Hour)})
	}
	p := model.SupplierProfile{ID: "s1", AssignmentCount: 5, RecentBids: bids}
	score := ComputeFairnessBoost(p, now)
	if score.Modifier != 1.2 {
		t.Errorf("modifier = %v, want engagement capped at 1.2", score.Modifier)
	}
}

func TestComputeFairnessBoost_AcceptedAndStaleBidsIgnored(t *testing.T) {
	now := time.Now()
	p := model.SupplierProfile{
		ID:              "s1",
		AssignmentCount: 5,
		RecentBids: []model.BidOutcome{
			{Status: "accepted", UpdatedAt: now.Add(-time.Hour)},
			{Status: "", UpdatedAt: now.Add(-time.Hour)},
			{Status: "declined", UpdatedAt: now.Add(-45 * 24 * time.Hour)},
		},
	}
	score := ComputeFairnessBoost(p, now)
	if score.Modifier != 0 {
		t.Errorf("modifier = %v, want 0 when no bid counts as recent engagement", score.Modifier)
	}
}

func TestComputeFairnessBoost_NewSupplierScenario(t *testing.T) {
	now := time.Now()
	created := now.Add(-10 * 24 * time.Hour)
	p := model.SupplierProfile{ID: "s1", AssignmentCount: 0, CreatedAt: &created}
	score := ComputeFairnessBoost(p, now)
	want := 1.0 + 0.4 + 0.8
	if math.Abs(score.Modifier-want) > 1e-9 {
		t.Errorf("modifier = %v, want %v", score.Modifier, want)
	}
	if len(score.Reasons) != 3 {
		t.Fatalf("reasons = %v, want 3 entries", score.Reasons)
	}
	wantReasons := []string{ReasonUnderExposed, ReasonColdStart, ReasonFreshTenure}
	for i, r := range wantReasons {
		if score.Reasons[i] != r {
			t.Errorf("reason[%d] = %q, want %q", i, score.Reasons[i], r)
		}
	}
}

func TestComputeFairnessBoost_TenureBoundary(t *testing.T) {
	now := time.Now()
	old := now.Add(-46 * 24 * time.Hour)
	p := model.SupplierProfile{
		ID:              "s1",
		AssignmentCount: 5,
		RecentBids:      []model.BidOutcome{{Status: "declined", UpdatedAt: now.Add(-60 * 24 * time.Hour)}},
		CreatedAt:       &old,
	}
	if score := ComputeFairnessBoost(p, now); score.Modifier != 0 {
		t.Errorf("modifier = %v, want 0 for a 46-day-old supplier", score.Modifier)
	}
}
