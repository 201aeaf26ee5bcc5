package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/capability"
	coremetrics "github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/metrics"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/model"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/opslog"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/workflow"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/internal/eventbus"
)

func fullSchema() capability.StaticIntrospector {
	return capability.StaticIntrospector{
		"ops_events":       {"quote_id", "event_type", "record", "ts"},
		"rfq_destinations": {"rfq_id", "provider_id", "status", "dispatch_started_at", "submitted_at"},
	}
}

func newTestManager(t *testing.T, intro capability.Introspector) (*RotationManager, *opslog.MemoryStore) {
	t.Helper()
	store := opslog.NewMemoryStore()
	gate := capability.NewGate(intro, nil)
	mgr, err := NewRotationManager(gate, store, coremetrics.NopSink{}, nil, nil, Config{})
	if err != nil {
		t.Fatalf("NewRotationManager: %v", err)
	}
	return mgr, store
}

func TestRank_OrdersByModifier(t *testing.T) {
	now := time.Now()
	mgr, _ := newTestManager(t, fullSchema())

	fresh := now.Add(-5 * 24 * time.Hour)
	candidates := []model.SupplierProfile{
		{ID: "busy", AssignmentCount: 12, RecentBids: []model.BidOutcome{{Status: "declined", UpdatedAt: now.Add(-60 * 24 * time.Hour)}}},
		{ID: "new", AssignmentCount: 0, CreatedAt: &fresh},
		{ID: "mid", AssignmentCount: 5, RecentBids: []model.BidOutcome{{Status: "declined", UpdatedAt: now.Add(-60 * 24 * time.Hour)}}},
	}
	res, err := mgr.Rank(context.Background(), "rfq-1", candidates, now)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if res.Ranked[0].Profile.ID != "new" || res.Ranked[2].Profile.ID != "busy" {
		t.Errorf("unexpected order: %s, %s, %s",
			res.Ranked[0].Profile.ID, res.Ranked[1].Profile.ID, res.Ranked[2].Profile.ID)
	}
}

func TestRank_BlankRfqIDFails(t *testing.T) {
	mgr, _ := newTestManager(t, fullSchema())
	if _, err := mgr.Rank(context.Background(), "  ", nil, time.Now()); err == nil {
		t.Fatal("expected error for blank rfq id")
	}
}

func TestRank_EventRecordedOnce(t *testing.T) {
	now := time.Now()
	mgr, store := newTestManager(t, fullSchema())
	candidates := []model.SupplierProfile{{ID: "s1", AssignmentCount: 1}}

	for i := 0; i < 3; i++ {
		if _, err := mgr.Rank(context.Background(), "rfq-1", candidates, now); err != nil {
			t.Fatalf("Rank: %v", err)
		}
	}
	evs, err := store.Query(context.Background(), opslog.Query{QuoteID: "rfq-1", Type: opslog.TypeRotationRanked})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(evs) != 1 {
		t.Errorf("rotation events = %d, want exactly 1", len(evs))
	}
}

func TestRank_SkipsEventWithoutCapability(t *testing.T) {
	mgr, store := newTestManager(t, capability.StaticIntrospector{})
	res, err := mgr.Rank(context.Background(), "rfq-1", []model.SupplierProfile{{ID: "s1"}}, time.Now())
	if err != nil {
		t.Fatalf("Rank should succeed without the ops_events relation: %v", err)
	}
	if len(res.Ranked) != 1 {
		t.Fatalf("ranking missing")
	}
	evs, _ := store.Query(context.Background(), opslog.Query{})
	if len(evs) != 0 {
		t.Errorf("expected no events on incapable schema, got %d", len(evs))
	}
}

func TestTriage_SkipsWithoutCapability(t *testing.T) {
	mgr, _ := newTestManager(t, capability.StaticIntrospector{})
	res, err := mgr.Triage(context.Background(), "rfq-1", []model.RfqDestination{dest("1", model.StatusError)}, time.Now())
	if err != nil {
		t.Fatalf("Triage: %v", err)
	}
	if len(res.Ordered) != 0 {
		t.Errorf("expected empty ordering when destinations relation is unsupported")
	}
}

func TestTriage_CountsAndOrder(t *testing.T) {
	mgr, _ := newTestManager(t, fullSchema())
	in := []model.RfqDestination{
		dest("1", model.StatusQuoted),
		dest("2", model.StatusError),
		dest("3", model.StatusDraft),
	}
	res, err := mgr.Triage(context.Background(), "rfq-1", in, time.Now())
	if err != nil {
		t.Fatalf("Triage: %v", err)
	}
	if res.Ordered[0].Status != model.StatusError {
		t.Errorf("most urgent first, got %v", res.Ordered[0].Status)
	}
	if res.Contacted != 2 || res.Received != 1 {
		t.Errorf("contacted=%d received=%d, want 2 and 1", res.Contacted, res.Received)
	}
}

func TestClassifyThread_PublishesStatus(t *testing.T) {
	now := time.Now().UTC()
	bus := eventbus.New[any]()
	defer bus.Close()
	store := opslog.NewMemoryStore()
	gate := capability.NewGate(fullSchema(), nil)
	mgr, err := NewRotationManager(gate, store, coremetrics.NopSink{}, bus, nil, Config{})
	if err != nil {
		t.Fatalf("NewRotationManager: %v", err)
	}
	sub := bus.Subscribe()

	msgs := []model.ThreadMessage{{CreatedAt: now.Add(-time.Hour).Format(time.RFC3339), SenderRole: "customer"}}
	status, err := mgr.ClassifyThread(context.Background(), "q-1", msgs, now)
	if err != nil {
		t.Fatalf("ClassifyThread: %v", err)
	}
	if status.NeedsReply != model.ReplyAdmin || status.Bucket != model.BucketUnder2h {
		t.Errorf("status = %+v", status)
	}
	select {
	case <-sub:
	default:
		t.Error("expected a reply status event on the bus")
	}
}

func TestAdvanceStage(t *testing.T) {
	now := time.Now()
	mgr, store := newTestManager(t, fullSchema())

	next, ok, err := mgr.AdvanceStage(context.Background(), "q-1", "PRICING", now)
	if err != nil || !ok {
		t.Fatalf("AdvanceStage: ok=%v err=%v", ok, err)
	}
	if next != workflow.StageApproved {
		t.Errorf("next = %v, want approved", next)
	}

	if _, ok, _ := mgr.AdvanceStage(context.Background(), "q-1", "delivered", now); ok {
		t.Error("delivered must be terminal")
	}
	if _, ok, _ := mgr.AdvanceStage(context.Background(), "q-1", "bogus_state", now); ok {
		t.Error("unrecognized stage must not advance")
	}

	evs, _ := store.Query(context.Background(), opslog.Query{QuoteID: "q-1", Type: opslog.TypeStageAdvanced})
	if len(evs) != 1 {
		t.Errorf("stage events = %d, want 1", len(evs))
	}
}

func TestHistoryBounded(t *testing.T) {
	store := opslog.NewMemoryStore()
	gate := capability.NewGate(fullSchema(), nil)
	mgr, err := NewRotationManager(gate, store, coremetrics.NopSink{}, nil, nil, Config{HistoryLimit: 2})
	if err != nil {
		t.Fatalf("NewRotationManager: %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := mgr.Rank(context.Background(), "rfq-1", nil, time.Now()); err != nil {
			t.Fatalf("Rank: %v", err)
		}
	}
	if got := len(mgr.History()); got != 2 {
		t.Errorf("history length = %d, want 2", got)
	}
}
