package dispatch

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/capability"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/events"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/logger"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/metrics"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/model"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/opslog"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/sla"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/workflow"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/internal/eventbus"
)

// RankedSupplier pairs a supplier with its fairness score.
type RankedSupplier struct {
	Profile model.SupplierProfile `json:"profile"`
	Score   model.FairnessScore   `json:"score"`
}

// RotationResult is the outcome of one rotation ranking.
type RotationResult struct {
	RfqID  string           `json:"rfq_id"`
	Ranked []RankedSupplier `json:"ranked"`
	Time   time.Time        `json:"time"`
}

// TriageResult is the outcome of one destination urgency pass.
type TriageResult struct {
	RfqID     string                 `json:"rfq_id"`
	Ordered   []model.RfqDestination `json:"ordered"`
	Contacted int                    `json:"contacted"`
	Received  int                    `json:"received"`
	Time      time.Time              `json:"time"`
}

// RotationManager orchestrates a rotation decision end to end: capability
// gating, fairness scoring, urgency ranking, ops event recording, metrics
// and bus publication. All scoring is pure; the manager only adds the
// surrounding bookkeeping.
type RotationManager struct {
	gate    *capability.Gate
	store   opslog.Store
	metrics metrics.MetricsSink
	bus     *eventbus.Bus[any]
	logger  logger.Logger
	cfg     Config

	mu      sync.Mutex
	history []RotationResult
}

// NewRotationManager creates a new manager. The gate is mandatory; store,
// sink and bus may be nil, in which case the corresponding side effects are
// skipped.
func NewRotationManager(gate *capability.Gate, store opslog.Store, sink metrics.MetricsSink, bus *eventbus.Bus[any], log logger.Logger, cfg Config) (*RotationManager, error) {
	if gate == nil {
		return nil, fmt.Errorf("dispatch: nil capability gate provided to NewRotationManager")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("dispatch: %w", err)
	}
	return &RotationManager{
		gate:    gate,
		store:   store,
		metrics: sink,
		bus:     bus,
		logger:  log,
		cfg:     cfg,
	}, nil
}

// Rank scores each candidate and returns them ordered by fairness modifier,
// highest first, with deterministic name and id tie-breaks. The ranking is
// recorded once per RFQ as a rotation_ranked ops event when the schema
// supports it; repeat rankings for the same RFQ are not re-logged.
func (m *RotationManager) Rank(ctx context.Context, rfqID string, candidates []model.SupplierProfile, now time.Time) (RotationResult, error) {
	if strings.TrimSpace(rfqID) == "" {
		return RotationResult{}, fmt.Errorf("dispatch: rfq id is required")
	}
	for _, c := range candidates {
		if err := c.Validate(); err != nil {
			return RotationResult{}, fmt.Errorf("dispatch: %w", err)
		}
	}

	ranked := make([]RankedSupplier, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, RankedSupplier{Profile: c, Score: ComputeFairnessBoost(c, now)})
	}
	col := newNameCollator()
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score.Modifier != ranked[j].Score.Modifier {
			return ranked[i].Score.Modifier > ranked[j].Score.Modifier
		}
		if c := col.CompareString(ranked[i].Profile.DisplayKey(), ranked[j].Profile.DisplayKey()); c != 0 {
			return c < 0
		}
		return ranked[i].Profile.ID < ranked[j].Profile.ID
	})

	res := RotationResult{RfqID: rfqID, Ranked: ranked, Time: now}
	rotationsRanked.Inc()
	suppliersRanked.Add(float64(len(ranked)))
	m.logger.Infof("ranked %d suppliers for rfq %s", len(ranked), rfqID)

	m.recordRotation(res)
	m.appendRotationEvent(ctx, res)
	if m.bus != nil {
		ids := make([]string, 0, len(ranked))
		for _, r := range ranked {
			ids = append(ids, r.Profile.ID)
		}
		m.bus.Publish(events.RotationEvent{RfqID: rfqID, Suppliers: ids, Time: now})
	}
	m.remember(res)
	return res, nil
}

// Triage orders the RFQ's destinations by SLA urgency and reports rotation
// progress counts.
func (m *RotationManager) Triage(ctx context.Context, rfqID string, dests []model.RfqDestination, now time.Time) (TriageResult, error) {
	if strings.TrimSpace(rfqID) == "" {
		return TriageResult{}, fmt.Errorf("dispatch: rfq id is required")
	}
	for _, d := range dests {
		if err := d.Validate(); err != nil {
			return TriageResult{}, fmt.Errorf("dispatch: %w", err)
		}
	}

	// Triage only reads destination rows; without the relation there is
	// nothing to rank and the feature is skipped silently.
	if !m.capable(ctx, m.cfg.DestinationsDescriptor()) {
		return TriageResult{RfqID: rfqID, Time: now}, nil
	}

	res := TriageResult{
		RfqID:     rfqID,
		Ordered:   SortByUrgency(dests),
		Contacted: CountContacted(dests),
		Received:  CountReceived(dests),
		Time:      now,
	}
	destinationsSeen.Add(float64(len(dests)))
	if tr, ok := m.metrics.(metrics.TriageRecorder); ok {
		if err := tr.RecordTriage(metrics.TriageRecord{
			RfqID:     rfqID,
			Total:     len(dests),
			Contacted: res.Contacted,
			Received:  res.Received,
			Time:      now,
		}); err != nil {
			m.logger.Errorf("triage metrics error: %v", err)
		}
	}
	if m.bus != nil {
		m.bus.Publish(events.TriageEvent{RfqID: rfqID, Total: len(dests), Contacted: res.Contacted, Time: now})
	}
	return res, nil
}

// ClassifyThread derives the thread's reply obligation and records the
// classification for the ops dashboard.
func (m *RotationManager) ClassifyThread(ctx context.Context, quoteID string, messages []model.ThreadMessage, now time.Time) (model.QuoteThreadReplyStatus, error) {
	if strings.TrimSpace(quoteID) == "" {
		return model.QuoteThreadReplyStatus{}, fmt.Errorf("dispatch: quote id is required")
	}
	status := sla.Classify(messages, now)
	threadsClassified.WithLabelValues(string(status.NeedsReply), string(status.Bucket)).Inc()
	if rr, ok := m.metrics.(metrics.ReplyStatusRecorder); ok {
		if err := rr.RecordReplyStatus(metrics.ReplyStatusRecord{
			QuoteID: quoteID,
			Owner:   string(status.NeedsReply),
			Bucket:  string(status.Bucket),
			Time:    now,
		}); err != nil {
			m.logger.Errorf("reply status metrics error: %v", err)
		}
	}
	if m.bus != nil {
		m.bus.Publish(events.ReplyStatusEvent{QuoteID: quoteID, Status: status, Time: now})
	}
	return status, nil
}

// AdvanceStage normalizes the quote's current stage and advances it one
// step. It reports ok=false when the stage is terminal or unrecognized; the
// advancement is logged as a stage_advanced ops event when the schema
// supports it.
func (m *RotationManager) AdvanceStage(ctx context.Context, quoteID, current string, now time.Time) (workflow.Stage, bool, error) {
	if strings.TrimSpace(quoteID) == "" {
		return "", false, fmt.Errorf("dispatch: quote id is required")
	}
	from, ok := workflow.Normalize(current)
	if !ok {
		return "", false, nil
	}
	next, ok := workflow.Next(from)
	if !ok {
		return "", false, nil
	}
	if m.store != nil && m.capable(ctx, m.cfg.OpsDescriptor()) {
		ev := opslog.NewEvent(quoteID, opslog.TypeStageAdvanced, map[string]any{
			"from": from.String(),
			"to":   next.String(),
		}, now)
		if err := m.store.Append(ctx, ev); err != nil {
			m.logger.Errorf("stage event append failed: %v", err)
		} else if m.bus != nil {
			m.bus.Publish(ev)
		}
	}
	if m.bus != nil {
		m.bus.Publish(events.StageEvent{QuoteID: quoteID, From: from.String(), To: next.String(), Time: now})
	}
	return next, true, nil
}

// History returns a copy of the retained rotation results.
func (m *RotationManager) History() []RotationResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RotationResult(nil), m.history...)
}

// Close releases resources held by the manager.
func (m *RotationManager) Close() error {
	if m.bus != nil {
		m.bus.Close()
	}
	if m.store != nil {
		return m.store.Close()
	}
	return nil
}

// capable wraps the gate check with miss accounting.
func (m *RotationManager) capable(ctx context.Context, d capability.Descriptor) bool {
	if m.gate.IsCapable(ctx, d) {
		return true
	}
	capabilityMisses.WithLabelValues(d.Relation).Inc()
	if cm, ok := m.metrics.(metrics.CapabilityMissRecorder); ok {
		if err := cm.RecordCapabilityMiss(d.Relation); err != nil {
			m.logger.Errorf("capability metrics error: %v", err)
		}
	}
	return false
}

// appendRotationEvent records the ranking once per RFQ, skipping silently
// when the schema does not support the event log yet.
func (m *RotationManager) appendRotationEvent(ctx context.Context, res RotationResult) {
	if m.store == nil || !m.capable(ctx, m.cfg.OpsDescriptor()) {
		return
	}
	seen, err := m.store.Seen(ctx, res.RfqID, opslog.TypeRotationRanked)
	if err != nil {
		m.logger.Errorf("rotation event lookup failed: %v", err)
		return
	}
	if seen {
		m.logger.Debugf("rotation for rfq %s already recorded", res.RfqID)
		return
	}
	order := make([]map[string]any, 0, len(res.Ranked))
	for i, r := range res.Ranked {
		order = append(order, map[string]any{
			"supplier_id": r.Profile.ID,
			"modifier":    r.Score.Modifier,
			"rank":        i + 1,
		})
	}
	ev := opslog.NewEvent(res.RfqID, opslog.TypeRotationRanked, map[string]any{"ranking": order}, res.Time)
	if err := m.store.Append(ctx, ev); err != nil {
		m.logger.Errorf("rotation event append failed: %v", err)
		return
	}
	if m.bus != nil {
		m.bus.Publish(ev)
	}
}

func (m *RotationManager) recordRotation(res RotationResult) {
	recs := make([]metrics.RotationRecord, 0, len(res.Ranked))
	for i, r := range res.Ranked {
		recs = append(recs, metrics.RotationRecord{
			RfqID:      res.RfqID,
			SupplierID: r.Profile.ID,
			Modifier:   r.Score.Modifier,
			Rank:       i + 1,
			Time:       res.Time,
		})
	}
	if err := m.metrics.RecordRotation(recs); err != nil {
		m.logger.Errorf("rotation metrics error: %v", err)
	}
}

func (m *RotationManager) remember(res RotationResult) {
	if m.cfg.HistoryLimit <= 0 {
		return
	}
	m.mu.Lock()
	m.history = append(m.history, res)
	if excess := len(m.history) - m.cfg.HistoryLimit; excess > 0 {
		m.history = m.history[excess:]
	}
	m.mu.Unlock()
}
