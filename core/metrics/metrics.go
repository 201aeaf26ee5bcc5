// Package metrics defines the observability sinks fed by the rotation
// engine. Implementations live in infra/metrics.
package metrics

import "time"

// RotationRecord represents one supplier's position in a rotation ranking.
type RotationRecord struct {
	RfqID      string
	SupplierID string
	Modifier   float64
	Rank       int
	Time       time.Time
}

// MetricsSink records rotation rankings for observability purposes.
type MetricsSink interface {
	RecordRotation(recs []RotationRecord) error
}

// ReplyStatusRecord is a snapshot of one thread's reply obligation.
type ReplyStatusRecord struct {
	QuoteID string
	Owner   string
	Bucket  string
	Time    time.Time
}

// ReplyStatusRecorder records thread reply classifications.
type ReplyStatusRecorder interface {
	RecordReplyStatus(rec ReplyStatusRecord) error
}

// TriageRecord summarizes one urgency-ranking pass over an RFQ's
// destinations.
type TriageRecord struct {
	RfqID     string
	Total     int
	Contacted int
	Received  int
	Time      time.Time
}

// TriageRecorder records destination triage passes.
type TriageRecorder interface {
	RecordTriage(rec TriageRecord) error
}

// CapabilityMissRecorder records capability checks that resolved to false.
type CapabilityMissRecorder interface {
	RecordCapabilityMiss(relation string) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordRotation([]RotationRecord) error     { return nil }
func (NopSink) RecordReplyStatus(ReplyStatusRecord) error { return nil }
func (NopSink) RecordTriage(TriageRecord) error           { return nil }
func (NopSink) RecordCapabilityMiss(string) error         { return nil }
