package metrics

import coremetrics "github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/metrics"

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRotation forwards the records to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordRotation(recs []coremetrics.RotationRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordRotation(recs); err != nil {
			return err
		}
	}
	return nil
}

// RecordReplyStatus forwards reply classifications.
func (m *MultiSink) RecordReplyStatus(rec coremetrics.ReplyStatusRecord) error {
	for _, s := range m.Sinks {
		if r, ok := s.(coremetrics.ReplyStatusRecorder); ok {
			if err := r.RecordReplyStatus(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordTriage forwards triage summaries.
func (m *MultiSink) RecordTriage(rec coremetrics.TriageRecord) error {
	for _, s := range m.Sinks {
		if r, ok := s.(coremetrics.TriageRecorder); ok {
			if err := r.RecordTriage(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordCapabilityMiss forwards capability misses.
func (m *MultiSink) RecordCapabilityMiss(relation string) error {
	for _, s := range m.Sinks {
		if r, ok := s.(coremetrics.CapabilityMissRecorder); ok {
			if err := r.RecordCapabilityMiss(relation); err != nil {
				return err
			}
		}
	}
	return nil
}
