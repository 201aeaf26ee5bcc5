package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/metrics"
)

// PromSink records rotation events in Prometheus metrics.
type PromSink struct {
	rotations *prometheus.CounterVec
	modifier  *prometheus.HistogramVec
	replies   *prometheus.CounterVec
	contacted *prometheus.GaugeVec
	misses    *prometheus.CounterVec
}

// NewPromSink registers rotation metrics on the default Prometheus
// registerer. The exposition server is started separately with
// StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	rotations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rfq_rotation_positions_total",
		Help: "Supplier positions recorded across rotation rankings",
	}, []string{"supplier_id"})
	modifier := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rfq_fairness_modifier",
		Help:    "Distribution of fairness modifiers applied to suppliers",
		Buckets: []float64{-0.5, 0, 0.4, 0.8, 1.0, 1.5, 2.0, 2.5, 3.4},
	}, []string{"supplier_id"})
	replies := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rfq_reply_status_total",
		Help: "Thread reply classifications by owner and SLA bucket",
	}, []string{"owner", "bucket"})
	contacted := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rfq_destinations_contacted",
		Help: "Contacted destinations observed in the latest triage pass",
	}, []string{"rfq_id"})
	misses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rfq_schema_capability_misses_total",
		Help: "Capability checks resolved to unsupported, by relation",
	}, []string{"relation"})

	collectors := []prometheus.Collector{rotations, modifier, replies, contacted, misses}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				collectors[i] = are.ExistingCollector
				continue
			}
			return nil, err
		}
	}
	return &PromSink{
		rotations: collectors[0].(*prometheus.CounterVec),
		modifier:  collectors[1].(*prometheus.HistogramVec),
		replies:   collectors[2].(*prometheus.CounterVec),
		contacted: collectors[3].(*prometheus.GaugeVec),
		misses:    collectors[4].(*prometheus.CounterVec),
	}, nil
}

// RecordRotation implements coremetrics.MetricsSink.
func (s *PromSink) RecordRotation(recs []coremetrics.RotationRecord) error {
	for _, r := range recs {
		s.rotations.WithLabelValues(r.SupplierID).Inc()
		s.modifier.WithLabelValues(r.SupplierID).Observe(r.Modifier)
	}
	return nil
}

// RecordReplyStatus implements coremetrics.ReplyStatusRecorder.
func (s *PromSink) RecordReplyStatus(rec coremetrics.ReplyStatusRecord) error {
	s.replies.WithLabelValues(rec.Owner, rec.Bucket).Inc()
	return nil
}

// RecordTriage implements coremetrics.TriageRecorder.
func (s *PromSink) RecordTriage(rec coremetrics.TriageRecord) error {
	s.contacted.WithLabelValues(rec.RfqID).Set(float64(rec.Contacted))
	return nil
}

// RecordCapabilityMiss implements coremetrics.CapabilityMissRecorder.
func (s *PromSink) RecordCapabilityMiss(relation string) error {
	s.misses.WithLabelValues(relation).Inc()
	return nil
}

// StartPromServer serves the Prometheus exposition endpoint on the given
// port until the context is cancelled.
func StartPromServer(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: ":" + port, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
