package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	rotationsRanked   prometheus.Counter
	suppliersRanked   prometheus.Counter
	threadsClassified *prometheus.CounterVec
	capabilityMisses  *prometheus.CounterVec
	destinationsSeen  prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (prometheus.Counter, prometheus.Counter, *prometheus.CounterVec, *prometheus.CounterVec, prometheus.Counter) {
	rot := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rfq_rotations_ranked_total",
			Help: "Number of rotation rankings computed",
		},
	)
	sup := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rfq_suppliers_ranked_total",
			Help: "Number of supplier candidates scored across rankings",
		},
	)
	cls := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rfq_threads_classified_total",
			Help: "Number of thread reply classifications",
		},
		[]string{"owner", "bucket"},
	)
	miss := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rfq_capability_misses_total",
			Help: "Number of capability checks that resolved to unsupported",
		},
		[]string{"relation"},
	)
	dst := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rfq_destinations_triaged_total",
			Help: "Number of destinations passed through urgency triage",
		},
	)
	return rot, sup, cls, miss, dst
}

func init() {
	rotationsRanked, suppliersRanked, threadsClassified, capabilityMisses, destinationsSeen = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers rotation metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(rotationsRanked, suppliersRanked, threadsClassified, capabilityMisses, destinationsSeen)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	rotationsRanked, suppliersRanked, threadsClassified, capabilityMisses, destinationsSeen = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
