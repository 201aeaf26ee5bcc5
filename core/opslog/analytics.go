package opslog

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// LatencySummary aggregates reply latencies for the ops dashboard.
type LatencySummary struct {
	Count int
	P50   time.Duration
	P90   time.Duration
	P99   time.Duration
}

// ReplyLatencySummary reconstructs message→reply latencies from the event
// log and summarizes them as percentiles. For each quote, every
// message_received event is paired with the next reply_sent event; unpaired
// messages are ignored. Events are expected in chronological order, as
// returned by Store.Query.
func ReplyLatencySummary(events []Event) LatencySummary {
	pending := make(map[string]time.Time)
	var latencies []float64
	for _, ev := range events {
		switch ev.Type {
		case TypeMessageReceived:
			if _, open := pending[ev.QuoteID]; !open {
				pending[ev.QuoteID] = ev.CreatedAt
			}
		case TypeReplySent:
			start, open := pending[ev.QuoteID]
			if !open || ev.CreatedAt.Before(start) {
				continue
			}
			latencies = append(latencies, ev.CreatedAt.Sub(start).Seconds())
			delete(pending, ev.QuoteID)
		}
	}
	if len(latencies) == 0 {
		return LatencySummary{}
	}
	sort.Float64s(latencies)
	quantile := func(p float64) time.Duration {
		return time.Duration(stat.Quantile(p, stat.Empirical, latencies, nil) * float64(time.Second))
	}
	return LatencySummary{
		Count: len(latencies),
		P50:   quantile(0.5),
		P90:   quantile(0.9),
		P99:   quantile(0.99),
	}
}
