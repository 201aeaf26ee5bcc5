package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	corelogger "github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/logger"
	coremetrics "github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/metrics"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/infra/logger"
)

// InfluxSink writes rotation events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      corelogger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB
// endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and returns
// a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRotation writes each ranking position as a point.
func (s *InfluxSink) RecordRotation(recs []coremetrics.RotationRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	points := make([]*write.Point, 0, len(recs))
	for _, r := range recs {
		p := influxdb2.NewPoint("rfq_rotation",
			map[string]string{
				"rfq_id":      r.RfqID,
				"supplier_id": r.SupplierID,
			},
			map[string]any{
				"modifier": r.Modifier,
				"rank":     r.Rank,
			},
			r.Time)
		points = append(points, p)
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordReplyStatus writes the classification as a point.
func (s *InfluxSink) RecordReplyStatus(rec coremetrics.ReplyStatusRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := influxdb2.NewPoint("rfq_reply_status",
		map[string]string{
			"quote_id": rec.QuoteID,
			"owner":    rec.Owner,
			"bucket":   rec.Bucket,
		},
		map[string]any{"count": 1},
		rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordTriage writes the triage summary as a point.
func (s *InfluxSink) RecordTriage(rec coremetrics.TriageRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := influxdb2.NewPoint("rfq_triage",
		map[string]string{"rfq_id": rec.RfqID},
		map[string]any{
			"total":     rec.Total,
			"contacted": rec.Contacted,
			"received":  rec.Received,
		},
		rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close shuts down the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}
