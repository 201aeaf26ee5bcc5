package dispatch

import (
	"fmt"

	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/capability"
)

// Config defines rotation-engine settings.
type Config struct {
	// OpsEventsRelation names the relation backing the ops event log.
	OpsEventsRelation string   `json:"ops_events_relation"`
	OpsEventsColumns  []string `json:"ops_events_columns"`
	// DestinationsRelation names the dispatch-tracking relation.
	DestinationsRelation string   `json:"destinations_relation"`
	DestinationsColumns  []string `json:"destinations_columns"`
	// HistoryLimit bounds the in-memory rotation history kept for
	// inspection. Zero keeps no history.
	HistoryLimit int `json:"history_limit"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.OpsEventsRelation == "" {
		c.OpsEventsRelation = "ops_events"
	}
	if len(c.OpsEventsColumns) == 0 {
		c.OpsEventsColumns = []string{"quote_id", "event_type", "record", "ts"}
	}
	if c.DestinationsRelation == "" {
		c.DestinationsRelation = "rfq_destinations"
	}
	if len(c.DestinationsColumns) == 0 {
		c.DestinationsColumns = []string{"rfq_id", "provider_id", "status", "dispatch_started_at", "submitted_at"}
	}
	if c.HistoryLimit == 0 {
		c.HistoryLimit = 64
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must not be negative")
	}
	return nil
}

// OpsDescriptor is the schema dependency of the ops event log.
func (c Config) OpsDescriptor() capability.Descriptor {
	return capability.Descriptor{Relation: c.OpsEventsRelation, Columns: c.OpsEventsColumns}
}

// DestinationsDescriptor is the schema dependency of destination triage.
func (c Config) DestinationsDescriptor() capability.Descriptor {
	return capability.Descriptor{Relation: c.DestinationsRelation, Columns: c.DestinationsColumns}
}
