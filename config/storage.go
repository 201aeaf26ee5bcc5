package config

import "fmt"

// MetricsConfig defines settings for metrics sinks.
type MetricsConfig struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *MetricsConfig) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = "9090"
	}
}

// OpsLogConfig defines settings for the ops event store.
type OpsLogConfig struct {
	// Backend selects the store type: "memory" or "sqlite".
	Backend string `json:"backend"`
	// Path is the database location when the backend is sqlite.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *OpsLogConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.Backend == "sqlite" && c.Path == "" {
		c.Path = "ops_events.db"
	}
}

// Validate checks mandatory fields.
func (c OpsLogConfig) Validate() error {
	if c.Backend != "memory" && c.Backend != "sqlite" {
		return fmt.Errorf("unknown ops log backend %s", c.Backend)
	}
	if c.Backend == "sqlite" && c.Path == "" {
		return fmt.Errorf("ops log path is required")
	}
	return nil
}

// SchemaConfig locates the database whose schema gates engine features.
// An empty path disables live introspection; every capability then resolves
// to unsupported and gated features are skipped.
type SchemaConfig struct {
	Path string `json:"path"`
}
