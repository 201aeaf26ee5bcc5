package app

import (
	"context"
	"fmt"

	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/config"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/capability"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/dispatch"
	corelogger "github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/logger"
	coremetrics "github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/metrics"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/opslog"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/infra/logger"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/infra/metrics"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/infra/notify"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/infra/schema"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/internal/eventbus"
)

// Service wires the rotation engine to its stores, sinks and collaborators.
type Service struct {
	Manager *dispatch.RotationManager
	Gate    *capability.Gate

	bus         *eventbus.Bus[any]
	store       opslog.Store
	intro       *schema.SQLiteIntrospector
	publisher   notify.Publisher
	log         corelogger.Logger
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket)
		sinks = append(sinks, sink)
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	var store opslog.Store
	var err error
	switch cfg.OpsLog.Backend {
	case "sqlite":
		store, err = opslog.NewSQLiteStore(cfg.OpsLog.Path)
		if err != nil {
			return nil, fmt.Errorf("ops log store: %w", err)
		}
	default:
		store = opslog.NewMemoryStore()
	}

	svc := &Service{
		store:       store,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}

	var intro capability.Introspector
	if cfg.Schema.Path != "" {
		si, err := schema.NewSQLiteIntrospector(cfg.Schema.Path)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("schema introspector: %w", err)
		}
		svc.intro = si
		intro = si
	} else {
		// No live schema configured: every capability resolves to
		// unsupported and gated features are skipped.
		intro = capability.StaticIntrospector{}
	}
	svc.Gate = capability.NewGate(intro, logger.New("capability"))

	svc.bus = eventbus.New[any]()
	manager, err := dispatch.NewRotationManager(svc.Gate, store, sink, svc.bus, logger.New("rotation"), cfg.Dispatch)
	if err != nil {
		svc.closeInfra()
		return nil, fmt.Errorf("rotation manager: %w", err)
	}
	svc.Manager = manager

	if cfg.Notify.Enabled {
		pub, err := notify.NewPahoPublisher(cfg.Notify)
		if err != nil {
			svc.closeInfra()
			return nil, fmt.Errorf("notify publisher: %w", err)
		}
		svc.publisher = pub
	}
	return svc, nil
}

// Run starts the background surfaces and blocks until the context is
// cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.publisher != nil {
		go notify.Forward(ctx, s.bus, s.publisher, s.log)
	}
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	<-ctx.Done()
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.publisher != nil {
		s.publisher.Close()
	}
	if s.Manager != nil {
		// Manager owns the bus and store.
		if err := s.Manager.Close(); err != nil {
			return err
		}
	}
	if s.intro != nil {
		return s.intro.Close()
	}
	return nil
}

func (s *Service) closeInfra() {
	if s.store != nil {
		_ = s.store.Close()
	}
	if s.intro != nil {
		_ = s.intro.Close()
	}
	if s.bus != nil {
		s.bus.Close()
	}
}
