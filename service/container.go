/*
 * @module service/container
 * @description Builds and owns every QC service: database, stores, recorder, automation and integrations
 * @architecture Dependency injection container - composition root of the service layer
 * @stateFlow NewContainer (connect, migrate, wire) -> Start (snapshot, jobs, ingest) -> Close
 * @rules No package-level state; optional integrations are wired only when enabled in config
 * @dependencies gorm.io/gorm, github.com/prometheus/client_golang, ceramiqc/service/*
 * @refs main.go, api/routes.go
 */

package service

import (
	"ceramiqc/service/automation"
	"ceramiqc/service/catalog"
	"ceramiqc/service/compliance"
	"ceramiqc/service/config"
	"ceramiqc/service/controlsheet"
	"ceramiqc/service/database"
	"ceramiqc/service/distributed_lock"
	"ceramiqc/service/event"
	"ceramiqc/service/ingest"
	"ceramiqc/service/measurement"
	"ceramiqc/service/metrics"
	"ceramiqc/service/scheduling"
	"ceramiqc/service/specification"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// Container holds the wired services.
type Container struct {
	Config     *config.Config
	DB         *gorm.DB
	Location   *time.Location
	Now        func() time.Time
	Metrics    *metrics.Collector
	Specs      *specification.Store
	Evaluator  *compliance.Evaluator
	Catalog    *catalog.Catalog
	Scheduler  *scheduling.Scheduler
	Recorder   *measurement.Recorder
	Sheets     *controlsheet.Service
	Automation *automation.Runner
	Publisher  event.Publisher
	Ingestor   *ingest.Ingestor
	Lock       distributed_lock.DistributedLock

	closers []func() error
}

// ContainerOption adjusts NewContainerWithDB.
type ContainerOption func(*Container)

// WithClock replaces the wall clock of every service.
func WithClock(now func() time.Time) ContainerOption {
	return func(c *Container) { c.Now = now }
}

// NewContainer connects to the configured database, migrates it and wires
// every service.
func NewContainer(cfg *config.Config, reg prometheus.Registerer) (*Container, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}
	c, err := NewContainerWithDB(cfg, db, reg)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})
	return c, nil
}

// NewContainerWithDB wires the services over an already migrated db.
func NewContainerWithDB(cfg *config.Config, db *gorm.DB, reg prometheus.Registerer, opts ...ContainerOption) (*Container, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	c := &Container{
		Config:   cfg,
		DB:       db,
		Location: loc,
		Now:      func() time.Time { return time.Now().In(loc) },
		Metrics:  metrics.NewCollector(reg),
	}
	for _, opt := range opts {
		opt(c)
	}
	now := c.Now

	if cfg.Redis.Enabled {
		lock, err := distributed_lock.NewRedisLock(distributed_lock.RedisOptions{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		c.Lock = lock
		c.closers = append(c.closers, lock.Close)
	} else {
		c.Lock = distributed_lock.NewMemoryLock()
	}

	var publishers []event.Publisher
	if cfg.Kafka.Enabled {
		publishers = append(publishers, event.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic))
	}
	if cfg.Dapr.PubSubEnabled {
		p, err := event.NewDaprPublisher(cfg.Dapr.PubSubName, cfg.Dapr.Topic)
		if err != nil {
			return nil, err
		}
		publishers = append(publishers, p)
	}
	c.Publisher = event.Compose(publishers...)
	c.closers = append(c.closers, c.Publisher.Close)

	c.Specs = specification.NewStore(db)
	c.Evaluator = compliance.NewEvaluator(c.Specs)
	c.Catalog = catalog.NewCatalog(db)
	c.Scheduler = scheduling.NewScheduler(db, c.Catalog,
		scheduling.WithClock(now),
		scheduling.WithMetrics(c.Metrics))
	c.Recorder = measurement.NewRecorder(db, c.Catalog, c.Evaluator,
		measurement.WithClock(now),
		measurement.WithLock(c.Lock),
		measurement.WithPublisher(c.Publisher),
		measurement.WithMetrics(c.Metrics))
	c.Sheets = controlsheet.NewService(db, c.Scheduler, c.Specs)

	c.Automation = automation.NewRunner(loc,
		automation.WithLock(c.Lock, cfg.Automation.LockTTL),
		automation.WithMetrics(c.Metrics))
	err = automation.RegisterAll(c.Automation, automation.QCJobs(cfg.Automation, automation.Deps{
		Scheduler: c.Scheduler,
		Sweeper:   c.Recorder,
		Sheets:    c.Sheets,
		Now:       now,
	}))
	if err != nil {
		return nil, err
	}

	if cfg.MQTT.Enabled {
		c.Ingestor = ingest.NewMQTTIngestor(cfg.MQTT, c.Recorder, c.Catalog, c.Metrics)
	}
	return c, nil
}

// Start loads the specification snapshot and starts background work.
func (c *Container) Start(ctx context.Context) error {
	if err := c.Specs.Reload(ctx); err != nil {
		return fmt.Errorf("load specifications: %w", err)
	}
	if c.Config.Automation.Enabled {
		c.Automation.Start()
	}
	if c.Ingestor != nil {
		if err := c.Ingestor.Start(); err != nil {
			return err
		}
	}
	slog.Info("services started",
		"automation", c.Config.Automation.Enabled,
		"mqtt", c.Ingestor != nil,
		"redis_lock", c.Config.Redis.Enabled)
	return nil
}

// Close stops background work and releases connections.
func (c *Container) Close() error {
	if c.Ingestor != nil {
		c.Ingestor.Stop()
	}
	c.Automation.Stop()
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Ready reports whether the database answers.
func (c *Container) Ready() error {
	return database.Ping(c.DB)
}
