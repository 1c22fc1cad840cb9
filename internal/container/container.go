// Package container provides dependency injection for bank-import.
// It centralizes the creation and wiring of the application's components so
// commands receive them through one place instead of building their own.
package container

import (
	"context"
	"fmt"
	"sync"

	"fjacquet/bank-import/internal/batch"
	"fjacquet/bank-import/internal/config"
	"fjacquet/bank-import/internal/institution"
	"fjacquet/bank-import/internal/logging"
	"fjacquet/bank-import/internal/metrics"
	"fjacquet/bank-import/internal/report"
	"fjacquet/bank-import/internal/store"
)

// Container holds the application dependencies. Fields are private and the
// institution registry is only loaded when a command needs it, so read-only
// commands work without an institution file.
type Container struct {
	logger   logging.Logger
	config   *config.Config
	store    *store.SQLiteStore
	recorder *metrics.Recorder

	loadOnce     sync.Once
	institutions *institution.Registry
	loadErr      error
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, config.NewLogger(cfg))
}

// NewContainerWithLogger is NewContainer with a caller-supplied logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	c := &Container{
		logger:   logger,
		config:   cfg,
		store:    store.New(cfg.Database.Path, logger),
		recorder: metrics.NewRecorder(),
	}
	logger.Debug("Container initialized",
		logging.F("database", cfg.Database.Path),
		logging.F("institutions_file", cfg.Institutions.File))
	return c, nil
}

// Institutions loads the institution file on first use. A missing or
// malformed file is returned as an error on every call.
func (c *Container) Institutions() (*institution.Registry, error) {
	c.loadOnce.Do(func() {
		c.institutions, c.loadErr = institution.Load(c.config.Institutions.File, c.logger)
	})
	return c.institutions, c.loadErr
}

// Runner returns an import runner bound to the store, the institution
// registry and the metrics recorder.
func (c *Container) Runner() (*batch.Runner, error) {
	reg, err := c.Institutions()
	if err != nil {
		return nil, err
	}
	return batch.NewRunner(c.store, reg, c.recorder, c.logger), nil
}

// Reports opens the existing database read-only and returns the query
// service over it.
func (c *Container) Reports(ctx context.Context) (*report.Service, error) {
	if err := c.store.OpenReadOnly(ctx); err != nil {
		return nil, err
	}
	return report.NewService(c.store.DB(), c.logger), nil
}

// GetLogger returns the container's logger.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the configuration the container was built from.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the SQLite store.
func (c *Container) GetStore() *store.SQLiteStore {
	return c.store
}

// GetRecorder returns the metrics recorder.
func (c *Container) GetRecorder() *metrics.Recorder {
	return c.recorder
}

// FlushMetrics writes the recorder to the configured textfile, if any.
func (c *Container) FlushMetrics() error {
	return c.recorder.WriteTextfile(c.config.Metrics.Textfile)
}

// Close releases the database handle.
func (c *Container) Close() error {
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	return nil
}
