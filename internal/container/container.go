package container

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/garyjia/erp-gateway/internal/config"
	"github.com/garyjia/erp-gateway/internal/infrastructure/persistence/repository"
	"github.com/garyjia/erp-gateway/internal/infrastructure/storage"
	"github.com/garyjia/erp-gateway/internal/infrastructure/worker"
	httpapi "github.com/garyjia/erp-gateway/internal/interfaces/http"
	"github.com/garyjia/erp-gateway/pkg/database"
	"github.com/garyjia/erp-gateway/pkg/utils"
)

// Container manages all application dependencies and lifecycle.
// Components are initialized in dependency order and torn down in reverse.
type Container struct {
	config *config.Config
	logger *zap.Logger

	// Infrastructure - Data
	db          *database.DB
	requestLogs *repository.RequestLogRepository

	// Infrastructure - External
	erp *ERPBundle

	// Infrastructure - Storage
	exports *storage.LocalExportStorage

	// Application
	services *ServiceBundle

	// Interfaces
	server *httpapi.Server

	// Workers
	workers *worker.WorkerManager

	// Lifecycle
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	ready  atomic.Bool
	closed atomic.Bool
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components and begins background processing.
// Components are initialized in dependency order:
// 1. Database, migrations and the request log repository
// 2. ERP adapters
// 3. Export storage
// 4. Application services
// 5. Workers
// 6. HTTP server (built, not listening)
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}

	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.logger.Info("Starting container initialization")

	steps := []struct {
		name string
		init func() error
	}{
		{"database", c.initDatabase},
		{"ERP adapters", c.initERP},
		{"storage", c.initStorage},
		{"services", c.initServices},
		{"workers", c.initWorkers},
		{"HTTP server", c.initServer},
	}

	for _, step := range steps {
		if err := step.init(); err != nil {
			c.teardown()
			return fmt.Errorf("failed to initialize %s: %w", step.name, err)
		}
		c.logger.Info("Component initialized", zap.String("component", step.name))
	}

	c.ready.Store(true)
	c.logger.Info("Container started successfully")

	return nil
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")
	err := c.teardown()

	c.closed.Store(true)
	c.ready.Store(false)

	if err != nil {
		c.logger.Error("Container closed with errors", zap.Error(err))
		return err
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// teardown releases whatever has been initialized, in reverse order
func (c *Container) teardown() error {
	var errs []error

	if c.cancel != nil {
		c.cancel()
	}

	if c.server != nil {
		if err := c.server.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop HTTP server: %w", err))
		}
	}

	if c.workers != nil {
		if err := c.workers.StopAll(); err != nil {
			c.logger.Error("Failed to stop workers", zap.Error(err))
			errs = append(errs, fmt.Errorf("stop workers: %w", err))
		} else {
			c.logger.Info("Workers stopped")
		}
	}

	// Services, storage and ERP adapters hold no resources

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close database: %w", err))
		} else {
			c.logger.Info("Database closed")
		}
		c.db = nil
	}

	return errors.Join(errs...)
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health(ctx context.Context) *HealthStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}
	set := func(name string, healthy bool, message string) {
		status.Components[name] = ComponentHealth{Healthy: healthy, Message: message}
		if !healthy {
			status.Overall = false
		}
	}

	switch {
	case c.db == nil:
		set("database", false, "not initialized")
	default:
		if err := c.db.PingContext(ctx); err != nil {
			set("database", false, fmt.Sprintf("ping failed: %v", err))
		} else {
			set("database", true, "")
		}
	}

	if c.workers != nil {
		set("workers", c.workers.IsRunning(), fmt.Sprintf("worker count: %d", c.workers.GetWorkerCount()))
	} else {
		set("workers", false, "not initialized")
	}

	if c.erp != nil {
		set("erp", true, c.config.ERP.BaseURL)
	} else {
		set("erp", false, "not initialized")
	}

	return status
}

// initDatabase opens the database and creates the request log repository.
func (c *Container) initDatabase() error {
	db, err := ProvideDatabase(c.ctx, &c.config.Database, c.logger)
	if err != nil {
		return err
	}

	c.db = db
	c.requestLogs = ProvideRequestLogs(db, c.logger)
	return nil
}

// initERP creates the ERP server adapters.
func (c *Container) initERP() error {
	erp, err := ProvideERP(&c.config.ERP, c.logger)
	if err != nil {
		return err
	}
	c.erp = erp
	return nil
}

// initStorage creates the export storage.
func (c *Container) initStorage() error {
	exports, err := ProvideStorage(&c.config.Storage, c.logger)
	if err != nil {
		return err
	}
	c.exports = exports
	return nil
}

// initServices creates all application services.
func (c *Container) initServices() error {
	services, err := ProvideServices(&ServiceDeps{
		Client:      c.erp.Client,
		DB:          c.erp.DB,
		Exports:     c.exports,
		Concurrency: c.config.ERP.MaxConcurrency,
		PageLength:  c.config.ERP.PageLength,
		Logger:      utils.NewKeyValueLogger(c.logger),
	})
	if err != nil {
		return err
	}

	c.services = services
	return nil
}

// initWorkers creates and starts all background workers.
func (c *Container) initWorkers() error {
	workers, err := ProvideWorkers(&WorkerDeps{
		Audit:   &c.config.Audit,
		Logs:    c.requestLogs,
		Exports: c.exports,
		Logger:  c.logger,
	})
	if err != nil {
		return err
	}
	c.workers = workers

	if err := c.workers.StartAll(c.ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}

	return nil
}

// initServer builds the HTTP server over the services.
func (c *Container) initServer() error {
	services := httpapi.Services{
		Reports:   c.services.Reports,
		Exports:   c.services.Exports,
		POS:       c.services.POS,
		Resources: c.services.Resources,
	}
	if c.config.Audit.Enabled {
		services.RequestLogs = c.requestLogs
	}

	srv := c.config.Server
	c.server = httpapi.NewServer(httpapi.ServerConfig{
		Host:            srv.Host,
		Port:            srv.Port,
		ReadTimeout:     srv.ReadTimeout,
		WriteTimeout:    srv.WriteTimeout,
		ShutdownTimeout: srv.ShutdownTimeout,
		Mode:            srv.Mode,
		APITokens:       srv.APITokens,
	}, services, c.logger)
	return nil
}

// Getters for accessing container components

// Server returns the HTTP server.
func (c *Container) Server() *httpapi.Server {
	return c.server
}

// Services returns all application services.
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// RequestLogs returns the request log repository.
func (c *Container) RequestLogs() *repository.RequestLogRepository {
	return c.requestLogs
}

// Workers returns the worker manager.
func (c *Container) Workers() *worker.WorkerManager {
	return c.workers
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container's configuration.
func (c *Container) Config() *config.Config {
	return c.config
}
