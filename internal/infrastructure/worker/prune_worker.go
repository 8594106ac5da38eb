package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/garyjia/erp-gateway/internal/application/port"
	"go.uber.org/zap"
)

// PruneWorkerConfig holds configuration for the prune worker
type PruneWorkerConfig struct {
	Interval        time.Duration
	LogRetention    time.Duration
	ExportRetention time.Duration
}

// DefaultPruneWorkerConfig returns default configuration
func DefaultPruneWorkerConfig() PruneWorkerConfig {
	return PruneWorkerConfig{
		Interval:        time.Hour,
		LogRetention:    30 * 24 * time.Hour,
		ExportRetention: 7 * 24 * time.Hour,
	}
}

// PruneWorker periodically deletes expired request logs and report exports
type PruneWorker struct {
	config  PruneWorkerConfig
	logs    port.RequestLogRepository
	exports port.ExportStorage
	logger  *zap.Logger
	now     func() time.Time

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewPruneWorker creates a new prune worker. exports may be nil.
func NewPruneWorker(config PruneWorkerConfig, logs port.RequestLogRepository, exports port.ExportStorage, logger *zap.Logger) *PruneWorker {
	return &PruneWorker{
		config:  config,
		logs:    logs,
		exports: exports,
		logger:  logger,
		now:     time.Now,
	}
}

// Start runs one prune immediately, then one per interval
func (w *PruneWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return fmt.Errorf("prune worker already running")
	}
	if w.config.Interval <= 0 {
		return fmt.Errorf("prune interval must be positive")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	w.isRunning = true

	w.logger.Info("PruneWorker started",
		zap.Duration("interval", w.config.Interval),
		zap.Duration("log_retention", w.config.LogRetention))

	go w.loop(loopCtx, w.done)
	return nil
}

// Stop cancels the loop and waits for it to exit
func (w *PruneWorker) Stop() error {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return nil
	}
	w.isRunning = false
	cancel, done := w.cancel, w.done
	w.mu.Unlock()

	cancel()
	<-done
	w.logger.Info("PruneWorker stopped")
	return nil
}

// Name returns the worker name for identification
func (w *PruneWorker) Name() string {
	return "PruneWorker"
}

func (w *PruneWorker) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		w.PruneOnce(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// PruneOnce deletes everything past its retention
func (w *PruneWorker) PruneOnce(ctx context.Context) {
	now := w.now()

	if w.config.LogRetention > 0 {
		deleted, err := w.logs.DeleteBefore(ctx, now.Add(-w.config.LogRetention))
		if err != nil {
			w.logger.Error("Failed to prune request logs", zap.Error(err))
		} else if deleted > 0 {
			w.logger.Info("Pruned request logs", zap.Int64("deleted", deleted))
		}
	}

	if w.exports == nil || w.config.ExportRetention <= 0 {
		return
	}

	files, err := w.exports.List(ctx)
	if err != nil {
		w.logger.Error("Failed to list exports", zap.Error(err))
		return
	}
	cutoff := now.Add(-w.config.ExportRetention)
	for _, file := range files {
		if !file.ModTime.Before(cutoff) {
			continue
		}
		if err := w.exports.Delete(ctx, file.Name); err != nil {
			w.logger.Warn("Failed to delete expired export",
				zap.String("name", file.Name),
				zap.Error(err))
			continue
		}
		w.logger.Info("Deleted expired export", zap.String("name", file.Name))
	}
}
