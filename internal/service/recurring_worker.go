package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// RecurringWorker is a background worker that periodically materializes due
// recurring commitments
type RecurringWorker struct {
	recurringService *RecurringService
	logger           zerolog.Logger
	interval         time.Duration
	stopCh           chan struct{}
	doneCh           chan struct{}
	mu               sync.Mutex
	running          bool
}

// RecurringWorkerConfig holds configuration for the recurring worker
type RecurringWorkerConfig struct {
	Interval time.Duration // How often to look for due commitments
}

// DefaultRecurringWorkerConfig returns sensible defaults
func DefaultRecurringWorkerConfig() RecurringWorkerConfig {
	return RecurringWorkerConfig{
		Interval: 1 * time.Hour,
	}
}

// NewRecurringWorker creates a new recurring worker
func NewRecurringWorker(recurringService *RecurringService, logger zerolog.Logger, config RecurringWorkerConfig) *RecurringWorker {
	if config.Interval <= 0 {
		config.Interval = DefaultRecurringWorkerConfig().Interval
	}

	return &RecurringWorker{
		recurringService: recurringService,
		logger:           logger.With().Str("component", "recurring_worker").Logger(),
		interval:         config.Interval,
		stopCh:           make(chan struct{}),
		doneCh:           make(chan struct{}),
	}
}

// Start begins the background processing loop
func (w *RecurringWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info().
		Dur("interval", w.interval).
		Msg("Starting recurring worker")

	go w.run(ctx)
}

// Stop gracefully stops the recurring worker
func (w *RecurringWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping recurring worker")
	close(w.stopCh)
	<-w.doneCh
	w.logger.Info().Msg("Recurring worker stopped")
}

// run is the main loop for the recurring worker
func (w *RecurringWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	// Run immediately on startup
	w.ProcessNow()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.setStopped()
			return
		case <-w.stopCh:
			w.setStopped()
			return
		case <-ticker.C:
			w.ProcessNow()
		}
	}
}

func (w *RecurringWorker) setStopped() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

// ProcessNow runs one recurring pass at the store's current time
func (w *RecurringWorker) ProcessNow() bool {
	startTime := time.Now()

	added, err := w.recurringService.ProcessDueNow()
	if err != nil {
		w.logger.Error().Err(err).Msg("Recurring pass failed")
		return added
	}

	w.logger.Debug().
		Bool("added", added).
		Dur("elapsed", time.Since(startTime)).
		Msg("Completed recurring pass")
	return added
}

// IsRunning returns whether the worker is currently running
func (w *RecurringWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
