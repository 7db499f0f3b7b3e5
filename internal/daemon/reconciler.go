package daemon

import (
	"context"
	"log/slog"
	"time"
)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically re-reads window-system state and corrects drift
// missed by event notifications.
type Reconciler struct {
	interval  time.Duration
	post      func(func()) bool
	reconcile func()
	logger    *slog.Logger
}

// NewReconciler creates a reconciler that posts reconcile to the daemon
// loop every interval.
func NewReconciler(cfg ReconcilerConfig, post func(func()) bool, reconcile func()) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Reconciler{
		interval:  interval,
		post:      post,
		reconcile: reconcile,
		logger:    logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			if !r.ReconcileNow() {
				r.logger.Info("reconciler stopped", "reason", "loop exited")
				return
			}
		}
	}
}

// ReconcileNow queues an immediate reconciliation pass. It reports false
// once the daemon loop has stopped.
func (r *Reconciler) ReconcileNow() bool {
	return r.post(r.reconcile)
}
