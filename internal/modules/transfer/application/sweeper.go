package application

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically removes expired transfers from both the registry and
// the storage backend. It lives outside the request path: the core only
// exposes ListExpired/Delete and this loop consumes them.
type Sweeper struct {
	service  *Service
	interval time.Duration
	logger   *slog.Logger
	done     chan struct{}
}

// NewSweeper creates a new sweeper.
func NewSweeper(service *Service, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		service:  service,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start begins the sweep loop in a background goroutine. It runs one sweep
// immediately, then on every tick until the context is cancelled.
func (sw *Sweeper) Start(ctx context.Context) {
	sw.logger.Info("expiry sweeper started", "interval", sw.interval)

	go func() {
		ticker := time.NewTicker(sw.interval)
		defer ticker.Stop()

		sw.run(ctx)

		for {
			select {
			case <-ticker.C:
				sw.run(ctx)
			case <-ctx.Done():
				sw.logger.Info("expiry sweeper stopping")
				close(sw.done)
				return
			}
		}
	}()
}

// Wait blocks until the sweeper has fully stopped.
func (sw *Sweeper) Wait() {
	<-sw.done
}

func (sw *Sweeper) run(ctx context.Context) {
	cleaned, err := sw.service.SweepExpired(ctx)
	if err != nil {
		sw.logger.Error("sweep cycle failed", "error", err)
		return
	}
	if cleaned > 0 {
		sw.logger.Info("sweep cycle complete", "cleaned", cleaned)
	}
}
