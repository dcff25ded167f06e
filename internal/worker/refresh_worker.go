package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Refresher reloads the inventory snapshot.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshWorker periodically re-fetches the SKU snapshot so changes made by
// other consoles show up without a manual reload.
type RefreshWorker struct {
	refresher Refresher
	interval  time.Duration
}

// NewRefreshWorker constructs a RefreshWorker.
func NewRefreshWorker(refresher Refresher, interval time.Duration) *RefreshWorker {
	return &RefreshWorker{
		refresher: refresher,
		interval:  interval,
	}
}

// Start begins the periodic refresh loop and listens for context cancellation.
// The first refresh happens one interval after start; startup already loads.
func (w *RefreshWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		log.Info().Msg("Refresh worker disabled")
		return
	}
	log.Info().Dur("interval", w.interval).Msg("Starting refresh worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Refresh worker stopped")
			return
		}
	}
}

func (w *RefreshWorker) run(ctx context.Context) {
	start := time.Now()
	if err := w.refresher.Refresh(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to refresh inventory")
		return
	}
	log.Debug().Dur("duration", time.Since(start)).Msg("Inventory refresh completed")
}
