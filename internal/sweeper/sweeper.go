// Package sweeper runs the periodic retention cycle that deletes stored
// presentations past their retention window.
package sweeper

import (
	"context"
	"log"
	"time"

	"pptxapi/internal/config"
	"pptxapi/internal/storage"
)

// Sweeper owns the background retention loop. One instance is started from
// main for the lifetime of the process and stopped via context
// cancellation at shutdown.
type Sweeper struct {
	store    storage.ArtifactStore
	interval time.Duration
	maxAge   int
}

// New constructs a sweeper from the retention configuration.
func New(store storage.ArtifactStore, cfg config.RetentionConfig) *Sweeper {
	return &Sweeper{
		store:    store,
		interval: cfg.SweepInterval,
		maxAge:   cfg.MaxAgeHours,
	}
}

// Run sweeps once immediately, then on every interval tick until ctx is
// cancelled. A failed cycle is logged and never stops the loop.
func (s *Sweeper) Run(ctx context.Context) {
	log.Printf("sweeper: started (interval %s, retention %dh)", s.interval, s.maxAge)

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("sweeper: stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if err := s.store.Sweep(ctx, s.maxAge); err != nil {
		log.Printf("sweeper: cycle failed: %v", err)
	}
}
