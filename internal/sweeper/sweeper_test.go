package sweeper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pptxapi/internal/config"
	"pptxapi/internal/storage"
)

// countingStore counts sweep cycles and can fail them all.
type countingStore struct {
	mu     sync.Mutex
	sweeps int
	err    error
}

func (c *countingStore) Save(context.Context, []byte, string) (string, error) {
	return "", errors.New("not implemented")
}

func (c *countingStore) Get(context.Context, string) ([]byte, storage.Metadata, error) {
	return nil, storage.Metadata{}, storage.ErrNotFound
}

func (c *countingStore) Sweep(_ context.Context, maxAgeHours int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweeps++
	return c.err
}

func (c *countingStore) Ping(context.Context) error { return nil }

func (c *countingStore) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweeps
}

func TestSweeperRunsImmediatelyAndPeriodically(t *testing.T) {
	store := &countingStore{}
	s := New(store, config.RetentionConfig{MaxAgeHours: 24, SweepInterval: 20 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return store.count() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancellation")
	}
}

func TestSweeperSurvivesFailingCycles(t *testing.T) {
	store := &countingStore{err: errors.New("backend down")}
	s := New(store, config.RetentionConfig{MaxAgeHours: 24, SweepInterval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	// The loop keeps ticking even though every cycle fails.
	assert.Eventually(t, func() bool { return store.count() >= 3 }, time.Second, 5*time.Millisecond)
}
