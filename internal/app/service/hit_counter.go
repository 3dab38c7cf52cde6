package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sifan077/ClipStash/internal/app/repository"
	"github.com/sifan077/ClipStash/internal/infra/metrics"
	"go.uber.org/zap"
)

// HitCounter coalesces per-code hit events in memory and flushes the totals
// to storage on a fixed interval, so the read path never waits on a storage
// write. Hit counting is best-effort: flush failures are logged and retried
// implicitly because the pending counts are merged back.
type HitCounter struct {
	logger   *zap.Logger
	repo     repository.ClipRepository
	interval time.Duration

	mu      sync.Mutex
	pending map[string]int64

	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}
}

// NewHitCounter creates a hit counter flushing every interval.
func NewHitCounter(logger *zap.Logger, repo repository.ClipRepository, interval time.Duration) *HitCounter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &HitCounter{
		logger:   logger,
		repo:     repo,
		interval: interval,
		pending:  make(map[string]int64),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Hit merges amount into the pending count for the code. It never blocks on
// storage and is safe for concurrent use.
func (h *HitCounter) Hit(shortCode string, amount int64) {
	if amount <= 0 {
		return
	}
	h.mu.Lock()
	h.pending[shortCode] += amount
	h.mu.Unlock()
}

// Start begins the periodic flush loop.
func (h *HitCounter) Start() {
	go h.run()
}

// Stop halts the flush loop and drains any remaining pending counts.
func (h *HitCounter) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopChan)
	})
	<-h.done
}

func (h *HitCounter) run() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	defer close(h.done)

	for {
		select {
		case <-ticker.C:
			h.Flush(context.Background())
		case <-h.stopChan:
			h.Flush(context.Background())
			h.logger.Info("hit counter stopped")
			return
		}
	}
}

// Flush drains the pending map under lock, then applies each increment with
// its own storage call so one failure cannot abort the rest of the cycle.
func (h *HitCounter) Flush(ctx context.Context) {
	h.mu.Lock()
	if len(h.pending) == 0 {
		h.mu.Unlock()
		return
	}
	batch := h.pending
	h.pending = make(map[string]int64)
	h.mu.Unlock()

	for shortCode, count := range batch {
		err := h.repo.IncrementHits(ctx, shortCode, count)
		if err == nil {
			metrics.HitsFlushed.Add(float64(count))
			continue
		}

		if errors.Is(err, repository.ErrClipNotFound) {
			// The clip was deleted or expired between the hit and this
			// flush; its pending count goes with it.
			continue
		}

		h.logger.Error("failed to flush hit count",
			zap.String("short_code", shortCode),
			zap.Int64("count", count),
			zap.Error(err))

		// Merge back so the next cycle retries.
		h.mu.Lock()
		h.pending[shortCode] += count
		h.mu.Unlock()
	}
}
