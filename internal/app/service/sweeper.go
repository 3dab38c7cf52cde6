package service

import (
	"context"
	"sync"
	"time"

	"github.com/sifan077/ClipStash/internal/app/repository"
	"github.com/sifan077/ClipStash/internal/infra/metrics"
	"go.uber.org/zap"
)

// Sweeper periodically deletes clips whose expiration time has passed.
// Failures are logged and retried on the next tick; the sweeper never takes
// the process down.
type Sweeper struct {
	logger   *zap.Logger
	repo     repository.ClipRepository
	interval time.Duration
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewSweeper creates an expiration sweeper running every interval.
func NewSweeper(logger *zap.Logger, repo repository.ClipRepository, interval time.Duration) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Sweeper{
		logger:   logger,
		repo:     repo,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the periodic sweep.
func (s *Sweeper) Start() {
	go s.run()
}

// Stop halts the periodic sweep. Safe to call more than once.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

func (s *Sweeper) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopChan:
			s.logger.Info("expiration sweeper stopped")
			return
		}
	}
}

func (s *Sweeper) sweep() {
	ctx := context.Background()

	deleted, err := s.repo.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("failed to delete expired clips", zap.Error(err))
		return
	}

	if deleted > 0 {
		metrics.ExpiredDeleted.Add(float64(deleted))
		s.logger.Info("deleted expired clips", zap.Int64("count", deleted))
	}
}
