package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestSweeper_DeletesOnTick(t *testing.T) {
	var calls int32
	repo := &mockClipRepository{
		deleteExpiredFn: func(ctx context.Context, now time.Time) (int64, error) {
			atomic.AddInt32(&calls, 1)
			return 2, nil
		},
	}

	sweeper := NewSweeper(nil, repo, 10*time.Millisecond)
	sweeper.Start()
	defer sweeper.Stop()

	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt32(&calls) < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("expected at least 2 sweeps, got %d", atomic.LoadInt32(&calls))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSweeper_SurvivesStorageErrors(t *testing.T) {
	var calls int32
	repo := &mockClipRepository{
		deleteExpiredFn: func(ctx context.Context, now time.Time) (int64, error) {
			n := atomic.AddInt32(&calls, 1)
			if n == 1 {
				return 0, errors.New("connection refused")
			}
			return 0, nil
		},
	}

	sweeper := NewSweeper(nil, repo, 10*time.Millisecond)
	sweeper.Start()
	defer sweeper.Stop()

	// The sweeper must keep ticking after the first failure.
	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt32(&calls) < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("sweeper stopped after an error, %d calls", atomic.LoadInt32(&calls))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSweeper_StopTwice(t *testing.T) {
	sweeper := NewSweeper(nil, &mockClipRepository{}, time.Hour)
	sweeper.Start()

	sweeper.Stop()
	sweeper.Stop()
}
