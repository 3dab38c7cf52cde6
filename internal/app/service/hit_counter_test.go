package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sifan077/ClipStash/internal/app/repository"
)

func TestHitCounter_ConcurrentHitsFlushOnce(t *testing.T) {
	var mu sync.Mutex
	applied := map[string]int64{}
	calls := 0
	repo := &mockClipRepository{
		incrementFn: func(ctx context.Context, shortCode string, delta int64) error {
			mu.Lock()
			defer mu.Unlock()
			applied[shortCode] += delta
			calls++
			return nil
		},
	}

	counter := NewHitCounter(nil, repo, time.Hour)

	const n = 200
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			counter.Hit("abc123", 1)
		}()
	}
	wg.Wait()

	counter.Flush(context.Background())

	if applied["abc123"] != n {
		t.Fatalf("expected %d accumulated hits, got %d", n, applied["abc123"])
	}
	if calls != 1 {
		t.Fatalf("expected a single coalesced storage call, got %d", calls)
	}

	// A second flush with nothing pending must not touch storage.
	counter.Flush(context.Background())
	if calls != 1 {
		t.Fatalf("empty flush issued a storage call, total %d", calls)
	}
}

func TestHitCounter_FailureIsolatedPerCode(t *testing.T) {
	var mu sync.Mutex
	applied := map[string]int64{}
	repo := &mockClipRepository{
		incrementFn: func(ctx context.Context, shortCode string, delta int64) error {
			if shortCode == "broken" {
				return errors.New("connection reset")
			}
			mu.Lock()
			defer mu.Unlock()
			applied[shortCode] += delta
			return nil
		},
	}

	counter := NewHitCounter(nil, repo, time.Hour)
	counter.Hit("broken", 3)
	counter.Hit("healthy", 5)
	counter.Flush(context.Background())

	if applied["healthy"] != 5 {
		t.Fatalf("healthy code must flush despite the broken one, got %d", applied["healthy"])
	}

	// The failed count is merged back and retried on the next cycle.
	counter.mu.Lock()
	pending := counter.pending["broken"]
	counter.mu.Unlock()
	if pending != 3 {
		t.Fatalf("expected failed count to be retained, got %d", pending)
	}
}

func TestHitCounter_DroppedForMissingClip(t *testing.T) {
	repo := &mockClipRepository{
		incrementFn: func(ctx context.Context, shortCode string, delta int64) error {
			return repository.ErrClipNotFound
		},
	}

	counter := NewHitCounter(nil, repo, time.Hour)
	counter.Hit("gone", 7)
	counter.Flush(context.Background())

	counter.mu.Lock()
	pending := len(counter.pending)
	counter.mu.Unlock()
	if pending != 0 {
		t.Fatalf("hits for a deleted clip must be dropped, %d entries pending", pending)
	}
}

func TestHitCounter_StopDrainsPending(t *testing.T) {
	var mu sync.Mutex
	applied := int64(0)
	repo := &mockClipRepository{
		incrementFn: func(ctx context.Context, shortCode string, delta int64) error {
			mu.Lock()
			defer mu.Unlock()
			applied += delta
			return nil
		},
	}

	counter := NewHitCounter(nil, repo, time.Hour)
	counter.Start()
	counter.Hit("abc123", 4)
	counter.Stop()

	mu.Lock()
	defer mu.Unlock()
	if applied != 4 {
		t.Fatalf("Stop must flush pending counts, got %d", applied)
	}
}

func TestHitCounter_IgnoresNonPositiveAmounts(t *testing.T) {
	counter := NewHitCounter(nil, &mockClipRepository{}, time.Hour)
	counter.Hit("abc123", 0)
	counter.Hit("abc123", -5)

	counter.mu.Lock()
	defer counter.mu.Unlock()
	if len(counter.pending) != 0 {
		t.Fatal("non-positive amounts must not create pending entries")
	}
}
