package cache

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// ShortCodeFilter is a concurrency-safe bloom filter over known short codes.
// A negative answer is definitive; a positive answer may be a false positive
// and still requires a real lookup.
type ShortCodeFilter struct {
	mu     sync.RWMutex
	filter *bloom.BloomFilter
}

// NewShortCodeFilter sizes the filter for the expected number of clips and
// the acceptable false-positive rate (0.01 works well in practice).
func NewShortCodeFilter(expectedItems uint, falsePositiveRate float64) *ShortCodeFilter {
	return &ShortCodeFilter{
		filter: bloom.NewWithEstimates(expectedItems, falsePositiveRate),
	}
}

// Add records a short code.
func (f *ShortCodeFilter) Add(code string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter.AddString(code)
}

// MightExist reports whether the code could be present. False means the code
// was never added.
func (f *ShortCodeFilter) MightExist(code string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.filter.TestString(code)
}
