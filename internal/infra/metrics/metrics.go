package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClipsCreated counts successful clip creations.
	ClipsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clipstash_clips_created_total",
		Help: "Number of clips created",
	})

	// HitsFlushed counts hit increments applied to storage by the aggregator.
	HitsFlushed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clipstash_hits_flushed_total",
		Help: "Number of hit increments flushed to storage",
	})

	// ExpiredDeleted counts clips removed by the expiration sweeper.
	ExpiredDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clipstash_expired_clips_deleted_total",
		Help: "Number of expired clips deleted by the sweeper",
	})

	// CacheOperations counts clip cache lookups by layer and outcome.
	CacheOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clipstash_cache_operations_total",
		Help: "Clip cache operations by layer and outcome",
	}, []string{"layer", "outcome"})
)
