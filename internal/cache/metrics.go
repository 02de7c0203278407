package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "versioned_notes",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Number of cache hits.",
	})

	metricCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "versioned_notes",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Number of cache misses.",
	})

	metricCacheInvalidations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "versioned_notes",
		Subsystem: "cache",
		Name:      "invalidations_total",
		Help:      "Number of cache keys invalidated after writes.",
	})

	metricCacheErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "versioned_notes",
		Subsystem: "cache",
		Name:      "errors_total",
		Help:      "Number of cache operations that failed.",
	})
)
