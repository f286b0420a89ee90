package reqcache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HitsTotal counts lookups served from the cache.
	HitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pricing_reqcache_hits_total",
		Help: "Total request cache hits",
	})

	// MissesTotal counts lookups that required a computation.
	MissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pricing_reqcache_misses_total",
		Help: "Total request cache misses",
	})

	// EntriesGauge tracks the number of stored recommendations.
	EntriesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pricing_reqcache_entries",
		Help: "Number of recommendations currently cached",
	})
)
