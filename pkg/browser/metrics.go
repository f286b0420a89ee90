package browser

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LaunchesTotal counts browser process launches.
	LaunchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pricing_browser_launches_total",
		Help: "Total number of browser processes launched",
	})

	// NavigationsTotal tracks navigations by outcome.
	NavigationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_browser_navigations_total",
		Help: "Total number of page navigations by outcome",
	}, []string{"status"})

	// NavigationDurationSeconds tracks navigate-to-extract latency.
	NavigationDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricing_browser_navigation_duration_seconds",
		Help:    "Duration from navigation start to card extraction",
		Buckets: prometheus.DefBuckets,
	})

	// CommandsTotal counts DevTools commands by method.
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_browser_commands_total",
		Help: "Total number of DevTools protocol commands sent",
	}, []string{"method"})
)
