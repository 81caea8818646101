package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resolveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stackconf_resolve_duration_seconds",
			Help:    "Duration of inventory resolution in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	resolveTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stackconf_resolve_total",
			Help: "Total number of concern resolutions",
		},
		[]string{"concern", "status"}, // status is success or error
	)
)
