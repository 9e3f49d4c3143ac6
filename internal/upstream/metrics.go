package upstream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

var (
	fetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_upstream_fetch_total",
			Help: "Upstream module fetches by module and outcome",
		},
		[]string{"module", "outcome"},
	)

	fetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analytics_upstream_fetch_duration_seconds",
			Help:    "Duration of upstream module fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"module"},
	)
)
