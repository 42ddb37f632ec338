package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	atomInsertTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atomspace_insert_total",
		Help: "Atom inserts by result",
	}, []string{"result"})

	atomRemoveTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "atomspace_remove_total",
		Help: "Atoms removed from the space",
	})

	matchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "atomspace_match_duration_seconds",
		Help:    "Pattern match duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	})

	matchResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "atomspace_match_results",
		Help:    "Number of groundings returned per pattern match",
		Buckets: []float64{0, 1, 5, 10, 50, 100, 1000},
	})
)

func observeMatch(results int, elapsed time.Duration) {
	matchDuration.Observe(elapsed.Seconds())
	matchResults.Observe(float64(results))
}
