package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Per-service operation counters, exported on /metrics.
var (
	joinsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_queue_joins_total",
		Help: "Number of tickets issued, per service.",
	}, []string{"service"})

	servesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_queue_serves_total",
		Help: "Number of serve-next transitions, per service.",
	}, []string{"service"})

	completionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_queue_completions_total",
		Help: "Number of completed tickets, per service.",
	}, []string{"service"})

	resetsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_queue_resets_total",
		Help: "Number of admin queue resets, per service.",
	}, []string{"service"})
)
