package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cycle outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	CyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pitchwise_cycles_total",
			Help: "Total number of request cycles by outcome",
		},
		[]string{"outcome"},
	)

	CyclesActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pitchwise_cycles_active",
			Help: "Number of request cycles currently waiting on generation",
		},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pitchwise_generation_duration_seconds",
			Help:    "Duration of generator calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		},
		[]string{"provider", "outcome"},
	)

	ExtractionStrategy = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pitchwise_extraction_strategy_total",
			Help: "Extraction results by the strategy that produced them",
		},
		[]string{"strategy"},
	)

	ConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pitchwise_connections_active",
			Help: "Number of open realtime connections",
		},
	)
)
