package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "foodlens"

var (
	once sync.Once

	healthTests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "health_tests_total",
			Help:      "Count of health tests computed by type and category.",
		},
		[]string{"test_type", "category"},
	)

	healthTestsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "health_tests_rejected_total",
			Help:      "Count of health test submissions rejected by validation.",
		},
		[]string{"test_type"},
	)

	analyses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "food_analyses_total",
			Help:      "Count of image analyses by outcome.",
		},
		[]string{"outcome"},
	)

	visionLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "vision_request_seconds",
			Help:      "Latency of vision model calls.",
			Buckets:   []float64{0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"provider"},
	)

	records = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Count of record store operations by table and action.",
		},
		[]string{"table", "action"},
	)

	authEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Count of account events by kind.",
		},
		[]string{"kind"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(healthTests, healthTestsRejected, analyses, visionLatency, records, authEvents)
	})
}

func IncHealthTest(testType, category string) {
	healthTests.WithLabelValues(testType, category).Inc()
}

func IncHealthTestRejected(testType string) {
	healthTestsRejected.WithLabelValues(testType).Inc()
}

func IncAnalysis(outcome string) {
	analyses.WithLabelValues(outcome).Inc()
}

func ObserveVision(provider string, seconds float64) {
	visionLatency.WithLabelValues(provider).Observe(seconds)
}

func IncRecord(table, action string) {
	records.WithLabelValues(table, action).Inc()
}

func IncAuthEvent(kind string) {
	authEvents.WithLabelValues(kind).Inc()
}
