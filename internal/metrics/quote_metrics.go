package metrics

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// QuoteMetrics tracks quote computations served by the HTTP surface.
type QuoteMetrics struct {
	computations *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

var (
	quoteMetricsOnce sync.Once
	quoteMetrics     *QuoteMetrics
)

// Quote returns the singleton quote metrics registry.
func Quote() *QuoteMetrics {
	quoteMetricsOnce.Do(func() {
		quoteMetrics = newQuoteMetrics(prometheus.DefaultRegisterer)
	})
	return quoteMetrics
}

// ResetQuoteMetricsForTest resets the quote metrics singleton.
func ResetQuoteMetricsForTest() {
	quoteMetricsOnce = sync.Once{}
	quoteMetrics = nil
}

func newQuoteMetrics(registerer prometheus.Registerer) *QuoteMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	computations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revenue_quote_computations_total",
		Help: "Quote computations by kind and outcome.",
	}, []string{"kind", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "revenue_quote_computation_seconds",
		Help:    "Quote computation latency by kind.",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
	}, []string{"kind"})

	for _, collector := range []prometheus.Collector{computations, duration} {
		if err := registerer.Register(collector); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				panic(err)
			}
		}
	}

	return &QuoteMetrics{computations: computations, duration: duration}
}

func (m *QuoteMetrics) IncComputation(kind string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.computations.WithLabelValues(kind, outcome).Inc()
}

func (m *QuoteMetrics) ObserveDuration(kind string, d time.Duration) {
	m.duration.WithLabelValues(kind).Observe(d.Seconds())
}
