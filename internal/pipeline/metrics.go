package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	locationRead      = "read"
	locationFailed    = "failed"
	locationUnclaimed = "unclaimed"
	locationSkipped   = "skipped"
)

// Metrics are the runner's Prometheus collectors.
type Metrics struct {
	entities    prometheus.Counter
	rejected    prometheus.Counter
	errors      prometheus.Counter
	locations   *prometheus.CounterVec
	runDuration prometheus.Histogram
	lastSuccess prometheus.Gauge
}

// NewMetrics registers the runner collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		entities: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ingester",
			Name:      "entities_written_total",
			Help:      "Entities accepted and written to the sink.",
		}),
		rejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ingester",
			Name:      "entities_rejected_total",
			Help:      "Entities dropped by hooks or validation.",
		}),
		errors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ingester",
			Name:      "errors_total",
			Help:      "Error results emitted by processors plus failed sink writes.",
		}),
		locations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ingester",
			Name:      "locations_total",
			Help:      "Locations processed by outcome.",
		}, []string{"outcome"}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ingester",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a full run over all locations.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}),
		lastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "ingester",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run that finished without errors.",
		}),
	}
}

func (m *Metrics) observeRun(elapsed time.Duration, ok bool) {
	m.runDuration.Observe(elapsed.Seconds())

	if ok {
		m.lastSuccess.SetToCurrentTime()
	}
}
