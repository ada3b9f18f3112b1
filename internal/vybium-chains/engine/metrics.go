package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the Prometheus collectors updated after every round.
type Metrics struct {
	candidates    *prometheus.CounterVec
	rounds        prometheus.Counter
	roundDuration prometheus.Histogram
	values        prometheus.Gauge
}

// NewMetrics registers the engine collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		candidates: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vybium_chains_candidates_total",
			Help: "Candidate chains by outcome",
		}, []string{"result"}),
		rounds: f.NewCounter(prometheus.CounterOpts{
			Name: "vybium_chains_rounds_total",
			Help: "Completed extension rounds",
		}),
		roundDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "vybium_chains_round_duration_seconds",
			Help:    "Extension round duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~4min
		}),
		values: f.NewGauge(prometheus.GaugeOpts{
			Name: "vybium_chains_database_values",
			Help: "Distinct values in the chain database",
		}),
	}
}

func (m *Metrics) observe(s RoundStats, values int) {
	if m == nil {
		return
	}
	m.candidates.WithLabelValues("admitted").Add(float64(s.Admitted))
	m.candidates.WithLabelValues("duplicate").Add(float64(s.Duplicates))
	m.candidates.WithLabelValues("longer").Add(float64(s.Longer))
	m.candidates.WithLabelValues("nonpositive").Add(float64(s.NonPositive))
	m.candidates.WithLabelValues("invalid").Add(float64(s.Invalid))
	m.candidates.WithLabelValues("skipped_pair").Add(float64(s.SkippedPairs))
	m.rounds.Inc()
	m.roundDuration.Observe(s.Duration.Seconds())
	m.values.Set(float64(values))
}
