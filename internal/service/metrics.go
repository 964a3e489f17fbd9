package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"ventureshield/internal/model"
)

// Enrichment failure reasons
const (
	ReasonDisabled      = "disabled"
	ReasonTimeout       = "timeout"
	ReasonError         = "error"
	ReasonNonConforming = "non_conforming"
	ReasonPanic         = "panic"
)

// Metrics groups the analysis pipeline collectors
type Metrics struct {
	analyses           *prometheus.CounterVec
	enrichmentFailures *prometheus.CounterVec
	enrichmentDuration prometheus.Histogram
	compositeScore     prometheus.Histogram
}

// NewMetrics registers the pipeline collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		analyses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ventureshield_analyses_total",
			Help: "Completed analyses by result path.",
		}, []string{"path"}),
		enrichmentFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ventureshield_enrichment_failures_total",
			Help: "Enrichment attempts that fell back to the deterministic result.",
		}, []string{"reason"}),
		enrichmentDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ventureshield_enrichment_duration_seconds",
			Help:    "Wall-clock time spent waiting on enrichment.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		}),
		compositeScore: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ventureshield_composite_score",
			Help:    "Composite score of returned reports.",
			Buckets: []float64{30, 50, 70, 85, 100},
		}),
	}
}

func (m *Metrics) observeAnalysis(source model.AnalysisSource, composite float64) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(string(source)).Inc()
	m.compositeScore.Observe(composite)
}

func (m *Metrics) observeEnrichment(seconds float64) {
	if m == nil {
		return
	}
	m.enrichmentDuration.Observe(seconds)
}

func (m *Metrics) enrichmentFailed(reason string) {
	if m == nil {
		return
	}
	m.enrichmentFailures.WithLabelValues(reason).Inc()
}
