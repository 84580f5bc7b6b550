// Package metrics counts the work of batch calls on a private Prometheus
// registry and dumps it in the text exposition format.
package metrics

import (
	"errors"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"hmerize/internal/engine"
)

const namespace = "hmerize"

// Metrics holds the batch counters. A nil *Metrics discards every observation.
type Metrics struct {
	reg *prometheus.Registry

	records  *prometheus.CounterVec
	chunks   *prometheus.CounterVec
	windows  *prometheus.CounterVec
	variants *prometheus.CounterVec
	skipped  prometheus.Counter
	budget   prometheus.Counter
	errors   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New registers the batch metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		// Labels: op (kmers, theoretical, primers)
		records: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Sequence records processed",
		}, []string{"op"}),
		chunks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_total",
			Help:      "Record chunks processed",
		}, []string{"op"}),
		windows: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "windows_total",
			Help:      "Windows expanded into variants",
		}, []string{"op"}),
		variants: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "variants_total",
			Help:      "Concrete variant rows hashed",
		}, []string{"op"}),
		skipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "primer",
			Name:      "guard_skipped_windows_total",
			Help:      "Target windows skipped because their variant count reached the primer guard",
		}),
		budget: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "primer",
			Name:      "budget_skipped_windows_total",
			Help:      "Target windows below the primer guard skipped because they did not fit the scratch budget",
		}),
		// Labels: op, kind (allocation kind, or "other")
		errors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Failed batch calls",
		}, []string{"op", "kind"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Wall time of batch calls",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"op"}),
	}
}

// Registry exposes the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// ObserveChunk adds the counters of one processed chunk.
func (m *Metrics) ObserveChunk(op string, st engine.Stats) {
	if m == nil {
		return
	}
	m.chunks.WithLabelValues(op).Inc()
	m.records.WithLabelValues(op).Add(float64(st.Records))
	m.windows.WithLabelValues(op).Add(float64(st.Windows))
	m.variants.WithLabelValues(op).Add(float64(st.Variants))
	m.skipped.Add(float64(st.Skipped - st.OverBudget))
	m.budget.Add(float64(st.OverBudget))
}

// ObserveBatch records the duration and outcome of one batch call.
func (m *Metrics) ObserveBatch(op string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(op).Observe(d.Seconds())
	if err == nil {
		return
	}
	kind := "other"
	if k, ok := engine.KindOf(err); ok {
		kind = k.String()
	}
	m.errors.WithLabelValues(op, kind).Inc()
}

// WriteText writes every gathered family in the text exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	if m == nil {
		return errors.New("metrics disabled")
	}
	mfs, err := m.reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
