// Package metrics exposes Prometheus collectors for the embedded datastore.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds the datastore collectors.
type Metrics struct {
	// Registry owns the collectors. Each Metrics gets its own so that
	// creating several stores in one process never registers twice.
	Registry *prometheus.Registry

	statementDuration *prometheus.HistogramVec
	statementErrors   *prometheus.CounterVec
	migrationsApplied prometheus.Counter
}

// NewMetrics creates a private registry and registers all collectors in it.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		statementDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sprout_db_statement_duration_seconds",
				Help:    "Duration of datastore statements by verb.",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"verb"},
		),
		statementErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sprout_db_statement_errors_total",
				Help: "Datastore statements that returned an error, by verb.",
			},
			[]string{"verb"},
		),
		migrationsApplied: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "sprout_schema_migrations_applied_total",
				Help: "Schema migration steps applied by this process.",
			},
		),
	}
}

// ObserveStatement records one statement. It is safe to call on a nil receiver.
func (m *Metrics) ObserveStatement(verb string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.statementDuration.WithLabelValues(verb).Observe(time.Since(started).Seconds())
	if err != nil {
		m.statementErrors.WithLabelValues(verb).Inc()
	}
}

// MigrationApplied counts one applied migration step.
func (m *Metrics) MigrationApplied() {
	if m == nil {
		return
	}
	m.migrationsApplied.Inc()
}

// StatementCount is a flattened view of one verb's counters.
type StatementCount struct {
	Verb    string
	Count   uint64
	Errors  float64
	Seconds float64
}

// Snapshot gathers the statement collectors into per-verb counts.
func (m *Metrics) Snapshot() ([]StatementCount, error) {
	families, err := m.Registry.Gather()
	if err != nil {
		return nil, err
	}

	byVerb := make(map[string]*StatementCount)
	var order []string
	entry := func(metric *dto.Metric) *StatementCount {
		verb := labelValue(metric, "verb")
		if c, ok := byVerb[verb]; ok {
			return c
		}
		c := &StatementCount{Verb: verb}
		byVerb[verb] = c
		order = append(order, verb)
		return c
	}

	for _, family := range families {
		switch family.GetName() {
		case "sprout_db_statement_duration_seconds":
			for _, metric := range family.GetMetric() {
				c := entry(metric)
				c.Count = metric.GetHistogram().GetSampleCount()
				c.Seconds = metric.GetHistogram().GetSampleSum()
			}
		case "sprout_db_statement_errors_total":
			for _, metric := range family.GetMetric() {
				entry(metric).Errors = metric.GetCounter().GetValue()
			}
		}
	}

	out := make([]StatementCount, 0, len(order))
	for _, verb := range order {
		out = append(out, *byVerb[verb])
	}
	return out, nil
}

func labelValue(metric *dto.Metric, name string) string {
	for _, label := range metric.GetLabel() {
		if label.GetName() == name {
			return label.GetValue()
		}
	}
	return ""
}
