// Package observability expõe os contadores Prometheus da ingestão e do carregamento de leads.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "leads"

// Metrics agrupa os coletores num registry próprio.
// Implementa ingestion.Observer e pode ser usado como status.UnknownFunc via UnknownStatus.
type Metrics struct {
	registry *prometheus.Registry

	rows             *prometheus.CounterVec
	dateStrategies   *prometheus.CounterVec
	unknownStatuses  *prometheus.CounterVec
	loads            *prometheus.CounterVec
	validationIssues *prometheus.CounterVec
	ingestDuration   *prometheus.HistogramVec
}

// New cria e registra os coletores, incluindo os de processo e runtime.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingested_rows_total",
			Help:      "Rows processed by the ingestion pipeline, by outcome.",
		}, []string{"outcome"}),
		dateStrategies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "date_strategy_total",
			Help:      "Dates interpreted, by winning strategy.",
		}, []string{"strategy"}),
		unknownStatuses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unknown_status_total",
			Help:      "Unrecognised status labels, by closest known status.",
		}, []string{"suggestion"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "Lead collection loads, by source.",
		}, []string{"source"}),
		validationIssues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "metrics_validation_issues_total",
			Help:      "Metric identities that failed validation, by code.",
		}, []string{"code"}),
		ingestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_duration_seconds",
			Help:      "Duration of a full ingestion run.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.rows,
		m.dateStrategies,
		m.unknownStatuses,
		m.loads,
		m.validationIssues,
		m.ingestDuration,
	)
	return m
}

// Registry devolve o registry usado pelos coletores.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serve o formato de exposição do Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RowOutcome(outcome string) { m.rows.WithLabelValues(outcome).Inc() }

func (m *Metrics) DateStrategy(strategy string) { m.dateStrategies.WithLabelValues(strategy).Inc() }

// UnknownStatus conta status desconhecidos pela sugestão, evitando um rótulo por texto livre.
func (m *Metrics) UnknownStatus(_ string, suggestion string) {
	if suggestion == "" {
		suggestion = "none"
	}
	m.unknownStatuses.WithLabelValues(suggestion).Inc()
}

func (m *Metrics) Load(source string) { m.loads.WithLabelValues(source).Inc() }

func (m *Metrics) ValidationIssue(code string) { m.validationIssues.WithLabelValues(code).Inc() }

func (m *Metrics) ObserveIngest(source string, d time.Duration) {
	m.ingestDuration.WithLabelValues(source).Observe(d.Seconds())
}
