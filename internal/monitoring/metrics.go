// internal/monitoring/metrics.go
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Parhamfakhar1/natiq/internal/core"
)

type Config struct {
	Enabled   bool   `yaml:"enabled" env:"NATIQ_METRICS_ENABLED"`
	Namespace string `yaml:"namespace" env:"NATIQ_METRICS_NAMESPACE"`
	// بازه‌ی گزارش آمار در لاگ
	ReportInterval time.Duration `yaml:"report_interval" env:"NATIQ_METRICS_REPORT_INTERVAL"`
}

func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		Namespace:      "natiq",
		ReportInterval: time.Minute,
	}
}

// Metrics - متریک‌های Prometheus روی یک رجیستری اختصاصی
type Metrics struct {
	registry *prometheus.Registry

	questions      *prometheus.CounterVec
	lookups        *prometheus.CounterVec
	cacheHits      prometheus.Counter
	rateLimited    prometheus.Counter
	answerDuration prometheus.Histogram
	dossierRecords prometheus.Gauge
	wsConnections  prometheus.Gauge
}

func NewMetrics(config Config) *Metrics {
	ns := config.Namespace
	if ns == "" {
		ns = "natiq"
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		questions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "questions_total",
			Help:      "Answered questions by classified intent.",
		}, []string{"intent"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "dossier_lookups_total",
			Help:      "Dossier lookups by outcome.",
		}, []string{"outcome"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "cache_hits_total",
			Help:      "Answers served from the answer cache.",
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-client rate limiter.",
		}),
		answerDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "answer_duration_seconds",
			Help:      "Time spent computing an answer.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
		dossierRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "dossier_records",
			Help:      "Records currently in the dossier.",
		}),
		wsConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "websocket_connections",
			Help:      "Open websocket chat connections.",
		}),
	}

	m.registry.MustRegister(
		m.questions,
		m.lookups,
		m.cacheHits,
		m.rateLimited,
		m.answerDuration,
		m.dossierRecords,
		m.wsConnections,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveAnswer records one answered question.
func (m *Metrics) ObserveAnswer(answer core.Answer, elapsed time.Duration) {
	m.questions.WithLabelValues(string(answer.Analysis.Intent)).Inc()
	if answer.Metadata.Cached {
		m.cacheHits.Inc()
		return
	}

	if answer.Analysis.Intent.IsPersonal() {
		outcome := "not_found"
		if answer.Metadata.LookupFound {
			outcome = "found"
		}
		m.lookups.WithLabelValues(outcome).Inc()
	}
	m.answerDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) RateLimited() {
	m.rateLimited.Inc()
}

func (m *Metrics) SetDossierRecords(n int) {
	m.dossierRecords.Set(float64(n))
}

func (m *Metrics) ConnectionOpened() { m.wsConnections.Inc() }
func (m *Metrics) ConnectionClosed() { m.wsConnections.Dec() }

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
