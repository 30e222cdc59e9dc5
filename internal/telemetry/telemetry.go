// Package telemetry provides OpenTelemetry instrumentation for the triage service.
// It exports Prometheus metrics and provides tracing capabilities.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "mail-triage"

// Metrics holds all triage Prometheus metrics
type Metrics struct {
	// Classification metrics
	EmailsClassified       *prometheus.CounterVec
	ClassificationsFailed  *prometheus.CounterVec
	ClassificationDuration prometheus.Histogram
	BatchSize              prometheus.Histogram

	// Pattern matcher metrics
	PatternMatchDuration prometheus.Histogram
	PatternsMatched      prometheus.Counter

	// Provider metrics
	ProviderCalls   *prometheus.CounterVec
	ProviderLatency *prometheus.HistogramVec

	// Decision metrics
	EscalationsApplied *prometheus.CounterVec
	ZeroSignalTotal    prometheus.Counter

	// Snapshot metrics
	SnapshotReloads *prometheus.CounterVec

	// HTTP metrics
	RequestsThrottled prometheus.Counter
}

// Provider wraps telemetry providers
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics
func NewProvider() *Provider {
	metrics := initMetrics()
	tracer := otel.Tracer(serviceName)

	return &Provider{
		Tracer:  tracer,
		Metrics: metrics,
	}
}

// Handler returns the Prometheus HTTP handler for /metrics endpoint
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}
	initClassificationMetrics(m)
	initPatternMetrics(m)
	initProviderMetrics(m)
	initDecisionMetrics(m)
	initSnapshotMetrics(m)
	initHTTPMetrics(m)
	return m
}

func initClassificationMetrics(m *Metrics) {
	m.EmailsClassified = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "triage_emails_classified_total",
		Help: "Total emails classified, by resolved urgency and department",
	}, []string{"urgency", "department"})

	m.ClassificationsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "triage_classifications_failed_total",
		Help: "Total classification requests that failed",
	}, []string{"error_code"})

	m.ClassificationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "triage_classification_duration_seconds",
		Help:    "Time to classify a single email",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
	})

	m.BatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "triage_batch_size",
		Help:    "Number of emails per batch request",
		Buckets: []float64{1, 5, 10, 25, 50, 100},
	})
}

func initPatternMetrics(m *Metrics) {
	m.PatternMatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "triage_pattern_match_duration_seconds",
		Help:    "Time spent in keyword pattern matching (Aho-Corasick)",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
	})

	m.PatternsMatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "triage_patterns_matched_total",
		Help: "Total labels that received keyword pattern weight",
	})
}

func initProviderMetrics(m *Metrics) {
	m.ProviderCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "triage_provider_calls_total",
		Help: "Total signal provider calls, by provider and outcome",
	}, []string{"provider", "outcome"})

	m.ProviderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "triage_provider_latency_seconds",
		Help:    "Signal provider call latency",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
	}, []string{"provider"})
}

func initDecisionMetrics(m *Metrics) {
	m.EscalationsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "triage_escalations_applied_total",
		Help: "Total escalation rule firings, by rule name",
	}, []string{"rule"})

	m.ZeroSignalTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "triage_zero_signal_total",
		Help: "Total emails that produced no classification signal on either axis",
	})
}

func initSnapshotMetrics(m *Metrics) {
	m.SnapshotReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "triage_snapshot_reloads_total",
		Help: "Total snapshot reload attempts, by outcome (applied, rejected)",
	}, []string{"outcome"})
}

func initHTTPMetrics(m *Metrics) {
	m.RequestsThrottled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "triage_requests_throttled_total",
		Help: "Total HTTP requests rejected by the rate limiter",
	})
}

// RecordClassification records metrics for a single classification
func (p *Provider) RecordClassification(ctx context.Context, urgency, department string, duration time.Duration) {
	p.Metrics.EmailsClassified.WithLabelValues(urgency, department).Inc()
	p.Metrics.ClassificationDuration.Observe(duration.Seconds())
}

// RecordClassificationFailure records a failed classification with error code
func (p *Provider) RecordClassificationFailure(ctx context.Context, errorCode string) {
	p.Metrics.ClassificationsFailed.WithLabelValues(errorCode).Inc()
}

// RecordPatternMatch records pattern matcher metrics
func (p *Provider) RecordPatternMatch(ctx context.Context, duration time.Duration, labelsMatched int) {
	p.Metrics.PatternMatchDuration.Observe(duration.Seconds())
	p.Metrics.PatternsMatched.Add(float64(labelsMatched))
}

// RecordProviderCall records one signal provider call
func (p *Provider) RecordProviderCall(ctx context.Context, provider string, success bool, duration time.Duration) {
	outcome := "success"
	if !success {
		outcome = "error"
	}
	p.Metrics.ProviderCalls.WithLabelValues(provider, outcome).Inc()
	p.Metrics.ProviderLatency.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordEscalation records an escalation rule firing
func (p *Provider) RecordEscalation(ctx context.Context, rule string) {
	p.Metrics.EscalationsApplied.WithLabelValues(rule).Inc()
}

// RecordZeroSignal records an email with no signal on either axis
func (p *Provider) RecordZeroSignal(ctx context.Context) {
	p.Metrics.ZeroSignalTotal.Inc()
}

// RecordSnapshotReload records a snapshot reload attempt
func (p *Provider) RecordSnapshotReload(ctx context.Context, applied bool) {
	outcome := "applied"
	if !applied {
		outcome = "rejected"
	}
	p.Metrics.SnapshotReloads.WithLabelValues(outcome).Inc()
}

// RecordBatchSize records the size of a processed batch
func (p *Provider) RecordBatchSize(size int) {
	p.Metrics.BatchSize.Observe(float64(size))
}

// IncrementThrottled increments the rate limiter rejection counter
func (p *Provider) IncrementThrottled() {
	p.Metrics.RequestsThrottled.Inc()
}

// StartSpan starts a new trace span.
// The caller is responsible for ending the span with span.End().
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, span
}
