// Package observe provides application-wide observability primitives for
// voxcheck: OpenTelemetry metrics, request tracing, structured logging,
// and HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all voxcheck metrics.
const meterName = "github.com/voxcheck/voxcheck"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms per analysis stage ---

	// DecodeDuration tracks audio decode and normalization latency.
	DecodeDuration metric.Float64Histogram

	// ExtractDuration tracks feature extraction latency.
	ExtractDuration metric.Float64Histogram

	// AnalysisDuration tracks full request-level analysis latency
	// (decode + extract + score).
	AnalysisDuration metric.Float64Histogram

	// --- Counters ---

	// AnalysisRequests counts analysis attempts. Use with attribute:
	//   attribute.String("status", "ok"|"error")
	AnalysisRequests metric.Int64Counter

	// AnalysisErrors counts failures by stage. Use with attribute:
	//   attribute.String("stage", "upload"|"decode"|"extract")
	AnalysisErrors metric.Int64Counter

	// Verdicts counts results by label. Use with attribute:
	//   attribute.String("label", ...)
	Verdicts metric.Int64Counter

	// --- Gauges ---

	// ActiveAnalyses tracks the number of analyses currently running.
	ActiveAnalyses metric.Int64UpDownCounter

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds) sized for
// CPU-bound analysis of clips up to ten seconds long.
var latencyBuckets = []float64{
	0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.DecodeDuration, err = m.Float64Histogram("voxcheck.decode.duration",
		metric.WithDescription("Latency of audio decode and normalization."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ExtractDuration, err = m.Float64Histogram("voxcheck.extract.duration",
		metric.WithDescription("Latency of acoustic feature extraction."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.AnalysisDuration, err = m.Float64Histogram("voxcheck.analysis.duration",
		metric.WithDescription("End-to-end analysis latency per request."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.AnalysisRequests, err = m.Int64Counter("voxcheck.analysis.requests",
		metric.WithDescription("Total analysis attempts by status."),
	); err != nil {
		return nil, err
	}
	if met.AnalysisErrors, err = m.Int64Counter("voxcheck.analysis.errors",
		metric.WithDescription("Total analysis failures by pipeline stage."),
	); err != nil {
		return nil, err
	}
	if met.Verdicts, err = m.Int64Counter("voxcheck.verdicts",
		metric.WithDescription("Total verdicts by label."),
	); err != nil {
		return nil, err
	}

	// Gauges (UpDownCounters).
	if met.ActiveAnalyses, err = m.Int64UpDownCounter("voxcheck.active_analyses",
		metric.WithDescription("Number of analyses currently running."),
	); err != nil {
		return nil, err
	}

	// HTTP middleware histogram.
	if met.HTTPRequestDuration, err = m.Float64Histogram("voxcheck.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordDuration records an elapsed time into the given stage histogram.
func (m *Metrics) RecordDuration(ctx context.Context, h metric.Float64Histogram, d time.Duration) {
	h.Record(ctx, d.Seconds())
}

// RecordError counts a failure attributed to one pipeline stage.
func (m *Metrics) RecordError(ctx context.Context, stage string) {
	m.AnalysisErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordVerdict records a completed analysis: the request counter with
// status "ok" and the verdict counter for label.
func (m *Metrics) RecordVerdict(ctx context.Context, label string) {
	m.AnalysisRequests.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "ok")))
	m.Verdicts.Add(ctx, 1, metric.WithAttributes(attribute.String("label", label)))
}

// RecordFailure records a failed analysis request.
func (m *Metrics) RecordFailure(ctx context.Context) {
	m.AnalysisRequests.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "error")))
}
