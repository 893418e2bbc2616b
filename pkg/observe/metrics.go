// Package observe provides phonocoach's observability primitives:
// OpenTelemetry metrics and traces, a Prometheus exporter bridge, and the
// HTTP and endpoint middleware that record them.
//
// Tests should build [Metrics] with [NewMetrics] over their own
// [metric.MeterProvider] to avoid cross-test pollution.
package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/hazyhaar/phonocoach/pkg/ipa"
)

// meterName is the instrumentation scope name used for all phonocoach metrics.
const meterName = "github.com/hazyhaar/phonocoach"

// Metrics holds all OpenTelemetry metric instruments for the application.
type Metrics struct {
	meter metric.Meter

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram

	// EndpointDuration tracks endpoint latency, whatever the transport. Use with attributes:
	//   attribute.String("endpoint", ...), attribute.String("transport", ...)
	EndpointDuration metric.Float64Histogram

	// EndpointCalls counts endpoint invocations. Use with attributes:
	//   attribute.String("endpoint", ...), attribute.String("transport", ...), attribute.String("status", ...)
	EndpointCalls metric.Int64Counter

	// Evaluations counts scored attempts. Use with attribute:
	//   attribute.Bool("passed", ...)
	Evaluations metric.Int64Counter

	// AttemptAccuracy is the distribution of attempt accuracies in [0, 1].
	AttemptAccuracy metric.Float64Histogram
}

var latencyBuckets = []float64{
	0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1,
}

var accuracyBuckets = []float64{0.2, 0.4, 0.6, 0.7, 0.8, 0.9, 1}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{meter: m}

	if met.HTTPRequestDuration, err = m.Float64Histogram("phonocoach.http.request.duration",
		metric.WithDescription("HTTP request processing time."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.EndpointDuration, err = m.Float64Histogram("phonocoach.endpoint.duration",
		metric.WithDescription("Endpoint latency across HTTP and MCP transports."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.EndpointCalls, err = m.Int64Counter("phonocoach.endpoint.calls",
		metric.WithDescription("Endpoint invocations by endpoint, transport, and status."),
	); err != nil {
		return nil, err
	}
	if met.Evaluations, err = m.Int64Counter("phonocoach.evaluations",
		metric.WithDescription("Scored pronunciation attempts by outcome."),
	); err != nil {
		return nil, err
	}
	if met.AttemptAccuracy, err = m.Float64Histogram("phonocoach.attempt.accuracy",
		metric.WithDescription("Word accuracy of scored attempts."),
		metric.WithUnit("1"),
		metric.WithExplicitBucketBoundaries(accuracyBuckets...),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// RecordEvaluation records one scored attempt.
func (m *Metrics) RecordEvaluation(ctx context.Context, accuracy float64, passed bool) {
	m.Evaluations.Add(ctx, 1, metric.WithAttributes(attribute.Bool("passed", passed)))
	m.AttemptAccuracy.Record(ctx, accuracy)
}

// ObserveEngine exports the transcription engine's cache and lexicon
// counters as observable instruments read from stats at collection time.
func (m *Metrics) ObserveEngine(stats func() ipa.Stats) (metric.Registration, error) {
	cacheLookups, err := m.meter.Int64ObservableCounter("phonocoach.ipa.cache.lookups",
		metric.WithDescription("Transcription cache lookups by result."),
	)
	if err != nil {
		return nil, err
	}
	lexiconLookups, err := m.meter.Int64ObservableCounter("phonocoach.ipa.lexicon.lookups",
		metric.WithDescription("English lexicon lookups by result."),
	)
	if err != nil {
		return nil, err
	}
	cacheSize, err := m.meter.Int64ObservableGauge("phonocoach.ipa.cache.size",
		metric.WithDescription("Memoized transcriptions."),
	)
	if err != nil {
		return nil, err
	}

	hit := metric.WithAttributes(attribute.String("result", "hit"))
	miss := metric.WithAttributes(attribute.String("result", "miss"))
	return m.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := stats()
		o.ObserveInt64(cacheLookups, int64(s.CacheHits), hit)
		o.ObserveInt64(cacheLookups, int64(s.CacheMisses), miss)
		o.ObserveInt64(lexiconLookups, int64(s.LexiconHits), hit)
		o.ObserveInt64(lexiconLookups, int64(s.LexiconMisses), miss)
		o.ObserveInt64(cacheSize, int64(s.CacheSize))
		return nil
	}, cacheLookups, lexiconLookups, cacheSize)
}
