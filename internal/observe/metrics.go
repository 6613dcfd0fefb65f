// Package observe provides observability primitives for ayahlens:
// OpenTelemetry metrics, tracing, and HTTP middleware that ties them
// together with structured logging.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can be
// scraped from the standard /metrics endpoint. Tests should use [NewMetrics]
// with a private [metric.MeterProvider] to avoid cross-test pollution.
package observe

import (
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all ayahlens metrics.
const meterName = "github.com/ayahlens/ayahlens"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms per pipeline stage ---

	// ConvertDuration tracks ffmpeg audio conversion latency.
	ConvertDuration metric.Float64Histogram

	// TranscribeDuration tracks speech-to-text transcription latency.
	TranscribeDuration metric.Float64Histogram

	// MatchDuration tracks the corpus scoring pass latency.
	MatchDuration metric.Float64Histogram

	// --- Counters ---

	// Queries counts match queries. Use with attributes:
	//   attribute.String("input", "audio"|"text"), attribute.String("status", "ok"|"error")
	Queries metric.Int64Counter

	// EmptyResults counts queries that cleared no candidate above the
	// score threshold.
	EmptyResults metric.Int64Counter

	// --- Gauges ---

	// CorpusVerses tracks the number of verse records in the loaded
	// corpus. Set once after load; changes only on a corpus reload.
	CorpusVerses metric.Int64UpDownCounter

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time. Use with
	// attributes: attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds). The
// matching pass completes in low milliseconds; conversion and transcription
// dominate the upper buckets.
var latencyBuckets = []float64{
	0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.ConvertDuration, err = m.Float64Histogram("ayahlens.audio.convert.duration",
		metric.WithDescription("Latency of ffmpeg audio conversion."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.TranscribeDuration, err = m.Float64Histogram("ayahlens.stt.duration",
		metric.WithDescription("Latency of speech-to-text transcription."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.MatchDuration, err = m.Float64Histogram("ayahlens.match.duration",
		metric.WithDescription("Latency of the corpus scoring pass."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Queries, err = m.Int64Counter("ayahlens.queries",
		metric.WithDescription("Number of match queries processed."),
	); err != nil {
		return nil, err
	}
	if met.EmptyResults, err = m.Int64Counter("ayahlens.queries.empty",
		metric.WithDescription("Number of queries that produced no match above the threshold."),
	); err != nil {
		return nil, err
	}
	if met.CorpusVerses, err = m.Int64UpDownCounter("ayahlens.corpus.verses",
		metric.WithDescription("Number of verse records in the loaded corpus."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("ayahlens.http.request.duration",
		metric.WithDescription("HTTP request processing time."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	return met, nil
}
