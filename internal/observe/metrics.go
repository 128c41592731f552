// Package observe provides observability primitives for lyralign:
// OpenTelemetry metrics with a Prometheus exporter bridge.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter is installed by [InitProvider] so that metrics can be scraped via
// a standard /metrics endpoint. A package-level default [Metrics] instance
// ([DefaultMetrics]) is provided for convenience; tests should use
// [NewMetrics] with a custom [metric.MeterProvider] to avoid cross-test
// pollution.
package observe

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all lyralign metrics.
const meterName = "github.com/abotescu20-maker/lyralign"

// Metrics holds all OpenTelemetry metric instruments for the pipeline.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// STTDuration tracks the latency of each blocking transcription flush.
	STTDuration metric.Float64Histogram

	// ChunksConsumed counts audio chunks drained by the transcription worker.
	ChunksConsumed metric.Int64Counter

	// TranscriptEvents counts non-empty transcript events emitted by the
	// worker.
	TranscriptEvents metric.Int64Counter

	// STTErrors counts failed transcription flushes.
	STTErrors metric.Int64Counter

	// MatchesAccepted counts transcripts that advanced the alignment cursor.
	MatchesAccepted metric.Int64Counter

	// NoMatchEvents counts transcripts rejected by the aligner (below
	// threshold or no forward progress). These are expected and frequent.
	NoMatchEvents metric.Int64Counter
}

// latencyBuckets defines histogram bucket boundaries (in seconds) sized for
// batch whisper inference over a few seconds of audio.
var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.STTDuration, err = m.Float64Histogram("lyralign.stt.duration",
		metric.WithDescription("Latency of blocking speech-to-text flushes."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ChunksConsumed, err = m.Int64Counter("lyralign.audio.chunks",
		metric.WithDescription("Total audio chunks consumed by the transcription worker."),
	); err != nil {
		return nil, err
	}
	if met.TranscriptEvents, err = m.Int64Counter("lyralign.transcript.events",
		metric.WithDescription("Total non-empty transcript events emitted."),
	); err != nil {
		return nil, err
	}
	if met.STTErrors, err = m.Int64Counter("lyralign.stt.errors",
		metric.WithDescription("Total failed transcription flushes."),
	); err != nil {
		return nil, err
	}
	if met.MatchesAccepted, err = m.Int64Counter("lyralign.align.matches",
		metric.WithDescription("Total transcripts that advanced the alignment cursor."),
	); err != nil {
		return nil, err
	}
	if met.NoMatchEvents, err = m.Int64Counter("lyralign.align.no_match",
		metric.WithDescription("Total transcripts rejected by the aligner."),
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

// DefaultMetrics returns the package-level [Metrics] instance, creating it
// on first call using [otel.GetMeterProvider]. Subsequent calls return the
// same pointer. Panics if instrument creation fails (should not happen with
// the global provider).
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
