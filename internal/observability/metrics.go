// README: Pipeline metric instruments.
package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "voyager"

// PipelineMetrics counts trip generations and times each pipeline stage.
// A nil *PipelineMetrics is valid and records nothing.
type PipelineMetrics struct {
	generations   metric.Int64Counter
	stageDuration metric.Float64Histogram
	imageLookups  metric.Int64Counter
}

// NewPipelineMetrics creates instruments on the global meter provider.
func NewPipelineMetrics() (*PipelineMetrics, error) {
	meter := otel.GetMeterProvider().Meter(meterName)
	m := &PipelineMetrics{}
	var err error

	m.generations, err = meter.Int64Counter(
		"trip_generations_total",
		metric.WithDescription("Trip generation requests by outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("trip_generations_total: %w", err)
	}

	m.stageDuration, err = meter.Float64Histogram(
		"trip_pipeline_stage_duration_seconds",
		metric.WithDescription("Duration of each trip pipeline stage"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("trip_pipeline_stage_duration_seconds: %w", err)
	}

	m.imageLookups, err = meter.Int64Counter(
		"image_lookups_total",
		metric.WithDescription("Image search lookups by result"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, fmt.Errorf("image_lookups_total: %w", err)
	}
	return m, nil
}

// Generation records one finished pipeline run with its outcome label.
func (m *PipelineMetrics) Generation(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.generations.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// Stage records how long a named stage took.
func (m *PipelineMetrics) Stage(ctx context.Context, stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("stage", stage)))
}

// ImageLookup records one image lookup; result is "hit", "fallback" or "miss".
func (m *PipelineMetrics) ImageLookup(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.imageLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
