package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds upload-pipeline metrics
type PipelineMetrics struct {
	uploadCounter metric.Int64Counter
	chunkCounter  metric.Int64Counter
}

// NewPipelineMetrics creates upload-pipeline metric instruments
func NewPipelineMetrics() (*PipelineMetrics, error) {
	meter := otel.Meter(instrumentationName)

	uploadCounter, err := meter.Int64Counter(
		"upload.pipeline.uploads",
		metric.WithDescription("Upload requests processed, by result"),
		metric.WithUnit("{uploads}"),
	)
	if err != nil {
		return nil, err
	}

	chunkCounter, err := meter.Int64Counter(
		"upload.pipeline.chunks_stored",
		metric.WithDescription("Chunks stored for chunked uploads"),
		metric.WithUnit("{chunks}"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		uploadCounter: uploadCounter,
		chunkCounter:  chunkCounter,
	}, nil
}

// RecordUpload counts one processed upload with its result
// (stored, failed, rejected_too_big)
func (m *PipelineMetrics) RecordUpload(ctx context.Context, result string) {
	m.uploadCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("result", result),
	))
}

// RecordChunk counts one stored chunk
func (m *PipelineMetrics) RecordChunk(ctx context.Context) {
	m.chunkCounter.Add(ctx, 1)
}
