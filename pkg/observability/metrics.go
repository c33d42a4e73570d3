package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricDocumentsTotal = "pbipdecoder.documents.total"
	metricRowsTotal      = "pbipdecoder.rows.total"
	metricPassDuration   = "pbipdecoder.pass.duration.seconds"

	metricRequestsTotal   = "pbipdecoder.requests.total"
	metricRequestDuration = "pbipdecoder.request.duration.seconds"
	metricErrorsTotal     = "pbipdecoder.errors.total"

	attrKind   = "kind"
	attrStatus = "status"
	attrTable  = "table"
	attrOp     = "op"

	// StatusOK marks a successfully processed document or request.
	StatusOK = "ok"
	// StatusError marks a failed document or request.
	StatusError = "error"
)

// passBucketBoundaries covers 1ms to 60s; a pass reads every page or
// bookmark document of one report.
var passBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// ExtractionMetrics counts the documents and rows an extraction run processes.
type ExtractionMetrics struct {
	documents    metric.Int64Counter
	rows         metric.Int64Counter
	passDuration metric.Float64Histogram
}

// NewExtractionMetrics creates the extraction instruments from mt.
func NewExtractionMetrics(mt metric.Meter) (*ExtractionMetrics, error) {
	documents, err := mt.Int64Counter(metricDocumentsTotal,
		metric.WithDescription("Report documents processed"),
		metric.WithUnit("{document}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricDocumentsTotal, err)
	}

	rows, err := mt.Int64Counter(metricRowsTotal,
		metric.WithDescription("Rows produced per output table"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRowsTotal, err)
	}

	passDuration, err := mt.Float64Histogram(metricPassDuration,
		metric.WithDescription("Duration of one extraction pass"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(passBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricPassDuration, err)
	}

	return &ExtractionMetrics{documents: documents, rows: rows, passDuration: passDuration}, nil
}

// RecordDocument counts one document of kind with status StatusOK or StatusError.
func (em *ExtractionMetrics) RecordDocument(ctx context.Context, kind, status string) {
	em.documents.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrKind, kind),
		attribute.String(attrStatus, status),
	))
}

// RecordRows adds n rows to table.
func (em *ExtractionMetrics) RecordRows(ctx context.Context, table string, n int) {
	em.rows.Add(ctx, int64(n), metric.WithAttributes(attribute.String(attrTable, table)))
}

// RecordPass records the duration of the pass over documents of kind.
func (em *ExtractionMetrics) RecordPass(ctx context.Context, kind string, duration time.Duration) {
	em.passDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String(attrKind, kind)))
}

// REDMetrics holds the Rate, Error, Duration instruments for MCP tool calls.
type REDMetrics struct {
	requestsTotal   metric.Int64Counter
	requestDuration metric.Float64Histogram
	errorsTotal     metric.Int64Counter
}

// NewREDMetrics creates RED metric instruments from mt.
func NewREDMetrics(mt metric.Meter) (*REDMetrics, error) {
	reqTotal, err := mt.Int64Counter(metricRequestsTotal,
		metric.WithDescription("Total number of requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRequestsTotal, err)
	}

	reqDuration, err := mt.Float64Histogram(metricRequestDuration,
		metric.WithDescription("Request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(passBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRequestDuration, err)
	}

	errTotal, err := mt.Int64Counter(metricErrorsTotal,
		metric.WithDescription("Total number of errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricErrorsTotal, err)
	}

	return &REDMetrics{requestsTotal: reqTotal, requestDuration: reqDuration, errorsTotal: errTotal}, nil
}

// RecordRequest records a completed request with its operation, status, and duration.
func (rm *REDMetrics) RecordRequest(ctx context.Context, op, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	rm.requestsTotal.Add(ctx, 1, attrs)
	rm.requestDuration.Record(ctx, duration.Seconds(), attrs)

	if status == StatusError {
		rm.errorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOp, op)))
	}
}
