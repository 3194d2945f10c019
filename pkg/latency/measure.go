// Package latency times pipeline stages and mirrors each timing as a trace span.
package latency

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "chat-budgeting-be/nl2sql"

// Measure runs fn, returning its result and the wall-clock time it took in
// milliseconds. The elapsed time is reported even when fn fails.
func Measure[T any](ctx context.Context, stage string, fn func(ctx context.Context) (T, error)) (T, int64, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "nl2sql."+stage)
	defer span.End()

	start := time.Now()
	result, err := fn(ctx)
	elapsed := Since(start)

	span.SetAttributes(attribute.Int64("latency.ms", elapsed))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return result, elapsed, err
}

// Since returns the milliseconds elapsed since start.
func Since(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}

// Stages collects the per-stage timings of one pipeline run.
type Stages struct {
	Classification int64
	Retrieval      int64
	Generation     int64
	Execution      int64
	Summarization  int64
	Total          int64
}
