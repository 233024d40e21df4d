package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation tracks a traced, timed unit of container work such as a
// resolution or a lifecycle hook.
type Operation struct {
	Name      string
	StartTime time.Time
	span      trace.Span
}

// StartOperation starts a span named name and returns the derived context.
func StartOperation(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	ctx, span := StartSpan(ctx, name, trace.WithAttributes(attrs...))
	return ctx, &Operation{
		Name:      name,
		StartTime: time.Now(),
		span:      span,
	}
}

// SetAttributes adds attributes to the operation span.
func (o *Operation) SetAttributes(attrs ...attribute.KeyValue) {
	o.span.SetAttributes(attrs...)
}

// End finishes the span, marking it failed when err is non-nil, and returns
// the elapsed time.
func (o *Operation) End(err error) time.Duration {
	duration := time.Since(o.StartTime)
	if err != nil {
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, err.Error())
		o.span.SetAttributes(
			attribute.String(AttrStatus, "error"),
			attribute.String(AttrErrorMessage, err.Error()),
		)
	} else {
		o.span.SetAttributes(attribute.String(AttrStatus, "ok"))
	}
	o.span.SetAttributes(attribute.Int64(AttrDurationMs, duration.Milliseconds()))
	o.span.End()
	return duration
}

// Status maps an error to the status label used by metrics.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
