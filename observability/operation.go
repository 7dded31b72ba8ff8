package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Outcome values recorded on spans and counters.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Operation is a traced unit of work with a single outcome.
type Operation struct {
	span  trace.Span
	start time.Time
}

// StartOperation starts a span named name on tracer.
func StartOperation(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, &Operation{span: span, start: time.Now()}
}

// SetAttributes adds attributes to the operation's span.
func (o *Operation) SetAttributes(attrs ...attribute.KeyValue) {
	o.span.SetAttributes(attrs...)
}

// End records the outcome and duration and ends the span. It returns the
// outcome string.
func (o *Operation) End(err error) string {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, err.Error())
		o.span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}
	o.span.SetAttributes(
		attribute.String(AttrOutcome, outcome),
		attribute.Int64(AttrDurationMs, time.Since(o.start).Milliseconds()),
	)
	o.span.End()
	return outcome
}
