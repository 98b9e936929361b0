package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zoobzio/settle"
)

// SpanName is the name of the span recorded around each predicate call.
const SpanName = "settle.predicate"

// AttrValid records the raw predicate outcome on the span.
const AttrValid = attribute.Key("settle.valid")

// Traced wraps pred so that every call runs inside a span started from
// tracer. The target value is recorded with fmt's %v formatting; pass
// attrs to tag the span further.
func Traced[T comparable](tracer trace.Tracer, pred settle.Predicate[T], attrs ...attribute.KeyValue) settle.Predicate[T] {
	return func(ctx context.Context, value T) (bool, error) {
		ctx, span := tracer.Start(ctx, SpanName,
			trace.WithAttributes(attrs...),
			trace.WithAttributes(attribute.String("settle.value", fmt.Sprint(value))),
			trace.WithSpanKind(trace.SpanKindInternal),
		)
		defer span.End()

		ok, err := pred(ctx, value)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
			return false, err
		}
		span.SetAttributes(AttrValid.Bool(ok))
		span.SetStatus(codes.Ok, "")
		return ok, nil
	}
}
