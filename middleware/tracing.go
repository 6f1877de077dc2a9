package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gantoin/n8n/execution"
)

// tracerName is the instrumentation scope name for execution tracing.
const tracerName = "github.com/gantoin/n8n"

// Tracing returns middleware that wraps the execution in an
// OpenTelemetry span. If no TracerProvider is configured globally, the
// default noop tracer is used and this middleware becomes a
// pass-through with zero overhead.
//
// Span attributes include: n8n.execution.id, n8n.workflow.id,
// n8n.workflow.name, n8n.execution.mode. On error, the span status is
// set to codes.Error with the error message.
func Tracing() Middleware {
	tracer := otel.Tracer(tracerName)
	return TracingWithTracer(tracer)
}

// TracingWithTracer returns tracing middleware using the provided
// tracer. This variant allows injecting a specific TracerProvider for
// testing or when multiple providers are in use.
func TracingWithTracer(tracer trace.Tracer) Middleware {
	return func(ctx context.Context, run *execution.Run, next Handler) error {
		ctx, span := tracer.Start(ctx, "n8n.workflow.execute",
			trace.WithAttributes(
				attribute.String("n8n.execution.id", run.ID.String()),
				attribute.String("n8n.workflow.id", run.WorkflowID),
				attribute.String("n8n.workflow.name", run.WorkflowName),
				attribute.String("n8n.execution.mode", string(run.Mode)),
			),
			trace.WithSpanKind(trace.SpanKindInternal),
		)
		defer span.End()

		err := next(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	}
}
