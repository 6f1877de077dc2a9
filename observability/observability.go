// Package observability provides an execution hook that records
// lifecycle metrics through OpenTelemetry.
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/gantoin/n8n/execution"
	"github.com/gantoin/n8n/hooks"
)

const meterName = "github.com/gantoin/n8n/observability"

// Compile-time interface checks.
var (
	_ hooks.Hook              = (*MetricsHook)(nil)
	_ hooks.ExecutionStarted  = (*MetricsHook)(nil)
	_ hooks.ExecutionFinished = (*MetricsHook)(nil)
	_ hooks.ExecutionFailed   = (*MetricsHook)(nil)
)

// MetricsHook records execution lifecycle metrics. Register it with a
// hooks.Registry to track dispatch rates, completion counts, failure
// counts and end-to-end execution duration.
type MetricsHook struct {
	started  metric.Int64Counter
	finished metric.Int64Counter
	failed   metric.Int64Counter
	duration metric.Float64Histogram
}

// NewMetricsHook creates a MetricsHook on the global meter provider.
func NewMetricsHook() (*MetricsHook, error) {
	return NewMetricsHookWithMeter(otel.Meter(meterName))
}

// NewMetricsHookWithMeter creates a MetricsHook with the provided
// meter. Pass a meter backed by sdk/metric with a manual reader for
// testing.
func NewMetricsHookWithMeter(meter metric.Meter) (*MetricsHook, error) {
	started, err := meter.Int64Counter("n8n.execution.started",
		metric.WithDescription("Workflow executions dispatched"))
	if err != nil {
		return nil, err
	}
	finished, err := meter.Int64Counter("n8n.execution.finished",
		metric.WithDescription("Workflow executions that delivered a result"))
	if err != nil {
		return nil, err
	}
	failed, err := meter.Int64Counter("n8n.execution.failed",
		metric.WithDescription("Workflow executions rejected by the engine"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("n8n.execution.duration",
		metric.WithDescription("End-to-end workflow execution duration"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	return &MetricsHook{
		started:  started,
		finished: finished,
		failed:   failed,
		duration: duration,
	}, nil
}

// Name implements hooks.Hook.
func (m *MetricsHook) Name() string { return "observability-metrics" }

// OnExecutionStarted implements hooks.ExecutionStarted.
func (m *MetricsHook) OnExecutionStarted(ctx context.Context, run *execution.Run) error {
	m.started.Add(ctx, 1, metric.WithAttributes(runAttributes(run)...))
	return nil
}

// OnExecutionFinished implements hooks.ExecutionFinished.
func (m *MetricsHook) OnExecutionFinished(ctx context.Context, run *execution.Run, elapsed time.Duration) error {
	attrs := metric.WithAttributes(runAttributes(run)...)
	m.finished.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
	return nil
}

// OnExecutionFailed implements hooks.ExecutionFailed.
func (m *MetricsHook) OnExecutionFailed(ctx context.Context, run *execution.Run, _ error) error {
	m.failed.Add(ctx, 1, metric.WithAttributes(runAttributes(run)...))
	return nil
}

func runAttributes(run *execution.Run) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("n8n.workflow.id", run.WorkflowID),
		attribute.String("n8n.execution.mode", string(run.Mode)),
	}
}
