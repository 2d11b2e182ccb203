package optimizer

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Global providers are no-ops unless the binary installs an SDK.
var (
	tracer = otel.Tracer("niso.optimizer")
	meter  = otel.Meter("niso.optimizer")
)

var (
	runTotal        metric.Int64Counter
	executionsTotal metric.Int64Counter
	runDuration     metric.Float64Histogram
	improvement     metric.Float64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

func initMetrics() error {
	metricsOnce.Do(func() {
		var err error
		runTotal, err = meter.Int64Counter(
			"niso_optimize_total",
			metric.WithDescription("Number of optimization runs"),
		)
		if err != nil {
			metricsErr = err
			return
		}
		executionsTotal, err = meter.Int64Counter(
			"niso_circuit_executions_total",
			metric.WithDescription("Number of parity circuits executed by optimization runs"),
		)
		if err != nil {
			metricsErr = err
			return
		}
		runDuration, err = meter.Float64Histogram(
			"niso_optimize_duration_seconds",
			metric.WithDescription("Duration of optimization runs"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}
		improvement, err = meter.Float64Histogram(
			"niso_parity_improvement",
			metric.WithDescription("Parity improvement over the baseline"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func startOptimizeSpan(ctx context.Context, cfg Config) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Optimizer.Optimize",
		trace.WithAttributes(
			attribute.Int("niso.qubits", cfg.Qubits),
			attribute.String("niso.mode", cfg.Mode.String()),
			attribute.String("niso.hardware", cfg.Hardware.String()),
			attribute.Float64("niso.noise", cfg.Noise),
			attribute.Int("niso.shots", cfg.Shots),
		),
	)
}

func setOptimizeSpanResult(span trace.Span, r *Result) {
	span.SetAttributes(
		attribute.Int("niso.iterations", r.Tqqc.Iterations),
		attribute.Float64("niso.delta_opt", r.Tqqc.DeltaOpt),
		attribute.Float64("niso.improvement", r.Tqqc.Improvement),
		attribute.Bool("niso.early_stopped", r.Tqqc.EarlyStopped),
	)
}

func recordOptimizeMetrics(ctx context.Context, elapsed time.Duration, r *Result, success bool) {
	if err := initMetrics(); err != nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool("success", success))
	runTotal.Add(ctx, 1, attrs)
	runDuration.Record(ctx, elapsed.Seconds(), attrs)
	if r == nil {
		return
	}
	executionsTotal.Add(ctx, int64(r.Execution.CircuitExecutions))
	improvement.Record(ctx, r.Tqqc.Improvement)
}
