package telemetry

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"google.golang.org/grpc"
)

// Metrics holds the custom metrics instruments for the application.
type Metrics struct {
	RequestCounter     metric.Int64Counter
	RequestDuration    metric.Float64Histogram
	BackendCalls       metric.Int64Counter
	ValidationFailures metric.Int64Counter
	TasksGauge         metric.Int64ObservableGauge

	lastTaskCount atomic.Int64
}

// InitMeterProvider initializes the OpenTelemetry meter provider.
// It configures an OTLP gRPC exporter and sets up the global meter provider.
func InitMeterProvider(ctx context.Context, conn *grpc.ClientConn, serviceName, environment string) (*sdkmetric.MeterProvider, error) {
	exporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	res, err := newResource(serviceName, environment)
	if err != nil {
		return nil, err
	}

	// Periodic reader with a 10 second interval
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(10*time.Second),
		)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	return mp, nil
}

// NewMetrics creates and registers custom metrics instruments.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.RequestCounter, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request counter: %w", err)
	}

	m.RequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request duration histogram: %w", err)
	}

	m.BackendCalls, err = meter.Int64Counter(
		"backend_requests_total",
		metric.WithDescription("Total number of calls to the task backend"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend call counter: %w", err)
	}

	m.ValidationFailures, err = meter.Int64Counter(
		"task_validation_failures_total",
		metric.WithDescription("Task submissions rejected before reaching the backend"),
		metric.WithUnit("{submission}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create validation failure counter: %w", err)
	}

	// Number of tasks seen by the most recent successful list
	m.TasksGauge, err = meter.Int64ObservableGauge(
		"tasks_total",
		metric.WithDescription("Number of tasks returned by the last successful list"),
		metric.WithUnit("{task}"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(m.lastTaskCount.Load())
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks gauge: %w", err)
	}

	return m, nil
}

// ObserveTaskCount records the size of a task list returned by the backend.
func (m *Metrics) ObserveTaskCount(n int) {
	m.lastTaskCount.Store(int64(n))
}

// TaskCount returns the last observed task count.
func (m *Metrics) TaskCount() int64 {
	return m.lastTaskCount.Load()
}

// RecordBackendCall counts one backend call by operation and outcome.
func (m *Metrics) RecordBackendCall(ctx context.Context, op string, ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.BackendCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("backend.operation", op),
		attribute.String("outcome", outcome),
	))
}
