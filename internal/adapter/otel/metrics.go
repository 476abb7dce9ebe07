package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "asteritime"

// Metrics holds all AsteriTime metric instruments.
type Metrics struct {
	TasksCreated      metric.Int64Counter
	ManualTransitions metric.Int64Counter
	AutoTransitions   metric.Int64Counter
	VersionConflicts  metric.Int64Counter
	FocusMinutes      metric.Int64Counter
	RequestDuration   metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.TasksCreated, err = meter.Int64Counter("asteritime.tasks.created",
		metric.WithDescription("Number of tasks created"))
	if err != nil {
		return nil, err
	}

	m.ManualTransitions, err = meter.Int64Counter("asteritime.transitions.manual",
		metric.WithDescription("Number of user-initiated status transitions"))
	if err != nil {
		return nil, err
	}

	m.AutoTransitions, err = meter.Int64Counter("asteritime.transitions.auto",
		metric.WithDescription("Number of clock-driven status transitions"))
	if err != nil {
		return nil, err
	}

	m.VersionConflicts, err = meter.Int64Counter("asteritime.tasks.version_conflicts",
		metric.WithDescription("Number of optimistic lock conflicts on task updates"))
	if err != nil {
		return nil, err
	}

	m.FocusMinutes, err = meter.Int64Counter("asteritime.journal.focus_minutes",
		metric.WithDescription("Pomodoro focus minutes credited"))
	if err != nil {
		return nil, err
	}

	m.RequestDuration, err = meter.Float64Histogram("asteritime.request.duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
