package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	alertsMeterName = "alerts.pipeline"
)

type AlertMetrics struct {
	snapshots           metric.Int64Counter
	notifications       metric.Int64Counter
	subscriptionErrors  metric.Int64Counter
	activeSubscriptions metric.Int64UpDownCounter
	dispatches          metric.Int64Counter
	dispatchDuration    metric.Float64Histogram
	queueDepth          metric.Int64UpDownCounter
	upcomingDuration    metric.Float64Histogram
}

func NewAlertMetrics() (*AlertMetrics, error) {
	meter := otel.Meter(alertsMeterName)

	snapshots, err := meter.Int64Counter(
		"alerts_snapshots_total",
		metric.WithDescription("Total number of record snapshots received"),
		metric.WithUnit("{snapshot}"),
	)
	if err != nil {
		return nil, err
	}

	notifications, err := meter.Int64Counter(
		"alerts_notifications_total",
		metric.WithDescription("Unread alerts seen, by dedup outcome"),
		metric.WithUnit("{alert}"),
	)
	if err != nil {
		return nil, err
	}

	subscriptionErrors, err := meter.Int64Counter(
		"alerts_subscription_errors_total",
		metric.WithDescription("Errors reported by record subscriptions"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	activeSubscriptions, err := meter.Int64UpDownCounter(
		"alerts_active_subscriptions",
		metric.WithDescription("Number of open record subscriptions"),
		metric.WithUnit("{subscription}"),
	)
	if err != nil {
		return nil, err
	}

	dispatches, err := meter.Int64Counter(
		"alerts_dispatch_total",
		metric.WithDescription("Push notifications handed to the transport, by outcome"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	dispatchDuration, err := meter.Float64Histogram(
		"alerts_dispatch_duration_seconds",
		metric.WithDescription("Time from enqueue to transport completion"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
		),
	)
	if err != nil {
		return nil, err
	}

	queueDepth, err := meter.Int64UpDownCounter(
		"alerts_dispatch_queue_depth",
		metric.WithDescription("Notifications waiting in the dispatch outbox"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	upcomingDuration, err := meter.Float64Histogram(
		"alerts_upcoming_duration_seconds",
		metric.WithDescription("Time spent ranking upcoming schedule entries"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5,
		),
	)
	if err != nil {
		return nil, err
	}

	return &AlertMetrics{
		snapshots:           snapshots,
		notifications:       notifications,
		subscriptionErrors:  subscriptionErrors,
		activeSubscriptions: activeSubscriptions,
		dispatches:          dispatches,
		dispatchDuration:    dispatchDuration,
		queueDepth:          queueDepth,
		upcomingDuration:    upcomingDuration,
	}, nil
}

func (m *AlertMetrics) RecordSnapshot(ctx context.Context, role, source, outcome string) {
	m.snapshots.Add(ctx, 1, metric.WithAttributes(appendLoadtestLabels(ctx, []attribute.KeyValue{
		attribute.String("role", role),
		attribute.String("source", source),
		attribute.String("outcome", outcome),
	})...))
}

func (m *AlertMetrics) RecordNotification(ctx context.Context, role, alertType, outcome string) {
	m.notifications.Add(ctx, 1, metric.WithAttributes(appendLoadtestLabels(ctx, []attribute.KeyValue{
		attribute.String("role", role),
		attribute.String("alert_type", alertType),
		attribute.String("outcome", outcome),
	})...))
}

func (m *AlertMetrics) RecordSubscriptionError(ctx context.Context, role string, transient bool) {
	m.subscriptionErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("role", role),
		attribute.Bool("transient", transient),
	))
}

func (m *AlertMetrics) AddActiveSubscriptions(ctx context.Context, role string, delta int64) {
	m.activeSubscriptions.Add(ctx, delta, metric.WithAttributes(
		attribute.String("role", role),
	))
}

func (m *AlertMetrics) RecordDispatch(ctx context.Context, transport, outcome string) {
	m.dispatches.Add(ctx, 1, metric.WithAttributes(appendLoadtestLabels(ctx, []attribute.KeyValue{
		attribute.String("transport", transport),
		attribute.String("outcome", outcome),
	})...))
}

func (m *AlertMetrics) RecordDispatchDuration(ctx context.Context, transport string, duration time.Duration) {
	m.dispatchDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("transport", transport),
	))
}

func (m *AlertMetrics) AddQueueDepth(ctx context.Context, delta int64) {
	m.queueDepth.Add(ctx, delta)
}

func (m *AlertMetrics) RecordUpcomingDuration(ctx context.Context, duration time.Duration) {
	m.upcomingDuration.Record(ctx, duration.Seconds())
}
