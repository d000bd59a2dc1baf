package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const alertsTracerName = "github.com/KasumiMercury/primind-attendance-alerts/internal/service"

func AlertsTracer() trace.Tracer {
	return otel.Tracer(alertsTracerName)
}

func StartSnapshotSpan(ctx context.Context, recipient string, fromCache bool) (context.Context, trace.Span) {
	return AlertsTracer().Start(ctx, "alerts.snapshot",
		trace.WithAttributes(
			attribute.String("recipient", recipient),
			attribute.Bool("snapshot.from_cache", fromCache),
		),
		trace.WithSpanKind(trace.SpanKindConsumer),
	)
}

func RecordSnapshotResult(span trace.Span, unreadCount, admittedCount int, discarded bool) {
	span.SetAttributes(
		attribute.Int("snapshot.unread_count", unreadCount),
		attribute.Int("snapshot.admitted_count", admittedCount),
		attribute.Bool("snapshot.discarded", discarded),
	)
	span.SetStatus(codes.Ok, "")
}

func StartDispatchSpan(ctx context.Context, deliveryID, alertID, transport string) (context.Context, trace.Span) {
	return AlertsTracer().Start(ctx, "alerts.dispatch",
		trace.WithAttributes(
			attribute.String("delivery_id", deliveryID),
			attribute.String("alert_id", alertID),
			attribute.String("transport", transport),
		),
		trace.WithSpanKind(trace.SpanKindProducer),
	)
}

func RecordDispatchResult(span trace.Span, outcome string, err error) {
	span.SetAttributes(attribute.String("dispatch.outcome", outcome))
	recordError(span, err)
}

func StartUpcomingSpan(ctx context.Context, entityID string) (context.Context, trace.Span) {
	return AlertsTracer().Start(ctx, "alerts.upcoming",
		trace.WithAttributes(
			attribute.String("entity_id", entityID),
		),
	)
}

func RecordUpcomingResult(span trace.Span, entryCount, rankedCount int, err error) {
	span.SetAttributes(
		attribute.Int("upcoming.entry_count", entryCount),
		attribute.Int("upcoming.ranked_count", rankedCount),
	)
	recordError(span, err)
}

func StartStoreOperationSpan(ctx context.Context, operation, key string) (context.Context, trace.Span) {
	return AlertsTracer().Start(ctx, "alerts.store."+operation,
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", operation),
			attribute.String("db.key", key),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func StartScheduleQuerySpan(ctx context.Context, system, operation, entityID string) (context.Context, trace.Span) {
	return AlertsTracer().Start(ctx, "alerts.schedule."+operation,
		trace.WithAttributes(
			attribute.String("db.system", system),
			attribute.String("db.operation", operation),
			attribute.String("entity_id", entityID),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// RecordResult sets the span status from err.
func RecordResult(span trace.Span, err error) {
	recordError(span, err)
}

func recordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}

// InjectToHTTPRequest writes the active trace context into outgoing headers.
func InjectToHTTPRequest(ctx context.Context, req *http.Request) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}

// ExtractFromHTTPRequest reads an upstream trace context from incoming headers.
func ExtractFromHTTPRequest(ctx context.Context, req *http.Request) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(req.Header))
}
