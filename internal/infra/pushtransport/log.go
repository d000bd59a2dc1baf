package pushtransport

import (
	"context"
	"log/slog"
	"time"
)

const NameLog = "log"

// LogTransport only logs messages. Used when no push backend is configured.
type LogTransport struct{}

func NewLogTransport() *LogTransport {
	return &LogTransport{}
}

func (t *LogTransport) Name() string {
	return NameLog
}

func (t *LogTransport) Deliver(ctx context.Context, msg *PushMessage) (*Receipt, error) {
	slog.InfoContext(ctx, "push message (log transport)",
		slog.String("delivery_id", msg.DeliveryID),
		slog.String("target_id", msg.TargetID),
		slog.String("role", msg.Role),
		slog.String("alert_id", msg.AlertID),
		slog.String("title", msg.Title),
		slog.String("body", msg.Body),
	)

	return &Receipt{
		Name:       NameLog + "/" + msg.DeliveryID,
		CreateTime: time.Now(),
	}, nil
}
