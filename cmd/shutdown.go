package main

import (
	"context"
	"log/slog"
	"time"
)

const shutdownTimeout = 10 * time.Second

type outboxDrainer interface {
	Close(ctx context.Context) error
	Pending() int
}

// drainOutbox closes the outbox and waits for queued notifications until
// ctx ends.
func drainOutbox(ctx context.Context, outbox outboxDrainer) error {
	if err := outbox.Close(ctx); err != nil {
		slog.Warn("dispatch outbox did not drain",
			slog.Int("pending", outbox.Pending()),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}
