package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=delivery.go -destination=delivery_mock.go -package=domain

type DeliveryOutcome string

const (
	DeliveryDelivered DeliveryOutcome = "delivered"
	DeliveryFailed    DeliveryOutcome = "failed"
	DeliveryDropped   DeliveryOutcome = "dropped"
)

type DeliveryRecord struct {
	DeliveryID  string
	TargetID    string
	Role        string
	AlertID     string
	AlertType   string
	Outcome     DeliveryOutcome
	Transport   string
	EnqueuedAt  time.Time
	CompletedAt time.Time
	Error       string
}

func (r *DeliveryRecord) Latency() time.Duration {
	return r.CompletedAt.Sub(r.EnqueuedAt)
}

type DeliveryRecorder interface {
	RecordDeliveries(ctx context.Context, records []DeliveryRecord) error
	Flush(ctx context.Context) error
	Close() error
}
