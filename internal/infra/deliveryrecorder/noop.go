package deliveryrecorder

import (
	"context"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.DeliveryRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordDeliveries(_ context.Context, _ []domain.DeliveryRecord) error {
	return nil
}

func (n *noopRecorder) Flush(_ context.Context) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
