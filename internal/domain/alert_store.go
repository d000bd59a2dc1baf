package domain

import "context"

//go:generate mockgen -source=alert_store.go -destination=alert_store_mock.go -package=domain

// Unsubscribe stops a store subscription. Calling it more than once is safe.
type Unsubscribe func()

// AlertStore is the document store holding recipient records.
// Updates for one recipient are delivered in order on a single goroutine;
// different recipients are not ordered relative to each other.
type AlertStore interface {
	Subscribe(ctx context.Context, key RecipientKey, onUpdate func(Snapshot), onError func(error)) (Unsubscribe, error)
	Read(ctx context.Context, key RecipientKey) (*RecipientRecord, error)
	MarkRead(ctx context.Context, key RecipientKey, ids []string) error
}
