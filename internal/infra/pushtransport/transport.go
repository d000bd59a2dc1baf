package pushtransport

import "context"

//go:generate mockgen -source=transport.go -destination=transport_mock.go -package=pushtransport

// Transport hands one push message to the delivery backend.
type Transport interface {
	Deliver(ctx context.Context, msg *PushMessage) (*Receipt, error)
	Name() string
}
