package pushtransport

import "errors"

var (
	ErrUnknownTransport = errors.New("unknown push transport")
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrNotConfirmed     = errors.New("publish not confirmed by broker")
)
