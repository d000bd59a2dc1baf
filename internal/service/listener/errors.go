package listener

import "errors"

var (
	ErrNotSubscribed = errors.New("recipient is not subscribed")
	ErrManagerClosed = errors.New("listener manager is closed")
)
