package alertstore

import "errors"

var (
	ErrInvalidAlertData = errors.New("invalid alert data")
	ErrEmptyAlertID     = errors.New("alert id is empty")
)
