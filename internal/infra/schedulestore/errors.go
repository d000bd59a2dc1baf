package schedulestore

import "errors"

var (
	ErrUnknownDriver = errors.New("unknown schedule db driver")
	ErrEmptyDSN      = errors.New("schedule db dsn is empty")
)
