package config

import "errors"

var (
	ErrRedisAddrMissing   = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB     = errors.New("REDIS_DB must be a valid integer")
	ErrInvalidTimezone    = errors.New("SCHEDULE_TIMEZONE is not a known time zone")
	ErrUnknownScheduleDB  = errors.New("SCHEDULE_DB_DRIVER must be sqlite or postgres")
	ErrScheduleDSNMissing = errors.New("SCHEDULE_DB_DSN is required")
	ErrPushConfigMissing  = errors.New("push transport configuration is missing")
)
