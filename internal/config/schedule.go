package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	scheduleGraceMinutesEnv = "SCHEDULE_GRACE_MINUTES"
	upcomingLimitEnv        = "UPCOMING_LIMIT"
	scheduleTimezoneEnv     = "SCHEDULE_TIMEZONE"
	scheduleDBDriverEnv     = "SCHEDULE_DB_DRIVER"
	scheduleDBDSNEnv        = "SCHEDULE_DB_DSN"

	defaultScheduleGraceMinutes = 3
	defaultUpcomingLimit        = 3
	defaultScheduleDBDriver     = "sqlite"
	defaultScheduleDBDSN        = "attendance.db"
)

type ScheduleConfig struct {
	GraceMinutes  int
	UpcomingLimit int
	Location      *time.Location
	DBDriver      string
	DBDSN         string
}

// LoadScheduleConfig fails only on an unknown time zone; numeric values
// that do not parse fall back to their defaults.
func LoadScheduleConfig() (*ScheduleConfig, error) {
	grace := defaultScheduleGraceMinutes
	if v := os.Getenv(scheduleGraceMinutesEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			grace = parsed
		}
	}

	limit := defaultUpcomingLimit
	if v := os.Getenv(upcomingLimitEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	loc := time.Local
	if v := os.Getenv(scheduleTimezoneEnv); v != "" {
		parsed, err := time.LoadLocation(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, v)
		}
		loc = parsed
	}

	driver := os.Getenv(scheduleDBDriverEnv)
	if driver == "" {
		driver = defaultScheduleDBDriver
	}

	dsn := os.Getenv(scheduleDBDSNEnv)
	if dsn == "" && driver == defaultScheduleDBDriver {
		dsn = defaultScheduleDBDSN
	}

	return &ScheduleConfig{
		GraceMinutes:  grace,
		UpcomingLimit: limit,
		Location:      loc,
		DBDriver:      driver,
		DBDSN:         dsn,
	}, nil
}

func (c *ScheduleConfig) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownScheduleDB, c.DBDriver)
	}
	if c.DBDSN == "" {
		return ErrScheduleDSNMissing
	}
	return nil
}
