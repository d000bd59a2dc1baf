package schedulestore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/domain"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store is a schedule repository backed by a database connection.
type Store interface {
	domain.ScheduleRepository
	Ping(ctx context.Context) error
	Close() error
}

// Open returns the store for driver.
func Open(driver, dsn string) (Store, error) {
	switch driver {
	case DriverSQLite, "":
		s, err := NewSQLiteStore(dsn)
		if err != nil {
			return nil, err
		}
		slog.Info("schedule store ready", slog.String("driver", DriverSQLite))
		return s, nil
	case DriverPostgres:
		s, err := NewPostgresStore(dsn)
		if err != nil {
			return nil, err
		}
		slog.Info("schedule store ready", slog.String("driver", DriverPostgres))
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
