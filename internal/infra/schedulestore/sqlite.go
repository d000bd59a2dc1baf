package schedulestore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/domain"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/observability/tracing"
)

// SQLiteStore keeps schedules in a local SQLite file. Entry order is
// preserved through the position column.
type SQLiteStore struct {
	db *sqlx.DB
}

var _ domain.ScheduleRepository = (*SQLiteStore)(nil)

type entryRow struct {
	Subject   string `db:"subject"`
	Day       string `db:"day"`
	TimeRange string `db:"time_range"`
}

// NewSQLiteStore opens (or creates) the database at dsn and applies any
// pending migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, ErrEmptyDSN
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

func (s *SQLiteStore) GetEntries(ctx context.Context, entityID string) ([]domain.ScheduleEntry, error) {
	ctx, span := tracing.StartScheduleQuerySpan(ctx, "sqlite", "get_entries", entityID)
	defer span.End()

	var rows []entryRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT subject, day, time_range FROM schedule_entries WHERE entity_id = ? ORDER BY position",
		entityID,
	)
	tracing.RecordResult(span, err)
	if err != nil {
		return nil, fmt.Errorf("querying schedule entries: %w", err)
	}

	entries := make([]domain.ScheduleEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, domain.ScheduleEntry{
			Subject:   r.Subject,
			Day:       r.Day,
			TimeRange: r.TimeRange,
		})
	}
	return entries, nil
}

// ReplaceEntries swaps the entity's whole schedule in one transaction.
func (s *SQLiteStore) ReplaceEntries(ctx context.Context, entityID string, entries []domain.ScheduleEntry) error {
	ctx, span := tracing.StartScheduleQuerySpan(ctx, "sqlite", "replace_entries", entityID)
	defer span.End()

	err := s.replace(ctx, entityID, entries)
	tracing.RecordResult(span, err)
	return err
}

func (s *SQLiteStore) replace(ctx context.Context, entityID string, entries []domain.ScheduleEntry) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM schedule_entries WHERE entity_id = ?", entityID); err != nil {
		return fmt.Errorf("clearing schedule entries: %w", err)
	}

	if len(entries) > 0 {
		stmt, err := tx.PreparexContext(ctx, `
			INSERT INTO schedule_entries (entity_id, position, subject, day, time_range, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing insert statement: %w", err)
		}
		defer stmt.Close()

		now := time.Now().UTC()
		for i, e := range entries {
			if _, err := stmt.ExecContext(ctx, entityID, i, e.Subject, e.Day, e.TimeRange, now); err != nil {
				return fmt.Errorf("inserting schedule entry %d: %w", i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
