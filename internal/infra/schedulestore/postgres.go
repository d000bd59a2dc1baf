package schedulestore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/domain"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/observability/tracing"
)

type scheduleEntryModel struct {
	EntityID  string `gorm:"primaryKey;size:128"`
	Position  int    `gorm:"primaryKey;autoIncrement:false"`
	Subject   string `gorm:"not null"`
	Day       string `gorm:"not null;size:16"`
	TimeRange string `gorm:"column:time_range;not null"`
	UpdatedAt time.Time
}

func (scheduleEntryModel) TableName() string {
	return "schedule_entries"
}

// PostgresStore keeps schedules in Postgres through gorm.
type PostgresStore struct {
	db *gorm.DB
}

var _ domain.ScheduleRepository = (*PostgresStore)(nil)

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, ErrEmptyDSN
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if err := db.AutoMigrate(&scheduleEntryModel{}); err != nil {
		return nil, fmt.Errorf("migrating schedule tables: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *PostgresStore) GetEntries(ctx context.Context, entityID string) ([]domain.ScheduleEntry, error) {
	ctx, span := tracing.StartScheduleQuerySpan(ctx, "postgresql", "get_entries", entityID)
	defer span.End()

	var rows []scheduleEntryModel
	err := s.db.WithContext(ctx).
		Where("entity_id = ?", entityID).
		Order("position").
		Find(&rows).Error
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

func (s *PostgresStore) ReplaceEntries(ctx context.Context, entityID string, entries []domain.ScheduleEntry) error {
	ctx, span := tracing.StartScheduleQuerySpan(ctx, "postgresql", "replace_entries", entityID)
	defer span.End()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entity_id = ?", entityID).Delete(&scheduleEntryModel{}).Error; err != nil {
			return fmt.Errorf("clearing schedule entries: %w", err)
		}
		if len(entries) == 0 {
			return nil
		}

		now := time.Now().UTC()
		rows := make([]scheduleEntryModel, len(entries))
		for i, e := range entries {
			rows[i] = scheduleEntryModel{
				EntityID:  entityID,
				Position:  i,
				Subject:   e.Subject,
				Day:       e.Day,
				TimeRange: e.TimeRange,
				UpdatedAt: now,
			}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("inserting schedule entries: %w", err)
		}
		return nil
	})
	tracing.RecordResult(span, err)
	return err
}
