package schedulestore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/domain"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "schedule.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_ReplaceAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	entries := []domain.ScheduleEntry{
		{Subject: "Math", Day: "Monday", TimeRange: "8:00 AM - 9:30 AM"},
		{Subject: "Art", Day: "Monday", TimeRange: "7:00 AM - 7:45 AM"},
		{Subject: "Physics", Day: "Wed", TimeRange: "13:00-14:30"},
	}

	if err := s.ReplaceEntries(ctx, "student-1", entries); err != nil {
		t.Fatalf("ReplaceEntries() error = %v", err)
	}

	got, err := s.GetEntries(ctx, "student-1")
	if err != nil {
		t.Fatalf("GetEntries() error = %v", err)
	}
	if len(got) != len(entries) {
		t.Fatalf("GetEntries() returned %d entries, want %d", len(got), len(entries))
	}
	for i := range entries {
		if got[i] != entries[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], entries[i])
		}
	}
}

func TestSQLiteStore_ReplaceOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	first := []domain.ScheduleEntry{
		{Subject: "Math", Day: "Monday", TimeRange: "8:00 AM - 9:30 AM"},
		{Subject: "Art", Day: "Tuesday", TimeRange: "10:00 AM - 11:00 AM"},
	}
	second := []domain.ScheduleEntry{
		{Subject: "History", Day: "Friday", TimeRange: "1:00 PM - 2:00 PM"},
	}

	if err := s.ReplaceEntries(ctx, "student-1", first); err != nil {
		t.Fatalf("ReplaceEntries() error = %v", err)
	}
	if err := s.ReplaceEntries(ctx, "student-1", second); err != nil {
		t.Fatalf("ReplaceEntries() error = %v", err)
	}

	got, err := s.GetEntries(ctx, "student-1")
	if err != nil {
		t.Fatalf("GetEntries() error = %v", err)
	}
	if len(got) != 1 || got[0] != second[0] {
		t.Errorf("GetEntries() = %+v, want %+v", got, second)
	}
}

func TestSQLiteStore_EntitiesAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	if err := s.ReplaceEntries(ctx, "student-1", []domain.ScheduleEntry{
		{Subject: "Math", Day: "Monday", TimeRange: "8:00 AM - 9:30 AM"},
	}); err != nil {
		t.Fatalf("ReplaceEntries() error = %v", err)
	}

	got, err := s.GetEntries(ctx, "student-2")
	if err != nil {
		t.Fatalf("GetEntries() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("GetEntries() for other entity = %+v, want empty", got)
	}

	if err := s.ReplaceEntries(ctx, "student-1", nil); err != nil {
		t.Fatalf("ReplaceEntries(nil) error = %v", err)
	}
	got, err = s.GetEntries(ctx, "student-1")
	if err != nil {
		t.Fatalf("GetEntries() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("GetEntries() after clearing = %+v, want empty", got)
	}
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "schedule.db")

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	if err := s.ReplaceEntries(ctx, "student-1", []domain.ScheduleEntry{
		{Subject: "Math", Day: "Monday", TimeRange: "8:00 AM - 9:30 AM"},
	}); err != nil {
		t.Fatalf("ReplaceEntries() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	var version int
	if err := reopened.db.Get(&version, "SELECT MAX(version) FROM schema_version"); err != nil {
		t.Fatalf("reading schema version: %v", err)
	}
	if version != migrations[len(migrations)-1].version {
		t.Errorf("schema version = %d, want %d", version, migrations[len(migrations)-1].version)
	}

	got, err := reopened.GetEntries(ctx, "student-1")
	if err != nil {
		t.Fatalf("GetEntries() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("GetEntries() after reopen returned %d entries, want 1", len(got))
	}

	if err := reopened.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		dsn     string
		wantErr error
	}{
		{name: "unknown driver", driver: "mysql", dsn: "x", wantErr: ErrUnknownDriver},
		{name: "empty sqlite dsn", driver: DriverSQLite, dsn: "", wantErr: ErrEmptyDSN},
		{name: "empty postgres dsn", driver: DriverPostgres, dsn: " ", wantErr: ErrEmptyDSN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.driver, tt.dsn)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Open() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("sqlite", func(t *testing.T) {
		s, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "schedule.db"))
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer s.Close()
		if err := s.Ping(context.Background()); err != nil {
			t.Errorf("Ping() error = %v", err)
		}
	})
}
