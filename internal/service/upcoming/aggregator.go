package upcoming

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/domain"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/observability/metrics"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/observability/tracing"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/service/timewindow"
)

const DefaultLimit = 3

type Config struct {
	GraceMinutes int
	Limit        int
	Location     *time.Location
}

func DefaultConfig() Config {
	return Config{
		GraceMinutes: timewindow.DefaultGraceMinutes,
		Limit:        DefaultLimit,
		Location:     time.Local,
	}
}

// Aggregator ranks an entity's weekly schedule into what is on now and what
// comes next. Results are recomputed on every call.
type Aggregator struct {
	scheduleRepo domain.ScheduleRepository
	cfg          Config
	alertMetrics *metrics.AlertMetrics
	now          func() time.Time
}

func NewAggregator(scheduleRepo domain.ScheduleRepository, cfg Config, alertMetrics *metrics.AlertMetrics) *Aggregator {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.GraceMinutes < 0 {
		cfg.GraceMinutes = timewindow.DefaultGraceMinutes
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	return &Aggregator{
		scheduleRepo: scheduleRepo,
		cfg:          cfg,
		alertMetrics: alertMetrics,
		now:          time.Now,
	}
}

// RankedUpcoming returns at most Limit entries: ongoing classes first, then
// future classes by next occurrence.
func (a *Aggregator) RankedUpcoming(ctx context.Context, entityID string) ([]domain.UpcomingEntry, error) {
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return nil, domain.ErrEmptyEntityID
	}

	start := time.Now()
	ctx, span := tracing.StartUpcomingSpan(ctx, entityID)
	defer span.End()

	entries, err := a.scheduleRepo.GetEntries(ctx, entityID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load schedule entries",
			slog.String("entity_id", entityID),
			slog.String("error", err.Error()),
		)
		tracing.RecordUpcomingResult(span, 0, 0, err)
		return nil, fmt.Errorf("load schedule: %w", err)
	}

	ranked := Rank(entries, a.now().In(a.cfg.Location), a.cfg.GraceMinutes, a.cfg.Limit)

	ongoing := 0
	for _, e := range ranked {
		if e.Ongoing {
			ongoing++
		}
	}

	slog.DebugContext(ctx, "ranked upcoming schedule",
		slog.String("entity_id", entityID),
		slog.Int("entry_count", len(entries)),
		slog.Int("ranked_count", len(ranked)),
		slog.Int("ongoing_count", ongoing),
	)

	tracing.RecordUpcomingResult(span, len(entries), len(ranked), nil)
	if a.alertMetrics != nil {
		a.alertMetrics.RecordUpcomingDuration(ctx, time.Since(start))
	}

	return ranked, nil
}

// Rank evaluates entries against now. An entry on today's weekday whose
// range contains now is ongoing; every other entry is kept only if its next
// occurrence is strictly after now. Entries whose day or start time cannot
// be parsed are dropped, and an unparseable range is never ongoing.
func Rank(entries []domain.ScheduleEntry, now time.Time, grace, limit int) []domain.UpcomingEntry {
	ranked := make([]domain.UpcomingEntry, 0, len(entries))

	for _, entry := range entries {
		weekday, err := domain.ParseWeekday(entry.Day)
		if err != nil {
			continue
		}

		candidate := domain.UpcomingEntry{
			Subject: entry.Subject,
			Day:     entry.Day,
			Time:    entry.TimeRange,
		}

		if weekday == now.Weekday() && timewindow.WithinRange(now, entry.TimeRange, grace, false) {
			candidate.Ongoing = true
			ranked = append(ranked, candidate)
			continue
		}

		start, err := timewindow.ParseStart(entry.TimeRange)
		if err != nil {
			continue
		}

		next := timewindow.NextOccurrence(weekday, start, now)
		if !next.After(now) {
			continue
		}
		candidate.NextOccurrence = next
		ranked = append(ranked, candidate)
	}

	slices.SortStableFunc(ranked, func(a, b domain.UpcomingEntry) int {
		if a.Ongoing != b.Ongoing {
			if a.Ongoing {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.NextOccurrence.UnixNano(), b.NextOccurrence.UnixNano())
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked
}
