package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

//go:generate mockgen -source=schedule.go -destination=schedule_mock.go -package=domain

// ScheduleEntry is one weekly class slot. TimeRange is free-form text as
// entered by a user, e.g. "8:00 AM - 9:30 AM".
type ScheduleEntry struct {
	Subject   string `json:"subject"`
	Day       string `json:"day"`
	TimeRange string `json:"time"`
}

// UpcomingEntry is a ranked schedule entry returned to the UI.
type UpcomingEntry struct {
	Subject        string    `json:"subject"`
	Day            string    `json:"day"`
	Time           string    `json:"time"`
	Ongoing        bool      `json:"ongoing"`
	NextOccurrence time.Time `json:"next_occurrence,omitzero"`
}

type ScheduleRepository interface {
	GetEntries(ctx context.Context, entityID string) ([]ScheduleEntry, error)
	ReplaceEntries(ctx context.Context, entityID string, entries []ScheduleEntry) error
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"sun":       time.Sunday,
	"monday":    time.Monday,
	"mon":       time.Monday,
	"tuesday":   time.Tuesday,
	"tue":       time.Tuesday,
	"tues":      time.Tuesday,
	"wednesday": time.Wednesday,
	"wed":       time.Wednesday,
	"thursday":  time.Thursday,
	"thu":       time.Thursday,
	"thur":      time.Thursday,
	"thurs":     time.Thursday,
	"friday":    time.Friday,
	"fri":       time.Friday,
	"saturday":  time.Saturday,
	"sat":       time.Saturday,
}

// ParseWeekday matches full or abbreviated English day names, any case.
func ParseWeekday(day string) (time.Weekday, error) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(day))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidScheduleDay, day)
	}
	return wd, nil
}
