package timewindow

import (
	"testing"
	"time"
)

func TestNextOccurrence(t *testing.T) {
	// Monday 2024-03-04 10:00:30 UTC
	ref := time.Date(2024, 3, 4, 10, 0, 30, 500, time.UTC)

	tests := []struct {
		name    string
		weekday time.Weekday
		start   Clock
		want    time.Time
	}{
		{
			name:    "later today",
			weekday: time.Monday,
			start:   Clock{Hour: 1, Minute: 0, Meridiem: MeridiemPM},
			want:    time.Date(2024, 3, 4, 13, 0, 0, 0, time.UTC),
		},
		{
			name:    "earlier today rolls to next week",
			weekday: time.Monday,
			start:   Clock{Hour: 8, Minute: 0},
			want:    time.Date(2024, 3, 11, 8, 0, 0, 0, time.UTC),
		},
		{
			name:    "same minute is not strictly after",
			weekday: time.Monday,
			start:   Clock{Hour: 10, Minute: 0},
			want:    time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC),
		},
		{
			name:    "tomorrow",
			weekday: time.Tuesday,
			start:   Clock{Hour: 7, Minute: 30},
			want:    time.Date(2024, 3, 5, 7, 30, 0, 0, time.UTC),
		},
		{
			name:    "yesterday's weekday is six days away",
			weekday: time.Sunday,
			start:   Clock{Hour: 9, Minute: 0},
			want:    time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
		},
		{
			name:    "midnight start",
			weekday: time.Friday,
			start:   Clock{Hour: 12, Minute: 0, Meridiem: MeridiemAM},
			want:    time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextOccurrence(tt.weekday, tt.start, ref)
			if !got.Equal(tt.want) {
				t.Errorf("NextOccurrence = %v, want %v", got, tt.want)
			}
			if !got.After(ref) {
				t.Errorf("result %v is not after reference %v", got, ref)
			}
		})
	}
}

func TestNextOccurrence_KeepsLocation(t *testing.T) {
	loc := time.FixedZone("PHT", 8*60*60)
	ref := time.Date(2024, 3, 29, 23, 0, 0, 0, loc) // Friday

	got := NextOccurrence(time.Saturday, Clock{Hour: 7, Minute: 0}, ref)
	want := time.Date(2024, 3, 30, 7, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("NextOccurrence = %v, want %v", got, want)
	}
	if got.Location() != loc {
		t.Errorf("location = %v, want %v", got.Location(), loc)
	}
}
