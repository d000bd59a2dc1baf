package timewindow

import "time"

const (
	// DefaultGraceMinutes absorbs clock skew and scan latency at class boundaries.
	DefaultGraceMinutes = 3

	minutesPerDay = 24 * 60
)

// ToMinutes converts a clock to minutes since midnight.
func ToMinutes(c Clock) int {
	hour := c.Hour
	switch c.Meridiem {
	case MeridiemAM:
		if hour == 12 {
			hour = 0
		}
	case MeridiemPM:
		if hour != 12 {
			hour += 12
		}
	}
	return hour*60 + c.Minute
}

// MinuteOfDay returns the minutes elapsed since midnight in t's location.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// IsWithin reports whether now lies inside [start-grace, end+grace]. When
// end is before start the range wraps midnight and is treated as
// [start-grace, end of day] joined with [start of day, end+grace].
func IsWithin(now, start, end, grace int) bool {
	if end < start {
		return (now >= start-grace && now < minutesPerDay) || now <= end+grace
	}
	return now >= start-grace && now <= end+grace
}

// WithinRange parses rangeText and tests now against it. fallback is
// returned when the text cannot be parsed, so each caller states its policy.
func WithinRange(now time.Time, rangeText string, grace int, fallback bool) bool {
	r, err := ParseRange(rangeText)
	if err != nil {
		return fallback
	}
	return IsWithin(MinuteOfDay(now), r.StartMinutes(), r.EndMinutes(), grace)
}
