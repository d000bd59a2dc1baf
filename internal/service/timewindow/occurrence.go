package timewindow

import "time"

// NextOccurrence returns the next moment, strictly after ref, that falls on
// weekday at the given start time. The result is in ref's location with
// seconds and nanoseconds zeroed.
func NextOccurrence(weekday time.Weekday, start Clock, ref time.Time) time.Time {
	delta := (int(weekday) - int(ref.Weekday()) + 7) % 7

	minutes := ToMinutes(start)
	year, month, day := ref.Date()
	candidate := time.Date(year, month, day+delta, minutes/60, minutes%60, 0, 0, ref.Location())

	if delta == 0 && !candidate.After(ref) {
		candidate = time.Date(year, month, day+7, minutes/60, minutes%60, 0, 0, ref.Location())
	}

	return candidate
}
