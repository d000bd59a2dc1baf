package timewindow

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Meridiem int

const (
	MeridiemNone Meridiem = iota
	MeridiemAM
	MeridiemPM
)

func (m Meridiem) String() string {
	switch m {
	case MeridiemAM:
		return "AM"
	case MeridiemPM:
		return "PM"
	default:
		return ""
	}
}

// Clock is a parsed time of day. Hour is on the 12-hour dial when Meridiem
// is set and on the 24-hour dial otherwise.
type Clock struct {
	Hour     int
	Minute   int
	Meridiem Meridiem
}

// Range is a parsed "start - end" pair. End may be before Start for
// ranges that run past midnight.
type Range struct {
	Start Clock
	End   Clock
}

func (r Range) StartMinutes() int {
	return ToMinutes(r.Start)
}

func (r Range) EndMinutes() int {
	return ToMinutes(r.End)
}

func (r Range) Overnight() bool {
	return r.EndMinutes() < r.StartMinutes()
}

type timePattern struct {
	name     string
	re       *regexp.Regexp
	meridiem bool
}

// timePatterns is consulted in order and the first match wins. Digit-only
// inputs such as "930" or "1230" are only disambiguated by this order, so
// it must not change.
var timePatterns = []timePattern{
	{
		name:     "H:MM AM/PM",
		re:       regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*([AaPp][Mm])$`),
		meridiem: true,
	},
	{
		name: "H:MM",
		re:   regexp.MustCompile(`^(\d{1,2}):(\d{2})$`),
	},
	{
		name:     "HMM AM/PM",
		re:       regexp.MustCompile(`^(\d{1,2})(\d{2})\s*([AaPp][Mm])$`),
		meridiem: true,
	},
	{
		name: "HMM",
		re:   regexp.MustCompile(`^(\d{1,2})(\d{2})$`),
	},
}

var dashReplacer = strings.NewReplacer(
	"\u2013", "-", // en dash
	"\u2014", "-", // em dash
	"\u2212", "-", // minus sign
)

// Normalize rewrites dash variants to ASCII '-' and trims surrounding space.
func Normalize(s string) string {
	return strings.TrimSpace(dashReplacer.Replace(s))
}

// ParseTime parses a single time of day using the fixed pattern precedence.
func ParseTime(s string) (Clock, error) {
	s = strings.TrimSpace(s)

	for _, p := range timePatterns {
		m := p.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}

		clock, ok := clockFromMatch(m, p.meridiem)
		if !ok {
			continue
		}
		return clock, nil
	}

	return Clock{}, fmt.Errorf("%w: %q", ErrUnrecognizedTime, s)
}

func clockFromMatch(m []string, withMeridiem bool) (Clock, bool) {
	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return Clock{}, false
	}
	minute, err := strconv.Atoi(m[2])
	if err != nil || minute > 59 {
		return Clock{}, false
	}

	if !withMeridiem {
		if hour > 23 {
			return Clock{}, false
		}
		return Clock{Hour: hour, Minute: minute}, true
	}

	if hour < 1 || hour > 12 {
		return Clock{}, false
	}
	meridiem := MeridiemAM
	if strings.EqualFold(m[3], "pm") {
		meridiem = MeridiemPM
	}

	return Clock{Hour: hour, Minute: minute, Meridiem: meridiem}, true
}

// ParseRange parses "start-end". The string must split on '-' into exactly
// two non-empty parts after dash normalization.
func ParseRange(s string) (Range, error) {
	parts := strings.Split(Normalize(s), "-")
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("%w: %q", ErrMalformedRange, s)
	}

	startText := strings.TrimSpace(parts[0])
	endText := strings.TrimSpace(parts[1])
	if startText == "" || endText == "" {
		return Range{}, fmt.Errorf("%w: %q", ErrMalformedRange, s)
	}

	start, err := ParseTime(startText)
	if err != nil {
		return Range{}, fmt.Errorf("range start: %w", err)
	}
	end, err := ParseTime(endText)
	if err != nil {
		return Range{}, fmt.Errorf("range end: %w", err)
	}

	return Range{Start: start, End: end}, nil
}

// ParseStart returns the start of a range, or the whole value when it is a
// single time rather than a range.
func ParseStart(s string) (Clock, error) {
	r, err := ParseRange(s)
	if err == nil {
		return r.Start, nil
	}

	clock, singleErr := ParseTime(Normalize(s))
	if singleErr != nil {
		return Clock{}, err
	}
	return clock, nil
}
