package scoring

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Span is an elapsed time in years.
type Span float64

// UnknownSpan is returned when a date pair cannot be parsed. It is distinct from a zero span.
const UnknownSpan Span = -1

// Known reports whether the span was computed from parseable dates.
func (s Span) Known() bool { return s >= 0 }

// Years returns the span in years, treating an unknown span as zero.
func (s Span) Years() float64 {
	if !s.Known() {
		return 0
	}
	return float64(s)
}

const daysPerYear = 365.25

const presentKeyword = "present"

var months = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// DurationCalculator turns (start, end) date text into a span in years.
type DurationCalculator struct {
	now func() time.Time
}

// NewDurationCalculator returns a calculator resolving "present" with now.
// A nil clock means time.Now.
func NewDurationCalculator(now func() time.Time) *DurationCalculator {
	if now == nil {
		now = time.Now
	}
	return &DurationCalculator{now: now}
}

// Between returns the years elapsed from start to end, rounded to two
// decimals. end may be "present" in any case. Reversed ranges yield 0 and
// unparseable input yields UnknownSpan.
func (d *DurationCalculator) Between(start, end string) Span {
	from, ok := ParseMonthYear(start)
	if !ok {
		return UnknownSpan
	}

	var to time.Time
	if strings.EqualFold(strings.TrimSpace(end), presentKeyword) {
		now := d.now().UTC()
		to = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	} else if to, ok = ParseMonthYear(end); !ok {
		return UnknownSpan
	}

	days := math.Floor(to.Sub(from).Hours() / 24)
	if days <= 0 {
		return 0
	}
	return Span(math.Round(days/daysPerYear*100) / 100)
}

// ParseMonthYear parses "June 2019", "Jun. 2019", "Sept 2019", "06/2019" or
// "2019-06" into the first day of that month in UTC.
func ParseMonthYear(text string) (time.Time, bool) {
	cleaned := strings.NewReplacer(",", " ", ".", " ").Replace(strings.ToLower(strings.TrimSpace(text)))
	fields := strings.Fields(cleaned)

	switch len(fields) {
	case 1:
		return parseNumericMonthYear(fields[0])
	case 2:
		month, ok := monthByName(fields[0])
		if !ok {
			return time.Time{}, false
		}
		year, ok := parseYear(fields[1])
		if !ok {
			return time.Time{}, false
		}
		return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
	default:
		return time.Time{}, false
	}
}

func parseNumericMonthYear(s string) (time.Time, bool) {
	var monthPart, yearPart string
	switch {
	case strings.Contains(s, "/"):
		monthPart, yearPart, _ = strings.Cut(s, "/")
	case strings.Contains(s, "-"):
		yearPart, monthPart, _ = strings.Cut(s, "-")
	default:
		return time.Time{}, false
	}

	m, err := strconv.Atoi(monthPart)
	if err != nil || m < 1 || m > 12 {
		return time.Time{}, false
	}
	year, ok := parseYear(yearPart)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(m), 1, 0, 0, 0, 0, time.UTC), true
}

func parseYear(s string) (int, bool) {
	if len(s) != 4 {
		return 0, false
	}
	year, err := strconv.Atoi(s)
	if err != nil || year < 1900 {
		return 0, false
	}
	return year, true
}

// monthByName accepts full month names and prefixes of at least three letters.
func monthByName(s string) (time.Month, bool) {
	if len(s) < 3 {
		return 0, false
	}
	for idx, name := range months {
		if strings.HasPrefix(name, s) {
			return time.Month(idx + 1), true
		}
	}
	return 0, false
}
