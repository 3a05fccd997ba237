package timeutil

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for assignment dates
const DateLayout = "2006-01-02"

// NightStartHour is the hour at or after which a shift start counts as a night shift
const NightStartHour = 20.0

// NightEndHour is the hour at or before which a shift that crosses midnight counts as a night shift
const NightEndHour = 6.0

// ParseTime converts an "HH:MM" (or "HH:MM:SS") string into fractional hours.
// Malformed input parses to 0.
func ParseTime(s string) float64 {
	hours, _ := ParseTimeStrict(s)
	return hours
}

// ParseTimeStrict converts an "HH:MM" (or "HH:MM:SS") string into fractional hours
// and reports whether the string was well formed.
func ParseTimeStrict(s string) (float64, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}

	// Hours may be one or two digits, minutes and seconds exactly two. No signs.
	if !isDigits(parts[0], 1, 2) || !isDigits(parts[1], 2, 2) {
		return 0, false
	}
	if len(parts) == 3 && !isDigits(parts[2], 2, 2) {
		return 0, false
	}

	hour, _ := strconv.Atoi(parts[0])
	if hour > 24 {
		return 0, false
	}

	minute, _ := strconv.Atoi(parts[1])
	if minute > 59 {
		return 0, false
	}

	second := 0
	if len(parts) == 3 {
		second, _ = strconv.Atoi(parts[2])
		if second > 59 {
			return 0, false
		}
	}

	// 24:00 is accepted as end of day, anything past it is not
	if hour == 24 && (minute > 0 || second > 0) {
		return 0, false
	}

	return float64(hour) + float64(minute)/60 + float64(second)/3600, true
}

func isDigits(s string, minLen, maxLen int) bool {
	if len(s) < minLen || len(s) > maxLen {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ShiftDuration returns the length of a shift in hours.
// An end time numerically at or before the start time means the shift crosses midnight.
// Returns 0 if either time is malformed.
func ShiftDuration(start, end string) float64 {
	startHours, okStart := ParseTimeStrict(start)
	endHours, okEnd := ParseTimeStrict(end)
	if !okStart || !okEnd {
		return 0
	}

	return DurationHours(startHours, endHours)
}

// DurationHours returns end - start in hours, wrapping past midnight when end <= start
func DurationHours(startHours, endHours float64) float64 {
	duration := endHours - startHours
	if duration <= 0 {
		duration += 24
	}
	return duration
}

// RestGap returns the hours between the end of a previous shift and the start of the next one.
// Days are sequence indices, each worth 24 hours. The result is negative when the shifts overlap.
func RestGap(prevDay int, prevStart, prevEnd string, nextDay int, nextStart string) float64 {
	prevStartHours := ParseTime(prevStart)
	prevEndAbs := float64(prevDay)*24 + prevStartHours + ShiftDuration(prevStart, prevEnd)
	nextStartAbs := float64(nextDay)*24 + ParseTime(nextStart)
	return nextStartAbs - prevEndAbs
}

// IsNightShift classifies a shift as a night shift.
// A shift is a night shift if it is explicitly flagged, starts at or after 20:00,
// or crosses midnight and ends at or before 06:00.
func IsNightShift(start, end string, flagged bool) bool {
	return IsNightHours(ParseTime(start), ParseTime(end), flagged)
}

// IsNightHours is IsNightShift for already parsed fractional hours
func IsNightHours(startHours, endHours float64, flagged bool) bool {
	if flagged {
		return true
	}
	if startHours >= NightStartHour {
		return true
	}
	return endHours <= NightEndHour && endHours < startHours
}

// ParseDate parses a "YYYY-MM-DD" date as midnight UTC
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

// FormatDate formats a time as "YYYY-MM-DD"
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays returns the date the given number of days after t
func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// DaysBetween returns the number of whole calendar days from a to b (negative if b is before a)
func DaysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// WeekdayName returns the lower-case English weekday name of t (e.g. "monday")
func WeekdayName(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

// AtHours returns the instant the given fractional hours after midnight of date
func AtHours(date time.Time, hours float64) time.Time {
	return date.Add(time.Duration(hours * float64(time.Hour)))
}
