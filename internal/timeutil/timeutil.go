package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used throughout the log.
const DateLayout = "2006-01-02"

// MinutesPerDay is one wall-clock day in minutes.
const MinutesPerDay = 24 * 60

// ParseError reports a clock or date string the parser could not understand.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid time %q: %s", e.Input, e.Reason)
}

// TimeToMinutes parses a strict HH:MM clock value into minutes since
// midnight. Hours run 0-23 and minutes 0-59; anything else yields a
// *ParseError. Callers that want the old swallow-and-zero behavior collapse
// the error themselves.
func TimeToMinutes(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, &ParseError{Input: s, Reason: "expected HH:MM"}
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, &ParseError{Input: s, Reason: "hour is not a number"}
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, &ParseError{Input: s, Reason: "minute is not a number"}
	}
	if h < 0 || h > 23 {
		return 0, &ParseError{Input: s, Reason: "hour out of range"}
	}
	if m < 0 || m > 59 {
		return 0, &ParseError{Input: s, Reason: "minute out of range"}
	}
	return h*60 + m, nil
}

// MinutesToTime formats minutes since midnight as HH:MM, wrapping hours
// modulo 24. Negative input formats as "00:00".
func MinutesToTime(minutes int) string {
	if minutes < 0 {
		return "00:00"
	}
	return fmt.Sprintf("%02d:%02d", (minutes/60)%24, minutes%60)
}

// ParseTimeInput normalizes flexible numeric shorthand into HH:MM:
// one or two digits are an hour ("7" -> "07:00"), three digits are H:MM
// ("130" -> "01:30"), four digits are HH:MM ("1330" -> "13:30"), and
// colon-separated input is validated and zero-padded. Anything ambiguous or
// out of range returns false rather than a guess.
func ParseTimeInput(input string) (string, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", false
	}
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) != 2 {
			return "", false
		}
		return clockValue(parts[0], parts[1])
	}
	if _, err := strconv.Atoi(s); err != nil {
		return "", false
	}
	switch len(s) {
	case 1, 2:
		return clockValue(s, "0")
	case 3:
		return clockValue(s[:1], s[1:])
	case 4:
		return clockValue(s[:2], s[2:])
	}
	return "", false
}

func clockValue(hs, ms string) (string, bool) {
	h, err := strconv.Atoi(hs)
	if err != nil {
		return "", false
	}
	m, err := strconv.Atoi(ms)
	if err != nil {
		return "", false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", h, m), true
}

// Duration returns the minutes between two HH:MM clock values. An end
// before the start means the span crosses midnight, so a day is added
// before subtracting.
func Duration(start, end string) (int, error) {
	s, err := TimeToMinutes(start)
	if err != nil {
		return 0, err
	}
	e, err := TimeToMinutes(end)
	if err != nil {
		return 0, err
	}
	if e < s {
		e += MinutesPerDay
	}
	return e - s, nil
}

// ParseDate parses a local calendar date in DateLayout.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, &ParseError{Input: s, Reason: "expected YYYY-MM-DD"}
	}
	return t, nil
}
