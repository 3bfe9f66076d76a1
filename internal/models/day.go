package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayKey formats t as the day-document key: "M-D-YYYY" with no zero padding,
// e.g. "3-9-2025". Existing stored documents use exactly this format, so it
// must not change.
func DayKey(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d", int(t.Month()), t.Day(), t.Year())
}

// Today returns the day key for the current local date.
func Today() string {
	return DayKey(time.Now())
}

// ParseDayKey validates that s is a canonical day key and returns the date it
// names. "03-9-2025" is rejected even though it parses: only the unpadded
// form is canonical.
func ParseDayKey(s string) (time.Time, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid day key %q", s)
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q: %w", s, err)
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q: %w", s, err)
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q: %w", s, err)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if DayKey(t) != s {
		return time.Time{}, fmt.Errorf("invalid day key %q", s)
	}
	return t, nil
}
