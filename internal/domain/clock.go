package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time of day, held as the duration since
// midnight. It never carries a date component — wrap-past-midnight
// arithmetic is applied explicitly wherever a TimeOfDay is lifted onto a
// specific day's axis (Combine, WindowRange). Never mutate a TimeOfDay to
// "fix" a wrap; always add the day at the call site, per spec.md's
// wrap-around arithmetic note.
type TimeOfDay time.Duration

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time of day %q", raw)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", raw, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", raw, err)
	}
	s := 0
	if len(parts) == 3 {
		s, err = strconv.Atoi(parts[2])
		if err != nil {
			return 0, fmt.Errorf("invalid time of day %q: %w", raw, err)
		}
	}

	d := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second
	return TimeOfDay(d), nil
}

func (t TimeOfDay) String() string {
	d := time.Duration(t)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	s := int((d % time.Minute) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Combine builds a datetime from a date and a time of day, dropping the
// date's own time-of-day component first.
func Combine(date time.Time, t TimeOfDay) time.Time {
	y, mo, d := date.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, date.Location()).Add(time.Duration(t))
}

// TimeDiff returns the wall-clock duration from start to stop, adding
// 24h when stop <= start (midnight wrap). Grounded on
// original_source/src/train/utils.py::timediff.
func TimeDiff(start, stop TimeOfDay) time.Duration {
	diff := time.Duration(stop) - time.Duration(start)
	if stop <= start {
		diff += 24 * time.Hour
	}
	return diff
}
