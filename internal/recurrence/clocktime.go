package recurrence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedTime reports a wall-clock string that is not HH:MM or
// HH:MM:SS, or has a component out of range.
var ErrMalformedTime = errors.New("time must be in HH:MM or HH:MM:SS format")

// ClockTime is a wall-clock time of day without a date.
type ClockTime struct {
	Hour   int
	Minute int
	Second int
}

// ParseClockTime parses "HH:MM" or "HH:MM:SS" into a ClockTime.
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}

	var ct ClockTime
	for i, dst := range []*int{&ct.Hour, &ct.Minute, &ct.Second} {
		if i >= len(parts) {
			break
		}
		v, err := strconv.Atoi(parts[i])
		if err != nil {
			return ClockTime{}, fmt.Errorf("%w: %q", ErrMalformedTime, s)
		}
		*dst = v
	}

	if ct.Hour < 0 || ct.Hour > 23 ||
		ct.Minute < 0 || ct.Minute > 59 ||
		ct.Second < 0 || ct.Second > 59 {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}

	return ct, nil
}

// Before reports whether ct is strictly earlier in the day than other.
func (ct ClockTime) Before(other ClockTime) bool {
	if ct.Hour != other.Hour {
		return ct.Hour < other.Hour
	}
	if ct.Minute != other.Minute {
		return ct.Minute < other.Minute
	}
	return ct.Second < other.Second
}

// On merges the clock time with the calendar date of t, zeroing the
// sub-second component. The location of t is kept.
func (ct ClockTime) On(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(),
		ct.Hour, ct.Minute, ct.Second, 0, t.Location())
}

func (ct ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", ct.Hour, ct.Minute, ct.Second)
}
