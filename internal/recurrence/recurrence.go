package recurrence

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownWeekday reports a weekday name outside the seven
// recognized English names.
var ErrUnknownWeekday = errors.New("unknown weekday name")

var weekdayNames = map[string]time.Weekday{
	"SUNDAY":    time.Sunday,
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
}

// ParseWeekday maps a weekday name (case-insensitive) to time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	wd, ok := weekdayNames[strings.ToUpper(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, name)
	}
	return wd, nil
}

// NextOccurrence computes the next instant at which the given weekday
// and time of day occur, relative to now. The result is never before
// now: when now already is the target weekday and the time of day has
// passed, the occurrence a week later is returned.
func NextOccurrence(weekday time.Weekday, at ClockTime, now time.Time) time.Time {
	daysToAdd := (int(weekday) - int(now.Weekday()) + 7) % 7

	if daysToAdd == 0 && !now.Before(at.On(now)) {
		daysToAdd = 7
	}

	return at.On(now.AddDate(0, 0, daysToAdd))
}

// NextOccurrenceOf is NextOccurrence over raw stored values: a weekday
// name and a wall-clock string, as they sit on a turn row.
func NextOccurrenceOf(weekdayName, startTime string, now time.Time) (time.Time, error) {
	wd, err := ParseWeekday(weekdayName)
	if err != nil {
		return time.Time{}, err
	}

	at, err := ParseClockTime(startTime)
	if err != nil {
		return time.Time{}, err
	}

	return NextOccurrence(wd, at, now), nil
}
