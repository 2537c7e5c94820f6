package recurrence

import (
	"time"

	"go.uber.org/zap"
)

// Candidate is one schedule row joined with its turn, as the resolver
// needs it: the concrete date plus the turn's declared weekday and
// start time. Callers supply candidates ordered by date ascending,
// then start time ascending.
type Candidate struct {
	ScheduleID int64
	Date       time.Time
	TurnDay    string
	StartTime  string
}

// instant merges the candidate's date with its turn's start time.
func (c Candidate) instant() (time.Time, error) {
	at, err := ParseClockTime(c.StartTime)
	if err != nil {
		return time.Time{}, err
	}
	return at.On(c.Date), nil
}

// SelectCurrentValid returns the index of the first candidate whose
// full instant is at or after now and whose date actually falls on the
// turn's declared weekday, or -1 when none qualifies.
//
// The weekday re-check guards against rows whose stored date drifted
// from the weekday the turn represents; such rows are skipped, not
// surfaced. A candidate with a malformed stored time or weekday is
// likewise skipped with a warning so one bad row cannot sink the scan.
func SelectCurrentValid(cands []Candidate, now time.Time, logger *zap.Logger) int {
	for i, c := range cands {
		instant, err := c.instant()
		if err != nil {
			logger.Warn("Skipping schedule with malformed turn start time",
				zap.Int64("schedule_id", c.ScheduleID),
				zap.String("start_time", c.StartTime),
				zap.Error(err),
			)
			continue
		}

		if instant.Before(now) {
			continue
		}

		declared, err := ParseWeekday(c.TurnDay)
		if err != nil {
			logger.Warn("Skipping schedule with unknown turn weekday",
				zap.Int64("schedule_id", c.ScheduleID),
				zap.String("turn_day", c.TurnDay),
				zap.Error(err),
			)
			continue
		}

		if instant.Weekday() != declared {
			logger.Warn("Skipping schedule whose date does not fall on its turn's weekday",
				zap.Int64("schedule_id", c.ScheduleID),
				zap.Time("date", c.Date),
				zap.String("turn_day", c.TurnDay),
			)
			continue
		}

		return i
	}

	return -1
}

// SelectActionable returns the index of the candidate an attendance or
// cancellation action applies to, or -1 when none qualifies. Callers
// pass the student's scheduled rows dated today or earlier, in the
// usual ascending order; the most recent of them is the actionable
// one. Earlier backlog rows stay untouched.
func SelectActionable(cands []Candidate) int {
	return len(cands) - 1
}
