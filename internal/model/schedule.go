package model

import (
	"errors"
	"strings"
	"time"
)

type ScheduleState string

const (
	ScheduleStateScheduled ScheduleState = "scheduled" // waiting for the session
	ScheduleStateAttended  ScheduleState = "attended"  // student showed up, terminal
	ScheduleStateCancelled ScheduleState = "cancelled" // student bailed, terminal
)

var ErrInvalidScheduleState = errors.New("state must be scheduled, attended, or cancelled")

// ParseScheduleState validates a state value coming from a request
func ParseScheduleState(s string) (ScheduleState, error) {
	switch ScheduleState(strings.ToLower(s)) {
	case ScheduleStateScheduled, ScheduleStateAttended, ScheduleStateCancelled:
		return ScheduleState(strings.ToLower(s)), nil
	default:
		return "", ErrInvalidScheduleState
	}
}

// Schedule represents one dated occurrence of a student against a turn.
// The state moves one way: scheduled goes to exactly one of attended or
// cancelled, and a non-scheduled row is never mutated again.
type Schedule struct {
	ID        int64         `json:"id_schedule"`
	StudentID int64         `json:"id_student"`
	TurnID    int64         `json:"id_turn"`
	Date      time.Time     `json:"date_schedule"`
	State     ScheduleState `json:"state_schedule"`
	CreatedAt time.Time     `json:"created_schedule_at"`
	UpdatedAt *time.Time    `json:"updated_schedule_time"`
}

// IsScheduled checks if the schedule is still pending
func (s *Schedule) IsScheduled() bool {
	return s.State == ScheduleStateScheduled
}

// ScheduleWithTurn is a schedule joined with the weekday and time
// window of its turn, the shape the resolver works on.
type ScheduleWithTurn struct {
	Schedule
	TurnDay       string `json:"turn_day"`
	TurnStartTime string `json:"turn_start_time"`
	TurnEndTime   string `json:"turn_end_time"`
}
