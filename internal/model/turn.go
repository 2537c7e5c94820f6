package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/UTPC-FIT/turns-management/internal/recurrence"
)

type TurnStatus string

const (
	TurnStatusActive   TurnStatus = "active"
	TurnStatusInactive TurnStatus = "inactive"
)

// Turn represents a recurring weekly slot students can book into.
type Turn struct {
	ID          int64      `json:"id_turn"`
	Day         string     `json:"day"` // weekday name, stored upper-case
	StartTime   string     `json:"start_time"`
	EndTime     string     `json:"end_time"`
	MaxCapacity int        `json:"max_capacity"`
	Status      TurnStatus `json:"status"`
	Color       string     `json:"color_turn"`
	CreatedAt   time.Time  `json:"created_turn_at"`
	UpdatedAt   *time.Time `json:"updated_turn_at"`
}

// IsActive checks if the turn accepts new schedules
func (t *Turn) IsActive() bool {
	return t.Status == TurnStatusActive
}

var (
	ErrInvalidCapacity   = errors.New("max capacity must be a positive number")
	ErrInvalidTurnStatus = errors.New("status must be active or inactive")
	ErrInvalidTimeRange  = errors.New("end time must be after start time")
)

// ParseTurnStatus validates a status value coming from a request
func ParseTurnStatus(s string) (TurnStatus, error) {
	switch TurnStatus(s) {
	case TurnStatusActive, TurnStatusInactive:
		return TurnStatus(s), nil
	default:
		return "", ErrInvalidTurnStatus
	}
}

// Validate checks all turn invariants before the turn is persisted
func (t *Turn) Validate() error {
	if _, err := recurrence.ParseWeekday(t.Day); err != nil {
		return fmt.Errorf("day: %w", err)
	}

	start, err := recurrence.ParseClockTime(t.StartTime)
	if err != nil {
		return fmt.Errorf("start_time: %w", err)
	}

	end, err := recurrence.ParseClockTime(t.EndTime)
	if err != nil {
		return fmt.Errorf("end_time: %w", err)
	}

	if !start.Before(end) {
		return ErrInvalidTimeRange
	}

	if t.MaxCapacity <= 0 {
		return ErrInvalidCapacity
	}

	if _, err := ParseTurnStatus(string(t.Status)); err != nil {
		return err
	}

	return nil
}

// TurnUpdate carries a partial update of a turn. Nil fields are left
// unchanged; each set field maps to exactly one column assignment.
type TurnUpdate struct {
	Day         *string     `json:"day"`
	StartTime   *string     `json:"start_time"`
	EndTime     *string     `json:"end_time"`
	MaxCapacity *int        `json:"max_capacity"`
	Status      *TurnStatus `json:"status"`
	Color       *string     `json:"color_turn"`
}

// IsEmpty reports whether the update carries no fields at all
func (u *TurnUpdate) IsEmpty() bool {
	return u.Day == nil &&
		u.StartTime == nil &&
		u.EndTime == nil &&
		u.MaxCapacity == nil &&
		u.Status == nil &&
		u.Color == nil
}

// Validate checks the fields that are present. The start/end ordering
// is re-checked by the service against the stored turn when only one
// side of the range changes.
func (u *TurnUpdate) Validate() error {
	if u.Day != nil {
		if _, err := recurrence.ParseWeekday(*u.Day); err != nil {
			return fmt.Errorf("day: %w", err)
		}
	}

	if u.StartTime != nil {
		if _, err := recurrence.ParseClockTime(*u.StartTime); err != nil {
			return fmt.Errorf("start_time: %w", err)
		}
	}

	if u.EndTime != nil {
		if _, err := recurrence.ParseClockTime(*u.EndTime); err != nil {
			return fmt.Errorf("end_time: %w", err)
		}
	}

	if u.MaxCapacity != nil && *u.MaxCapacity <= 0 {
		return ErrInvalidCapacity
	}

	if u.Status != nil {
		if _, err := ParseTurnStatus(string(*u.Status)); err != nil {
			return err
		}
	}

	return nil
}
