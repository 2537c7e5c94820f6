package handlers

import (
	"context"
	"time"

	"github.com/UTPC-FIT/turns-management/internal/model"
	"github.com/go-playground/validator/v10"
)

// TurnService is the turn-facing surface the handlers depend on
type TurnService interface {
	Create(ctx context.Context, turn *model.Turn) (*model.Turn, error)
	List(ctx context.Context) ([]*model.Turn, error)
	Get(ctx context.Context, id int64) (*model.Turn, error)
	Update(ctx context.Context, id int64, update *model.TurnUpdate) (*model.Turn, error)
	Deactivate(ctx context.Context, id int64) error
}

// ScheduleService is the schedule-facing surface the handlers depend on
type ScheduleService interface {
	Create(ctx context.Context, studentID, turnID int64, now time.Time) (*model.Schedule, error)
	List(ctx context.Context) ([]*model.Schedule, error)
	ListByStudent(ctx context.Context, studentID int64, state model.ScheduleState) ([]*model.Schedule, error)
	CurrentValid(ctx context.Context, studentID int64, now time.Time) (*model.ScheduleWithTurn, error)
	MarkAttendance(ctx context.Context, studentID int64, now time.Time) (*model.Schedule, error)
	Cancel(ctx context.Context, studentID int64, now time.Time) (*model.Schedule, error)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

type createTurnRequest struct {
	Day         string `json:"day" validate:"required"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
	MaxCapacity *int   `json:"max_capacity" validate:"required"`
	Status      string `json:"status" validate:"required"`
	Color       string `json:"color_turn"`
}

type createScheduleRequest struct {
	StudentID int64 `json:"student_id" validate:"required"`
	TurnID    int64 `json:"turn_id" validate:"required"`
}

type studentActionRequest struct {
	StudentID int64 `json:"student_id" validate:"required"`
}
