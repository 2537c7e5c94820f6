package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UTPC-FIT/turns-management/internal/model"
	"github.com/UTPC-FIT/turns-management/internal/recurrence"
	"github.com/UTPC-FIT/turns-management/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var (
	// ErrNoCurrentSchedule means the student has no upcoming valid
	// schedule. A normal outcome, not a failure.
	ErrNoCurrentSchedule = errors.New("no current or upcoming valid scheduled turns found for this student")

	// ErrNoActionableSchedule means the student has no pending
	// schedule dated today or earlier to act on.
	ErrNoActionableSchedule = errors.New("no scheduled assignments found for this student for today or earlier")
)

type ScheduleService struct {
	pool         *pgxpool.Pool
	turnRepo     *repository.TurnRepository
	scheduleRepo *repository.ScheduleRepository
	logger       *zap.Logger
}

func NewScheduleService(
	pool *pgxpool.Pool,
	turnRepo *repository.TurnRepository,
	scheduleRepo *repository.ScheduleRepository,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		pool:         pool,
		turnRepo:     turnRepo,
		scheduleRepo: scheduleRepo,
		logger:       logger,
	}
}

// Create books a student into a turn. The concrete date is the next
// occurrence of the turn's weekday at its start time, relative to now.
func (s *ScheduleService) Create(ctx context.Context, studentID, turnID int64, now time.Time) (*model.Schedule, error) {
	turn, err := s.turnRepo.GetByID(ctx, turnID)
	if err != nil {
		return nil, fmt.Errorf("get turn: %w", err)
	}

	if turn == nil {
		return nil, ErrTurnNotFound
	}

	date, err := recurrence.NextOccurrenceOf(turn.Day, turn.StartTime, now)
	if err != nil {
		return nil, fmt.Errorf("compute next occurrence: %w", err)
	}

	schedule := &model.Schedule{
		StudentID: studentID,
		TurnID:    turnID,
		Date:      date,
		State:     model.ScheduleStateScheduled,
	}

	if err := s.scheduleRepo.Create(ctx, schedule); err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}

	s.logger.Info("Schedule created",
		zap.Int64("schedule_id", schedule.ID),
		zap.Int64("student_id", studentID),
		zap.Int64("turn_id", turnID),
		zap.Time("date", date),
	)

	return schedule, nil
}

// List returns every schedule
func (s *ScheduleService) List(ctx context.Context) ([]*model.Schedule, error) {
	return s.scheduleRepo.GetAll(ctx)
}

// ListByStudent returns a student's schedules, optionally filtered by
// state. An empty result is a valid outcome, never an error.
func (s *ScheduleService) ListByStudent(ctx context.Context, studentID int64, state model.ScheduleState) ([]*model.Schedule, error) {
	return s.scheduleRepo.GetByStudentID(ctx, studentID, state)
}

// CurrentValid returns the student's earliest still-upcoming pending
// schedule: the first one, in date-then-time order, whose full instant
// is at or after now and whose date falls on its turn's weekday.
func (s *ScheduleService) CurrentValid(ctx context.Context, studentID int64, now time.Time) (*model.ScheduleWithTurn, error) {
	schedules, err := s.scheduleRepo.ListScheduledWithTurn(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list scheduled: %w", err)
	}

	idx := recurrence.SelectCurrentValid(candidates(schedules), now, s.logger)
	if idx < 0 {
		return nil, ErrNoCurrentSchedule
	}

	return schedules[idx], nil
}

// MarkAttendance transitions the student's actionable schedule to
// attended.
func (s *ScheduleService) MarkAttendance(ctx context.Context, studentID int64, now time.Time) (*model.Schedule, error) {
	return s.resolveAndTransition(ctx, studentID, now, model.ScheduleStateAttended)
}

// Cancel transitions the student's actionable schedule to cancelled.
func (s *ScheduleService) Cancel(ctx context.Context, studentID int64, now time.Time) (*model.Schedule, error) {
	return s.resolveAndTransition(ctx, studentID, now, model.ScheduleStateCancelled)
}

// resolveAndTransition picks the student's actionable schedule — the
// most recent pending one dated today or earlier — and moves it to the
// target terminal state. Selection and update run in one transaction
// over locked rows, so two concurrent calls for the same student
// cannot both transition the same schedule. Earlier pending schedules
// are left as they are.
func (s *ScheduleService) resolveAndTransition(ctx context.Context, studentID int64, now time.Time, target model.ScheduleState) (*model.Schedule, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	schedules, err := s.scheduleRepo.ListActionableWithTurn(ctx, tx, studentID, now)
	if err != nil {
		return nil, fmt.Errorf("list actionable: %w", err)
	}

	idx := recurrence.SelectActionable(candidates(schedules))
	if idx < 0 {
		return nil, ErrNoActionableSchedule
	}

	targetID := schedules[idx].ID

	affected, err := s.scheduleRepo.UpdateStateTx(ctx, tx, targetID, target)
	if err != nil {
		return nil, fmt.Errorf("update schedule state: %w", err)
	}

	if affected == 0 {
		// The row left the scheduled state between select and update.
		// With FOR UPDATE this should not happen.
		return nil, ErrNoActionableSchedule
	}

	updated, err := s.scheduleRepo.GetByIDTx(ctx, tx, targetID)
	if err != nil {
		return nil, fmt.Errorf("get updated schedule: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Info("Schedule state transitioned",
		zap.Int64("schedule_id", targetID),
		zap.Int64("student_id", studentID),
		zap.String("state", string(target)),
	)

	return updated, nil
}

// candidates maps joined schedule rows to the resolver's input shape,
// preserving order.
func candidates(schedules []*model.ScheduleWithTurn) []recurrence.Candidate {
	cands := make([]recurrence.Candidate, len(schedules))
	for i, s := range schedules {
		cands[i] = recurrence.Candidate{
			ScheduleID: s.ID,
			Date:       s.Date,
			TurnDay:    s.TurnDay,
			StartTime:  s.TurnStartTime,
		}
	}
	return cands
}
