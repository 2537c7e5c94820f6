package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/UTPC-FIT/turns-management/internal/model"
	"github.com/UTPC-FIT/turns-management/internal/recurrence"
	"github.com/UTPC-FIT/turns-management/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrTurnNotFound     = errors.New("turn not found")
	ErrNoFieldsToUpdate = errors.New("no fields provided for update")
)

type TurnService struct {
	turnRepo *repository.TurnRepository
	logger   *zap.Logger
}

func NewTurnService(turnRepo *repository.TurnRepository, logger *zap.Logger) *TurnService {
	return &TurnService{
		turnRepo: turnRepo,
		logger:   logger,
	}
}

// Create validates and persists a new turn
func (s *TurnService) Create(ctx context.Context, turn *model.Turn) (*model.Turn, error) {
	if err := turn.Validate(); err != nil {
		return nil, err
	}

	if err := s.turnRepo.Create(ctx, turn); err != nil {
		return nil, fmt.Errorf("create turn: %w", err)
	}

	s.logger.Info("Turn created",
		zap.Int64("turn_id", turn.ID),
		zap.String("day", turn.Day),
		zap.String("start_time", turn.StartTime),
		zap.String("end_time", turn.EndTime),
		zap.Int("max_capacity", turn.MaxCapacity),
	)

	return turn, nil
}

// List returns all turns
func (s *TurnService) List(ctx context.Context) ([]*model.Turn, error) {
	return s.turnRepo.GetAll(ctx)
}

// Get returns a turn by ID
func (s *TurnService) Get(ctx context.Context, id int64) (*model.Turn, error) {
	turn, err := s.turnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get turn: %w", err)
	}

	if turn == nil {
		return nil, ErrTurnNotFound
	}

	return turn, nil
}

// Update applies a partial update to a turn. When only one side of the
// time window changes, the ordering invariant is re-checked against
// the stored value of the other side.
func (s *TurnService) Update(ctx context.Context, id int64, update *model.TurnUpdate) (*model.Turn, error) {
	if update.IsEmpty() {
		return nil, ErrNoFieldsToUpdate
	}

	if err := update.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.turnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get turn: %w", err)
	}

	if existing == nil {
		return nil, ErrTurnNotFound
	}

	if err := checkTimeRange(existing, update); err != nil {
		return nil, err
	}

	affected, err := s.turnRepo.Update(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("update turn: %w", err)
	}

	if affected == 0 {
		return nil, ErrTurnNotFound
	}

	updated, err := s.turnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get updated turn: %w", err)
	}

	s.logger.Info("Turn updated",
		zap.Int64("turn_id", id),
	)

	return updated, nil
}

// Deactivate soft-deletes a turn. Existing schedules keep pointing at
// it; only new bookings stop.
func (s *TurnService) Deactivate(ctx context.Context, id int64) error {
	affected, err := s.turnRepo.Deactivate(ctx, id)
	if err != nil {
		return fmt.Errorf("deactivate turn: %w", err)
	}

	if affected == 0 {
		return ErrTurnNotFound
	}

	s.logger.Info("Turn deactivated",
		zap.Int64("turn_id", id),
	)

	return nil
}

// checkTimeRange verifies start < end over the merged view of the
// stored turn and the incoming patch.
func checkTimeRange(existing *model.Turn, update *model.TurnUpdate) error {
	if update.StartTime == nil && update.EndTime == nil {
		return nil
	}

	startStr := existing.StartTime
	if update.StartTime != nil {
		startStr = *update.StartTime
	}

	endStr := existing.EndTime
	if update.EndTime != nil {
		endStr = *update.EndTime
	}

	start, err := recurrence.ParseClockTime(startStr)
	if err != nil {
		return fmt.Errorf("start_time: %w", err)
	}

	end, err := recurrence.ParseClockTime(endStr)
	if err != nil {
		return fmt.Errorf("end_time: %w", err)
	}

	if !start.Before(end) {
		return model.ErrInvalidTimeRange
	}

	return nil
}
