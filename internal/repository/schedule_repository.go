package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/UTPC-FIT/turns-management/internal/model"
	"github.com/UTPC-FIT/turns-management/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ScheduleRepository struct {
	*base.Repository
}

func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{Repository: base.NewRepository(pool)}
}

const scheduleColumns = `id, student_id, turn_id, date, state, created_at, updated_at`

func scanSchedule(row interface{ Scan(...interface{}) error }, s *model.Schedule) error {
	return row.Scan(
		&s.ID,
		&s.StudentID,
		&s.TurnID,
		&s.Date,
		&s.State,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
}

// Create inserts a new schedule
func (r *ScheduleRepository) Create(ctx context.Context, schedule *model.Schedule) error {
	query := `
		INSERT INTO schedules (student_id, turn_id, date, state)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		schedule.StudentID,
		schedule.TurnID,
		schedule.Date,
		schedule.State,
	).Scan(&schedule.ID, &schedule.CreatedAt)

	if err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}

	return nil
}

// GetAll returns every schedule
func (r *ScheduleRepository) GetAll(ctx context.Context) ([]*model.Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		ORDER BY id ASC
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all schedules: %w", err)
	}
	defer rows.Close()

	return collectSchedules(rows)
}

// GetByStudentID returns a student's schedules, optionally narrowed to
// a single state. An empty state means no filter.
func (r *ScheduleRepository) GetByStudentID(ctx context.Context, studentID int64, state model.ScheduleState) ([]*model.Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE student_id = $1 AND ($2 = '' OR state = $2)
		ORDER BY date ASC, id ASC
	`

	rows, err := r.Query(ctx, query, studentID, string(state))
	if err != nil {
		return nil, fmt.Errorf("get schedules by student: %w", err)
	}
	defer rows.Close()

	return collectSchedules(rows)
}

// GetByID returns a schedule by ID, nil when it does not exist
func (r *ScheduleRepository) GetByID(ctx context.Context, id int64) (*model.Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE id = $1
	`

	var schedule model.Schedule
	err := scanSchedule(r.QueryRow(ctx, query, id), &schedule)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get schedule by id: %w", err)
	}

	return &schedule, nil
}

// ListScheduledWithTurn returns a student's pending schedules joined
// with their turn's weekday and time window, ordered the way the
// resolver expects: date ascending, then turn start time ascending.
func (r *ScheduleRepository) ListScheduledWithTurn(ctx context.Context, studentID int64) ([]*model.ScheduleWithTurn, error) {
	query := `
		SELECT s.id, s.student_id, s.turn_id, s.date, s.state, s.created_at, s.updated_at,
		       t.day, t.start_time, t.end_time
		FROM schedules s
		JOIN turns t ON s.turn_id = t.id
		WHERE s.student_id = $1 AND s.state = $2
		ORDER BY s.date ASC, t.start_time ASC
	`

	rows, err := r.Query(ctx, query, studentID, model.ScheduleStateScheduled)
	if err != nil {
		return nil, fmt.Errorf("list scheduled with turn: %w", err)
	}
	defer rows.Close()

	return collectSchedulesWithTurn(rows)
}

// ListActionableWithTurn returns, inside the caller's transaction, the
// student's pending schedules dated on or before today, joined with
// their turn and locked FOR UPDATE so a concurrent attendance or
// cancellation call cannot act on the same rows.
func (r *ScheduleRepository) ListActionableWithTurn(ctx context.Context, tx pgx.Tx, studentID int64, today time.Time) ([]*model.ScheduleWithTurn, error) {
	query := `
		SELECT s.id, s.student_id, s.turn_id, s.date, s.state, s.created_at, s.updated_at,
		       t.day, t.start_time, t.end_time
		FROM schedules s
		JOIN turns t ON s.turn_id = t.id
		WHERE s.student_id = $1 AND s.state = $2 AND s.date::date <= $3::date
		ORDER BY s.date ASC, t.start_time ASC
		FOR UPDATE OF s
	`

	rows, err := tx.Query(ctx, query, studentID, model.ScheduleStateScheduled, today)
	if err != nil {
		return nil, fmt.Errorf("list actionable with turn: %w", err)
	}
	defer rows.Close()

	return collectSchedulesWithTurn(rows)
}

// UpdateStateTx transitions a schedule out of the scheduled state
// inside the caller's transaction. The state guard makes the update a
// compare-and-swap: a row that already left scheduled is not touched.
func (r *ScheduleRepository) UpdateStateTx(ctx context.Context, tx pgx.Tx, id int64, state model.ScheduleState) (int64, error) {
	query := `
		UPDATE schedules
		SET state = $1, updated_at = NOW()
		WHERE id = $2 AND state = $3
	`

	tag, err := tx.Exec(ctx, query, state, id, model.ScheduleStateScheduled)
	if err != nil {
		return 0, fmt.Errorf("update schedule state: %w", err)
	}

	return tag.RowsAffected(), nil
}

// GetByIDTx rereads a schedule inside the caller's transaction
func (r *ScheduleRepository) GetByIDTx(ctx context.Context, tx pgx.Tx, id int64) (*model.Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE id = $1
	`

	var schedule model.Schedule
	err := scanSchedule(tx.QueryRow(ctx, query, id), &schedule)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get schedule by id: %w", err)
	}

	return &schedule, nil
}

func collectSchedules(rows pgx.Rows) ([]*model.Schedule, error) {
	var schedules []*model.Schedule
	for rows.Next() {
		var schedule model.Schedule
		if err := scanSchedule(rows, &schedule); err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, &schedule)
	}
	return schedules, rows.Err()
}

func collectSchedulesWithTurn(rows pgx.Rows) ([]*model.ScheduleWithTurn, error) {
	var schedules []*model.ScheduleWithTurn
	for rows.Next() {
		var s model.ScheduleWithTurn
		err := rows.Scan(
			&s.ID,
			&s.StudentID,
			&s.TurnID,
			&s.Date,
			&s.State,
			&s.CreatedAt,
			&s.UpdatedAt,
			&s.TurnDay,
			&s.TurnStartTime,
			&s.TurnEndTime,
		)
		if err != nil {
			return nil, fmt.Errorf("scan schedule with turn: %w", err)
		}
		schedules = append(schedules, &s)
	}
	return schedules, rows.Err()
}
