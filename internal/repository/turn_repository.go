package repository

import (
	"context"
	"fmt"

	"github.com/UTPC-FIT/turns-management/internal/model"
	"github.com/UTPC-FIT/turns-management/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TurnRepository struct {
	*base.Repository
}

func NewTurnRepository(pool *pgxpool.Pool) *TurnRepository {
	return &TurnRepository{Repository: base.NewRepository(pool)}
}

const turnColumns = `id, day, start_time, end_time, max_capacity, status, color, created_at, updated_at`

func scanTurn(row interface{ Scan(...interface{}) error }, turn *model.Turn) error {
	return row.Scan(
		&turn.ID,
		&turn.Day,
		&turn.StartTime,
		&turn.EndTime,
		&turn.MaxCapacity,
		&turn.Status,
		&turn.Color,
		&turn.CreatedAt,
		&turn.UpdatedAt,
	)
}

// Create inserts a new turn
func (r *TurnRepository) Create(ctx context.Context, turn *model.Turn) error {
	query := `
		INSERT INTO turns (day, start_time, end_time, max_capacity, status, color)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		turn.Day,
		turn.StartTime,
		turn.EndTime,
		turn.MaxCapacity,
		turn.Status,
		turn.Color,
	).Scan(&turn.ID, &turn.CreatedAt)

	if err != nil {
		return fmt.Errorf("create turn: %w", err)
	}

	return nil
}

// GetAll returns every turn, active or not
func (r *TurnRepository) GetAll(ctx context.Context) ([]*model.Turn, error) {
	query := `
		SELECT ` + turnColumns + `
		FROM turns
		ORDER BY id ASC
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all turns: %w", err)
	}
	defer rows.Close()

	var turns []*model.Turn
	for rows.Next() {
		var turn model.Turn
		if err := scanTurn(rows, &turn); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, &turn)
	}

	return turns, rows.Err()
}

// GetByID returns a turn by ID, nil when it does not exist
func (r *TurnRepository) GetByID(ctx context.Context, id int64) (*model.Turn, error) {
	query := `
		SELECT ` + turnColumns + `
		FROM turns
		WHERE id = $1
	`

	var turn model.Turn
	err := scanTurn(r.QueryRow(ctx, query, id), &turn)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get turn by id: %w", err)
	}

	return &turn, nil
}

// Update applies a partial update. Each optional field maps to exactly
// one COALESCE assignment, so the statement never varies in shape.
func (r *TurnRepository) Update(ctx context.Context, id int64, update *model.TurnUpdate) (int64, error) {
	query := `
		UPDATE turns
		SET day          = COALESCE($1, day),
		    start_time   = COALESCE($2, start_time),
		    end_time     = COALESCE($3, end_time),
		    max_capacity = COALESCE($4, max_capacity),
		    status       = COALESCE($5, status),
		    color        = COALESCE($6, color),
		    updated_at   = NOW()
		WHERE id = $7
	`

	affected, err := r.ExecAffected(ctx, query,
		update.Day,
		update.StartTime,
		update.EndTime,
		update.MaxCapacity,
		update.Status,
		update.Color,
		id,
	)
	if err != nil {
		return 0, fmt.Errorf("update turn: %w", err)
	}

	return affected, nil
}

// Deactivate soft-deletes a turn by flipping its status to inactive.
// Turns are never physically removed.
func (r *TurnRepository) Deactivate(ctx context.Context, id int64) (int64, error) {
	query := `
		UPDATE turns
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	affected, err := r.ExecAffected(ctx, query, model.TurnStatusInactive, id)
	if err != nil {
		return 0, fmt.Errorf("deactivate turn: %w", err)
	}

	return affected, nil
}
