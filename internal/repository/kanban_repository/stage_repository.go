package kanban_repository

import (
	"context"
	"fmt"

	"github.com/JulianKoehler/kanban-backend/internal/model/kanban_model"
	"github.com/JulianKoehler/kanban-backend/internal/reconcile"
	"github.com/JulianKoehler/kanban-backend/internal/validation"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type StageRepo struct {
	DB *sqlx.DB
}

func NewStageRepo(db *sqlx.DB) *StageRepo {
	return &StageRepo{DB: db}
}

// CreateStage inserts a single stage into an existing board. Stage
// deltas carried by a board update go through the reconciler instead.
func (r *StageRepo) CreateStage(ctx context.Context, userID string, data kanban_model.StageCreate) (*kanban_model.StageResponse, error) {
	if !validation.ValidUUID(data.BoardID) {
		return nil, fmt.Errorf("%w: board reference %q", reconcile.ErrInvalidID, data.BoardID)
	}

	if _, err := checkBoardAccess(ctx, r.DB, data.BoardID, userID); err != nil {
		return nil, err
	}

	var stage kanban_model.Stage
	err := r.DB.QueryRowxContext(ctx, `
        INSERT INTO stages (id, board_id, title, "index", color)
        VALUES ($1, $2, $3, $4, $5) RETURNING *`,
		uuid.New().String(), data.BoardID, data.Title, data.Index, data.Color).StructScan(&stage)
	if err != nil {
		return nil, fmt.Errorf("failed to insert stage: %w", err)
	}

	return &kanban_model.StageResponse{
		ID:    stage.ID,
		Title: stage.Title,
		Index: stage.Index,
		Color: stage.Color,
		Tasks: []kanban_model.TaskResponse{},
	}, nil
}
