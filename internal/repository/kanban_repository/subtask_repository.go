package kanban_repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JulianKoehler/kanban-backend/internal/model/kanban_model"
	"github.com/jmoiron/sqlx"
)

type SubtaskRepo struct {
	DB *sqlx.DB
}

func NewSubtaskRepo(db *sqlx.DB) *SubtaskRepo {
	return &SubtaskRepo{DB: db}
}

// ToggleComplete flips the completion flag. The caller must pass the
// board gate of the owning board, resolved through the
// Subtask → Task → Stage → Board chain.
func (r *SubtaskRepo) ToggleComplete(ctx context.Context, subtaskID, userID string) (*kanban_model.SubtaskResponse, error) {
	parents, err := parentsBySubtask(ctx, r.DB, subtaskID)
	if err != nil {
		return nil, err
	}
	if _, err := checkBoardAccess(ctx, r.DB, parents.BoardID, userID); err != nil {
		return nil, err
	}

	var subtask kanban_model.Subtask
	err = r.DB.QueryRowxContext(ctx, `
        UPDATE subtasks SET is_completed = NOT is_completed
        WHERE id = $1 RETURNING *`, subtaskID).StructScan(&subtask)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubtaskNotFound
		}
		return nil, fmt.Errorf("failed to toggle subtask: %w", err)
	}

	return &kanban_model.SubtaskResponse{
		ID:          subtask.ID,
		TaskID:      subtask.TaskID,
		Title:       subtask.Title,
		Index:       subtask.Index,
		IsCompleted: subtask.IsCompleted,
	}, nil
}
