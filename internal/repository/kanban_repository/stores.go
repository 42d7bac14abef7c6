package kanban_repository

import (
	"context"
	"fmt"

	"github.com/JulianKoehler/kanban-backend/internal/model/kanban_model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// stageTxStore applies classified stage edits under one board inside a
// running transaction. It is the reconcile.Store the board update and
// board create paths plug into.
type stageTxStore struct {
	tx      *sqlx.Tx
	boardID string
}

func (s stageTxStore) Insert(ctx context.Context, f kanban_model.StageEdit) error {
	_, err := s.tx.ExecContext(ctx, `
        INSERT INTO stages (id, board_id, title, "index", color)
        VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(), s.boardID, f.Title, f.Index, f.Color)
	if err != nil {
		return fmt.Errorf("failed to insert stage: %w", err)
	}
	return nil
}

func (s stageTxStore) Update(ctx context.Context, id string, f kanban_model.StageEdit) error {
	// No row under this board is a silent no-op.
	_, err := s.tx.ExecContext(ctx, `
        UPDATE stages SET title = $1, "index" = $2, color = $3
        WHERE id = $4 AND board_id = $5`,
		f.Title, f.Index, f.Color, id, s.boardID)
	if err != nil {
		return fmt.Errorf("failed to update stage: %w", err)
	}
	return nil
}

// Delete removes the stage and, at the application layer, its tasks and
// their subtasks first. The schema carries ON DELETE CASCADE for the
// same edges; both are kept.
func (s stageTxStore) Delete(ctx context.Context, id string) error {
	return deleteStageCascade(ctx, s.tx, s.boardID, id)
}

func deleteStageCascade(ctx context.Context, tx *sqlx.Tx, boardID, stageID string) error {
	_, err := tx.ExecContext(ctx, `
        DELETE FROM subtasks WHERE task_id IN (
            SELECT t.id FROM tasks t
            JOIN stages s ON s.id = t.stage_id
            WHERE s.id = $1 AND s.board_id = $2
        )`, stageID, boardID)
	if err != nil {
		return fmt.Errorf("failed to delete subtasks of stage: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
        DELETE FROM tasks WHERE stage_id IN (
            SELECT id FROM stages WHERE id = $1 AND board_id = $2
        )`, stageID, boardID)
	if err != nil {
		return fmt.Errorf("failed to delete tasks of stage: %w", err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM stages WHERE id = $1 AND board_id = $2`, stageID, boardID)
	if err != nil {
		return fmt.Errorf("failed to delete stage: %w", err)
	}
	return nil
}

// subtaskTxStore applies classified subtask edits under one task.
type subtaskTxStore struct {
	tx     *sqlx.Tx
	taskID string
}

func (s subtaskTxStore) Insert(ctx context.Context, f kanban_model.SubtaskEdit) error {
	_, err := s.tx.ExecContext(ctx, `
        INSERT INTO subtasks (id, task_id, title, "index", is_completed)
        VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(), s.taskID, f.Title, f.Index, f.IsCompleted)
	if err != nil {
		return fmt.Errorf("failed to insert subtask: %w", err)
	}
	return nil
}

func (s subtaskTxStore) Update(ctx context.Context, id string, f kanban_model.SubtaskEdit) error {
	_, err := s.tx.ExecContext(ctx, `
        UPDATE subtasks SET title = $1, "index" = $2, is_completed = $3
        WHERE id = $4 AND task_id = $5`,
		f.Title, f.Index, f.IsCompleted, id, s.taskID)
	if err != nil {
		return fmt.Errorf("failed to update subtask: %w", err)
	}
	return nil
}

func (s subtaskTxStore) Delete(ctx context.Context, id string) error {
	_, err := s.tx.ExecContext(ctx, `DELETE FROM subtasks WHERE id = $1 AND task_id = $2`, id, s.taskID)
	if err != nil {
		return fmt.Errorf("failed to delete subtask: %w", err)
	}
	return nil
}
