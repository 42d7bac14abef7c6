package kanban_repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JulianKoehler/kanban-backend/internal/model/kanban_model"
	"github.com/JulianKoehler/kanban-backend/internal/reconcile"
	"github.com/JulianKoehler/kanban-backend/internal/validation"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TaskRepo struct {
	DB *sqlx.DB
}

func NewTaskRepo(db *sqlx.DB) *TaskRepo {
	return &TaskRepo{DB: db}
}

// CreateTask inserts the task and runs the reconciler over its nested
// subtasks (all new at this point) in one transaction.
func (r *TaskRepo) CreateTask(ctx context.Context, userID string, data kanban_model.TaskCreate, subtasks []reconcile.Edit[kanban_model.SubtaskEdit]) (*kanban_model.TaskResponse, error) {
	if !validation.ValidUUID(data.BoardID) || !validation.ValidUUID(data.StageID) {
		return nil, fmt.Errorf("%w: task parent reference", reconcile.ErrInvalidID)
	}

	if _, err := checkBoardAccess(ctx, r.DB, data.BoardID, userID); err != nil {
		return nil, err
	}

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}
	defer tx.Rollback()

	taskID := uuid.New().String()
	_, err = tx.ExecContext(ctx, `
        INSERT INTO tasks (id, stage_id, title, description, assigned_user_id)
        VALUES ($1, $2, $3, $4, $5)`,
		taskID, data.StageID, data.Title, data.Description, nullableID(data.AssignedUserID))
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if err := reconcile.Apply(ctx, subtasks, subtaskTxStore{tx: tx, taskID: taskID}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("transaction commit failed: %w", err)
	}

	return r.getTaskResponse(ctx, taskID)
}

// UpdateTask applies the composite task edit: scalar fields plus the
// subtask delta through the reconciler, atomically.
func (r *TaskRepo) UpdateTask(ctx context.Context, taskID, userID string, data kanban_model.TaskUpdate, subtasks []reconcile.Edit[kanban_model.SubtaskEdit]) (*kanban_model.TaskResponse, error) {
	if _, err := checkBoardAccess(ctx, r.DB, data.BoardID, userID); err != nil {
		return nil, err
	}

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
        UPDATE tasks SET title = $1, description = $2, stage_id = $3, assigned_user_id = $4
        WHERE id = $5`,
		data.Title, data.Description, data.StageID, nullableID(data.AssignedUserID), taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, ErrTaskNotFound
	}

	if err := reconcile.Apply(ctx, subtasks, subtaskTxStore{tx: tx, taskID: taskID}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("transaction commit failed: %w", err)
	}

	return r.getTaskResponse(ctx, taskID)
}

// MoveTask reassigns the task to another stage.
func (r *TaskRepo) MoveTask(ctx context.Context, taskID, newStageID, userID string) (*kanban_model.TaskResponse, error) {
	parents, err := parentsByTask(ctx, r.DB, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := checkBoardAccess(ctx, r.DB, parents.BoardID, userID); err != nil {
		return nil, err
	}

	_, err = r.DB.ExecContext(ctx, `UPDATE tasks SET stage_id = $1 WHERE id = $2`, newStageID, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to move task: %w", err)
	}
	return r.getTaskResponse(ctx, taskID)
}

// AssignUser sets the assignee. The assignee must pass the same board
// gate as the actor: only owners and contributors can be assigned.
func (r *TaskRepo) AssignUser(ctx context.Context, taskID, assigneeID, userID string) (*kanban_model.TaskResponse, error) {
	parents, err := parentsByTask(ctx, r.DB, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := checkBoardAccess(ctx, r.DB, parents.BoardID, userID); err != nil {
		return nil, err
	}
	if _, err := checkBoardAccess(ctx, r.DB, parents.BoardID, assigneeID); err != nil {
		return nil, err
	}

	_, err = r.DB.ExecContext(ctx, `UPDATE tasks SET assigned_user_id = $1 WHERE id = $2`, assigneeID, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to assign user: %w", err)
	}
	return r.getTaskResponse(ctx, taskID)
}

// DeleteTask removes the subtasks first, then the task row, and hands
// the parent ids back for client-side cache invalidation.
func (r *TaskRepo) DeleteTask(ctx context.Context, taskID, userID string) (*kanban_model.TaskDeleteResponse, error) {
	parents, err := parentsByTask(ctx, r.DB, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := checkBoardAccess(ctx, r.DB, parents.BoardID, userID); err != nil {
		return nil, err
	}

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM subtasks WHERE task_id = $1`, taskID); err != nil {
		return nil, fmt.Errorf("failed to delete subtasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, taskID); err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("transaction commit failed: %w", err)
	}

	return &kanban_model.TaskDeleteResponse{BoardID: parents.BoardID, StageID: parents.StageID}, nil
}

func (r *TaskRepo) getTaskResponse(ctx context.Context, taskID string) (*kanban_model.TaskResponse, error) {
	var task kanban_model.Task
	err := r.DB.GetContext(ctx, &task, `SELECT * FROM tasks WHERE id = $1`, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to load task: %w", err)
	}

	var stageTitle string
	err = r.DB.GetContext(ctx, &stageTitle, `SELECT title FROM stages WHERE id = $1`, task.StageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStageNotFound
		}
		return nil, fmt.Errorf("failed to load stage of task: %w", err)
	}

	responses, err := buildTaskResponses(ctx, r.DB, []kanban_model.Task{task}, map[string]string{task.StageID: stageTitle})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

func nullableID(id *string) sql.NullString {
	if id == nil || *id == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *id, Valid: true}
}
