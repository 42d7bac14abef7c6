package kanban_repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JulianKoehler/kanban-backend/internal/model/kanban_model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrBoardNotFound     = errors.New("board not found")
	ErrBoardAccessDenied = errors.New("you don't have access to this board")
	ErrNotBoardOwner     = errors.New("only the owner of this board may do this")
	ErrStageNotFound     = errors.New("stage not found")
	ErrTaskNotFound      = errors.New("task not found")
	ErrSubtaskNotFound   = errors.New("subtask not found")
	ErrUserNotFound      = errors.New("user not found")
)

// Authorize decides read/write eligibility for one board: the owner and
// every contributor are allowed, everyone else is denied.
func Authorize(board *kanban_model.Board, contributorIDs []string, userID string) error {
	if board == nil {
		return ErrBoardNotFound
	}
	if board.OwnerID == userID {
		return nil
	}
	for _, id := range contributorIDs {
		if id == userID {
			return nil
		}
	}
	return ErrBoardAccessDenied
}

// checkBoardAccess loads the board and its contributor set and runs the
// gate. Every board-scoped operation calls this before writing.
func checkBoardAccess(ctx context.Context, q sqlx.ExtContext, boardID, userID string) (*kanban_model.Board, error) {
	var board kanban_model.Board
	err := sqlx.GetContext(ctx, q, &board, `SELECT * FROM boards WHERE id = $1`, boardID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to load board: %w", err)
	}

	var contributorIDs []string
	err = sqlx.SelectContext(ctx, q, &contributorIDs, `SELECT user_id FROM boards_users WHERE board_id = $1`, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load board contributors: %w", err)
	}

	if err := Authorize(&board, contributorIDs, userID); err != nil {
		return nil, err
	}
	return &board, nil
}

// Task- and subtask-scoped operations resolve their owning board
// through the Task → Stage → Board chain before hitting the gate.

func boardIDByStage(ctx context.Context, q sqlx.ExtContext, stageID string) (string, error) {
	var boardID string
	err := sqlx.GetContext(ctx, q, &boardID, `SELECT board_id FROM stages WHERE id = $1`, stageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrStageNotFound
		}
		return "", fmt.Errorf("failed to resolve board by stage: %w", err)
	}
	return boardID, nil
}

type taskParents struct {
	BoardID string `db:"board_id"`
	StageID string `db:"stage_id"`
}

func parentsByTask(ctx context.Context, q sqlx.ExtContext, taskID string) (taskParents, error) {
	var parents taskParents
	err := sqlx.GetContext(ctx, q, &parents, `
        SELECT s.board_id, t.stage_id
        FROM tasks t
        JOIN stages s ON s.id = t.stage_id
        WHERE t.id = $1`, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return taskParents{}, ErrTaskNotFound
		}
		return taskParents{}, fmt.Errorf("failed to resolve board by task: %w", err)
	}
	return parents, nil
}

func parentsBySubtask(ctx context.Context, q sqlx.ExtContext, subtaskID string) (taskParents, error) {
	var parents taskParents
	err := sqlx.GetContext(ctx, q, &parents, `
        SELECT s.board_id, t.stage_id
        FROM subtasks st
        JOIN tasks t ON t.id = st.task_id
        JOIN stages s ON s.id = t.stage_id
        WHERE st.id = $1`, subtaskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return taskParents{}, ErrSubtaskNotFound
		}
		return taskParents{}, fmt.Errorf("failed to resolve board by subtask: %w", err)
	}
	return parents, nil
}
