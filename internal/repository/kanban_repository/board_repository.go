package kanban_repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JulianKoehler/kanban-backend/internal/model/auth_model"
	"github.com/JulianKoehler/kanban-backend/internal/model/kanban_model"
	"github.com/JulianKoehler/kanban-backend/internal/reconcile"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type BoardRepo struct {
	DB *sqlx.DB
}

func NewBoardRepo(db *sqlx.DB) *BoardRepo {
	return &BoardRepo{DB: db}
}

func (r *BoardRepo) GetUserBoards(ctx context.Context, userID string) (*kanban_model.BoardListReturn, error) {
	own := []kanban_model.BoardListItem{}
	err := r.DB.SelectContext(ctx, &own, `
        SELECT id, title, created_at FROM boards WHERE owner_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load own boards: %w", err)
	}

	contributing := []kanban_model.BoardListItem{}
	err = r.DB.SelectContext(ctx, &contributing, `
        SELECT b.id, b.title, b.created_at
        FROM boards b
        JOIN boards_users bu ON bu.board_id = b.id
        WHERE bu.user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contributed boards: %w", err)
	}

	return &kanban_model.BoardListReturn{OwnBoards: own, Contributing: contributing}, nil
}

func (r *BoardRepo) GetBoardData(ctx context.Context, boardID, userID string) (*kanban_model.BoardDataReturn, error) {
	board, err := checkBoardAccess(ctx, r.DB, boardID, userID)
	if err != nil {
		return nil, err
	}
	return buildBoardData(ctx, r.DB, board)
}

// CreateBoard persists the board row, runs the reconciler over the
// listed stages (all new at this point) and adds the listed
// contributors, all in one transaction. A contributor id that does not
// resolve to a user fails the whole operation.
func (r *BoardRepo) CreateBoard(ctx context.Context, title, ownerID string, stages []reconcile.Edit[kanban_model.StageEdit], contributors []kanban_model.ContributorEdit) (*kanban_model.BoardCreateResponse, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}
	defer tx.Rollback()

	boardID := uuid.New().String()
	var board kanban_model.Board
	err = tx.QueryRowxContext(ctx, `
        INSERT INTO boards (id, title, owner_id) VALUES ($1, $2, $3) RETURNING *`,
		boardID, title, ownerID).StructScan(&board)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	if err := reconcile.Apply(ctx, stages, stageTxStore{tx: tx, boardID: boardID}); err != nil {
		return nil, err
	}

	if err := addContributors(ctx, tx, boardID, newContributors(contributors)); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("transaction commit failed: %w", err)
	}

	createdStages := []kanban_model.Stage{}
	err = r.DB.SelectContext(ctx, &createdStages, `
        SELECT * FROM stages WHERE board_id = $1 ORDER BY "index" ASC`, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created stages: %w", err)
	}

	resp := &kanban_model.BoardCreateResponse{
		ID:        board.ID,
		Title:     board.Title,
		CreatedAt: board.CreatedAt,
		Stages:    []kanban_model.StageResponse{},
	}
	for _, s := range createdStages {
		resp.Stages = append(resp.Stages, kanban_model.StageResponse{
			ID:    s.ID,
			Title: s.Title,
			Index: s.Index,
			Color: s.Color,
			Tasks: []kanban_model.TaskResponse{},
		})
	}
	return resp, nil
}

// UpdateBoard applies the composite board edit: scalar fields, the
// stage delta through the reconciler and, only when the actor owns the
// board, the contributor delta. Everything commits atomically.
func (r *BoardRepo) UpdateBoard(ctx context.Context, boardID, userID, title, ownerID string, stages []reconcile.Edit[kanban_model.StageEdit], contributors []kanban_model.ContributorEdit) (*kanban_model.BoardDataReturn, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}
	defer tx.Rollback()

	board, err := checkBoardAccess(ctx, tx, boardID, userID)
	if err != nil {
		return nil, err
	}
	isOwner := board.OwnerID == userID

	_, err = tx.ExecContext(ctx, `UPDATE boards SET title = $1, owner_id = $2 WHERE id = $3`,
		title, ownerID, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to update board: %w", err)
	}

	if err := reconcile.Apply(ctx, stages, stageTxStore{tx: tx, boardID: boardID}); err != nil {
		return nil, err
	}

	// Contributors may edit stages and tasks but never the membership
	// list itself.
	if isOwner {
		if err := addContributors(ctx, tx, boardID, newContributors(contributors)); err != nil {
			return nil, err
		}
		if err := removeContributors(ctx, tx, boardID, removedContributors(contributors)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("transaction commit failed: %w", err)
	}

	return r.GetBoardData(ctx, boardID, userID)
}

// ChangeOwner hands the board to newOwner: newOwner leaves the
// contributor set, the previous owner joins it. Only the current owner
// may call this.
func (r *BoardRepo) ChangeOwner(ctx context.Context, boardID, newOwnerID, userID string) (*kanban_model.BoardDataReturn, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}
	defer tx.Rollback()

	board, err := checkBoardAccess(ctx, tx, boardID, userID)
	if err != nil {
		return nil, err
	}
	if board.OwnerID != userID {
		return nil, ErrNotBoardOwner
	}

	if err := userExists(ctx, tx, newOwnerID); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM boards_users WHERE board_id = $1 AND user_id = $2`,
		boardID, newOwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove new owner from contributors: %w", err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE boards SET owner_id = $1 WHERE id = $2`, newOwnerID, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to set new owner: %w", err)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO boards_users (board_id, user_id) VALUES ($1, $2)`,
		boardID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to add previous owner to contributors: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("transaction commit failed: %w", err)
	}

	return r.GetBoardData(ctx, boardID, userID)
}

// DeleteBoard removes the whole board subtree. Stages are deleted
// explicitly with their tasks and subtasks even though the schema
// cascades the same edges; the contributor membership is cleared before
// the board row goes.
func (r *BoardRepo) DeleteBoard(ctx context.Context, boardID, userID string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}
	defer tx.Rollback()

	board, err := checkBoardAccess(ctx, tx, boardID, userID)
	if err != nil {
		return err
	}
	if board.OwnerID != userID {
		return ErrNotBoardOwner
	}

	var stageIDs []string
	if err := sqlx.SelectContext(ctx, tx, &stageIDs, `SELECT id FROM stages WHERE board_id = $1`, boardID); err != nil {
		return fmt.Errorf("failed to load stages for deletion: %w", err)
	}
	for _, stageID := range stageIDs {
		if err := deleteStageCascade(ctx, tx, boardID, stageID); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM boards_users WHERE board_id = $1`, boardID); err != nil {
		return fmt.Errorf("failed to clear contributors: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM boards WHERE id = $1`, boardID); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}

// LeaveBoard removes the calling user from the contributor set.
func (r *BoardRepo) LeaveBoard(ctx context.Context, boardID, userID string) error {
	if _, err := checkBoardAccess(ctx, r.DB, boardID, userID); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx, `DELETE FROM boards_users WHERE board_id = $1 AND user_id = $2`,
		boardID, userID)
	if err != nil {
		return fmt.Errorf("failed to leave board: %w", err)
	}
	return nil
}

// ─── Contributor deltas ────────────────────────────────────────

func newContributors(edits []kanban_model.ContributorEdit) []string {
	var ids []string
	for _, e := range edits {
		if e.IsNew {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

func removedContributors(edits []kanban_model.ContributorEdit) []string {
	var ids []string
	for _, e := range edits {
		if e.MarkedForDeletion {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

func addContributors(ctx context.Context, tx *sqlx.Tx, boardID string, userIDs []string) error {
	for _, userID := range userIDs {
		if err := userExists(ctx, tx, userID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
            INSERT INTO boards_users (board_id, user_id) VALUES ($1, $2)
            ON CONFLICT DO NOTHING`, boardID, userID)
		if err != nil {
			return fmt.Errorf("failed to add contributor: %w", err)
		}
	}
	return nil
}

func removeContributors(ctx context.Context, tx *sqlx.Tx, boardID string, userIDs []string) error {
	for _, userID := range userIDs {
		_, err := tx.ExecContext(ctx, `DELETE FROM boards_users WHERE board_id = $1 AND user_id = $2`,
			boardID, userID)
		if err != nil {
			return fmt.Errorf("failed to remove contributor: %w", err)
		}
	}
	return nil
}

func userExists(ctx context.Context, q sqlx.ExtContext, userID string) error {
	var exists bool
	err := sqlx.GetContext(ctx, q, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

// ─── Board tree assembly ───────────────────────────────────────

func buildBoardData(ctx context.Context, q sqlx.ExtContext, board *kanban_model.Board) (*kanban_model.BoardDataReturn, error) {
	owner, err := getUserInfo(ctx, q, board.OwnerID)
	if err != nil {
		return nil, err
	}

	contributorRows := []auth_model.User{}
	err = sqlx.SelectContext(ctx, q, &contributorRows, `
        SELECT u.* FROM users u
        JOIN boards_users bu ON bu.user_id = u.id
        WHERE bu.board_id = $1`, board.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contributors: %w", err)
	}
	contributors := []auth_model.UserInfoReturn{}
	for i := range contributorRows {
		contributors = append(contributors, contributorRows[i].InfoReturn())
	}

	stages, err := buildStageResponses(ctx, q, board.ID)
	if err != nil {
		return nil, err
	}

	return &kanban_model.BoardDataReturn{
		ID:           board.ID,
		Title:        board.Title,
		Stages:       stages,
		Owner:        owner,
		Contributors: contributors,
	}, nil
}

// buildStageResponses loads the stage/task/subtask subtree of a board
// with one batched query per level. Stages come back by index; task
// order within a stage stays the implicit row order.
func buildStageResponses(ctx context.Context, q sqlx.ExtContext, boardID string) ([]kanban_model.StageResponse, error) {
	stageRows := []kanban_model.Stage{}
	err := sqlx.SelectContext(ctx, q, &stageRows, `
        SELECT * FROM stages WHERE board_id = $1 ORDER BY "index" ASC`, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stages: %w", err)
	}

	stages := []kanban_model.StageResponse{}
	stageByID := make(map[string]int)
	stageIDs := make([]string, 0, len(stageRows))
	stageTitles := make(map[string]string)
	for _, s := range stageRows {
		stages = append(stages, kanban_model.StageResponse{
			ID:    s.ID,
			Title: s.Title,
			Index: s.Index,
			Color: s.Color,
			Tasks: []kanban_model.TaskResponse{},
		})
		stageByID[s.ID] = len(stages) - 1
		stageIDs = append(stageIDs, s.ID)
		stageTitles[s.ID] = s.Title
	}
	if len(stageIDs) == 0 {
		return stages, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM tasks WHERE stage_id IN (?)`, stageIDs)
	if err != nil {
		return nil, err
	}
	taskRows := []kanban_model.Task{}
	if err := sqlx.SelectContext(ctx, q, &taskRows, q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	taskResponses, err := buildTaskResponses(ctx, q, taskRows, stageTitles)
	if err != nil {
		return nil, err
	}
	for _, t := range taskResponses {
		idx := stageByID[t.Status.ID]
		stages[idx].Tasks = append(stages[idx].Tasks, t)
	}
	return stages, nil
}

// buildTaskResponses shapes task rows into wire responses with their
// subtasks (index ascending) and assigned users resolved.
func buildTaskResponses(ctx context.Context, q sqlx.ExtContext, taskRows []kanban_model.Task, stageTitles map[string]string) ([]kanban_model.TaskResponse, error) {
	if len(taskRows) == 0 {
		return []kanban_model.TaskResponse{}, nil
	}

	taskIDs := make([]string, 0, len(taskRows))
	assigneeIDs := make([]string, 0)
	for _, t := range taskRows {
		taskIDs = append(taskIDs, t.ID)
		if t.AssignedUserID.Valid {
			assigneeIDs = append(assigneeIDs, t.AssignedUserID.String)
		}
	}

	query, args, err := sqlx.In(`
        SELECT * FROM subtasks WHERE task_id IN (?) ORDER BY task_id, "index" ASC`, taskIDs)
	if err != nil {
		return nil, err
	}
	subtaskRows := []kanban_model.Subtask{}
	if err := sqlx.SelectContext(ctx, q, &subtaskRows, q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to load subtasks: %w", err)
	}
	subtasksByTask := make(map[string][]kanban_model.SubtaskResponse)
	for _, st := range subtaskRows {
		subtasksByTask[st.TaskID] = append(subtasksByTask[st.TaskID], kanban_model.SubtaskResponse{
			ID:          st.ID,
			TaskID:      st.TaskID,
			Title:       st.Title,
			Index:       st.Index,
			IsCompleted: st.IsCompleted,
		})
	}

	assignees := make(map[string]auth_model.UserInfoReturn)
	if len(assigneeIDs) > 0 {
		query, args, err := sqlx.In(`SELECT * FROM users WHERE id IN (?)`, assigneeIDs)
		if err != nil {
			return nil, err
		}
		userRows := []auth_model.User{}
		if err := sqlx.SelectContext(ctx, q, &userRows, q.Rebind(query), args...); err != nil {
			return nil, fmt.Errorf("failed to load assigned users: %w", err)
		}
		for i := range userRows {
			assignees[userRows[i].ID] = userRows[i].InfoReturn()
		}
	}

	responses := make([]kanban_model.TaskResponse, 0, len(taskRows))
	for _, t := range taskRows {
		resp := kanban_model.TaskResponse{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Status:      kanban_model.Status{ID: t.StageID, Title: stageTitles[t.StageID]},
			Subtasks:    []kanban_model.SubtaskResponse{},
		}
		if subs, ok := subtasksByTask[t.ID]; ok {
			resp.Subtasks = subs
		}
		if t.AssignedUserID.Valid {
			if info, ok := assignees[t.AssignedUserID.String]; ok {
				resp.AssignedUser = &info
			}
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

func getUserInfo(ctx context.Context, q sqlx.ExtContext, userID string) (auth_model.UserInfoReturn, error) {
	var u auth_model.User
	err := sqlx.GetContext(ctx, q, &u, `SELECT * FROM users WHERE id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth_model.UserInfoReturn{}, ErrUserNotFound
		}
		return auth_model.UserInfoReturn{}, fmt.Errorf("failed to load user: %w", err)
	}
	return u.InfoReturn(), nil
}
