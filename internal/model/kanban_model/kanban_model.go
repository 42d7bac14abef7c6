package kanban_model

import (
	"database/sql"
	"time"

	"github.com/JulianKoehler/kanban-backend/internal/model/auth_model"
	"github.com/JulianKoehler/kanban-backend/internal/reconcile"
)

// ─── Rows ──────────────────────────────────────────────────────

type Board struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	OwnerID   string    `db:"owner_id" json:"owner_id"`
}

type Stage struct {
	ID        string    `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	Title     string    `db:"title" json:"title"`
	Index     int       `db:"index" json:"index"`
	Color     string    `db:"color" json:"color"`
	BoardID   string    `db:"board_id" json:"-"`
}

type Task struct {
	ID             string         `db:"id" json:"id"`
	StageID        string         `db:"stage_id" json:"stage_id"`
	CreatedAt      time.Time      `db:"created_at" json:"-"`
	Title          string         `db:"title" json:"title"`
	Description    string         `db:"description" json:"description"`
	AssignedUserID sql.NullString `db:"assigned_user_id" json:"-"`
}

type Subtask struct {
	ID          string `db:"id" json:"id"`
	TaskID      string `db:"task_id" json:"task_id"`
	Title       string `db:"title" json:"title"`
	Index       int    `db:"index" json:"index"`
	IsCompleted bool   `db:"is_completed" json:"is_completed"`
}

// ─── Edit records (client deltas) ──────────────────────────────

// StageEdit is one record of the stage delta a board update carries.
// An empty ID means a record the client created locally; the
// markedForDeletion key is the legacy frontend contract and must keep
// its camelCase name on the wire.
type StageEdit struct {
	ID                string `json:"id,omitempty"`
	Title             string `json:"title"`
	Index             int    `json:"index"`
	Color             string `json:"color"`
	IsNew             bool   `json:"is_new,omitempty"`
	MarkedForDeletion bool   `json:"markedForDeletion,omitempty"`
}

type SubtaskEdit struct {
	ID                string `json:"id,omitempty"`
	Title             string `json:"title"`
	Index             int    `json:"index"`
	IsCompleted       bool   `json:"is_completed"`
	IsNew             bool   `json:"is_new,omitempty"`
	MarkedForDeletion bool   `json:"markedForDeletion,omitempty"`
}

type ContributorEdit struct {
	ID                string `json:"id"`
	IsNew             bool   `json:"is_new"`
	MarkedForDeletion bool   `json:"marked_for_deletion"`
}

// ─── Request payloads ──────────────────────────────────────────

type BoardCreate struct {
	Title        string            `json:"title"`
	OwnerID      string            `json:"owner_id"`
	Stages       []StageEdit       `json:"stages"`
	Contributors []ContributorEdit `json:"contributors"`
}

type BoardUpdate struct {
	Title        string            `json:"title"`
	OwnerID      string            `json:"owner_id"`
	Stages       []StageEdit       `json:"stages"`
	Contributors []ContributorEdit `json:"contributors"`
}

type StageCreate struct {
	Title   string `json:"title"`
	Index   int    `json:"index"`
	Color   string `json:"color"`
	BoardID string `json:"board_id"`
}

type TaskCreate struct {
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	BoardID        string        `json:"board_id"`
	StageID        string        `json:"stage_id"`
	AssignedUserID *string       `json:"assigned_user_id"`
	Subtasks       []SubtaskEdit `json:"subtasks"`
}

type TaskUpdate = TaskCreate

// ─── Responses ─────────────────────────────────────────────────

type BoardListItem struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type BoardListReturn struct {
	OwnBoards    []BoardListItem `json:"own_boards"`
	Contributing []BoardListItem `json:"contributing"`
}

type Status struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type SubtaskResponse struct {
	ID          string `json:"id"`
	TaskID      string `json:"task_id"`
	Title       string `json:"title"`
	Index       int    `json:"index"`
	IsCompleted bool   `json:"is_completed"`
}

type TaskResponse struct {
	ID           string                     `json:"id"`
	Title        string                     `json:"title"`
	Description  string                     `json:"description"`
	Status       Status                     `json:"status"`
	Subtasks     []SubtaskResponse          `json:"subtasks"`
	AssignedUser *auth_model.UserInfoReturn `json:"assigned_user"`
}

type StageResponse struct {
	ID    string         `json:"id"`
	Title string         `json:"title"`
	Index int            `json:"index"`
	Color string         `json:"color"`
	Tasks []TaskResponse `json:"tasks"`
}

type BoardDataReturn struct {
	ID           string                      `json:"id"`
	Title        string                      `json:"title"`
	Stages       []StageResponse             `json:"stages"`
	Owner        auth_model.UserInfoReturn   `json:"owner"`
	Contributors []auth_model.UserInfoReturn `json:"contributors"`
}

// BoardCreateResponse is the create payload echo: the fresh board with
// its stages, which cannot have tasks yet.
type BoardCreateResponse struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	CreatedAt time.Time       `json:"created_at"`
	Stages    []StageResponse `json:"stages"`
}

// TaskDeleteResponse carries the parent ids so the frontend can evict
// the task from its cached board tree.
type TaskDeleteResponse struct {
	BoardID string `json:"board_id"`
	StageID string `json:"stage_id"`
}

// ─── Request-boundary edit classification ──────────────────────

// StageEdits classifies a raw stage delta into reconciler edits. This
// is the only place the legacy flag scheme is interpreted.
func StageEdits(in []StageEdit) []reconcile.Edit[StageEdit] {
	out := make([]reconcile.Edit[StageEdit], 0, len(in))
	for _, s := range in {
		out = append(out, reconcile.Edit[StageEdit]{
			Kind:   reconcile.Classify(s.ID, s.IsNew, s.MarkedForDeletion),
			ID:     s.ID,
			Fields: s,
		})
	}
	return out
}

func SubtaskEdits(in []SubtaskEdit) []reconcile.Edit[SubtaskEdit] {
	out := make([]reconcile.Edit[SubtaskEdit], 0, len(in))
	for _, s := range in {
		out = append(out, reconcile.Edit[SubtaskEdit]{
			Kind:   reconcile.Classify(s.ID, s.IsNew, s.MarkedForDeletion),
			ID:     s.ID,
			Fields: s,
		})
	}
	return out
}
