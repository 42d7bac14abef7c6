package kanban_api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/JulianKoehler/kanban-backend/internal/api/middlewares"
	"github.com/JulianKoehler/kanban-backend/internal/model/kanban_model"
	"github.com/JulianKoehler/kanban-backend/internal/reconcile"
	"github.com/JulianKoehler/kanban-backend/internal/validation"
	"github.com/gorilla/mux"
)

type TaskService interface {
	CreateTask(ctx context.Context, userID string, data kanban_model.TaskCreate, subtasks []reconcile.Edit[kanban_model.SubtaskEdit]) (*kanban_model.TaskResponse, error)
	UpdateTask(ctx context.Context, taskID, userID string, data kanban_model.TaskUpdate, subtasks []reconcile.Edit[kanban_model.SubtaskEdit]) (*kanban_model.TaskResponse, error)
	MoveTask(ctx context.Context, taskID, newStageID, userID string) (*kanban_model.TaskResponse, error)
	AssignUser(ctx context.Context, taskID, assigneeID, userID string) (*kanban_model.TaskResponse, error)
	DeleteTask(ctx context.Context, taskID, userID string) (*kanban_model.TaskDeleteResponse, error)
}

type TaskHandler struct {
	Service TaskService
	Auth    middlewares.TokenParser
}

func NewTaskHandler(s TaskService, a middlewares.TokenParser) *TaskHandler {
	return &TaskHandler{Service: s, Auth: a}
}

func (h *TaskHandler) TaskRoutes(r *mux.Router) {
	r.Handle("/tasks",
		middlewares.AuthMiddleware(h.Auth, http.HandlerFunc(h.createTask)),
	).Methods("POST")
	r.Handle("/tasks/{taskID}",
		middlewares.AuthMiddleware(h.Auth, http.HandlerFunc(h.updateTask)),
	).Methods("PUT")
	r.Handle("/tasks/{taskID}",
		middlewares.AuthMiddleware(h.Auth, http.HandlerFunc(h.deleteTask)),
	).Methods("DELETE")
	r.Handle("/tasks/stage/{taskID}",
		middlewares.AuthMiddleware(h.Auth, http.HandlerFunc(h.moveTask)),
	).Methods("PATCH")
	r.Handle("/tasks/assignment/{taskID}",
		middlewares.AuthMiddleware(h.Auth, http.HandlerFunc(h.assignUser)),
	).Methods("PATCH")
}

func (h *TaskHandler) createTask(w http.ResponseWriter, r *http.Request) {
	var req kanban_model.TaskCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, err)
		return
	}
	defer r.Body.Close()

	userID, ok := middlewares.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User authentication data missing", http.StatusInternalServerError)
		return
	}

	task, err := h.Service.CreateTask(r.Context(), userID, req, kanban_model.SubtaskEdits(req.Subtasks))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) updateTask(w http.ResponseWriter, r *http.Request) {
	var req kanban_model.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, err)
		return
	}
	defer r.Body.Close()

	taskID, userID, err := taskScope(r)
	if err != nil {
		handleError(w, err)
		return
	}

	task, err := h.Service.UpdateTask(r.Context(), taskID, userID, req, kanban_model.SubtaskEdits(req.Subtasks))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) moveTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewStageID string `json:"new_stage_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, err)
		return
	}
	defer r.Body.Close()

	taskID, userID, err := taskScope(r)
	if err != nil {
		handleError(w, err)
		return
	}
	if !validation.ValidUUID(req.NewStageID) {
		handleError(w, fmt.Errorf("%w: stage reference %q", reconcile.ErrInvalidID, req.NewStageID))
		return
	}

	task, err := h.Service.MoveTask(r.Context(), taskID, req.NewStageID, userID)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) assignUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AssignedUserID string `json:"assigned_user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, err)
		return
	}
	defer r.Body.Close()

	taskID, userID, err := taskScope(r)
	if err != nil {
		handleError(w, err)
		return
	}
	if !validation.ValidUUID(req.AssignedUserID) {
		handleError(w, fmt.Errorf("%w: user reference %q", reconcile.ErrInvalidID, req.AssignedUserID))
		return
	}

	task, err := h.Service.AssignUser(r.Context(), taskID, req.AssignedUserID, userID)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) deleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, userID, err := taskScope(r)
	if err != nil {
		handleError(w, err)
		return
	}

	resp, err := h.Service.DeleteTask(r.Context(), taskID, userID)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func taskScope(r *http.Request) (taskID, userID string, err error) {
	userID, ok := middlewares.GetUserIDFromContext(r.Context())
	if !ok {
		return "", "", fmt.Errorf("user authentication data missing")
	}

	taskID = mux.Vars(r)["taskID"]
	if !validation.ValidUUID(taskID) {
		return "", "", fmt.Errorf("%w: task reference %q", reconcile.ErrInvalidID, taskID)
	}
	return taskID, userID, nil
}
