package kanban_api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/JulianKoehler/kanban-backend/internal/api/middlewares"
	"github.com/JulianKoehler/kanban-backend/internal/model/kanban_model"
	"github.com/JulianKoehler/kanban-backend/internal/reconcile"
	"github.com/JulianKoehler/kanban-backend/internal/validation"
	"github.com/gorilla/mux"
)

type SubtaskService interface {
	ToggleComplete(ctx context.Context, subtaskID, userID string) (*kanban_model.SubtaskResponse, error)
}

type SubtaskHandler struct {
	Service SubtaskService
	Auth    middlewares.TokenParser
}

func NewSubtaskHandler(s SubtaskService, a middlewares.TokenParser) *SubtaskHandler {
	return &SubtaskHandler{Service: s, Auth: a}
}

func (h *SubtaskHandler) SubtaskRoutes(r *mux.Router) {
	r.Handle("/subtasks/{subtaskID}",
		middlewares.AuthMiddleware(h.Auth, http.HandlerFunc(h.toggleComplete)),
	).Methods("PUT")
}

func (h *SubtaskHandler) toggleComplete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User authentication data missing", http.StatusInternalServerError)
		return
	}

	subtaskID := mux.Vars(r)["subtaskID"]
	if !validation.ValidUUID(subtaskID) {
		handleError(w, fmt.Errorf("%w: subtask reference %q", reconcile.ErrInvalidID, subtaskID))
		return
	}

	subtask, err := h.Service.ToggleComplete(r.Context(), subtaskID, userID)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subtask)
}
