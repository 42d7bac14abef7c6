package kanban_api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/JulianKoehler/kanban-backend/internal/api/middlewares"
	"github.com/JulianKoehler/kanban-backend/internal/model/kanban_model"
	"github.com/gorilla/mux"
)

type StageService interface {
	CreateStage(ctx context.Context, userID string, data kanban_model.StageCreate) (*kanban_model.StageResponse, error)
}

type StageHandler struct {
	Service StageService
	Auth    middlewares.TokenParser
}

func NewStageHandler(s StageService, a middlewares.TokenParser) *StageHandler {
	return &StageHandler{Service: s, Auth: a}
}

func (h *StageHandler) StageRoutes(r *mux.Router) {
	r.Handle("/stages",
		middlewares.AuthMiddleware(h.Auth, http.HandlerFunc(h.createStage)),
	).Methods("POST")
}

func (h *StageHandler) createStage(w http.ResponseWriter, r *http.Request) {
	var req kanban_model.StageCreate
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

	stage, err := h.Service.CreateStage(r.Context(), userID, req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, stage)
}
