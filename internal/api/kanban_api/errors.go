package kanban_api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JulianKoehler/kanban-backend/internal/reconcile"
	"github.com/JulianKoehler/kanban-backend/internal/repository/kanban_repository"
)

// handleError maps the error taxonomy onto status codes. The response
// body mirrors the {"detail": ...} shape the frontend already consumes.
func handleError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	case errors.Is(err, kanban_repository.ErrBoardNotFound),
		errors.Is(err, kanban_repository.ErrStageNotFound),
		errors.Is(err, kanban_repository.ErrTaskNotFound),
		errors.Is(err, kanban_repository.ErrSubtaskNotFound),
		errors.Is(err, kanban_repository.ErrUserNotFound):
		writeDetail(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, kanban_repository.ErrBoardAccessDenied),
		errors.Is(err, kanban_repository.ErrNotBoardOwner):
		writeDetail(w, http.StatusForbidden, err.Error())
		return
	case errors.Is(err, reconcile.ErrInvalidID):
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var synErr *json.SyntaxError
	if errors.As(err, &synErr) {
		writeDetail(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	writeDetail(w, http.StatusInternalServerError, err.Error())
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
