package kanban_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JulianKoehler/kanban-backend/internal/reconcile"
	"github.com/JulianKoehler/kanban-backend/internal/repository/kanban_repository"
)

func TestHandleErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"board not found", kanban_repository.ErrBoardNotFound, http.StatusNotFound},
		{"stage not found", kanban_repository.ErrStageNotFound, http.StatusNotFound},
		{"task not found", kanban_repository.ErrTaskNotFound, http.StatusNotFound},
		{"subtask not found", kanban_repository.ErrSubtaskNotFound, http.StatusNotFound},
		{"user not found", kanban_repository.ErrUserNotFound, http.StatusNotFound},
		{"access denied", kanban_repository.ErrBoardAccessDenied, http.StatusForbidden},
		{"not owner", kanban_repository.ErrNotBoardOwner, http.StatusForbidden},
		{"invalid id", fmt.Errorf("%w: %q", reconcile.ErrInvalidID, "nope"), http.StatusUnprocessableEntity},
		{"wrapped sentinel", fmt.Errorf("loading: %w", kanban_repository.ErrBoardNotFound), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleError(rec, tc.err)

			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}

			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("invalid error body: %v", err)
			}
			if _, ok := body["detail"]; !ok {
				t.Fatalf("expected a detail key, got %v", body)
			}
		})
	}
}

func TestHandleErrorMalformedJSON(t *testing.T) {
	var payload struct{}
	err := json.NewDecoder(strings.NewReader("{not json")).Decode(&payload)
	if err == nil {
		t.Fatal("expected a decode error")
	}

	rec := httptest.NewRecorder()
	handleError(rec, err)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed payload, got %d", rec.Code)
	}
}
