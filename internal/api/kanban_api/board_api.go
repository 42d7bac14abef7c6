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

type BoardService interface {
	GetUserBoards(ctx context.Context, userID string) (*kanban_model.BoardListReturn, error)
	GetBoardData(ctx context.Context, boardID, userID string) (*kanban_model.BoardDataReturn, error)
	CreateBoard(ctx context.Context, title, ownerID string, stages []reconcile.Edit[kanban_model.StageEdit], contributors []kanban_model.ContributorEdit) (*kanban_model.BoardCreateResponse, error)
	UpdateBoard(ctx context.Context, boardID, userID, title, ownerID string, stages []reconcile.Edit[kanban_model.StageEdit], contributors []kanban_model.ContributorEdit) (*kanban_model.BoardDataReturn, error)
	ChangeOwner(ctx context.Context, boardID, newOwnerID, userID string) (*kanban_model.BoardDataReturn, error)
	DeleteBoard(ctx context.Context, boardID, userID string) error
}

type BoardHandler struct {
	Service BoardService
	Auth    middlewares.TokenParser
}

func NewBoardHandler(s BoardService, a middlewares.TokenParser) *BoardHandler {
	return &BoardHandler{Service: s, Auth: a}
}

func (h *BoardHandler) BoardRoutes(r *mux.Router) {
	r.Handle("/boards",
		middlewares.AuthMiddleware(h.Auth, http.HandlerFunc(h.getUserBoards)),
	).Methods("GET")
	r.Handle("/boards",
		middlewares.AuthMiddleware(h.Auth, http.HandlerFunc(h.createBoard)),
	).Methods("POST")
	r.Handle("/boards/{boardID}",
		middlewares.AuthMiddleware(h.Auth, http.HandlerFunc(h.getBoardData)),
	).Methods("GET")
	r.Handle("/boards/{boardID}",
		middlewares.AuthMiddleware(h.Auth, http.HandlerFunc(h.updateBoard)),
	).Methods("PUT")
	r.Handle("/boards/{boardID}",
		middlewares.AuthMiddleware(h.Auth, http.HandlerFunc(h.deleteBoard)),
	).Methods("DELETE")
	r.Handle("/boards/{boardID}/owner/{ownerID}",
		middlewares.AuthMiddleware(h.Auth, http.HandlerFunc(h.changeOwner)),
	).Methods("PATCH")
}

func (h *BoardHandler) getUserBoards(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User authentication data missing", http.StatusInternalServerError)
		return
	}

	boards, err := h.Service.GetUserBoards(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

func (h *BoardHandler) getBoardData(w http.ResponseWriter, r *http.Request) {
	boardID, userID, err := boardScope(r)
	if err != nil {
		handleError(w, err)
		return
	}

	board, err := h.Service.GetBoardData(r.Context(), boardID, userID)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *BoardHandler) createBoard(w http.ResponseWriter, r *http.Request) {
	var req kanban_model.BoardCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, err)
		return
	}
	defer r.Body.Close()

	if _, ok := middlewares.GetUserIDFromContext(r.Context()); !ok {
		http.Error(w, "User authentication data missing", http.StatusInternalServerError)
		return
	}
	if !validation.ValidUUID(req.OwnerID) {
		handleError(w, fmt.Errorf("%w: owner reference %q", reconcile.ErrInvalidID, req.OwnerID))
		return
	}

	board, err := h.Service.CreateBoard(r.Context(), req.Title, req.OwnerID, kanban_model.StageEdits(req.Stages), req.Contributors)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, board)
}

func (h *BoardHandler) updateBoard(w http.ResponseWriter, r *http.Request) {
	var req kanban_model.BoardUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, err)
		return
	}
	defer r.Body.Close()

	boardID, userID, err := boardScope(r)
	if err != nil {
		handleError(w, err)
		return
	}
	if !validation.ValidUUID(req.OwnerID) {
		handleError(w, fmt.Errorf("%w: owner reference %q", reconcile.ErrInvalidID, req.OwnerID))
		return
	}

	board, err := h.Service.UpdateBoard(r.Context(), boardID, userID, req.Title, req.OwnerID, kanban_model.StageEdits(req.Stages), req.Contributors)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *BoardHandler) changeOwner(w http.ResponseWriter, r *http.Request) {
	boardID, userID, err := boardScope(r)
	if err != nil {
		handleError(w, err)
		return
	}

	newOwnerID := mux.Vars(r)["ownerID"]
	if !validation.ValidUUID(newOwnerID) {
		handleError(w, fmt.Errorf("%w: owner reference %q", reconcile.ErrInvalidID, newOwnerID))
		return
	}

	board, err := h.Service.ChangeOwner(r.Context(), boardID, newOwnerID, userID)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *BoardHandler) deleteBoard(w http.ResponseWriter, r *http.Request) {
	boardID, userID, err := boardScope(r)
	if err != nil {
		handleError(w, err)
		return
	}

	if err := h.Service.DeleteBoard(r.Context(), boardID, userID); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// boardScope pulls the authenticated user and the board path parameter
// out of the request, rejecting malformed board ids before any
// service call.
func boardScope(r *http.Request) (boardID, userID string, err error) {
	userID, ok := middlewares.GetUserIDFromContext(r.Context())
	if !ok {
		return "", "", fmt.Errorf("user authentication data missing")
	}

	boardID = mux.Vars(r)["boardID"]
	if !validation.ValidUUID(boardID) {
		return "", "", fmt.Errorf("%w: board reference %q", reconcile.ErrInvalidID, boardID)
	}
	return boardID, userID, nil
}
