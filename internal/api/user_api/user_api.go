package user_api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/JulianKoehler/kanban-backend/internal/api/auth_api"
	"github.com/JulianKoehler/kanban-backend/internal/api/middlewares"
	"github.com/JulianKoehler/kanban-backend/internal/model/auth_model"
	"github.com/JulianKoehler/kanban-backend/internal/reconcile"
	"github.com/JulianKoehler/kanban-backend/internal/repository/auth_repository"
	"github.com/JulianKoehler/kanban-backend/internal/repository/kanban_repository"
	"github.com/JulianKoehler/kanban-backend/internal/validation"
	"github.com/gorilla/mux"
)

type UserService interface {
	Create(ctx context.Context, userName, email, password string) (auth_model.UserReturn, error)
	Get(ctx context.Context, userID string) (auth_model.UserReturn, error)
	GetInfo(ctx context.Context, userID string) (auth_model.UserInfoReturn, error)
	Search(ctx context.Context, selfID, query string) ([]auth_model.UserReturn, error)
	LeaveBoard(ctx context.Context, boardID, userID string) error
	Delete(ctx context.Context, userID string) error
}

// TokenIssuer signs the session token set after registration.
type TokenIssuer interface {
	CreateSessionToken(userID string) (string, error)
}

type UserHandler struct {
	Service UserService
	Tokens  TokenIssuer
	Auth    middlewares.TokenParser
}

func NewUserHandler(s UserService, tokens TokenIssuer, auth middlewares.TokenParser) *UserHandler {
	return &UserHandler{Service: s, Tokens: tokens, Auth: auth}
}

func (h *UserHandler) UserRoutes(r *mux.Router) {
	r.Handle("/users/current",
		middlewares.AuthMiddleware(h.Auth, http.HandlerFunc(h.getCurrentUser)),
	).Methods("GET")
	r.Handle("/users",
		middlewares.AuthMiddleware(h.Auth, http.HandlerFunc(h.searchUsers)),
	).Methods("GET")
	r.HandleFunc("/users", h.createUser).Methods("POST")
	r.Handle("/users",
		middlewares.AuthMiddleware(h.Auth, http.HandlerFunc(h.leaveBoard)),
	).Methods("PUT")
	r.Handle("/users",
		middlewares.AuthMiddleware(h.Auth, http.HandlerFunc(h.deleteUser)),
	).Methods("DELETE")
	// Public lookup; registered last so /users/current wins.
	r.HandleFunc("/users/{userID}", h.getUser).Methods("GET")
}

func (h *UserHandler) getCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Please login", http.StatusUnauthorized)
		return
	}

	user, err := h.Service.GetInfo(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) searchUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Please login", http.StatusUnauthorized)
		return
	}

	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusOK, []auth_model.UserReturn{})
		return
	}
	if unescaped, err := url.QueryUnescape(q); err == nil {
		q = unescaped
	}

	users, err := h.Service.Search(r.Context(), userID, q)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]
	if !validation.ValidUUID(userID) {
		handleError(w, fmt.Errorf("%w: user reference %q", reconcile.ErrInvalidID, userID))
		return
	}

	user, err := h.Service.Get(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) createUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserName string `json:"user_name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	user, err := h.Service.Create(r.Context(), req.UserName, req.Email, req.Password)
	if err != nil {
		handleError(w, err)
		return
	}

	token, err := h.Tokens.CreateSessionToken(user.ID)
	if err != nil {
		handleError(w, err)
		return
	}
	auth_api.SetSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) leaveBoard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BoardID string `json:"board_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	userID, ok := middlewares.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Please login", http.StatusUnauthorized)
		return
	}
	if !validation.ValidUUID(req.BoardID) {
		handleError(w, fmt.Errorf("%w: board reference %q", reconcile.ErrInvalidID, req.BoardID))
		return
	}

	if err := h.Service.LeaveBoard(r.Context(), req.BoardID, userID); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Please login", http.StatusUnauthorized)
		return
	}

	if err := h.Service.Delete(r.Context(), userID); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleError covers the user-scoped error taxonomy: not-found,
// conflicts (duplicate email, owned boards), malformed input.
func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth_repository.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, auth_repository.ErrEmailTaken),
		errors.Is(err, auth_repository.ErrOwnsBoards):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, validation.ErrInvalidUsername),
		errors.Is(err, reconcile.ErrInvalidID):
		writeError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, kanban_repository.ErrBoardNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, kanban_repository.ErrBoardAccessDenied):
		writeError(w, http.StatusForbidden, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
