package auth_api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JulianKoehler/kanban-backend/internal/model/auth_model"
	"github.com/JulianKoehler/kanban-backend/internal/repository/auth_repository"
	"github.com/JulianKoehler/kanban-backend/internal/services/auth_services"
	"github.com/JulianKoehler/kanban-backend/internal/services/mail_services"
	"github.com/gorilla/mux"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, auth_model.UserInfoReturn, error)
	RequestPasswordReset(ctx context.Context, email string) error
	SetNewPassword(ctx context.Context, resetToken, password string) (string, auth_model.UserInfoReturn, error)
}

type AuthHandler struct {
	Service AuthService
}

func NewAuthHandler(s AuthService) *AuthHandler {
	return &AuthHandler{Service: s}
}

func (h *AuthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/login", h.login).Methods("POST")
	r.HandleFunc("/logout", h.logout).Methods("POST")
	r.HandleFunc("/password/request-reset", h.requestPasswordReset).Methods("POST")
	r.HandleFunc("/password/new", h.newPassword).Methods("POST")
}

// SetSessionCookie writes the HTTP-only session cookie. The value keeps
// the "Bearer " scheme prefix the frontend expects.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "Bearer " + token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// login consumes OAuth2-style form credentials: username carries the
// email address.
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	email := r.PostFormValue("username")
	password := r.PostFormValue("password")

	token, user, err := h.Service.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, auth_repository.ErrUserNotFound) {
			writeDetail(w, http.StatusNotFound, "Incorrect e-mail")
			return
		}
		if errors.Is(err, auth_services.ErrWrongPassword) {
			writeDetail(w, http.StatusUnauthorized, "Wrong password")
			return
		}
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	SetSessionCookie(w, token)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Logout successful"})
}

func (h *AuthHandler) requestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := h.Service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		if errors.Is(err, auth_repository.ErrUserNotFound) {
			writeDetail(w, http.StatusNotFound, "No user with email "+req.Email+" found")
			return
		}
		if errors.Is(err, mail_services.ErrSendFailed) {
			writeDetail(w, http.StatusServiceUnavailable, "Could not send email. Please try again later.")
			return
		}
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *AuthHandler) newPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccessToken string `json:"access_token"`
		Password    string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	token, _, err := h.Service.SetNewPassword(r.Context(), req.AccessToken, req.Password)
	if err != nil {
		if errors.Is(err, auth_services.ErrInvalidToken) {
			writeDetail(w, http.StatusUnauthorized, "Could not validate token")
			return
		}
		if errors.Is(err, auth_repository.ErrUserNotFound) {
			writeDetail(w, http.StatusNotFound, "User not found")
			return
		}
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	SetSessionCookie(w, token)
	w.WriteHeader(http.StatusCreated)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
