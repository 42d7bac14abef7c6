package auth_services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/JulianKoehler/kanban-backend/internal/model/auth_model"
	"github.com/JulianKoehler/kanban-backend/internal/repository/auth_repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrWrongPassword = errors.New("wrong password")
	ErrInvalidToken  = errors.New("could not validate token")
)

// Password-reset links die quickly regardless of the session TTL.
const resetTokenExpiry = 5 * time.Minute

// Mailer delivers the password-reset mail. Satisfied by
// mail_services.MailService.
type Mailer interface {
	SendPasswordReset(recipient, resetLink string) error
}

type AuthService struct {
	Users *auth_repository.UserRepo
	Mail  Mailer

	secretKey  []byte
	sessionTTL time.Duration
	baseURL    string
}

func NewAuthService(users *auth_repository.UserRepo, mail Mailer, secretKey string, sessionTTLMinutes int, baseURL string) *AuthService {
	return &AuthService{
		Users:      users,
		Mail:       mail,
		secretKey:  []byte(secretKey),
		sessionTTL: time.Duration(sessionTTLMinutes) * time.Minute,
		baseURL:    baseURL,
	}
}

// ─── Credential utilities ──────────────────────────────────────

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.New("failed to hash password")
	}
	return string(hash), nil
}

func VerifyPassword(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// ─── Tokens ────────────────────────────────────────────────────

// CreateSessionToken signs a session token with the configured TTL.
func (s *AuthService) CreateSessionToken(userID string) (string, error) {
	return s.createToken(userID, s.sessionTTL)
}

func (s *AuthService) createToken(userID string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		log.Printf("ERROR: signing token: %v", err)
		return "", err
	}
	return token, nil
}

// ParseAccessToken verifies signature and expiry and extracts the
// user id.
func (s *AuthService) ParseAccessToken(tokenStr string) (string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}

// ─── Login ─────────────────────────────────────────────────────

func (s *AuthService) Login(ctx context.Context, email, password string) (string, auth_model.UserInfoReturn, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return "", auth_model.UserInfoReturn{}, err
	}

	if !VerifyPassword(password, u.Password) {
		return "", auth_model.UserInfoReturn{}, ErrWrongPassword
	}

	token, err := s.CreateSessionToken(u.ID)
	if err != nil {
		return "", auth_model.UserInfoReturn{}, err
	}
	return token, u.InfoReturn(), nil
}

// ─── Password reset ────────────────────────────────────────────

// RequestPasswordReset mails a short-lived reset link. The send happens
// outside any transaction; a failure surfaces as a service error and
// rolls nothing back because nothing was written.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	resetToken, err := s.createToken(u.ID, resetTokenExpiry)
	if err != nil {
		return err
	}

	// The query param name is part of the frontend contract.
	resetLink := fmt.Sprintf("%s/new-password?token=%s", s.baseURL, resetToken)

	return s.Mail.SendPasswordReset(email, resetLink)
}

// SetNewPassword validates the reset token, stores the new hash and
// hands back a fresh session token so the client is logged in right
// away.
func (s *AuthService) SetNewPassword(ctx context.Context, resetToken, password string) (string, auth_model.UserInfoReturn, error) {
	userID, err := s.ParseAccessToken(resetToken)
	if err != nil {
		return "", auth_model.UserInfoReturn{}, err
	}

	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return "", auth_model.UserInfoReturn{}, err
	}

	newHash, err := HashPassword(password)
	if err != nil {
		return "", auth_model.UserInfoReturn{}, err
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, newHash); err != nil {
		return "", auth_model.UserInfoReturn{}, err
	}

	token, err := s.CreateSessionToken(u.ID)
	if err != nil {
		return "", auth_model.UserInfoReturn{}, err
	}
	return token, u.InfoReturn(), nil
}
