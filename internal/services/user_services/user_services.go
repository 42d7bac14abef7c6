package user_services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/JulianKoehler/kanban-backend/internal/model/auth_model"
	"github.com/JulianKoehler/kanban-backend/internal/repository/auth_repository"
	"github.com/JulianKoehler/kanban-backend/internal/repository/kanban_repository"
	"github.com/JulianKoehler/kanban-backend/internal/services/auth_services"
	"github.com/JulianKoehler/kanban-backend/internal/validation"
)

type UserService struct {
	Users  *auth_repository.UserRepo
	Boards *kanban_repository.BoardRepo
}

func NewUserService(users *auth_repository.UserRepo, boards *kanban_repository.BoardRepo) *UserService {
	return &UserService{Users: users, Boards: boards}
}

// Create registers an account. The display name is a single first name
// with an optional single last name; it is split before storage.
func (s *UserService) Create(ctx context.Context, userName, email, password string) (auth_model.UserReturn, error) {
	firstName, lastName, err := SplitUserName(userName)
	if err != nil {
		return auth_model.UserReturn{}, err
	}

	hash, err := auth_services.HashPassword(password)
	if err != nil {
		return auth_model.UserReturn{}, err
	}

	u := &auth_model.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  hash,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return auth_model.UserReturn{}, err
	}
	return u.Return(), nil
}

func (s *UserService) GetInfo(ctx context.Context, userID string) (auth_model.UserInfoReturn, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return auth_model.UserInfoReturn{}, err
	}
	return u.InfoReturn(), nil
}

func (s *UserService) Get(ctx context.Context, userID string) (auth_model.UserReturn, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return auth_model.UserReturn{}, err
	}
	return u.Return(), nil
}

func (s *UserService) Search(ctx context.Context, selfID, query string) ([]auth_model.UserReturn, error) {
	users, err := s.Users.Search(ctx, selfID, query)
	if err != nil {
		return nil, err
	}
	results := []auth_model.UserReturn{}
	for i := range users {
		results = append(results, users[i].Return())
	}
	return results, nil
}

func (s *UserService) LeaveBoard(ctx context.Context, boardID, userID string) error {
	return s.Boards.LeaveBoard(ctx, boardID, userID)
}

func (s *UserService) Delete(ctx context.Context, userID string) error {
	return s.Users.Delete(ctx, userID)
}

// SplitUserName validates and splits "First Last" (last name optional).
func SplitUserName(userName string) (string, sql.NullString, error) {
	if err := validation.ValidateUsername(userName); err != nil {
		return "", sql.NullString{}, err
	}

	parts := strings.Split(userName, " ")
	firstName := parts[0]
	lastName := sql.NullString{}
	if len(parts) > 1 {
		lastName = sql.NullString{String: parts[1], Valid: true}
	}
	return firstName, lastName, nil
}
