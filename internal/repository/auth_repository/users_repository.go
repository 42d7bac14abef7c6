package auth_repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/JulianKoehler/kanban-backend/internal/model/auth_model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already in use")
	ErrOwnsBoards   = errors.New("delete all of your boards before you delete your account")
)

type UserRepo struct {
	DB *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{DB: db}
}

func (r *UserRepo) Create(ctx context.Context, u *auth_model.User) error {
	u.ID = uuid.New().String()
	q := `INSERT INTO users (id, first_name, last_name, email, password)
          VALUES ($1, $2, $3, $4, $5)
          RETURNING created_at, is_email_verified`
	err := r.DB.QueryRowContext(ctx, q, u.ID, u.FirstName, u.LastName, u.Email, u.Password).
		Scan(&u.CreatedAt, &u.IsEmailVerified)
	if err != nil {
		// Known limitation: the driver reports constraint violations
		// only through the error text, so this classifies by message.
		if strings.Contains(strings.ToLower(err.Error()), "unique constraint") {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*auth_model.User, error) {
	var u auth_model.User
	err := r.DB.GetContext(ctx, &u, `SELECT * FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth_model.User, error) {
	var u auth_model.User
	err := r.DB.GetContext(ctx, &u, `SELECT * FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user by email: %w", err)
	}
	return &u, nil
}

// Search matches users whose first or last name starts with the query
// or whose email equals it, excluding the caller.
func (r *UserRepo) Search(ctx context.Context, selfID, query string) ([]auth_model.User, error) {
	users := []auth_model.User{}
	q := `SELECT * FROM users
          WHERE id != $1 AND (
              lower(first_name) LIKE $2 || '%'
              OR lower(last_name) LIKE $2 || '%'
              OR lower(email) = $2
          )`
	err := r.DB.SelectContext(ctx, &users, q, selfID, strings.ToLower(query))
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, userID, newHash string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET password = $1 WHERE id = $2`, newHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// Delete removes the account. Board ownership blocks deletion; the
// membership rows go with the user via the schema cascade.
func (r *UserRepo) Delete(ctx context.Context, userID string) error {
	var ownsBoards bool
	err := r.DB.GetContext(ctx, &ownsBoards, `SELECT EXISTS(SELECT 1 FROM boards WHERE owner_id = $1)`, userID)
	if err != nil {
		return fmt.Errorf("failed to check board ownership: %w", err)
	}
	if ownsBoards {
		return ErrOwnsBoards
	}

	result, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrUserNotFound
	}
	return nil
}
