package auth_model

import (
	"database/sql"
	"time"
)

type User struct {
	ID              string         `db:"id" json:"id"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	FirstName       string         `db:"first_name" json:"first_name"`
	LastName        sql.NullString `db:"last_name" json:"-"`
	Email           string         `db:"email" json:"email"`
	IsEmailVerified bool           `db:"is_email_verified" json:"is_email_verified"`
	Password        string         `db:"password" json:"-"`
}

// UserReturn is the public projection used in search results and lookups.
type UserReturn struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     string  `json:"email"`
}

// UserInfoReturn additionally exposes account metadata. It is the shape
// embedded in board and task responses.
type UserInfoReturn struct {
	ID              string    `json:"id"`
	FirstName       string    `json:"first_name"`
	LastName        *string   `json:"last_name"`
	Email           string    `json:"email"`
	CreatedAt       time.Time `json:"created_at"`
	IsEmailVerified bool      `json:"is_email_verified"`
}

func (u *User) Return() UserReturn {
	return UserReturn{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  lastName(u.LastName),
		Email:     u.Email,
	}
}

func (u *User) InfoReturn() UserInfoReturn {
	return UserInfoReturn{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        lastName(u.LastName),
		Email:           u.Email,
		CreatedAt:       u.CreatedAt,
		IsEmailVerified: u.IsEmailVerified,
	}
}

func lastName(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}
