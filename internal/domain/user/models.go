package user

import (
	"context"
	"errors"
	"time"
)

// Roles, weakest first. Each endpoint declares the minimum role it needs.
const (
	RoleViewer  = "viewer"
	RoleFinance = "finance"
	RoleAdmin   = "admin"
)

var ErrNotFound = errors.New("user not found")

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
	Role         string
}

type Repository interface {
	Create(ctx context.Context, params CreateUserParams) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
