package repository

import (
	"context"

	"github.com/google/uuid"
)

// Store is the user persistence surface the auth service depends on.
type Store interface {
	CreateUser(ctx context.Context, params CreateUserParams) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	ListByRole(ctx context.Context, role string) ([]User, error)
	SetOnline(ctx context.Context, id uuid.UUID, online bool) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}
