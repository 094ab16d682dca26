package repository

import (
	"context"
	"errors"

	"github.com/aros-club/aros-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no record matches the lookup key.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate key")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// Create persists u and fills in u.ID. Duplicate email or access token
	// yields ErrDuplicate and nothing is stored.
	Create(ctx context.Context, u *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByAccessToken(ctx context.Context, token string) (*entity.User, error)
}
