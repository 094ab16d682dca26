package repository

import (
	"context"

	"github.com/aros-club/aros-api/internal/domain/entity"
)

// NewsRepository persists news documents.
type NewsRepository interface {
	Create(ctx context.Context, n *entity.News) error
	// List returns at most limit items ordered by CreatedAt, newest first.
	List(ctx context.Context, limit int) ([]entity.News, error)
	GetByID(ctx context.Context, id string) (*entity.News, error)
}
