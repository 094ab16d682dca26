package application

import (
	"context"
	"errors"
	"io"

	"github.com/aros-club/aros-api/internal/domain/entity"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrNewsNotFound       = errors.New("news not found")
	ErrInvalidImage       = errors.New("invalid image")
	ErrInvalidCreatedAt   = errors.New("invalid createdAt")
	ErrUploadUnavailable  = errors.New("image upload not configured")
)

// ImageUploader stores an image and returns where it can be fetched from.
type ImageUploader interface {
	Upload(ctx context.Context, r io.Reader) (entity.Image, error)
	Delete(ctx context.Context, id string) error
}

// NewsCache is an optional read cache in front of the news store. Listings
// are filed under a generation that InvalidateList advances; ListGeneration
// reports false when the cache cannot be used.
type NewsCache interface {
	ListGeneration(ctx context.Context) (int64, bool)
	GetList(ctx context.Context, gen int64, limit int) ([]entity.News, bool)
	SetList(ctx context.Context, gen int64, limit int, items []entity.News)
	GetItem(ctx context.Context, id string) (*entity.News, bool)
	SetItem(ctx context.Context, n *entity.News)
	InvalidateList(ctx context.Context)
}

// NewsIndex is an optional full-text index over news.
type NewsIndex interface {
	Index(ctx context.Context, n *entity.News) error
	Search(ctx context.Context, q string, size int) ([]entity.News, error)
}

// EmailPublisher queues email jobs for the email worker.
type EmailPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}
