package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aros-club/aros-api/internal/domain/entity"
	"github.com/aros-club/aros-api/internal/domain/repository"
)

type NewsRepository struct {
	db DB
}

func NewNewsRepository(db DB) *NewsRepository {
	return &NewsRepository{db: db}
}

const newsColumns = `id::text, title, short_synopsis, synopsis, created_at, image_url, image_id`

// Create inserts n. A zero CreatedAt is filled in by the database.
func (r *NewsRepository) Create(ctx context.Context, n *entity.News) error {
	var createdAt *time.Time
	if !n.CreatedAt.IsZero() {
		createdAt = &n.CreatedAt
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO news (title, short_synopsis, synopsis, created_at, image_url, image_id)
		VALUES ($1, $2, $3, COALESCE($4, now()), $5, $6)
		RETURNING id::text, created_at
	`, n.Title, n.ShortSynopsis, n.Synopsis, createdAt, n.ImageURL, n.ImageID)

	return mapError(row.Scan(&n.ID, &n.CreatedAt))
}

func (r *NewsRepository) List(ctx context.Context, limit int) ([]entity.News, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+newsColumns+`
		FROM news
		ORDER BY created_at DESC, id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]entity.News, 0, limit)
	for rows.Next() {
		var n entity.News
		if err := rows.Scan(&n.ID, &n.Title, &n.ShortSynopsis, &n.Synopsis, &n.CreatedAt, &n.ImageURL, &n.ImageID); err != nil {
			return nil, mapError(err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *NewsRepository) GetByID(ctx context.Context, id string) (*entity.News, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	n := &entity.News{}
	row := r.db.QueryRow(ctx, `SELECT `+newsColumns+` FROM news WHERE id = $1`, id)
	if err := row.Scan(&n.ID, &n.Title, &n.ShortSynopsis, &n.Synopsis, &n.CreatedAt, &n.ImageURL, &n.ImageID); err != nil {
		return nil, mapError(err)
	}
	return n, nil
}

var _ repository.NewsRepository = (*NewsRepository)(nil)
