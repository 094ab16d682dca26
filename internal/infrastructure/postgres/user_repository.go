package postgres

import (
	"context"

	"github.com/aros-club/aros-api/internal/domain/entity"
	"github.com/aros-club/aros-api/internal/domain/repository"
)

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id::text, name, email, password_hash, access_token, is_admin`

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, access_token, is_admin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id::text
	`, u.Name, u.Email, u.Password, u.AccessToken, u.IsAdmin)

	return mapError(row.Scan(&u.ID))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) GetByAccessToken(ctx context.Context, token string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE access_token = $1`, token)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	u := &entity.User{}
	row := r.db.QueryRow(ctx, query, arg)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.AccessToken, &u.IsAdmin); err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
