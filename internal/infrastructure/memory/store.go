// Package memory holds mutex-guarded repositories for local development and
// tests. Uniqueness rules match the postgres schema.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/aros-club/aros-api/internal/domain/entity"
	"github.com/aros-club/aros-api/internal/domain/repository"
)

type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]entity.User
	byEmail map[string]string
	byToken map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]entity.User),
		byEmail: make(map[string]string),
		byToken: make(map[string]string),
	}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	if utf8.RuneCountInString(u.Name) < 3 {
		return fmt.Errorf("name %q violates minimum length", u.Name)
	}
	if u.AccessToken == "" {
		return fmt.Errorf("access token is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return fmt.Errorf("%w: users_email_key", repository.ErrDuplicate)
	}
	if _, ok := r.byToken[u.AccessToken]; ok {
		return fmt.Errorf("%w: users_access_token_key", repository.ErrDuplicate)
	}
	u.ID = uuid.NewString()
	r.byID[u.ID] = *u
	r.byEmail[u.Email] = u.ID
	r.byToken[u.AccessToken] = u.ID
	return nil
}

func (r *UserRepository) get(id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.get(id)
}

func (r *UserRepository) GetByAccessToken(_ context.Context, token string) (*entity.User, error) {
	r.mu.RLock()
	id, ok := r.byToken[token]
	r.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.get(id)
}

// Count returns the number of stored users.
func (r *UserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

type NewsRepository struct {
	mu    sync.RWMutex
	items map[string]entity.News
	now   func() time.Time
}

func NewNewsRepository() *NewsRepository {
	return &NewsRepository{items: make(map[string]entity.News), now: time.Now}
}

func (r *NewsRepository) Create(_ context.Context, n *entity.News) error {
	for field, v := range map[string]string{"title": n.Title, "shortSynopsis": n.ShortSynopsis, "synopsis": n.Synopsis} {
		if utf8.RuneCountInString(v) < 3 {
			return fmt.Errorf("%s violates minimum length", field)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = uuid.NewString()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = r.now().UTC()
	}
	r.items[n.ID] = *n
	return nil
}

func (r *NewsRepository) List(_ context.Context, limit int) ([]entity.News, error) {
	r.mu.RLock()
	out := make([]entity.News, 0, len(r.items))
	for _, n := range r.items {
		out = append(out, n)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *NewsRepository) GetByID(_ context.Context, id string) (*entity.News, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &n, nil
}

var (
	_ repository.UserRepository = (*UserRepository)(nil)
	_ repository.NewsRepository = (*NewsRepository)(nil)
)
