package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/aros-club/aros-api/internal/domain/entity"
	"github.com/aros-club/aros-api/pkg/helpers"
)

const keyNewsListGen = "news:list:gen"

func keyNewsList(gen int64, limit int) string { return fmt.Sprintf("news:list:%d:%d", gen, limit) }
func keyNewsItem(id string) string             { return "news:item:" + id }

// NewsCache is a read-through cache for news reads. Redis failures are logged
// and reported as misses so the store stays the source of truth.
type NewsCache struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *logrus.Logger
}

func NewNewsCache(rdb redis.Cmdable, ttl time.Duration, logger *logrus.Logger) *NewsCache {
	return &NewsCache{rdb: rdb, ttl: ttl, logger: logger}
}

// ListGeneration returns the current listing generation. A missing counter
// is generation 0; false means redis could not be read.
func (c *NewsCache) ListGeneration(ctx context.Context) (int64, bool) {
	gen, err := c.rdb.Get(ctx, keyNewsListGen).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		c.warn(err, keyNewsListGen, "news cache read failed")
		return 0, false
	}
	return gen, true
}

func (c *NewsCache) GetList(ctx context.Context, gen int64, limit int) ([]entity.News, bool) {
	key := keyNewsList(gen, limit)
	var out []entity.News
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, key, &out)
	if err != nil {
		c.warn(err, key, "news cache read failed")
		return nil, false
	}
	return out, ok
}

func (c *NewsCache) SetList(ctx context.Context, gen int64, limit int, items []entity.News) {
	key := keyNewsList(gen, limit)
	if err := helpers.RedisSetJSON(ctx, c.rdb, key, items, c.ttl); err != nil {
		c.warn(err, key, "news cache write failed")
	}
}

func (c *NewsCache) GetItem(ctx context.Context, id string) (*entity.News, bool) {
	var n entity.News
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, keyNewsItem(id), &n)
	if err != nil {
		c.warn(err, keyNewsItem(id), "news cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return &n, true
}

func (c *NewsCache) SetItem(ctx context.Context, n *entity.News) {
	if err := helpers.RedisSetJSON(ctx, c.rdb, keyNewsItem(n.ID), n, c.ttl); err != nil {
		c.warn(err, keyNewsItem(n.ID), "news cache write failed")
	}
}

// InvalidateList advances the listing generation. Listings stored under an
// older generation are never read again and expire with their TTL.
func (c *NewsCache) InvalidateList(ctx context.Context) {
	if err := c.rdb.Incr(ctx, keyNewsListGen).Err(); err != nil {
		c.warn(err, keyNewsListGen, "news cache invalidation failed")
	}
}

func (c *NewsCache) warn(err error, key, msg string) {
	if c.logger != nil {
		c.logger.WithError(err).WithField("key", key).Warn(msg)
	}
}
