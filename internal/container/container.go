// Package container builds the process-wide infrastructure once at startup
// and hands it to the router explicitly.
package container

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/aros-club/aros-api/config"
	"github.com/aros-club/aros-api/internal/domain/repository"
	"github.com/aros-club/aros-api/internal/infrastructure/memory"
	pginfra "github.com/aros-club/aros-api/internal/infrastructure/postgres"
	"github.com/aros-club/aros-api/pkg/helpers"
)

// Container holds constructed components shared across modules. Optional
// clients stay nil when their service is not configured.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	PGPool    *pgxpool.Pool
	Redis     *redis.Client
	GCS       *storage.Client
	ES        *elasticsearch.Client
	RabbitPub *helpers.RabbitPublisher

	Users repository.UserRepository
	News  repository.NewsRepository
}

// New connects the store and every configured backing service. The store is
// mandatory; cache and email publishing degrade to disabled when unreachable.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	if err := c.openStore(ctx); err != nil {
		c.Close()
		return nil, err
	}

	if cfg.RedisAddr != "" {
		rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.WithError(err).WithField("addr", cfg.RedisAddr).Warn("redis unavailable, news cache disabled")
		} else {
			c.Redis = rdb
		}
	}

	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("init gcs client: %w", err)
		}
		c.GCS = gcs
	}

	es, err := helpers.NewESClient(helpers.ESOptions{
		Addrs:    cfg.ESAddrs(),
		Username: cfg.ElasticsearchUser,
		Password: cfg.ElasticsearchPass,
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init elasticsearch client: %w", err)
	}
	c.ES = es

	if cfg.MailSendEnabled && cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable, welcome emails disabled")
		} else {
			c.RabbitPub = pub
		}
	}

	logger.WithFields(logrus.Fields{
		"store":   cfg.StoreDriver,
		"cache":   c.Redis != nil,
		"images":  c.GCS != nil,
		"search":  c.ES != nil,
		"emails":  c.RabbitPub != nil,
		"pagecap": cfg.NewsPageSize,
	}).Info("container ready")
	return c, nil
}

func (c *Container) openStore(ctx context.Context) error {
	switch c.Config.StoreDriver {
	case "memory":
		c.Users = memory.NewUserRepository()
		c.News = memory.NewNewsRepository()
		return nil
	case "postgres":
		pool, err := pginfra.NewPool(ctx, c.Config.PostgresDSN(), c.Config.DBMaxConns, c.Config.DBMinConns, c.Config.DBMaxConnLife)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		c.PGPool = pool
		if err := pginfra.RunMigrations(c.Config.PostgresDSN(), c.Logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		c.Users = pginfra.NewUserRepository(pool)
		c.News = pginfra.NewNewsRepository(pool)
		return nil
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Config.StoreDriver)
	}
}

// Close releases every connection the container opened.
func (c *Container) Close() {
	c.RabbitPub.Close()
	if c.GCS != nil {
		_ = c.GCS.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.PGPool != nil {
		c.PGPool.Close()
	}
}
