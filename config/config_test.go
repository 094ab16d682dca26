package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "postgres", cfg.StoreDriver)
	require.Equal(t, 18, cfg.NewsPageSize)
	require.Equal(t, 500, cfg.ImageMaxWidth)
	require.Equal(t, 500, cfg.ImageMaxHeight)
	require.True(t, cfg.SeedAdmin)
	require.Equal(t, "admin@admin.com", cfg.AdminEmail)
	require.Empty(t, cfg.CORSOrigins())
	require.Empty(t, cfg.ESAddrs())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("NEWS_PAGE_SIZE", "8")
	t.Setenv("NEWS_CACHE_TTL", "30s")
	t.Setenv("SEED_ADMIN", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg := Load()
	require.Equal(t, "9000", cfg.Port)
	require.Equal(t, "memory", cfg.StoreDriver)
	require.Equal(t, 8, cfg.NewsPageSize)
	require.Equal(t, 30*time.Second, cfg.NewsCacheTTL)
	require.False(t, cfg.SeedAdmin)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("NEWS_PAGE_SIZE", "-3")
	t.Setenv("SEED_ADMIN", "maybe")
	t.Setenv("DB_MAX_CONN_LIFETIME", "forever")

	cfg := Load()
	require.Equal(t, 18, cfg.NewsPageSize)
	require.True(t, cfg.SeedAdmin)
	require.Equal(t, time.Hour, cfg.DBMaxConnLife)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	require.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", cfg.PostgresDSN())

	cfg.DatabaseURL = "postgres://other"
	require.Equal(t, "postgres://other", cfg.PostgresDSN())
}
