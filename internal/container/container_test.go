package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aros-club/aros-api/config"
	"github.com/aros-club/aros-api/internal/infrastructure/memory"
	"github.com/aros-club/aros-api/pkg/helpers"
)

func TestNewMemoryStore(t *testing.T) {
	cfg := &config.Config{StoreDriver: "memory", NewsPageSize: 18}
	c, err := New(context.Background(), cfg, helpers.NewNopLogger())
	require.NoError(t, err)
	defer c.Close()

	require.IsType(t, &memory.UserRepository{}, c.Users)
	require.IsType(t, &memory.NewsRepository{}, c.News)
	require.Nil(t, c.PGPool)
	require.Nil(t, c.Redis)
	require.Nil(t, c.GCS)
	require.Nil(t, c.ES)
	require.Nil(t, c.RabbitPub)
}

func TestNewUnknownStore(t *testing.T) {
	_, err := New(context.Background(), &config.Config{StoreDriver: "mongo"}, helpers.NewNopLogger())
	require.ErrorContains(t, err, "mongo")
}

func TestNewConfiguresSearchClient(t *testing.T) {
	cfg := &config.Config{StoreDriver: "memory", ElasticsearchAddrs: "http://localhost:9200"}
	c, err := New(context.Background(), cfg, helpers.NewNopLogger())
	require.NoError(t, err)
	defer c.Close()
	require.NotNil(t, c.ES)
}
