package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wishstock/wishlist/common/cache"
	"github.com/wishstock/wishlist/common/config"
	"github.com/wishstock/wishlist/common/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Service: config.ServiceConfig{Name: "test", Port: 8080, Environment: "development"},
		Cache:   config.CacheConfig{Enabled: true, DefaultTTL: time.Minute},
		Auth:    config.AuthConfig{Algorithm: "HS256"},
		Store:   config.StoreConfig{IsolationLevel: "read committed", TxTimeout: time.Second},
	}
}

func TestSetupWithoutDB(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "info", "json")

	components, err := Setup(ctx, "test",
		WithoutDB(),
		WithCustomConfig(testConfig()),
		WithCustomLogger(log),
	)
	require.NoError(t, err)

	assert.Nil(t, components.DB)
	assert.Nil(t, components.Redis)
	assert.IsType(t, &cache.MemoryCache{}, components.Cache)
	assert.NoError(t, components.Health(ctx))

	require.NoError(t, components.Shutdown(ctx))
	assert.Contains(t, buf.String(), "memory cache closed")
}

func TestSetupSkipsDisabledCache(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Enabled = false

	components, err := Setup(context.Background(), "test",
		WithoutDB(),
		WithCustomConfig(cfg),
		WithCustomLogger(logger.Discard()),
	)
	require.NoError(t, err)
	assert.Nil(t, components.Cache)
}

func TestShutdownRunsCleanupInReverse(t *testing.T) {
	c := &Components{Logger: logger.Discard()}
	var order []int
	c.addCleanup(func() error { order = append(order, 1); return nil })
	c.addCleanup(func() error { order = append(order, 2); return errors.New("boom") })
	c.addCleanup(func() error { order = append(order, 3); return nil })

	err := c.Shutdown(context.Background())
	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, []int{3, 2, 1}, order)
}
