package adapter

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/okaniie/trackingstuff/internal/core/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecordStore(t *testing.T) {
	ctx := context.Background()

	t.Run("sqlite", func(t *testing.T) {
		store, err := NewRecordStore(ctx, config.StoreConfig{
			Driver:        config.DriverSQLite,
			SQLitePath:    filepath.Join(t.TempDir(), "tracking.db"),
			RetryAttempts: 3,
			RetryDelay:    time.Millisecond,
			Timeout:       time.Second,
		})
		require.NoError(t, err)
		defer store.Close()

		assert.IsType(t, &RetryingStore{}, store)
		assert.NoError(t, store.Ping(ctx))
	})

	t.Run("redis", func(t *testing.T) {
		s := miniredis.RunT(t)
		store, err := NewRecordStore(ctx, config.StoreConfig{
			Driver:        config.DriverRedis,
			RedisURL:      "redis://" + s.Addr(),
			RetryAttempts: 1,
		})
		require.NoError(t, err)
		defer store.Close()

		assert.NoError(t, store.Ping(ctx))
	})

	t.Run("unsupported driver", func(t *testing.T) {
		_, err := NewRecordStore(ctx, config.StoreConfig{Driver: "mongodb"})
		assert.ErrorContains(t, err, "unsupported store driver")
	})

	t.Run("bad redis url", func(t *testing.T) {
		_, err := NewRecordStore(ctx, config.StoreConfig{Driver: config.DriverRedis, RedisURL: "://nope"})
		assert.Error(t, err)
	})
}
