package adapter

import (
	"context"
	"fmt"

	"github.com/okaniie/trackingstuff/internal/core/cache"
	"github.com/okaniie/trackingstuff/internal/core/config"
	"github.com/okaniie/trackingstuff/internal/features/tracking/ports"
)

// NewRecordStore opens the store selected by cfg.Driver and wraps it with retries.
func NewRecordStore(ctx context.Context, cfg config.StoreConfig) (ports.RecordStore, error) {
	var (
		store ports.RecordStore
		err   error
	)

	switch cfg.Driver {
	case config.DriverSQLite:
		store, err = NewSQLiteStore(ctx, cfg.SQLitePath)
	case config.DriverPostgres:
		store, err = NewPostgresStore(ctx, cfg.DatabaseURL)
	case config.DriverRedis:
		var redisCache *cache.RedisAdapter
		redisCache, err = cache.NewRedisAdapter(cfg.RedisURL)
		if err == nil {
			store = NewRedisStore(redisCache)
		}
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Driver, err)
	}

	return NewRetryingStore(store, cfg.RetryAttempts, cfg.RetryDelay, cfg.Timeout), nil
}
