package kv

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/serialpro/internal/config"
)

// Open selects a Repository implementation from the configured driver.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		repo Repository
		err  error
	)
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		repo, err = NewSQLiteRepository(ctx, cfg.Store.SQLitePath)
	case config.DriverMongoDB:
		repo, err = NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
	case config.DriverRedis:
		repo, err = NewRedisRepository(ctx, cfg.Redis.Addr, cfg.Redis.KeyPrefix)
	case config.DriverMemory:
		repo = NewMemoryRepository()
	default:
		return nil, fmt.Errorf("unknown store driver %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("kv repository opened", zap.String("driver", cfg.Store.Driver))
	return repo, nil
}
