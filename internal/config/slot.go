package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/baiirun/kanban/internal/db"
	"github.com/baiirun/kanban/internal/storage"
	"github.com/redis/go-redis/v9"
)

// OpenSlot builds the storage slot selected by cfg.Storage.Backend.
func OpenSlot(ctx context.Context, cfg *Config) (storage.Slot, error) {
	switch cfg.Storage.Backend {
	case BackendMemory:
		return storage.NewMemorySlot(), nil
	case BackendFile:
		dir := cfg.Storage.Path
		if dir == "" {
			home, err := HomeDir()
			if err != nil {
				return nil, err
			}
			dir = filepath.Join(home, "board")
		}
		return storage.NewFileSlot(dir)
	case BackendSQLite:
		path := cfg.Storage.Path
		if path == "" {
			p, err := db.DefaultPath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		return storage.OpenSQLiteSlot(path)
	case BackendRedis:
		return storage.DialRedisSlot(ctx, &redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}
