// Package storage elige el backend de mascotas según la configuración.
package storage

import (
	"context"
	"fmt"

	"pet-adoption-api/internal/adapters/storage/memory"
	"pet-adoption-api/internal/adapters/storage/postgres"
	redisstore "pet-adoption-api/internal/adapters/storage/redis"
	"pet-adoption-api/internal/adapters/storage/sqlite"
	"pet-adoption-api/internal/config"
	"pet-adoption-api/internal/domain/pets"
)

// Open devuelve el repositorio y una función para liberar sus recursos.
func Open(ctx context.Context, cfg config.StorageConfig) (pets.Repository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case config.StorageMemory, "":
		return memory.NewPetRepo(), noop, nil

	case config.StoragePostgres:
		db, err := postgres.Open(cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := postgres.Migrate(db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return postgres.NewPetsRepo(db), db.Close, nil

	case config.StorageSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		return sqlite.NewPetsRepo(db), db.Close, nil

	case config.StorageRedis:
		client, err := redisstore.Open(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewPetsRepo(client), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
