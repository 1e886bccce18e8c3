package db

import (
	"context"
	"fmt"

	"message-admin/internal/config"
	"message-admin/internal/repository"
)

// OpenMessageStore devuelve el repositorio de mensajes del driver configurado
// y una función para liberar sus recursos.
func OpenMessageStore(ctx context.Context, cfg *config.Config) (repository.MessageRepository, func(), error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pool, err := NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect: %w", err)
		}
		if err := Ping(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("db ping: %w", err)
		}
		if cfg.DBAutoMigrate {
			if err := EnsureSchema(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("db schema: %w", err)
			}
		}
		return repository.NewPgMessageRepository(pool), pool.Close, nil
	case config.StorageBadger:
		bdb, err := OpenBadger(cfg)
		if err != nil {
			return nil, nil, err
		}
		repo, err := repository.NewBadgerMessageRepository(bdb)
		if err != nil {
			_ = bdb.Close()
			return nil, nil, err
		}
		return repo, func() {
			_ = repo.Close()
			_ = bdb.Close()
		}, nil
	case config.StorageMemory:
		return repository.NewMemoryMessageRepository(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
