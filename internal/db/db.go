package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"message-admin/internal/config"
)

const messagesSchema = `
CREATE TABLE IF NOT EXISTS messages (
	id           BIGSERIAL PRIMARY KEY,
	message_text TEXT        NOT NULL CHECK (message_text <> ''),
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// NewPool construye y devuelve un pool de conexiones configurado.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	// Un panel de administración tiene poco tráfico concurrente.
	poolCfg.MaxConns = 5
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second
	poolCfg.ConnConfig.ConnectTimeout = 5 * time.Second

	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// Ping verifica conectividad con la base de datos.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	return pool.Ping(ctx)
}

// EnsureSchema crea la tabla de mensajes si no existe.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, messagesSchema)
	return err
}
