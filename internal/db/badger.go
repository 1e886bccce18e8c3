package db

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"message-admin/internal/config"
)

// OpenBadger abre la base embebida usada por el driver "badger".
func OpenBadger(cfg *config.Config) (*badger.DB, error) {
	opts := badger.DefaultOptions(cfg.BadgerPath).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", cfg.BadgerPath, err)
	}
	return db, nil
}
