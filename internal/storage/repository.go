package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"expensetrack/internal/log"

	_ "modernc.org/sqlite"
)

// KVRepository is a small key/value table in a local SQLite file.
type KVRepository struct {
	db     *sql.DB
	logger *log.Logger
}

func NewKVRepository(dbPath string, logger *log.Logger) (*KVRepository, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger = logger.WithComponent(log.ComponentStorage)
	logger.Debug("Database ready", log.FieldOperation, log.OpMigrate, "path", dbPath)

	return &KVRepository{db: db, logger: logger}, nil
}

func (r *KVRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Get returns the value stored under key, or false when there is none.
func (r *KVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Put inserts or replaces the value stored under key.
func (r *KVRepository) Put(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	r.logger.DebugContext(ctx, "Value stored", "key", key, log.FieldOperation, log.OpSet)
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *KVRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	r.logger.DebugContext(ctx, "Value deleted", "key", key, log.FieldOperation, log.OpClear)
	return nil
}
