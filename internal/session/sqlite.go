package session

import (
	"context"
	"strings"

	"expensetrack/internal/storage"
)

// SQLiteStore keeps the token in the kv table of a local SQLite database.
type SQLiteStore struct {
	repo *storage.KVRepository
}

func NewSQLiteStore(repo *storage.KVRepository) *SQLiteStore {
	return &SQLiteStore{repo: repo}
}

func (s *SQLiteStore) Get(ctx context.Context) (string, bool, error) {
	token, ok, err := s.repo.Get(ctx, TokenKey)
	if err != nil || !ok || token == "" {
		return "", false, err
	}
	return token, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrEmptyToken
	}
	return s.repo.Put(ctx, TokenKey, token)
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, TokenKey)
}
