package session

import (
	"context"
	"fmt"

	"expensetrack/internal/config"
	"expensetrack/internal/log"
	"expensetrack/internal/storage"
)

// BackendType represents where the token is persisted
type BackendType string

const (
	FileBackend   BackendType = config.SessionBackendFile
	SQLiteBackend BackendType = config.SessionBackendSQLite
	MemoryBackend BackendType = config.SessionBackendMemory
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case FileBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Config holds configuration for store creation
type Config struct {
	Type         BackendType
	FilePath     string
	SQLiteDBPath string
}

// FromAppConfig converts the application config to store config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.SessionBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid session backend in config: %s", appConfig.SessionBackend)
	}

	return Config{
		Type:         backendType,
		FilePath:     appConfig.SessionFile,
		SQLiteDBPath: appConfig.SQLiteDBPath,
	}, nil
}

// Validate validates the store configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid session backend: %s", c.Type)
	}

	switch c.Type {
	case FileBackend:
		if c.FilePath == "" {
			return fmt.Errorf("session file path is required for file backend")
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	}
	return nil
}

// CleanupFunc releases resources held by a store
type CleanupFunc func() error

// Result contains the store and an optional cleanup function
type Result struct {
	Store   Store
	Cleanup CleanupFunc
}

// Close runs the cleanup function if there is one.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates stores based on configuration
type Factory interface {
	CreateStore(ctx context.Context, config Config) (*Result, error)
}

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new store factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentSession),
	}
}

// CreateStore implements Factory.CreateStore
func (f *DefaultFactory) CreateStore(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case FileBackend:
		f.logger.InfoContext(ctx, "Initialized file session store", "path", config.FilePath)
		return &Result{Store: NewFileStore(config.FilePath)}, nil
	case SQLiteBackend:
		return f.createSQLiteStore(ctx, config)
	case MemoryBackend:
		f.logger.InfoContext(ctx, "Initialized memory session store")
		return &Result{Store: NewMemoryStore()}, nil
	default:
		return nil, fmt.Errorf("unsupported session backend: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteStore(ctx context.Context, config Config) (*Result, error) {
	repo, err := storage.NewKVRepository(config.SQLiteDBPath, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite session store: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized SQLite session store", "path", config.SQLiteDBPath)

	return &Result{
		Store:   NewSQLiteStore(repo),
		Cleanup: repo.Close,
	}, nil
}
