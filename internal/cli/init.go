// Package cli holds the start-up steps shared by cmd/expensetrack and
// cmd/expensetrack-mock.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"expensetrack/internal/config"
	"expensetrack/internal/log"
	"expensetrack/internal/session"
)

// LoadEnvFile loads a .env file for local development. A missing file is not
// an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig reads the environment and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the process logger. Interactive runs must not write to
// the terminal, so unless stdout is requested logs go to cfg.LogFile or are
// dropped. The returned close func releases the log file.
func SetupLogger(cfg *config.Config, stdout bool) (*log.Logger, func() error, error) {
	closeFn := func() error { return nil }
	lc := log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: log.ComponentApp,
	}

	switch {
	case stdout:
		lc.Output = os.Stdout
	case cfg.LogFile != "":
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, closeFn, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, closeFn, fmt.Errorf("open log file: %w", err)
		}
		lc.Output = f
		closeFn = f.Close
	default:
		lc.Output = io.Discard
	}

	logger := log.New(lc)
	log.SetDefault(logger)
	return logger, closeFn, nil
}

// OpenSessionStore creates the configured session store. Callers must Close
// the result.
func OpenSessionStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (*session.Result, error) {
	sc, err := session.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	return session.NewFactory(logger).CreateStore(ctx, sc)
}

// ShutdownContext returns a context cancelled on SIGINT or SIGTERM. The
// received signal is logged.
func ShutdownContext(parent context.Context, logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String(), log.FieldOperation, log.OpShutdown)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
