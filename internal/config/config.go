package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Session backends understood by the session factory.
const (
	SessionBackendFile   = "file"
	SessionBackendSQLite = "sqlite"
	SessionBackendMemory = "memory"
)

type Config struct {
	// Remote expense service
	APIBaseURL  string
	HTTPTimeout time.Duration

	// Session persistence
	SessionBackend string
	SessionFile    string
	SQLiteDBPath   string

	// Logging
	LogLevel string
	LogFile  string

	// Mock backend
	MockPort       string
	MockUsername   string
	MockPassword   string
	MockSessionTTL time.Duration
}

func Load() *Config {
	cfg := &Config{
		APIBaseURL:  getEnv("EXPENSE_API_BASE_URL", getEnv("NEXT_PUBLIC_API_BASE_URL", "")),
		HTTPTimeout: getEnvDuration("EXPENSE_HTTP_TIMEOUT", 15*time.Second),

		SessionBackend: getEnv("SESSION_BACKEND", SessionBackendFile),
		SessionFile:    getEnv("SESSION_FILE", defaultSessionFile()),
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", defaultDataPath("expensetrack.db")),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("EXPENSE_LOG_FILE", ""),

		MockPort:       strconv.Itoa(getEnvInt("MOCK_PORT", 8090)),
		MockUsername:   getEnv("MOCK_USERNAME", "demo"),
		MockPassword:   getEnv("MOCK_PASSWORD", "demo123"),
		MockSessionTTL: getEnvDuration("MOCK_SESSION_TTL", 24*time.Hour),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid.
// A missing API base URL is not an error here: the client reports it as a
// connection failure the first time a request is made.
func (c *Config) Validate() error {
	var errors []string

	if c.APIBaseURL != "" {
		if parsedURL, err := url.Parse(c.APIBaseURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid API base URL '%s': %v", c.APIBaseURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid API base URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		} else if parsedURL.Host == "" {
			errors = append(errors, fmt.Sprintf("invalid API base URL '%s': missing host", c.APIBaseURL))
		}
	}

	if c.HTTPTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid HTTP timeout %v: must be at least 1 second", c.HTTPTimeout))
	} else if c.HTTPTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid HTTP timeout %v: must be at most 5 minutes", c.HTTPTimeout))
	}

	validBackends := []string{SessionBackendFile, SessionBackendSQLite, SessionBackendMemory}
	if !slices.Contains(validBackends, c.SessionBackend) {
		errors = append(errors, fmt.Sprintf("invalid session backend '%s': must be one of %v", c.SessionBackend, validBackends))
	}

	switch c.SessionBackend {
	case SessionBackendFile:
		if c.SessionFile == "" {
			errors = append(errors, "session file path cannot be empty when using file backend")
		} else if msg := ensureDir(c.SessionFile, 0o700); msg != "" {
			errors = append(errors, msg)
		}
	case SessionBackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if msg := ensureDir(c.SQLiteDBPath, 0o755); msg != "" {
			errors = append(errors, msg)
		}
	}

	validLevels := []string{"debug", "info", "warn", "warning", "error"}
	if !slices.Contains(validLevels, strings.ToLower(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if port, err := strconv.Atoi(c.MockPort); err != nil {
		errors = append(errors, fmt.Sprintf("invalid mock port '%s': must be a number", c.MockPort))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid mock port %d: must be between 1 and 65535", port))
	}

	if strings.TrimSpace(c.MockUsername) == "" {
		errors = append(errors, "mock username cannot be empty")
	}
	if c.MockSessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid mock session TTL %v: must be at least 1 minute", c.MockSessionTTL))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// ensureDir creates the parent directory of path when missing and returns a
// validation message on failure.
func ensureDir(path string, perm os.FileMode) string {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return ""
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, perm); err != nil {
			return fmt.Sprintf("cannot create directory '%s': %v", dir, err)
		}
	}
	return ""
}

func defaultSessionFile() string {
	return defaultDataPath("session")
}

func defaultDataPath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".expensetrack", name)
	}
	return filepath.Join(dir, "expensetrack", name)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
