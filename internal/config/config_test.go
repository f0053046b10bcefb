package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	return Config{
		APIBaseURL:     "https://script.google.com/macros/s/abc/exec",
		HTTPTimeout:    15 * time.Second,
		SessionBackend: SessionBackendFile,
		SessionFile:    filepath.Join(dir, "session"),
		SQLiteDBPath:   filepath.Join(dir, "expensetrack.db"),
		LogLevel:       "info",
		MockPort:       "8090",
		MockUsername:   "demo",
		MockPassword:   "demo123",
		MockSessionTTL: 24 * time.Hour,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid file backend config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing base URL is allowed",
			mutate:  func(c *Config) { c.APIBaseURL = "" },
			wantErr: false,
		},
		{
			name:    "memory backend needs no paths",
			mutate:  func(c *Config) { c.SessionBackend = SessionBackendMemory; c.SessionFile = ""; c.SQLiteDBPath = "" },
			wantErr: false,
		},
		{
			name:        "base URL with bad scheme",
			mutate:      func(c *Config) { c.APIBaseURL = "ftp://example.com/exec" },
			wantErr:     true,
			errorString: "invalid API base URL scheme 'ftp'",
		},
		{
			name:        "base URL without host",
			mutate:      func(c *Config) { c.APIBaseURL = "https://" },
			wantErr:     true,
			errorString: "missing host",
		},
		{
			name:        "timeout too small",
			mutate:      func(c *Config) { c.HTTPTimeout = 100 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid HTTP timeout 100ms: must be at least 1 second",
		},
		{
			name:        "unknown session backend",
			mutate:      func(c *Config) { c.SessionBackend = "redis" },
			wantErr:     true,
			errorString: "invalid session backend 'redis'",
		},
		{
			name:        "file backend without path",
			mutate:      func(c *Config) { c.SessionFile = "" },
			wantErr:     true,
			errorString: "session file path cannot be empty when using file backend",
		},
		{
			name:        "sqlite backend without path",
			mutate:      func(c *Config) { c.SessionBackend = SessionBackendSQLite; c.SQLiteDBPath = "" },
			wantErr:     true,
			errorString: "SQLite database path cannot be empty when using sqlite backend",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "chatty" },
			wantErr:     true,
			errorString: "invalid log level 'chatty'",
		},
		{
			name:        "invalid mock port - non-numeric",
			mutate:      func(c *Config) { c.MockPort = "abc" },
			wantErr:     true,
			errorString: "invalid mock port 'abc': must be a number",
		},
		{
			name:        "invalid mock port - out of range",
			mutate:      func(c *Config) { c.MockPort = "70000" },
			wantErr:     true,
			errorString: "invalid mock port 70000: must be between 1 and 65535",
		},
		{
			name:        "session TTL too short",
			mutate:      func(c *Config) { c.MockSessionTTL = time.Second },
			wantErr:     true,
			errorString: "invalid mock session TTL 1s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Config.Validate() error = %v, want substring %q", err, tt.errorString)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig(t)
	cfg.MockPort = "0"
	cfg.LogLevel = "loud"
	cfg.SessionBackend = "nope"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if got := strings.Count(err.Error(), "\n- "); got != 3 {
		t.Fatalf("expected 3 collected errors, got %d: %v", got, err)
	}
}

func TestConfig_ValidateCreatesSessionDir(t *testing.T) {
	cfg := validConfig(t)
	dir := filepath.Join(t.TempDir(), "nested", "deeper")
	cfg.SessionFile = filepath.Join(dir, "session")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("session directory not created: %v", err)
	}
}

func TestLoad(t *testing.T) {
	keys := []string{
		"EXPENSE_API_BASE_URL", "NEXT_PUBLIC_API_BASE_URL", "EXPENSE_HTTP_TIMEOUT",
		"SESSION_BACKEND", "SESSION_FILE", "SQLITE_DB_PATH", "LOG_LEVEL",
		"EXPENSE_LOG_FILE", "MOCK_PORT", "MOCK_USERNAME", "MOCK_PASSWORD", "MOCK_SESSION_TTL",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.APIBaseURL != "" {
			t.Errorf("Load() APIBaseURL = %v, want empty", cfg.APIBaseURL)
		}
		if cfg.HTTPTimeout != 15*time.Second {
			t.Errorf("Load() HTTPTimeout = %v, want 15s", cfg.HTTPTimeout)
		}
		if cfg.SessionBackend != SessionBackendFile {
			t.Errorf("Load() SessionBackend = %v, want file", cfg.SessionBackend)
		}
		if filepath.Base(cfg.SessionFile) != "session" {
			t.Errorf("Load() SessionFile = %v, want .../session", cfg.SessionFile)
		}
		if cfg.MockPort != "8090" {
			t.Errorf("Load() MockPort = %v, want 8090", cfg.MockPort)
		}
		if cfg.MockUsername != "demo" || cfg.MockPassword != "demo123" {
			t.Errorf("Load() mock credentials = %v/%v", cfg.MockUsername, cfg.MockPassword)
		}
		if cfg.MockSessionTTL != 24*time.Hour {
			t.Errorf("Load() MockSessionTTL = %v, want 24h", cfg.MockSessionTTL)
		}
	})

	t.Run("legacy base URL variable", func(t *testing.T) {
		t.Setenv("NEXT_PUBLIC_API_BASE_URL", "https://legacy.example.com/exec")
		if got := Load().APIBaseURL; got != "https://legacy.example.com/exec" {
			t.Errorf("Load() APIBaseURL = %v", got)
		}

		t.Setenv("EXPENSE_API_BASE_URL", "https://primary.example.com/exec")
		if got := Load().APIBaseURL; got != "https://primary.example.com/exec" {
			t.Errorf("Load() APIBaseURL = %v, want primary to win", got)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("EXPENSE_HTTP_TIMEOUT", "30s")
		t.Setenv("SESSION_BACKEND", "sqlite")
		t.Setenv("SQLITE_DB_PATH", "/tmp/test.db")
		t.Setenv("MOCK_PORT", "9191")
		t.Setenv("MOCK_SESSION_TTL", "1h")

		cfg := Load()

		if cfg.HTTPTimeout != 30*time.Second {
			t.Errorf("Load() HTTPTimeout = %v, want 30s", cfg.HTTPTimeout)
		}
		if cfg.SessionBackend != "sqlite" {
			t.Errorf("Load() SessionBackend = %v, want sqlite", cfg.SessionBackend)
		}
		if cfg.SQLiteDBPath != "/tmp/test.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want /tmp/test.db", cfg.SQLiteDBPath)
		}
		if cfg.MockPort != "9191" {
			t.Errorf("Load() MockPort = %v, want 9191", cfg.MockPort)
		}
		if cfg.MockSessionTTL != time.Hour {
			t.Errorf("Load() MockSessionTTL = %v, want 1h", cfg.MockSessionTTL)
		}
	})

	t.Run("invalid values fall back to defaults", func(t *testing.T) {
		t.Setenv("EXPENSE_HTTP_TIMEOUT", "soon")
		t.Setenv("MOCK_PORT", "eighty")

		cfg := Load()
		if cfg.HTTPTimeout != 15*time.Second {
			t.Errorf("Load() HTTPTimeout = %v, want 15s", cfg.HTTPTimeout)
		}
		if cfg.MockPort != "8090" {
			t.Errorf("Load() MockPort = %v, want 8090", cfg.MockPort)
		}
	})
}
