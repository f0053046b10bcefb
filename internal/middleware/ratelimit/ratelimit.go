package ratelimit

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Limiter counts attempts per key in a fixed window.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*clientInfo
	now     func() time.Time

	maxAttempts int
	window      time.Duration
	staleAfter  time.Duration
}

type clientInfo struct {
	windowStart time.Time
	lastSeen    time.Time
	attempts    int
}

// Config holds rate limiter configuration
type Config struct {
	MaxAttempts int
	Window      time.Duration
	// StaleAfter is how long an idle key is remembered.
	StaleAfter time.Duration
}

// DefaultConfig returns sensible defaults for login throttling
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 10,
		Window:      time.Minute,
		StaleAfter:  10 * time.Minute,
	}
}

// NewLimiter creates a new rate limiter
func NewLimiter(config Config) *Limiter {
	def := DefaultConfig()
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = def.MaxAttempts
	}
	if config.Window <= 0 {
		config.Window = def.Window
	}
	if config.StaleAfter < config.Window {
		config.StaleAfter = config.Window
	}

	return &Limiter{
		clients:     make(map[string]*clientInfo),
		now:         time.Now,
		maxAttempts: config.MaxAttempts,
		window:      config.Window,
		staleAfter:  config.StaleAfter,
	}
}

// WithClock replaces the time source. Tests only.
func (rl *Limiter) WithClock(now func() time.Time) *Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.now = now
	return rl
}

// Allow records an attempt for key and reports whether it is within the limit.
func (rl *Limiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	client, exists := rl.clients[key]
	if !exists || now.Sub(client.windowStart) >= rl.window {
		rl.clients[key] = &clientInfo{windowStart: now, lastSeen: now, attempts: 1}
		return true
	}

	client.attempts++
	client.lastSeen = now
	return client.attempts <= rl.maxAttempts
}

// Reset forgets key, e.g. after a successful login.
func (rl *Limiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.clients, key)
}

// CleanExpired removes keys idle for longer than StaleAfter and returns how
// many were removed. It satisfies cache.Cleaner.
func (rl *Limiter) CleanExpired() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.staleAfter)
	removed := 0
	for key, client := range rl.clients {
		if client.lastSeen.Before(cutoff) {
			delete(rl.clients, key)
			removed++
		}
	}
	return removed
}

// ActiveClients returns the number of currently tracked keys
func (rl *Limiter) ActiveClients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Run cleans stale keys periodically until ctx is done.
func (rl *Limiter) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.CleanExpired()
		case <-ctx.Done():
			return nil
		}
	}
}

// Middleware limits every request by the key extractKey derives from it.
func (rl *Limiter) Middleware(extractKey func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(extractKey(r)) {
				if onLimit != nil {
					onLimit(w, r)
				} else {
					w.Header().Set("Retry-After", "60")
					http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				}
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
