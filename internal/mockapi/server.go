// Package mockapi is a local stand-in for the remote expense service. It
// speaks the same single-endpoint JSON protocol and keeps everything in memory.
package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"expensetrack/internal/cache"
	"expensetrack/internal/core"
	"expensetrack/internal/log"
	"expensetrack/internal/middleware/ratelimit"
	"expensetrack/internal/rpc"
)

const maxBodyBytes = 1 << 20

// Error messages returned in the envelope.
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgTooManyAttempts    = "Too many login attempts. Please try again later."
	MsgInvalidBody        = "Invalid request body"
)

var nonWord = regexp.MustCompile(`\W`)

// Config holds server configuration
type Config struct {
	Port       string
	Username   string
	Password   string
	SessionTTL time.Duration
	Logger     *log.Logger
	Now        func() time.Time
}

// Server is the mock expense backend.
type Server struct {
	router   *chi.Mux
	server   *http.Server
	store    *Store
	sessions *cache.LRUCache[string]
	caches   *cache.Manager
	logins   *ratelimit.Limiter
	requests *ratelimit.Limiter
	logger   *log.Logger
	slog     *log.StructuredLogger
	cfg      Config
}

// New creates a server seeded with the demo data.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Discard()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	logger := cfg.Logger.WithComponent(log.ComponentMock)

	s := &Server{
		router:   chi.NewRouter(),
		store:    NewStore(SeedExpenses(), DefaultCategories),
		sessions: cache.NewLRUCache[string](1000, cfg.SessionTTL).WithClock(cfg.Now),
		caches:   cache.NewManager(cfg.Logger),
		logins:   ratelimit.NewLimiter(ratelimit.Config{MaxAttempts: 10, Window: time.Minute}).WithClock(cfg.Now),
		requests: ratelimit.NewLimiter(ratelimit.Config{MaxAttempts: 600, Window: time.Minute}).WithClock(cfg.Now),
		logger:   logger,
		slog:     log.NewStructuredLogger(logger),
		cfg:      cfg,
	}
	s.sessions.OnEvict(func(_ string, reason cache.EvictReason) {
		logger.Debug("Session dropped", "reason", string(reason))
	})
	s.caches.Register(s.sessions)
	s.caches.Register(s.logins)
	s.caches.Register(s.requests)

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(log.Middleware(s.logger))
	s.router.Use(log.RequestIDMiddleware(func(r *http.Request) string {
		return middleware.GetReqID(r.Context())
	}))
	s.router.Use(s.loggingMiddleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	s.router.Use(s.requests.Middleware(clientIP, nil))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/", s.handleRPC)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting mock expense backend", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return s.caches.Run(ctx, time.Minute)
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down mock expense backend", log.FieldOperation, log.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.slog.LogHTTPEnd(r.Context(), r, ww.Status(), time.Since(start).Milliseconds(), clientIP(r))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"expenses": len(s.store.List()),
		"sessions": s.sessions.Size(),
		"lookups":  s.sessions.Stats(),
	})
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	var req rpc.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.slog.LogRejected(r.Context(), "decode_body", err)
		writeJSON(w, http.StatusBadRequest, rpc.Envelope{Error: MsgInvalidBody})
		return
	}

	env := s.dispatch(r.Context(), req, clientIP(r))
	s.slog.LogAction(r.Context(), req.Action, env.Success)
	writeJSON(w, http.StatusOK, env)
}

func (s *Server) dispatch(ctx context.Context, req rpc.Request, client string) rpc.Envelope {
	switch req.Action {
	case rpc.ActionLogin:
		return s.login(ctx, req, client)
	case rpc.ActionAddExpense:
		if env, ok := s.authorize(req.SessionToken); !ok {
			return env
		}
		return s.addExpense(ctx, req.Draft())
	case rpc.ActionGetExpenses:
		if env, ok := s.authorize(req.SessionToken); !ok {
			return env
		}
		return rpc.Envelope{Success: true, Expenses: s.store.List()}
	case rpc.ActionGetCategories:
		if env, ok := s.authorize(req.SessionToken); !ok {
			return env
		}
		return rpc.Envelope{Success: true, Categories: s.store.Categories()}
	case "":
		return rpc.Envelope{Error: "Missing action"}
	default:
		return rpc.Envelope{Error: "Unknown action: " + req.Action}
	}
}

func (s *Server) login(ctx context.Context, req rpc.Request, client string) rpc.Envelope {
	if !s.logins.Allow(client) {
		return rpc.Envelope{Error: MsgTooManyAttempts}
	}
	if !s.credentialsMatch(req.Username, req.Password) {
		log.FromContext(ctx).InfoContext(ctx, "Login rejected", log.FieldOperation, log.OpLogin, log.FieldClientIP, client)
		return rpc.Envelope{Error: MsgInvalidCredentials}
	}
	s.logins.Reset(client)

	token := uuid.NewString()
	s.sessions.Set(token, normalizeUsername(req.Username))
	s.logger.InfoContext(ctx, "Session issued", log.FieldOperation, log.OpLogin)
	return rpc.Envelope{Success: true, SessionToken: token}
}

// credentialsMatch compares a trimmed, lower-cased username and a password
// with non-word characters removed.
func (s *Server) credentialsMatch(username, password string) bool {
	if normalizeUsername(username) != normalizeUsername(s.cfg.Username) {
		return false
	}
	return nonWord.ReplaceAllString(password, "") == nonWord.ReplaceAllString(s.cfg.Password, "")
}

func normalizeUsername(u string) string {
	return strings.ToLower(strings.TrimSpace(u))
}

func (s *Server) authorize(token string) (rpc.Envelope, bool) {
	if token == "" {
		return rpc.Envelope{Error: rpc.SessionExpiredMarker}, false
	}
	if _, ok := s.sessions.Get(token); !ok {
		return rpc.Envelope{Error: rpc.SessionExpiredMarker}, false
	}
	return rpc.Envelope{}, true
}

func (s *Server) addExpense(ctx context.Context, d core.Draft) rpc.Envelope {
	d.Description = strings.TrimSpace(d.Description)
	if err := d.Validate(); err != nil {
		return rpc.Envelope{Error: "Invalid expense: " + err.Error()}
	}

	e := s.store.Add(core.Expense{
		ID:          core.ID(uuid.NewString()),
		Date:        strings.TrimSpace(d.Date),
		Amount:      core.Amount(strings.TrimSpace(string(d.Amount))),
		Description: d.Description,
		Category:    Categorize(d.Description),
		AISummary:   "Added expense for " + d.Description,
	})
	s.slog.LogExpenseCreated(ctx, string(e.ID), e.Date, string(e.Amount), e.Category)
	return rpc.Envelope{Success: true, Expense: &e}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
