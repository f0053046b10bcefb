package log

import (
	"context"
	"log/slog"
	"net/http"
)

// ContextKey type for context keys
type ContextKey string

const (
	// LoggerContextKey is the context key for the logger
	LoggerContextKey ContextKey = "logger"
)

// Middleware creates HTTP middleware that adds a logger to the request context
func Middleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLogger(r.Context(), logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext extracts a logger from the request context
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// RequestIDMiddleware adds request ID to logger context
func RequestIDMiddleware(extractRequestID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := extractRequestID(r)
			logger := FromContext(r.Context()).With(FieldRequestID, requestID)
			next.ServeHTTP(w, r.WithContext(WithLogger(r.Context(), logger)))
		})
	}
}

// StructuredLogger writes the mock backend's request and action records. It
// prefers the request-scoped logger from the context so request ids follow.
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

func (sl *StructuredLogger) from(ctx context.Context) *Logger {
	if l, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return l
	}
	return sl.logger
}

// LogHTTPEnd logs a finished request. 4xx is a warning, 5xx an error.
func (sl *StructuredLogger) LogHTTPEnd(ctx context.Context, r *http.Request, statusCode int, durationMs int64, clientIP string) {
	level := slog.LevelInfo
	switch {
	case statusCode >= 500:
		level = slog.LevelError
	case statusCode >= 400:
		level = slog.LevelWarn
	}

	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path).
		WithHTTPResponse(statusCode, durationMs, statusCode < 400).
		WithClientIP(clientIP).
		WithComponent(ComponentHTTP)

	sl.from(ctx).Logger.Log(ctx, level, "HTTP request completed", fields.ToSlice()...)
}

// LogAction logs one handled RPC action.
func (sl *StructuredLogger) LogAction(ctx context.Context, action string, success bool) {
	fields := NewFields().
		WithAction(action).
		WithComponent(ComponentMock)
	fields[FieldSuccess] = success

	sl.from(ctx).InfoContext(ctx, "RPC action handled", fields.ToSlice()...)
}

func (sl *StructuredLogger) LogExpenseCreated(ctx context.Context, id, date, amount, category string) {
	fields := NewFields().
		WithExpense(id, date, amount, category).
		WithOperation(OpCreate).
		WithComponent(ComponentMock)

	sl.from(ctx).InfoContext(ctx, "Expense created", fields.ToSlice()...)
}

// LogRejected logs a request that could not be processed at all.
func (sl *StructuredLogger) LogRejected(ctx context.Context, reason string, err error) {
	fields := NewFields().
		WithError(err).
		WithComponent(ComponentMock)
	fields[FieldOperation] = reason

	sl.from(ctx).WarnContext(ctx, "Request rejected", fields.ToSlice()...)
}
