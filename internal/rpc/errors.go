package rpc

import (
	"errors"
	"fmt"
	"strings"
)

// SessionExpiredMarker is the text the backend puts in its error message when
// a session token is unknown or no longer valid.
const SessionExpiredMarker = "Invalid or expired session"

var (
	// ErrTransport marks failures to complete an exchange with the backend:
	// unreachable host, timeout, or a body that is not a response envelope.
	ErrTransport = errors.New("transport failure")

	// ErrSessionExpired matches business errors that report an expired session.
	ErrSessionExpired = errors.New("session expired")

	// ErrNotConfigured is returned for every call when no base URL is set.
	ErrNotConfigured = errors.New("API base URL is not configured")

	// ErrMissingToken is wrapped by the BusinessError returned when a
	// successful login carries no token.
	ErrMissingToken = errors.New("login response did not include a session token")
)

// TransportError wraps a failed HTTP exchange.
type TransportError struct {
	Action     string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("expense service %s failed with status %d: %v", e.Action, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("expense service %s failed: %v", e.Action, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// BusinessError is a well-formed response the client cannot accept: either
// success=false, or a success missing something it must carry. Err, when set,
// names the latter case.
type BusinessError struct {
	Action  string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// Is reports ErrSessionExpired for messages carrying the expiry marker.
func (e *BusinessError) Is(target error) bool {
	return target == ErrSessionExpired && IsSessionExpired(e.Message)
}

// IsSessionExpired is the substring test used to recognise an expired session.
func IsSessionExpired(msg string) bool {
	return strings.Contains(msg, SessionExpiredMarker)
}

// Message returns the text shown to the user for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Message
	}
	if errors.Is(err, ErrNotConfigured) {
		return "Cannot connect to the expense service: " + ErrNotConfigured.Error()
	}
	if errors.Is(err, ErrTransport) {
		return "Cannot connect to the expense service. Check your network and the configured API URL."
	}
	return err.Error()
}
