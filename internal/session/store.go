// Package session persists the single session token issued at login.
package session

import (
	"context"
	"errors"
)

// TokenKey is the fixed key the token is stored under.
const TokenKey = "sessionToken"

// ErrEmptyToken is returned by Set for a blank token.
var ErrEmptyToken = errors.New("session token cannot be empty")

// Store holds at most one session token.
type Store interface {
	// Get returns the stored token, or ok=false when logged out.
	Get(ctx context.Context) (token string, ok bool, err error)
	// Set replaces the stored token.
	Set(ctx context.Context, token string) error
	// Clear removes the token. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
