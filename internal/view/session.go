package view

import (
	"context"
	"fmt"

	"expensetrack/internal/session"
)

// Session is the explicit session context handed to screens: the persisted
// store plus the token currently in use.
type Session struct {
	store session.Store
	token string
}

func NewSession(store session.Store) *Session {
	return &Session{store: store}
}

// Token returns the in-use token, empty when logged out.
func (s *Session) Token() string {
	return s.token
}

func (s *Session) LoggedIn() bool {
	return s.token != ""
}

// Restore loads a persisted token, if any.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	token, ok, err := s.store.Get(ctx)
	if err != nil {
		return false, fmt.Errorf("restore session: %w", err)
	}
	if ok {
		s.token = token
	}
	return ok, nil
}

// Establish adopts token and persists it. The token is kept in memory even
// when persisting fails.
func (s *Session) Establish(ctx context.Context, token string) error {
	s.token = token
	if err := s.store.Set(ctx, token); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// End forgets the token in memory and in the store.
func (s *Session) End(ctx context.Context) error {
	s.token = ""
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
