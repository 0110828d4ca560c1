// Package context provides session-scoped values extraction.
package context

import (
	"context"

	"kassa/internal/core/id"
)

// Session modes.
const (
	ModeCheckout = "checkout"
	ModeAdmin    = "admin"
)

// SessionContext describes one operator session at the terminal.
type SessionContext struct {
	SessionID string
	Mode      string
	IsAdmin   bool
}

type sessionContextKey struct{}

// NewSession creates a session with a fresh time-ordered id.
func NewSession(mode string) *SessionContext {
	return &SessionContext{
		SessionID: id.New().String(),
		Mode:      mode,
		IsAdmin:   mode == ModeAdmin,
	}
}

// WithSession adds SessionContext to context.
func WithSession(ctx context.Context, s *SessionContext) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// GetSession returns SessionContext from context.
func GetSession(ctx context.Context) *SessionContext {
	if v, ok := ctx.Value(sessionContextKey{}).(*SessionContext); ok {
		return v
	}
	return nil
}
