package internal

import (
	"context"
	"time"
)

type ctxKey string

const (
	ContextEmailKey   ctxKey = "email"
	ContextSessionKey ctxKey = "sessionID"
)

// EmailFromContext returns the caller email resolved from the identity header.
// The boolean is false when the header was absent.
func EmailFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if email, ok := ctx.Value(ContextEmailKey).(string); ok && email != "" {
		return email, true
	}
	return "", false
}

func ContextWithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, ContextEmailKey, email)
}

func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(ContextSessionKey).(string); ok {
		return id
	}
	return ""
}

func ContextWithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextSessionKey, id)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
