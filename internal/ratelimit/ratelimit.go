// Package ratelimit implements fixed-window request counters keyed by client.
package ratelimit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Store counts hits per key within a fixed window.
type Store interface {
	// Increment adds one hit to key and returns the count in the current window and when it resets.
	Increment(ctx context.Context, key string, window time.Duration) (int, time.Time, error)
}

// Decision is the outcome of one request against a limiter.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter allows at most Limit hits per key in each Window.
type Limiter struct {
	Name    string
	Limit   int
	Window  time.Duration
	Message string

	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewLimiter builds a limiter over store.
func NewLimiter(name string, limit int, window time.Duration, message string, store Store, logger *zap.Logger) *Limiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Limiter{
		Name:    name,
		Limit:   limit,
		Window:  window,
		Message: message,
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
}

// Allow records a hit for key. Store failures let the request through.
func (l *Limiter) Allow(ctx context.Context, key string) Decision {
	count, resetAt, err := l.store.Increment(ctx, l.Name+":"+key, l.Window)
	if err != nil {
		l.logger.Warn("rate limit store unavailable, allowing request",
			zap.String("limiter", l.Name), zap.String("key", key), zap.Error(err))
		return Decision{Allowed: true, Limit: l.Limit, Remaining: l.Limit, ResetAt: l.now().Add(l.Window)}
	}

	remaining := l.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= l.Limit,
		Limit:     l.Limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}

// Limiters groups the limiters mounted on the auth routes.
type Limiters struct {
	Auth  *Limiter
	Reset *Limiter
}

const (
	AuthMessage  = "Too many authentication attempts from this IP, please try again after 15 minutes"
	ResetMessage = "Too many password reset requests from this IP, please try again after an hour"
)
