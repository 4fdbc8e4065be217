package ratelimit

import (
	"context"
	"time"
)

// Result contains the result of a rate limit check.
type Result struct {
	// Allowed indicates whether the attempt is allowed.
	Allowed bool

	// Limit is the maximum number of attempts allowed per window.
	Limit int

	// Remaining is the number of attempts left in the current window.
	Remaining int

	// ResetAt is when the current window expires.
	ResetAt time.Time
}

// RetryAfter returns how long to wait before the next attempt is allowed.
// Returns 0 if the current attempt was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	return time.Until(r.ResetAt)
}

// FixedWindow is a keyed fixed-window rate limiter backed by a document
// store. Expired windows are reset on the next use rather than eagerly
// deleted, so stale window documents are harmless.
type FixedWindow struct {
	store  Store
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewFixedWindow creates a fixed-window rate limiter.
func NewFixedWindow(store Store, limit int, window time.Duration, opts ...Option) (*FixedWindow, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if window <= 0 {
		return nil, ErrInvalidInterval
	}

	fw := &FixedWindow{
		store:  store,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(fw)
	}
	return fw, nil
}

// Option configures the limiter.
type Option func(*FixedWindow)

// WithClock overrides the time source, primarily for tests.
func WithClock(now func() time.Time) Option {
	if now == nil {
		panic("ratelimit: nil clock")
	}
	return func(fw *FixedWindow) { fw.now = now }
}

// Allow checks whether one attempt is allowed for the given key and records
// it if so. An absent or expired window resets to {start: now, count: 1};
// within a live window the count is incremented atomically.
func (fw *FixedWindow) Allow(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	now := fw.now().UTC()

	w, err := fw.store.Window(ctx, key)
	if err != nil {
		return nil, err
	}

	if w == nil || now.Sub(w.Start) > fw.window {
		if err := fw.store.Reset(ctx, key, now); err != nil {
			return nil, err
		}
		return &Result{
			Allowed:   true,
			Limit:     fw.limit,
			Remaining: fw.limit - 1,
			ResetAt:   now.Add(fw.window),
		}, nil
	}

	resetAt := w.Start.Add(fw.window)

	if w.Count >= fw.limit {
		return &Result{
			Allowed:   false,
			Limit:     fw.limit,
			Remaining: 0,
			ResetAt:   resetAt,
		}, nil
	}

	count, err := fw.store.Increment(ctx, key)
	if err != nil {
		return nil, err
	}

	return &Result{
		Allowed:   true,
		Limit:     fw.limit,
		Remaining: max(0, fw.limit-count),
		ResetAt:   resetAt,
	}, nil
}
