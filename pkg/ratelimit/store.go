package ratelimit

import (
	"context"
	"time"
)

// Window is the persisted state for one limited key.
type Window struct {
	Start time.Time `bson:"windowStart"`
	Count int       `bson:"count"`
}

// Store persists one window per limited-operation key.
type Store interface {
	// Window returns the current window for the key, or nil if none exists.
	Window(ctx context.Context, key string) (*Window, error)

	// Reset replaces the window with {start, count: 1}, creating it if absent.
	Reset(ctx context.Context, key string, start time.Time) error

	// Increment atomically adds one attempt to the window and returns the
	// new count. Must be an atomic increment, not read-then-write.
	Increment(ctx context.Context, key string) (int, error)
}
