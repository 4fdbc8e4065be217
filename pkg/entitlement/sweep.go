package entitlement

import (
	"context"
	"log/slog"
	"time"

	"github.com/sumquiz/entitlements/pkg/account"
)

// Sweeper revokes Pro access in bulk for every account whose timed
// entitlement has lapsed. It runs once daily; a failed run is not retried
// because the next run (and on-demand evaluation) is self-correcting.
type Sweeper struct {
	store account.Store
	log   *slog.Logger
	now   func() time.Time
}

// NewSweeper creates a Sweeper. Panics on nil dependencies to fail fast
// during initialization.
func NewSweeper(store account.Store, log *slog.Logger, opts ...Option) *Sweeper {
	if store == nil {
		panic("entitlement: account store is required")
	}
	if log == nil {
		panic("entitlement: logger is required")
	}

	s := &Sweeper{store: store, log: log, now: time.Now}
	for _, opt := range opts {
		opt.applySweeper(s)
	}
	return s
}

// Run revokes all lapsed accounts in one atomic batch and returns the count.
// A crash mid-run leaves untouched accounts with access until the next run,
// never falsely revoked.
func (s *Sweeper) Run(ctx context.Context) (int64, error) {
	now := s.now().UTC()

	count, err := s.store.RevokeExpired(ctx, now)
	if err != nil {
		s.log.ErrorContext(ctx, "expiry sweep failed", "error", err)
		return 0, err
	}

	if count == 0 {
		s.log.InfoContext(ctx, "no expired subscriptions found")
	} else {
		s.log.InfoContext(ctx, "revoked pro access for expired accounts", "revoked", count)
	}
	return count, nil
}
