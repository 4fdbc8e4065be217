package entitlement_test

import (
	"context"
	"testing"
	"time"

	"github.com/sumquiz/entitlements/pkg/account"
	"github.com/sumquiz/entitlements/pkg/entitlement"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeperRun(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC)
	ctx := context.Background()
	store := account.NewMemoryStore()

	expired := account.New("expired", "e@example.com", "E", now.Add(-30*24*time.Hour))
	expired.IsPro = true
	expired.Entitlement = account.ExpiresAt(now.Add(-time.Minute))
	seedAccount(t, store, expired)

	active := account.New("active", "a@example.com", "A", now)
	active.IsPro = true
	active.Entitlement = account.ExpiresAt(now.Add(24 * time.Hour))
	seedAccount(t, store, active)

	lifetime := account.New("lifetime", "l@example.com", "L", now)
	lifetime.IsPro = true
	lifetime.Entitlement = account.Lifetime()
	seedAccount(t, store, lifetime)

	alreadyRevoked := account.New("revoked", "r@example.com", "R", now)
	alreadyRevoked.Entitlement = account.ExpiresAt(now.Add(-time.Hour))
	alreadyRevoked.Expire(now.Add(-time.Hour))
	seedAccount(t, store, alreadyRevoked)

	sw := entitlement.NewSweeper(store, discardLogger(), entitlement.WithClock(func() time.Time { return now }))

	count, err := sw.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := store.Get(ctx, "expired")
	require.NoError(t, err)
	assert.False(t, got.IsPro)

	for _, id := range []string{"active", "lifetime"} {
		got, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.True(t, got.IsPro, "account %s must keep access", id)
	}

	// A second run in the same instant is a no-op.
	count, err = sw.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
