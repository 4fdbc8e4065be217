package account_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sumquiz/entitlements/pkg/account"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntitlementActive(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		ent    account.Entitlement
		active bool
	}{
		{name: "never subscribed", ent: account.NeverSubscribed(), active: false},
		{name: "lifetime", ent: account.Lifetime(), active: true},
		{name: "expires in future", ent: account.ExpiresAt(now.Add(time.Hour)), active: true},
		{name: "expires in past", ent: account.ExpiresAt(now.Add(-time.Hour)), active: false},
		{name: "expires exactly now", ent: account.ExpiresAt(now), active: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.active, tt.ent.Active(now))
		})
	}
}

func TestEntitlementExtend(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("never subscribed starts from now", func(t *testing.T) {
		t.Parallel()
		ent := account.NeverSubscribed().Extend(7*24*time.Hour, now)
		require.Equal(t, account.EntitlementExpiresAt, ent.Status)
		assert.Equal(t, now.Add(7*24*time.Hour), *ent.ExpiresAt)
	})

	t.Run("timed extends from current expiry", func(t *testing.T) {
		t.Parallel()
		expiry := now.Add(48 * time.Hour)
		ent := account.ExpiresAt(expiry).Extend(7*24*time.Hour, now)
		require.Equal(t, account.EntitlementExpiresAt, ent.Status)
		assert.Equal(t, expiry.Add(7*24*time.Hour), *ent.ExpiresAt)
	})

	t.Run("lifetime is unchanged", func(t *testing.T) {
		t.Parallel()
		ent := account.Lifetime().Extend(7*24*time.Hour, now)
		assert.Equal(t, account.EntitlementLifetime, ent.Status)
		assert.Nil(t, ent.ExpiresAt)
	})
}

func TestGrantReferralTrial(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := account.New("u1", "u1@example.com", "User One", now)
	a.GrantReferralTrial("ABCD1234", "referrer-1", now)

	assert.True(t, a.IsPro)
	require.Equal(t, account.EntitlementExpiresAt, a.Entitlement.Status)
	assert.Equal(t, now.Add(account.ReferralTrialDuration), *a.Entitlement.ExpiresAt)
	assert.Equal(t, "ABCD1234", a.AppliedReferralCode)
	assert.Equal(t, "referrer-1", a.ReferredBy)
	require.NotNil(t, a.ReferralAppliedAt)
	assert.Equal(t, now, *a.ReferralAppliedAt)
}

func TestRecordReferralLadder(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("third referral grants one reward", func(t *testing.T) {
		t.Parallel()
		a := account.New("r1", "r@example.com", "Ref", now)
		a.Referrals = 2
		a.TotalReferrals = 2

		rewarded := a.RecordReferral(now)
		assert.True(t, rewarded)
		assert.Equal(t, 0, a.Referrals)
		assert.Equal(t, 3, a.TotalReferrals)
		assert.Equal(t, 1, a.ReferralRewards)
		require.Equal(t, account.EntitlementExpiresAt, a.Entitlement.Status)
		assert.Equal(t, now.Add(account.ReferralRewardDuration), *a.Entitlement.ExpiresAt)
	})

	t.Run("rewards accumulate by whole ladders only", func(t *testing.T) {
		t.Parallel()
		a := account.New("r1", "r@example.com", "Ref", now)

		for range 8 {
			a.RecordReferral(now)
		}

		// floor(8/3) ladders completed
		assert.Equal(t, 2, a.ReferralRewards)
		assert.Equal(t, 2, a.Referrals)
		assert.Equal(t, 8, a.TotalReferrals)
		require.Equal(t, account.EntitlementExpiresAt, a.Entitlement.Status)
		assert.Equal(t, now.Add(2*account.ReferralRewardDuration), *a.Entitlement.ExpiresAt)
	})

	t.Run("cap ratchets without granting time", func(t *testing.T) {
		t.Parallel()
		a := account.New("r1", "r@example.com", "Ref", now)
		a.Referrals = 2
		a.ReferralRewards = account.MaxReferralRewards
		expiry := now.Add(time.Hour)
		a.Entitlement = account.ExpiresAt(expiry)

		rewarded := a.RecordReferral(now)
		assert.False(t, rewarded)
		assert.Equal(t, 0, a.Referrals, "counter still resets at the cap")
		assert.Equal(t, account.MaxReferralRewards, a.ReferralRewards)
		assert.Equal(t, expiry, *a.Entitlement.ExpiresAt)
	})
}

func TestMemoryStoreMarkExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store := account.NewMemoryStore()
	a := account.New("u1", "u@example.com", "U", now.Add(-72*time.Hour))
	a.IsPro = true
	a.Entitlement = account.ExpiresAt(now.Add(-time.Hour))
	require.NoError(t, store.RunTransaction(ctx, func(ctx context.Context, tx account.Txn) error {
		return tx.Create(ctx, a)
	}))

	modified, err := store.MarkExpired(ctx, "u1", now)
	require.NoError(t, err)
	assert.True(t, modified)

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, got.IsPro)
	require.NotNil(t, got.ExpiredAt)

	// Second call sees isPro=false and skips the write.
	modified, err = store.MarkExpired(ctx, "u1", now)
	require.NoError(t, err)
	assert.False(t, modified)
}

func TestMemoryStoreTransactionRollback(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := account.NewMemoryStore()

	errBoom := errors.New("boom")
	err := store.RunTransaction(ctx, func(ctx context.Context, tx account.Txn) error {
		if err := tx.Create(ctx, account.New("u1", "u@example.com", "U", now)); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	_, err = store.Get(ctx, "u1")
	assert.ErrorIs(t, err, account.ErrNotFound)
}
