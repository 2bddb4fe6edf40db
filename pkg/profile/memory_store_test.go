package profile_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlyehwallet/billing/pkg/profile"
	"github.com/rlyehwallet/billing/pkg/tier"
)

func TestMemoryStore_Get(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()
	store := profile.NewMemoryStore(profile.Profile{UserID: userID, Tier: tier.Pro, StripeCustomerID: "cus_1"})

	t.Run("by user id", func(t *testing.T) {
		t.Parallel()
		p, err := store.GetByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, tier.Pro, p.Tier)
	})

	t.Run("by customer id", func(t *testing.T) {
		t.Parallel()
		p, err := store.GetByCustomerID(ctx, "cus_1")
		require.NoError(t, err)
		assert.Equal(t, userID, p.UserID)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		_, err := store.GetByUserID(ctx, uuid.New())
		assert.ErrorIs(t, err, profile.ErrProfileNotFound)

		_, err = store.GetByCustomerID(ctx, "cus_missing")
		assert.ErrorIs(t, err, profile.ErrProfileNotFound)

		_, err = store.GetByCustomerID(ctx, "")
		assert.ErrorIs(t, err, profile.ErrProfileNotFound)
	})

	t.Run("returns copies", func(t *testing.T) {
		t.Parallel()
		p, err := store.GetByUserID(ctx, userID)
		require.NoError(t, err)
		p.Tier = tier.Free

		again, err := store.GetByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, tier.Pro, again.Tier)
	})
}

func TestMemoryStore_LinkCustomer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("links once", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		store := profile.NewMemoryStore(profile.Profile{UserID: userID})

		require.NoError(t, store.LinkCustomer(ctx, userID, "cus_1"))
		require.NoError(t, store.LinkCustomer(ctx, userID, "cus_1"))

		err := store.LinkCustomer(ctx, userID, "cus_2")
		assert.ErrorIs(t, err, profile.ErrCustomerAlreadyLinked)

		p, err := store.GetByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "cus_1", p.StripeCustomerID)
	})

	t.Run("missing profile", func(t *testing.T) {
		t.Parallel()
		store := profile.NewMemoryStore()
		err := store.LinkCustomer(ctx, uuid.New(), "cus_1")
		assert.ErrorIs(t, err, profile.ErrProfileNotFound)
	})

	t.Run("empty customer id", func(t *testing.T) {
		t.Parallel()
		store := profile.NewMemoryStore()
		err := store.LinkCustomer(ctx, uuid.New(), "")
		assert.ErrorIs(t, err, profile.ErrMissingCustomerID)
	})
}

func TestMemoryStore_SaveEntitlement(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("keeps existing customer id", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		store := profile.NewMemoryStore(profile.Profile{UserID: userID, StripeCustomerID: "cus_1"})

		p := &profile.Profile{UserID: userID, StripeCustomerID: "cus_other"}
		p.StartPaid(tier.Pro, "sub_1", time.Now(), nil)
		require.NoError(t, store.SaveEntitlement(ctx, p))

		got, err := store.GetByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "cus_1", got.StripeCustomerID)
		assert.Equal(t, tier.Pro, got.Tier)
		assert.True(t, got.IsPro())
		assert.Equal(t, "sub_1", got.StripeSubscriptionID)
		assert.False(t, got.UpdatedAt.IsZero())
	})

	t.Run("writes customer id when empty", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		store := profile.NewMemoryStore(profile.Profile{UserID: userID})

		require.NoError(t, store.SaveEntitlement(ctx, &profile.Profile{UserID: userID, StripeCustomerID: "cus_9"}))

		got, err := store.GetByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "cus_9", got.StripeCustomerID)
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()
		store := profile.NewMemoryStore()
		assert.ErrorIs(t, store.SaveEntitlement(ctx, nil), profile.ErrNilProfile)
		assert.ErrorIs(t, store.SaveEntitlement(ctx, &profile.Profile{UserID: uuid.New()}), profile.ErrProfileNotFound)
	})
}
