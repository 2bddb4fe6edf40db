package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlyehwallet/billing/pkg/billing"
	"github.com/rlyehwallet/billing/pkg/profile"
	"github.com/rlyehwallet/billing/pkg/tier"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return srv, client
}

func TestRedisLedger(t *testing.T) {
	t.Parallel()

	t.Run("records with ttl", func(t *testing.T) {
		t.Parallel()
		srv, client := newMiniredis(t)
		ctx := context.Background()
		ledger := billing.NewRedisLedger(client, "test:evt:", time.Hour)

		seen, err := ledger.Seen(ctx, "evt_1")
		require.NoError(t, err)
		assert.False(t, seen)

		require.NoError(t, ledger.Record(ctx, "evt_1"))
		assert.True(t, srv.Exists("test:evt:evt_1"))
		assert.Equal(t, time.Hour, srv.TTL("test:evt:evt_1"))

		seen, err = ledger.Seen(ctx, "evt_1")
		require.NoError(t, err)
		assert.True(t, seen)

		srv.FastForward(time.Hour + time.Second)

		seen, err = ledger.Seen(ctx, "evt_1")
		require.NoError(t, err)
		assert.False(t, seen)
	})

	t.Run("second record keeps the first expiry", func(t *testing.T) {
		t.Parallel()
		srv, client := newMiniredis(t)
		ctx := context.Background()
		ledger := billing.NewRedisLedger(client, "", time.Hour)

		require.NoError(t, ledger.Record(ctx, "evt_1"))
		srv.FastForward(30 * time.Minute)
		require.NoError(t, ledger.Record(ctx, "evt_1"))

		assert.Equal(t, 30*time.Minute, srv.TTL("billing:event:evt_1"))
	})

	t.Run("zero ttl uses default", func(t *testing.T) {
		t.Parallel()
		srv, client := newMiniredis(t)

		require.NoError(t, billing.NewRedisLedger(client, "", 0).Record(context.Background(), "evt_1"))
		assert.Equal(t, billing.DefaultLedgerTTL, srv.TTL("billing:event:evt_1"))
	})

	t.Run("server down", func(t *testing.T) {
		t.Parallel()
		srv, client := newMiniredis(t)
		ledger := billing.NewRedisLedger(client, "", time.Hour)
		srv.Close()

		_, err := ledger.Seen(context.Background(), "evt_1")
		assert.Error(t, err)
		assert.Error(t, ledger.Record(context.Background(), "evt_1"))
	})

	t.Run("nil client panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { billing.NewRedisLedger(nil, "", time.Hour) })
	})
}

func TestReconcile_RedisLedgerDedupes(t *testing.T) {
	t.Parallel()

	_, client := newMiniredis(t)
	f := newFixture(t, profile.Profile{}, billing.WithLedger(billing.NewRedisLedger(client, "", time.Hour)))
	ctx := context.Background()
	f.provider.On("GetSubscription", ctx, "sub_1").Return(&billing.Subscription{ID: "sub_1"}, nil)

	event := checkoutEvent(f.user.ID, tier.Pro, "sub_1")
	require.NoError(t, f.service.Reconcile(ctx, event))
	require.NoError(t, f.service.Reconcile(ctx, event))

	f.provider.AssertNumberOfCalls(t, "GetSubscription", 1)
}
