package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rlyehwallet/billing/pkg/auth"
	"github.com/rlyehwallet/billing/pkg/billing"
	"github.com/rlyehwallet/billing/pkg/notifications"
	"github.com/rlyehwallet/billing/pkg/profile"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) CreateCustomer(ctx context.Context, req billing.CustomerRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *mockProvider) CreateCheckoutSession(ctx context.Context, req billing.CheckoutRequest) (*billing.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.CheckoutSession), args.Error(1)
}

func (m *mockProvider) CreatePortalSession(ctx context.Context, customerID string) (*billing.PortalLink, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PortalLink), args.Error(1)
}

func (m *mockProvider) SetCancelAtPeriodEnd(ctx context.Context, subscriptionID string, cancel bool) (*billing.Subscription, error) {
	args := m.Called(ctx, subscriptionID, cancel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *mockProvider) GetSubscription(ctx context.Context, subscriptionID string) (*billing.Subscription, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *mockProvider) ParseWebhook(ctx context.Context, payload []byte, signature string) (*billing.Event, error) {
	args := m.Called(ctx, payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Event), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Send(ctx context.Context, n notifications.Notification) error {
	return m.Called(ctx, n).Error(0)
}

var testPrices = billing.PriceBook{
	ProMonthly:      "price_pro_m",
	ProYearly:       "price_pro_y",
	StreamerMonthly: "price_streamer_m",
	StreamerYearly:  "price_streamer_y",
}

var fixedNow = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	provider *mockProvider
	store    *profile.MemoryStore
	service  *billing.Service
	user     *auth.User
}

// newFixture seeds a profile for a fresh user and authenticates as that user.
func newFixture(t *testing.T, seed profile.Profile, opts ...billing.ServiceOption) *fixture {
	t.Helper()

	user := &auth.User{ID: uuid.New(), Email: "keeper@example.com"}
	if seed.UserID == uuid.Nil {
		seed.UserID = user.ID
	}
	require.Equal(t, user.ID, seed.UserID)

	f := &fixture{
		provider: &mockProvider{},
		store:    profile.NewMemoryStore(seed),
		user:     user,
	}

	base := []billing.ServiceOption{
		billing.WithClock(func() time.Time { return fixedNow }),
		billing.WithUserResolver(func(context.Context) (*auth.User, error) { return user, nil }),
	}
	f.service = billing.NewService(f.provider, f.store, testPrices, append(base, opts...)...)
	return f
}

func (f *fixture) profile(t *testing.T) *profile.Profile {
	t.Helper()
	p, err := f.store.GetByUserID(context.Background(), f.user.ID)
	require.NoError(t, err)
	return p
}

func anonymous(context.Context) (*auth.User, error) {
	return nil, auth.ErrUnauthenticated
}

func ptr[T any](v T) *T { return &v }
