package billing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rlyehwallet/billing/pkg/auth"
	"github.com/rlyehwallet/billing/pkg/logger"
	"github.com/rlyehwallet/billing/pkg/notifications"
	"github.com/rlyehwallet/billing/pkg/profile"
	"github.com/rlyehwallet/billing/pkg/tier"
)

// UserResolver returns the authenticated caller.
type UserResolver func(ctx context.Context) (*auth.User, error)

// Notifier receives best-effort user notifications. *notifications.Manager
// satisfies it.
type Notifier interface {
	Send(ctx context.Context, n notifications.Notification) error
}

// Service builds checkout sessions, reconciles provider events into profile
// entitlements and bridges portal and cancellation requests.
type Service struct {
	provider PaymentProvider
	profiles profile.Store
	prices   PriceBook
	catalog  *tier.Catalog

	currentUser UserResolver
	ledger      EventLedger
	notifier    Notifier
	logger      *slog.Logger
	now         func() time.Time
}

// NewService panics when provider or profiles is nil.
func NewService(provider PaymentProvider, profiles profile.Store, prices PriceBook, opts ...ServiceOption) *Service {
	if provider == nil {
		panic("billing: PaymentProvider is required")
	}
	if profiles == nil {
		panic("billing: profile.Store is required")
	}

	s := &Service{
		provider:    provider,
		profiles:    profiles,
		prices:      prices,
		catalog:     tier.Default(),
		currentUser: auth.CurrentUser,
		ledger:      NoopLedger{},
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("billing"))
	return s
}

// requireUser resolves the caller or fails with ErrAuthenticationRequired.
func (s *Service) requireUser(ctx context.Context) (*auth.User, error) {
	user, err := s.currentUser(ctx)
	if err != nil || user == nil {
		return nil, errors.Join(ErrAuthenticationRequired, err)
	}
	return user, nil
}

// Entitlement returns the caller's profile for read paths. Anonymous callers
// and missing rows yield a nil profile, which resolves to free.
func (s *Service) Entitlement(ctx context.Context) (*profile.Profile, error) {
	user, err := s.currentUser(ctx)
	if err != nil || user == nil {
		return nil, nil
	}
	p, err := s.profiles.GetByUserID(ctx, user.ID)
	if errors.Is(err, profile.ErrProfileNotFound) {
		return nil, nil
	}
	return p, err
}

// Catalog returns the tier catalog the service resolves products against.
func (s *Service) Catalog() *tier.Catalog {
	return s.catalog
}
