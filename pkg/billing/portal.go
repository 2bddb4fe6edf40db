package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/rlyehwallet/billing/pkg/logger"
	"github.com/rlyehwallet/billing/pkg/profile"
)

// OpenManagementPortal returns a customer portal link for the caller.
func (s *Service) OpenManagementPortal(ctx context.Context) (*PortalLink, error) {
	p, err := s.callerProfile(ctx)
	if err != nil {
		return nil, err
	}
	if !p.HasCustomer() {
		return nil, ErrNoSubscription
	}

	link, err := s.provider.CreatePortalSession(ctx, p.StripeCustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to create portal session: %w", err)
	}
	if link == nil || link.URL == "" {
		return nil, ErrNoPortalURL
	}
	return link, nil
}

// CancelAtPeriodEnd schedules cancellation on the provider side. The local
// tier changes only when the provider later reports the update or deletion.
func (s *Service) CancelAtPeriodEnd(ctx context.Context) (*Subscription, error) {
	return s.setCancelAtPeriodEnd(ctx, true)
}

// ResumeAtPeriodEnd withdraws a scheduled cancellation.
func (s *Service) ResumeAtPeriodEnd(ctx context.Context) (*Subscription, error) {
	return s.setCancelAtPeriodEnd(ctx, false)
}

func (s *Service) setCancelAtPeriodEnd(ctx context.Context, cancel bool) (*Subscription, error) {
	p, err := s.callerProfile(ctx)
	if err != nil {
		return nil, err
	}
	if !p.HasSubscription() {
		return nil, ErrNoSubscription
	}

	sub, err := s.provider.SetCancelAtPeriodEnd(ctx, p.StripeSubscriptionID, cancel)
	if err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	s.logger.InfoContext(ctx, "cancel at period end updated",
		logger.UserID(p.UserID),
		logger.SubscriptionID(p.StripeSubscriptionID),
		"cancel_at_period_end", cancel,
	)
	return sub, nil
}

// callerProfile loads the caller's profile. A missing row means nothing has
// been purchased yet.
func (s *Service) callerProfile(ctx context.Context) (*profile.Profile, error) {
	user, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.GetByUserID(ctx, user.ID)
	if errors.Is(err, profile.ErrProfileNotFound) {
		return nil, ErrNoSubscription
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return p, nil
}
