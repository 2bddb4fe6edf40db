package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/rlyehwallet/billing/pkg/auth"
	"github.com/rlyehwallet/billing/pkg/logger"
	"github.com/rlyehwallet/billing/pkg/profile"
)

// CreateCheckoutSession starts an embedded subscription checkout for the
// caller. productID is "<tier>", "<tier>-monthly" or "<tier>-yearly"; a
// suffix overrides period, and an empty period means monthly.
func (s *Service) CreateCheckoutSession(ctx context.Context, productID, period string) (*CheckoutSession, error) {
	user, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	product, billingPeriod, err := s.catalog.ResolveProduct(productID, period)
	if err != nil {
		return nil, errors.Join(ErrInvalidProduct, err)
	}
	if !product.Purchasable() {
		return nil, fmt.Errorf("%w: %s is not purchasable", ErrInvalidProduct, product.ID)
	}

	priceID, err := s.prices.PriceID(product.Tier, billingPeriod)
	if err != nil {
		return nil, err
	}

	customerID, err := s.ensureCustomer(ctx, user)
	if err != nil {
		return nil, err
	}

	session, err := s.provider.CreateCheckoutSession(ctx, CheckoutRequest{
		CustomerID: customerID,
		PriceID:    priceID,
		Metadata: Metadata{
			UserID: user.ID.String(),
			Tier:   product.Tier,
			Period: billingPeriod,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	if session == nil || session.ClientSecret == "" {
		return nil, ErrNoClientSecret
	}

	s.logger.InfoContext(ctx, "checkout session created",
		logger.UserID(user.ID),
		logger.CustomerID(customerID),
		logger.ProductID(product.ID),
		logger.Tier(string(product.Tier)),
	)

	return session, nil
}

// ensureCustomer returns the linked customer id, creating and linking one
// when the profile has none. The profile is re-read first so a retry never
// creates a second customer. Two concurrent first checkouts can still both
// create one; the id stored first wins and the other stays orphaned.
func (s *Service) ensureCustomer(ctx context.Context, user *auth.User) (string, error) {
	p, err := s.profiles.GetByUserID(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to load profile: %w", err)
	}
	if p.HasCustomer() {
		return p.StripeCustomerID, nil
	}

	customerID, err := s.provider.CreateCustomer(ctx, CustomerRequest{
		UserID: user.ID.String(),
		Email:  user.Email,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create customer: %w", err)
	}

	err = s.profiles.LinkCustomer(ctx, user.ID, customerID)
	switch {
	case err == nil:
		s.logger.InfoContext(ctx, "customer linked", logger.UserID(user.ID), logger.CustomerID(customerID))
		return customerID, nil
	case errors.Is(err, profile.ErrCustomerAlreadyLinked):
		stored, getErr := s.profiles.GetByUserID(ctx, user.ID)
		if getErr != nil {
			return "", fmt.Errorf("failed to reload profile: %w", getErr)
		}
		s.logger.WarnContext(ctx, "customer created concurrently, keeping stored id",
			logger.UserID(user.ID),
			logger.CustomerID(stored.StripeCustomerID),
			"orphaned_customer_id", customerID,
		)
		return stored.StripeCustomerID, nil
	default:
		return "", fmt.Errorf("failed to link customer: %w", err)
	}
}
