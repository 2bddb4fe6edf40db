package billing

import (
	"context"
)

// PaymentProvider is the payment collaborator. StripeProvider is the
// production implementation; tests substitute a mock.
type PaymentProvider interface {
	CreateCustomer(ctx context.Context, req CustomerRequest) (customerID string, err error)
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	CreatePortalSession(ctx context.Context, customerID string) (*PortalLink, error)
	SetCancelAtPeriodEnd(ctx context.Context, subscriptionID string, cancel bool) (*Subscription, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error)

	// ParseWebhook verifies the signature and normalizes the event.
	// Verification failures wrap ErrWebhookVerificationFailed.
	ParseWebhook(ctx context.Context, payload []byte, signature string) (*Event, error)
}

// CustomerRequest describes a customer to create for an internal user.
type CustomerRequest struct {
	UserID string
	Email  string
}

// CheckoutRequest describes a subscription-mode checkout session.
type CheckoutRequest struct {
	CustomerID string
	PriceID    string
	Metadata   Metadata // copied onto the session and the subscription
}
