package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// StripeConfig is loaded from the environment by the process.
type StripeConfig struct {
	SecretKey         string `env:"STRIPE_SECRET_KEY,required"`
	WebhookSecret     string `env:"STRIPE_WEBHOOK_SECRET,required"`
	CheckoutReturnURL string `env:"STRIPE_CHECKOUT_RETURN_URL" envDefault:"http://localhost:3000/billing/complete?session_id={CHECKOUT_SESSION_ID}"`
	PortalReturnURL   string `env:"STRIPE_PORTAL_RETURN_URL" envDefault:"http://localhost:3000/settings/billing"`
	Prices            PriceBook
}

const checkoutUIModeEmbedded = "embedded"

// StripeProvider implements PaymentProvider with an injected Stripe client.
type StripeProvider struct {
	api               *client.API
	webhookSecret     string
	checkoutReturnURL string
	portalReturnURL   string
}

// StripeOption configures a StripeProvider.
type StripeOption func(*stripeOptions)

type stripeOptions struct {
	backends *stripe.Backends
}

// WithStripeBackends points the client at custom backends, e.g. a test server.
func WithStripeBackends(b *stripe.Backends) StripeOption {
	return func(o *stripeOptions) { o.backends = b }
}

// NewStripeProvider returns a provider with its own API client. The secret key
// and webhook secret are required.
func NewStripeProvider(cfg StripeConfig, opts ...StripeOption) (*StripeProvider, error) {
	if cfg.SecretKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.WebhookSecret == "" {
		return nil, ErrMissingWebhookSecret
	}

	var o stripeOptions
	for _, opt := range opts {
		opt(&o)
	}

	return &StripeProvider{
		api:               client.New(cfg.SecretKey, o.backends),
		webhookSecret:     cfg.WebhookSecret,
		checkoutReturnURL: cfg.CheckoutReturnURL,
		portalReturnURL:   cfg.PortalReturnURL,
	}, nil
}

// CreateCustomer creates a customer tagged with the user id.
func (p *StripeProvider) CreateCustomer(ctx context.Context, req CustomerRequest) (string, error) {
	params := &stripe.CustomerParams{
		Metadata: map[string]string{MetadataUserID: req.UserID},
	}
	if req.Email != "" {
		params.Email = stripe.String(req.Email)
	}
	params.Context = ctx

	cust, err := p.api.Customers.New(params)
	if err != nil {
		return "", err
	}
	return cust.ID, nil
}

// CreateCheckoutSession opens an embedded subscription-mode session.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	metadata := req.Metadata.Map()
	if metadata == nil {
		return nil, ErrInvalidMetadata
	}

	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		UIMode:   stripe.String(checkoutUIModeEmbedded),
		Customer: stripe.String(req.CustomerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		ReturnURL: stripe.String(p.checkoutReturnURL),
		Metadata:  metadata,
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: metadata,
		},
	}
	params.Context = ctx

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, err
	}
	return &CheckoutSession{ClientSecret: sess.ClientSecret, SessionID: sess.ID}, nil
}

// CreatePortalSession returns a billing portal link for customerID.
func (p *StripeProvider) CreatePortalSession(ctx context.Context, customerID string) (*PortalLink, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(p.portalReturnURL),
	}
	params.Context = ctx

	sess, err := p.api.BillingPortalSessions.New(params)
	if err != nil {
		return nil, err
	}
	return &PortalLink{URL: sess.URL}, nil
}

// SetCancelAtPeriodEnd toggles cancel_at_period_end on the subscription.
func (p *StripeProvider) SetCancelAtPeriodEnd(ctx context.Context, subscriptionID string, cancel bool) (*Subscription, error) {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(cancel),
	}
	params.Context = ctx

	sub, err := p.api.Subscriptions.Update(subscriptionID, params)
	if err != nil {
		return nil, err
	}
	return fromStripeSubscription(sub), nil
}

// GetSubscription retrieves a subscription snapshot.
func (p *StripeProvider) GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := p.api.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return nil, err
	}
	return fromStripeSubscription(sub), nil
}

// ParseWebhook verifies the Stripe-Signature header and maps the event.
func (p *StripeProvider) ParseWebhook(_ context.Context, payload []byte, signature string) (*Event, error) {
	evt, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		return nil, errors.Join(ErrWebhookVerificationFailed, err)
	}
	return fromStripeEvent(evt)
}

func fromStripeEvent(evt stripe.Event) (*Event, error) {
	out := &Event{
		ID:           evt.ID,
		Type:         EventIgnored,
		ProviderType: string(evt.Type),
		CreatedAt:    time.Unix(evt.Created, 0).UTC(),
	}
	if evt.Data == nil {
		return nil, fmt.Errorf("%w: event without data", ErrInvalidEvent)
	}

	switch string(evt.Type) {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(evt.Data.Raw, &sess); err != nil {
			return nil, errors.Join(ErrInvalidEvent, err)
		}
		if sess.Mode != stripe.CheckoutSessionModeSubscription {
			return out, nil
		}
		out.Type = EventCheckoutCompleted
		out.Metadata = MetadataFromMap(sess.Metadata)
		if sess.Customer != nil {
			out.CustomerID = sess.Customer.ID
		}
		if sess.Subscription != nil {
			out.SubscriptionID = sess.Subscription.ID
		}

	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(evt.Data.Raw, &sub); err != nil {
			return nil, errors.Join(ErrInvalidEvent, err)
		}
		switch string(evt.Type) {
		case "customer.subscription.created":
			out.Type = EventSubscriptionCreated
		case "customer.subscription.updated":
			out.Type = EventSubscriptionUpdated
		default:
			out.Type = EventSubscriptionDeleted
		}
		out.Subscription = fromStripeSubscription(&sub)
		out.SubscriptionID = out.Subscription.ID
		out.CustomerID = out.Subscription.CustomerID
		out.Metadata = out.Subscription.Metadata

	case "invoice.payment_succeeded", "invoice.payment_failed":
		var inv stripe.Invoice
		if err := json.Unmarshal(evt.Data.Raw, &inv); err != nil {
			return nil, errors.Join(ErrInvalidEvent, err)
		}
		out.Type = EventInvoicePaymentSucceeded
		if string(evt.Type) == "invoice.payment_failed" {
			out.Type = EventInvoicePaymentFailed
		}
		out.InvoiceID = inv.ID
		out.AmountDue = inv.AmountDue
		out.Currency = string(inv.Currency)
		if inv.Customer != nil {
			out.CustomerID = inv.Customer.ID
		}
		if inv.Subscription != nil {
			out.SubscriptionID = inv.Subscription.ID
		}
		if inv.SubscriptionDetails != nil {
			out.Metadata = MetadataFromMap(inv.SubscriptionDetails.Metadata)
		}
	}

	return out, nil
}

func fromStripeSubscription(sub *stripe.Subscription) *Subscription {
	if sub == nil {
		return nil
	}
	out := &Subscription{
		ID:                sub.ID,
		Status:            SubscriptionStatus(sub.Status),
		Metadata:          MetadataFromMap(sub.Metadata),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	if sub.CurrentPeriodEnd > 0 {
		end := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
		out.CurrentPeriodEnd = &end
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		if price := sub.Items.Data[0].Price; price != nil {
			out.UnitAmount = price.UnitAmount
			if price.Recurring != nil {
				out.Interval = string(price.Recurring.Interval)
			}
		}
	}
	return out
}
