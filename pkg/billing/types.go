package billing

import (
	"time"
)

// EventType is the provider-neutral event taxonomy the reconciler handles.
type EventType string

const (
	EventCheckoutCompleted       EventType = "checkout_completed"
	EventSubscriptionCreated     EventType = "subscription_created"
	EventSubscriptionUpdated     EventType = "subscription_updated"
	EventSubscriptionDeleted     EventType = "subscription_deleted"
	EventInvoicePaymentSucceeded EventType = "invoice_payment_succeeded"
	EventInvoicePaymentFailed    EventType = "invoice_payment_failed"

	// EventIgnored marks provider events this service does not act on.
	EventIgnored EventType = "ignored"
)

// SubscriptionStatus mirrors the provider's subscription status.
type SubscriptionStatus string

const (
	StatusActive            SubscriptionStatus = "active"
	StatusTrialing          SubscriptionStatus = "trialing"
	StatusPastDue           SubscriptionStatus = "past_due"
	StatusUnpaid            SubscriptionStatus = "unpaid"
	StatusCanceled          SubscriptionStatus = "canceled"
	StatusIncomplete        SubscriptionStatus = "incomplete"
	StatusIncompleteExpired SubscriptionStatus = "incomplete_expired"
	StatusPaused            SubscriptionStatus = "paused"
)

// IsActive reports whether the status grants the paid tier.
// Only "active" counts; every other status downgrades to free.
func (s SubscriptionStatus) IsActive() bool {
	return s == StatusActive
}

// Subscription is a provider subscription snapshot.
type Subscription struct {
	ID                string
	CustomerID        string
	Status            SubscriptionStatus
	Metadata          Metadata
	UnitAmount        int64  // minor units of the first item's price
	Interval          string // provider billing interval, e.g. "month" or "year"
	CurrentPeriodEnd  *time.Time
	CancelAtPeriodEnd bool
}

// Event is a verified provider event normalized for reconciliation.
type Event struct {
	ID             string
	Type           EventType
	ProviderType   string // original provider event name
	CustomerID     string
	SubscriptionID string
	Metadata       Metadata
	Subscription   *Subscription // set for subscription_* events
	InvoiceID      string        // set for invoice_* events
	AmountDue      int64
	Currency       string
	CreatedAt      time.Time
}

// CheckoutSession is what the caller needs to mount the embedded payment form.
type CheckoutSession struct {
	ClientSecret string `json:"client_secret"`
	SessionID    string `json:"session_id"`
}

// PortalLink is a short-lived link to the provider's customer portal.
type PortalLink struct {
	URL string `json:"url"`
}
