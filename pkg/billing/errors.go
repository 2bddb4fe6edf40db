package billing

import "errors"

var (
	// Caller-facing rejections.
	ErrAuthenticationRequired = errors.New("billing: authentication required")
	ErrInvalidProduct         = errors.New("billing: invalid product")
	ErrNoSubscription         = errors.New("billing: no subscription")

	// Reconciliation failures. The webhook is retried upstream.
	ErrProfileNotResolvable = errors.New("billing: no profile matches event")
	ErrInvalidEvent         = errors.New("billing: malformed event")
	ErrInvalidMetadata      = errors.New("billing: checkout metadata is incomplete")

	// Logged and degraded, never returned from reconciliation.
	ErrLookupFailed = errors.New("billing: provider lookup failed")

	ErrPriceNotConfigured        = errors.New("billing: price id not configured")
	ErrWebhookVerificationFailed = errors.New("billing: webhook signature verification failed")
	ErrNoClientSecret            = errors.New("billing: provider returned no client secret")
	ErrNoPortalURL               = errors.New("billing: provider returned no portal url")
	ErrMissingAPIKey             = errors.New("billing: stripe secret key is required")
	ErrMissingWebhookSecret      = errors.New("billing: stripe webhook secret is required")
)
