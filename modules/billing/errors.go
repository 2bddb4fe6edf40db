package billing

import (
	"errors"
	"net/http"

	"github.com/rlyehwallet/billing/core"
	"github.com/rlyehwallet/billing/pkg/billing"
)

var (
	errInvalidProduct   = core.HTTPError{Code: http.StatusBadRequest, Key: "invalid_product", Message: "unknown or non-purchasable product"}
	errInvalidTier      = core.HTTPError{Code: http.StatusBadRequest, Key: "invalid_tier", Message: "unknown tier"}
	errNoSubscription   = core.HTTPError{Code: http.StatusBadRequest, Key: "no_subscription", Message: "no active subscription"}
	errInvalidSignature = core.HTTPError{Code: http.StatusBadRequest, Key: "invalid_signature", Message: "webhook signature verification failed"}
)

// toHTTPError maps service errors to responses. User-facing rejections are
// 4xx; everything else is 500 so the provider retries webhook deliveries.
func toHTTPError(err error) core.HTTPError {
	if httpErr, ok := core.AsHTTPError(err); ok {
		return httpErr
	}
	switch {
	case errors.Is(err, billing.ErrAuthenticationRequired):
		return core.ErrUnauthorized
	case errors.Is(err, billing.ErrInvalidProduct):
		return errInvalidProduct
	case errors.Is(err, billing.ErrNoSubscription):
		return errNoSubscription
	case errors.Is(err, billing.ErrWebhookVerificationFailed):
		return errInvalidSignature
	default:
		return core.ErrInternalServerError
	}
}
