package billing

import (
	"fmt"

	"github.com/rlyehwallet/billing/pkg/tier"
)

// PriceBook maps purchasable tier and period pairs to provider price ids.
type PriceBook struct {
	ProMonthly      string `env:"STRIPE_PRICE_PRO_MONTHLY"`
	ProYearly       string `env:"STRIPE_PRICE_PRO_YEARLY"`
	StreamerMonthly string `env:"STRIPE_PRICE_STREAMER_MONTHLY"`
	StreamerYearly  string `env:"STRIPE_PRICE_STREAMER_YEARLY"`
}

// PriceID returns the configured price or ErrPriceNotConfigured.
func (b PriceBook) PriceID(t tier.Tier, period tier.BillingPeriod) (string, error) {
	var id string
	switch {
	case t == tier.Pro && period == tier.Monthly:
		id = b.ProMonthly
	case t == tier.Pro && period == tier.Yearly:
		id = b.ProYearly
	case t == tier.Streamer && period == tier.Monthly:
		id = b.StreamerMonthly
	case t == tier.Streamer && period == tier.Yearly:
		id = b.StreamerYearly
	}
	if id == "" {
		return "", fmt.Errorf("%w: %s %s", ErrPriceNotConfigured, t, period)
	}
	return id, nil
}
