package tier

import (
	"slices"
	"strings"
)

// Product is a catalog entry shown on the pricing page.
// Prices are in minor units of Currency (JPY has no fractional unit).
type Product struct {
	ID           string   `json:"id" yaml:"id"`
	Tier         Tier     `json:"tier" yaml:"tier"`
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description" yaml:"description"`
	PriceMonthly int64    `json:"price_monthly" yaml:"price_monthly"`
	PriceYearly  int64    `json:"price_yearly" yaml:"price_yearly"`
	Currency     string   `json:"currency" yaml:"currency"`
	Features     []string `json:"features" yaml:"features"`
	Highlighted  bool     `json:"highlighted" yaml:"highlighted"`
}

// Purchasable reports whether the product can go through checkout.
func (p Product) Purchasable() bool {
	return p.Tier.IsPaid()
}

// Price returns the price for the given period.
func (p Product) Price(period BillingPeriod) int64 {
	if period == Yearly {
		return p.PriceYearly
	}
	return p.PriceMonthly
}

func (p Product) clone() Product {
	p.Features = slices.Clone(p.Features)
	return p
}

// splitProductID separates the "<id>-monthly" / "<id>-yearly" suffix convention
// from a bare product id.
func splitProductID(productID string) (string, BillingPeriod) {
	for _, period := range []BillingPeriod{Monthly, Yearly} {
		if id, ok := strings.CutSuffix(productID, "-"+string(period)); ok {
			return id, period
		}
	}
	return productID, ""
}
