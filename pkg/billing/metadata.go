package billing

import (
	"github.com/rlyehwallet/billing/pkg/tier"
)

// Metadata keys written on checkout sessions and subscriptions. The reconciler
// reads the same keys back, so they are part of this service's contract.
const (
	MetadataUserID        = "supabase_user_id"
	MetadataTier          = "tier"
	MetadataBillingPeriod = "billing_period"
)

// Metadata links a provider object back to the internal user and the tier
// that was purchased. The three fields are always written together.
type Metadata struct {
	UserID string
	Tier   tier.Tier
	Period tier.BillingPeriod
}

// Valid reports whether all three fields are set and the tier is purchasable.
func (m Metadata) Valid() bool {
	if m.UserID == "" || !m.Tier.IsPaid() {
		return false
	}
	return m.Period == tier.Monthly || m.Period == tier.Yearly
}

// Map renders the metadata for the provider. Invalid metadata renders as nil
// so a partial set is never written.
func (m Metadata) Map() map[string]string {
	if !m.Valid() {
		return nil
	}
	return map[string]string{
		MetadataUserID:        m.UserID,
		MetadataTier:          string(m.Tier),
		MetadataBillingPeriod: string(m.Period),
	}
}

// MetadataFromMap reads whatever subset of the keys is present. Unknown tier
// and period values are dropped.
func MetadataFromMap(raw map[string]string) Metadata {
	m := Metadata{UserID: raw[MetadataUserID]}
	if t, ok := tier.ParseTier(raw[MetadataTier]); ok {
		m.Tier = t
	}
	if p := raw[MetadataBillingPeriod]; p != "" {
		if period, ok := tier.ParsePeriod(p); ok {
			m.Period = period
		}
	}
	return m
}
