package profile

import (
	"time"

	"github.com/google/uuid"

	"github.com/rlyehwallet/billing/pkg/tier"
)

// Profile carries the entitlement columns of a user's profile row.
// Everything else on the row (display name, avatar, bio) belongs to the app
// and is never read or written here.
type Profile struct {
	UserID               uuid.UUID // primary key, same id as the auth user
	Tier                 tier.Tier // stored, already-reconciled tier
	FormerTier           tier.Tier // last paid tier after a downgrade; empty when absent
	StripeCustomerID     string    // set once, never rotated
	StripeSubscriptionID string    // empty when no paid subscription is known
	TierStartedAt        *time.Time
	TierExpiresAt        *time.Time // mirrors the provider's current period end
	UpdatedAt            time.Time
}

// IsPro reports whether the tier grants pro capabilities. Streamer includes pro.
// The persisted is_pro column is written from this value on every save.
func (p *Profile) IsPro() bool {
	return p != nil && p.Tier.IsPaid()
}

// IsStreamer reports whether the tier is streamer.
func (p *Profile) IsStreamer() bool {
	return p != nil && p.Tier == tier.Streamer
}

// HasCustomer reports whether a payment-provider customer is linked.
func (p *Profile) HasCustomer() bool {
	return p != nil && p.StripeCustomerID != ""
}

// HasSubscription reports whether a paid subscription is linked.
func (p *Profile) HasSubscription() bool {
	return p != nil && p.StripeSubscriptionID != ""
}

// StartPaid moves the profile onto a paid tier. The former tier is cleared
// because a new paid subscription began. TierStartedAt is only reset when the
// subscription id changes, so applying the same event twice is a no-op.
func (p *Profile) StartPaid(t tier.Tier, subscriptionID string, now time.Time, expiresAt *time.Time) {
	if subscriptionID != p.StripeSubscriptionID || p.TierStartedAt == nil {
		started := now.UTC()
		p.TierStartedAt = &started
	}
	p.Tier = t
	p.FormerTier = ""
	p.StripeSubscriptionID = subscriptionID
	p.TierExpiresAt = utc(expiresAt)
}

// Lapse sets the tier to free while keeping the subscription link and the
// period end for display. Used when the provider reports a non-active status.
func (p *Profile) Lapse(expiresAt *time.Time) {
	p.Tier = tier.Free
	p.TierExpiresAt = utc(expiresAt)
}

// EndSubscription downgrades to free after the subscription is gone,
// remembering the last paid tier for display.
func (p *Profile) EndSubscription() {
	if p.Tier.IsPaid() {
		p.FormerTier = p.Tier
	}
	p.Tier = tier.Free
	p.StripeSubscriptionID = ""
	p.TierExpiresAt = nil
}

func utc(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.UTC()
	return &v
}
