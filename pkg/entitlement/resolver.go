package entitlement

import (
	"github.com/rlyehwallet/billing/pkg/profile"
	"github.com/rlyehwallet/billing/pkg/tier"
)

// Resolver evaluates profiles against one catalog.
type Resolver struct {
	catalog *tier.Catalog
}

// NewResolver binds a resolver to catalog. A nil catalog means the embedded one.
func NewResolver(catalog *tier.Catalog) *Resolver {
	if catalog == nil {
		catalog = tier.Default()
	}
	return &Resolver{catalog: catalog}
}

var defaultResolver = NewResolver(nil)

// EffectiveTier returns the tier enforced for the profile.
// The stored tier is already reconciled server-side, so this is an identity
// projection except for nil profiles and unknown values, which resolve to free.
func EffectiveTier(p *profile.Profile) tier.Tier {
	if p == nil {
		return tier.Free
	}
	t, ok := tier.ParseTier(string(p.Tier))
	if !ok {
		return tier.Free
	}
	return t
}

// LimitsFor returns the cap table for the profile's effective tier.
func (r *Resolver) LimitsFor(p *profile.Profile) tier.Limits {
	return r.catalog.GetLimits(EffectiveTier(p))
}

// CanAdd reports whether one more item of res may be added when currentCount
// items already exist. It never inspects why the count is where it is.
func (r *Resolver) CanAdd(p *profile.Profile, res tier.Resource, currentCount int) error {
	return r.CanAddN(p, res, currentCount, 1)
}

// CanAddN is the batch form of CanAdd, used when a single save adds n items.
func (r *Resolver) CanAddN(p *profile.Profile, res tier.Resource, currentCount, n int) error {
	if n <= 0 {
		return ErrInvalidQuantity
	}
	if int64(currentCount)+int64(n) > r.LimitsFor(p).Cap(res) {
		return ErrLimitExceeded
	}
	return nil
}

// HasFeature reports whether the effective tier unlocks feature.
func (r *Resolver) HasFeature(p *profile.Profile, feature tier.Feature) bool {
	return r.LimitsFor(p).Has(feature)
}

// UsageInfo describes consumption of a single capped resource.
type UsageInfo struct {
	Current   int64 `json:"current"`
	Limit     int64 `json:"limit"`
	Unlimited bool  `json:"unlimited"`
	OverLimit bool  `json:"over_limit"`
}

// Usage reports the count against the cap for res. OverLimit is true when
// existing content exceeds the cap, typically after a downgrade.
func (r *Resolver) Usage(p *profile.Profile, res tier.Resource, currentCount int) UsageInfo {
	limits := r.LimitsFor(p)
	current := int64(currentCount)
	return UsageInfo{
		Current:   current,
		Limit:     limits.Cap(res),
		Unlimited: limits.IsUnlimited(res),
		OverLimit: current > limits.Cap(res),
	}
}

// UsagePercentage returns usage as percentage (0-100, or -1 for unlimited).
// Caps at 100% to prevent UI display issues.
func (r *Resolver) UsagePercentage(p *profile.Profile, res tier.Resource, currentCount int) int {
	u := r.Usage(p, res, currentCount)
	if u.Unlimited {
		return -1
	}
	if u.Limit == 0 {
		return 100
	}
	return int(min((max(u.Current, 0)*100)/u.Limit, 100))
}

// LimitsFor resolves against the embedded catalog.
func LimitsFor(p *profile.Profile) tier.Limits { return defaultResolver.LimitsFor(p) }

// CanAdd checks against the embedded catalog.
func CanAdd(p *profile.Profile, res tier.Resource, currentCount int) error {
	return defaultResolver.CanAdd(p, res, currentCount)
}

// CanAddN checks against the embedded catalog.
func CanAddN(p *profile.Profile, res tier.Resource, currentCount, n int) error {
	return defaultResolver.CanAddN(p, res, currentCount, n)
}

// HasFeature checks against the embedded catalog.
func HasFeature(p *profile.Profile, feature tier.Feature) bool {
	return defaultResolver.HasFeature(p, feature)
}

// Usage reports against the embedded catalog.
func Usage(p *profile.Profile, res tier.Resource, currentCount int) UsageInfo {
	return defaultResolver.Usage(p, res, currentCount)
}

// UsagePercentage reports against the embedded catalog.
func UsagePercentage(p *profile.Profile, res tier.Resource, currentCount int) int {
	return defaultResolver.UsagePercentage(p, res, currentCount)
}
