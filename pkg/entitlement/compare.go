package entitlement

import (
	"slices"

	"github.com/rlyehwallet/billing/pkg/tier"
)

// Comparison lists the differences between two tiers' cap tables.
// Used to tell a user which additions a downgrade will block.
type Comparison struct {
	From            tier.Tier                     `json:"from"`
	To              tier.Tier                     `json:"to"`
	GainedFeatures  []tier.Feature                `json:"gained_features"`
	LostFeatures    []tier.Feature                `json:"lost_features"`
	IncreasedLimits map[tier.Resource]LimitChange `json:"increased_limits"`
	DecreasedLimits map[tier.Resource]LimitChange `json:"decreased_limits"`
}

// LimitChange is a before/after pair for a single cap.
type LimitChange struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

// IsDowngrade reports whether anything is lost moving between the tiers.
func (c Comparison) IsDowngrade() bool {
	return len(c.LostFeatures) > 0 || len(c.DecreasedLimits) > 0
}

// Compare returns the differences between the embedded catalog's cap tables
// of from and to.
func Compare(from, to tier.Tier) Comparison {
	return defaultResolver.Compare(from, to)
}

// Compare returns the differences between the cap tables of from and to.
func (r *Resolver) Compare(from, to tier.Tier) Comparison {
	current := r.catalog.GetLimits(from)
	target := r.catalog.GetLimits(to)

	c := Comparison{
		From:            current.Tier,
		To:              target.Tier,
		GainedFeatures:  make([]tier.Feature, 0),
		LostFeatures:    make([]tier.Feature, 0),
		IncreasedLimits: make(map[tier.Resource]LimitChange),
		DecreasedLimits: make(map[tier.Resource]LimitChange),
	}

	for _, f := range target.Features {
		if !slices.Contains(current.Features, f) {
			c.GainedFeatures = append(c.GainedFeatures, f)
		}
	}
	for _, f := range current.Features {
		if !slices.Contains(target.Features, f) {
			c.LostFeatures = append(c.LostFeatures, f)
		}
	}

	for _, res := range tier.Resources {
		a, b := current.Cap(res), target.Cap(res)
		switch {
		case a == b:
		case a < b:
			c.IncreasedLimits[res] = LimitChange{From: a, To: b}
		default:
			c.DecreasedLimits[res] = LimitChange{From: a, To: b}
		}
	}

	return c
}
