package tier

import (
	"maps"
	"slices"
)

// Limits is the cap table granted by a tier. It is derived from the catalog
// and never persisted.
type Limits struct {
	Tier     Tier               `json:"tier"`
	Caps     map[Resource]int64 `json:"caps"`
	Features []Feature          `json:"features"`
}

// Cap returns the numeric cap for a resource. Resources the catalog does not
// define are capped at zero.
func (l Limits) Cap(res Resource) int64 {
	return l.Caps[res]
}

// IsUnlimited reports whether res is effectively uncapped.
func (l Limits) IsUnlimited(res Resource) bool {
	return l.Caps[res] >= Unlimited
}

// Has reports whether the feature is unlocked.
func (l Limits) Has(feature Feature) bool {
	return slices.Contains(l.Features, feature)
}

func (l Limits) clone() Limits {
	return Limits{
		Tier:     l.Tier,
		Caps:     maps.Clone(l.Caps),
		Features: slices.Clone(l.Features),
	}
}
