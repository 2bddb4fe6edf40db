package tier

import "errors"

var (
	ErrUnknownProduct = errors.New("tier: unknown product")
	ErrInvalidPeriod  = errors.New("tier: invalid billing period")

	ErrInvalidCatalog      = errors.New("tier: invalid catalog")
	ErrMissingTier         = errors.New("tier: catalog is missing a tier")
	ErrMissingResource     = errors.New("tier: catalog tier is missing a resource cap")
	ErrNonMonotonicLimits  = errors.New("tier: limits are not monotonic across tiers")
	ErrFreeTierPurchasable = errors.New("tier: free tier must not carry a price")
)
