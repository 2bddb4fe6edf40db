package billing

import "github.com/rlyehwallet/billing/pkg/tier"

// Price bands in minor units used when a subscription carries no tier
// metadata, e.g. after a price change made in the provider dashboard.
// This is a best-effort heuristic, not a price lookup.
const (
	yearlyStreamerFloor  int64 = 10000
	yearlyProFloor       int64 = 4000
	monthlyStreamerFloor int64 = 1000
	monthlyProFloor      int64 = 400
)

// ClassifyTier decides which tier a subscription grants: the metadata tier
// when it names a paid tier, otherwise the price band of the first item for
// monthly and yearly intervals, otherwise free.
func ClassifyTier(sub *Subscription) tier.Tier {
	if sub == nil {
		return tier.Free
	}
	if sub.Metadata.Tier.IsPaid() {
		return sub.Metadata.Tier
	}

	switch sub.Interval {
	case "year":
		return band(sub.UnitAmount, yearlyStreamerFloor, yearlyProFloor)
	case "month":
		return band(sub.UnitAmount, monthlyStreamerFloor, monthlyProFloor)
	default:
		return tier.Free
	}
}

func band(amount, streamerFloor, proFloor int64) tier.Tier {
	switch {
	case amount >= streamerFloor:
		return tier.Streamer
	case amount >= proFloor:
		return tier.Pro
	default:
		return tier.Free
	}
}
