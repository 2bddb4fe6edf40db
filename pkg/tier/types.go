package tier

import "math"

// Tier is a subscription level. Stored on the profile row as plain text.
type Tier string

const (
	Free     Tier = "free"
	Pro      Tier = "pro"
	Streamer Tier = "streamer"
)

// All lists tiers from least to most privileged.
var All = []Tier{Free, Pro, Streamer}

// ParseTier maps a raw string to a known tier.
func ParseTier(s string) (Tier, bool) {
	switch Tier(s) {
	case Free, Pro, Streamer:
		return Tier(s), true
	}
	return "", false
}

// IsPaid reports whether the tier requires a subscription.
func (t Tier) IsPaid() bool {
	return t == Pro || t == Streamer
}

// Rank orders tiers by privilege. Unknown tiers rank with free.
func (t Tier) Rank() int {
	switch t {
	case Streamer:
		return 2
	case Pro:
		return 1
	default:
		return 0
	}
}

func (t Tier) String() string {
	return string(t)
}

// Resource is a countable per-user or per-report item capped by tier.
type Resource string

const (
	ResourceImagesPerReport Resource = "images_per_report"
	ResourceLinksPerReport  Resource = "links_per_report"
	ResourceTagsPerReport   Resource = "tags_per_report"
	ResourceProfileLinks    Resource = "profile_links"
	ResourcePinnedReports   Resource = "pinned_reports"
)

// Resources lists every numeric cap the catalog must define.
var Resources = []Resource{
	ResourceImagesPerReport,
	ResourceLinksPerReport,
	ResourceTagsPerReport,
	ResourceProfileLinks,
	ResourcePinnedReports,
}

// Unlimited is the cap of a resource with no practical limit. It is a finite
// value larger than any real cap, so published limit records compare with
// plain integer ordering. Catalog files spell it "unlimited".
const Unlimited int64 = math.MaxInt32

// Feature is a boolean capability unlocked by a tier.
type Feature string

const (
	FeatureMarkdown     Feature = "markdown"
	FeatureHideAds      Feature = "hide_ads"
	FeatureCustomTheme  Feature = "custom_theme"
	FeatureStreamerCard Feature = "streamer_card"
)

// Features lists every boolean cap known to the catalog.
var Features = []Feature{
	FeatureMarkdown,
	FeatureHideAds,
	FeatureCustomTheme,
	FeatureStreamerCard,
}

// BillingPeriod is the renewal interval of a paid product.
type BillingPeriod string

const (
	Monthly BillingPeriod = "monthly"
	Yearly  BillingPeriod = "yearly"
)

// ParsePeriod maps a raw string to a billing period. Empty input defaults to monthly.
func ParsePeriod(s string) (BillingPeriod, bool) {
	switch BillingPeriod(s) {
	case "":
		return Monthly, true
	case Monthly, Yearly:
		return BillingPeriod(s), true
	}
	return "", false
}
