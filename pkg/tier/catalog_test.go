package tier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlyehwallet/billing/pkg/tier"
)

func TestGetLimits_Monotonic(t *testing.T) {
	t.Parallel()

	for i := 0; i < len(tier.All); i++ {
		for j := i; j < len(tier.All); j++ {
			lower := tier.GetLimits(tier.All[i])
			higher := tier.GetLimits(tier.All[j])

			for _, res := range tier.Resources {
				assert.LessOrEqual(t, lower.Cap(res), higher.Cap(res),
					"%s %s=%d should not exceed %s %s=%d",
					lower.Tier, res, lower.Cap(res), higher.Tier, res, higher.Cap(res))
				assert.GreaterOrEqual(t, lower.Cap(res), int64(0), "%s %s is negative", lower.Tier, res)
			}
			for _, f := range lower.Features {
				assert.True(t, higher.Has(f), "%s grants %s but %s does not", lower.Tier, f, higher.Tier)
			}
		}
	}
}

func TestGetLimits(t *testing.T) {
	t.Parallel()

	t.Run("free has no boolean features", func(t *testing.T) {
		t.Parallel()
		free := tier.GetLimits(tier.Free)
		for _, f := range tier.Features {
			assert.False(t, free.Has(f), "free should not grant %s", f)
		}
	})

	t.Run("streamer card is streamer only", func(t *testing.T) {
		t.Parallel()
		assert.False(t, tier.GetLimits(tier.Pro).Has(tier.FeatureStreamerCard))
		assert.True(t, tier.GetLimits(tier.Streamer).Has(tier.FeatureStreamerCard))
	})

	t.Run("streamer pins are unlimited", func(t *testing.T) {
		t.Parallel()
		streamer := tier.GetLimits(tier.Streamer)
		assert.True(t, streamer.IsUnlimited(tier.ResourcePinnedReports))
		assert.Equal(t, tier.Unlimited, streamer.Cap(tier.ResourcePinnedReports))
		assert.Greater(t, streamer.Cap(tier.ResourcePinnedReports), tier.GetLimits(tier.Pro).Cap(tier.ResourcePinnedReports))
		assert.False(t, tier.GetLimits(tier.Pro).IsUnlimited(tier.ResourcePinnedReports))
	})

	t.Run("link caps", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, int64(1), tier.GetLimits(tier.Free).Cap(tier.ResourceLinksPerReport))
		assert.Equal(t, int64(20), tier.GetLimits(tier.Pro).Cap(tier.ResourceLinksPerReport))
	})

	t.Run("unknown tier falls back to free", func(t *testing.T) {
		t.Parallel()
		limits := tier.GetLimits(tier.Tier("platinum"))
		assert.Equal(t, tier.Free, limits.Tier)
		assert.Equal(t, tier.GetLimits(tier.Free).Caps, limits.Caps)
	})

	t.Run("returns a copy", func(t *testing.T) {
		t.Parallel()
		limits := tier.GetLimits(tier.Pro)
		limits.Caps[tier.ResourceImagesPerReport] = 1000
		limits.Features = append(limits.Features, tier.FeatureStreamerCard)

		fresh := tier.GetLimits(tier.Pro)
		assert.Equal(t, int64(10), fresh.Cap(tier.ResourceImagesPerReport))
		assert.False(t, fresh.Has(tier.FeatureStreamerCard))
	})
}

func TestListProducts(t *testing.T) {
	t.Parallel()

	products := tier.ListProducts()
	require.Len(t, products, 3)

	assert.Equal(t, "free", products[0].ID)
	assert.Equal(t, "pro", products[1].ID)
	assert.Equal(t, "streamer", products[2].ID)

	assert.False(t, products[0].Purchasable())
	assert.Zero(t, products[0].PriceMonthly)
	assert.Zero(t, products[0].PriceYearly)

	assert.True(t, products[1].Purchasable())
	assert.True(t, products[1].Highlighted)
	assert.Equal(t, int64(480), products[1].Price(tier.Monthly))
	assert.Equal(t, int64(4800), products[1].Price(tier.Yearly))
	assert.Equal(t, int64(12000), products[2].Price(tier.Yearly))

	products[1].Features[0] = "mutated"
	assert.NotEqual(t, "mutated", tier.ListProducts()[1].Features[0])
}

func TestResolveProduct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		productID string
		period    string
		wantID    string
		wantTier  tier.Tier
		want      tier.BillingPeriod
		wantErr   error
	}{
		{name: "monthly suffix", productID: "pro-monthly", wantID: "pro", wantTier: tier.Pro, want: tier.Monthly},
		{name: "yearly suffix", productID: "streamer-yearly", wantID: "streamer", wantTier: tier.Streamer, want: tier.Yearly},
		{name: "suffix overrides argument", productID: "pro-yearly", period: "monthly", wantID: "pro", wantTier: tier.Pro, want: tier.Yearly},
		{name: "bare id with period", productID: "pro", period: "yearly", wantID: "pro", wantTier: tier.Pro, want: tier.Yearly},
		{name: "bare id defaults to monthly", productID: "streamer", wantID: "streamer", wantTier: tier.Streamer, want: tier.Monthly},
		{name: "free resolves", productID: "free", wantID: "free", wantTier: tier.Free, want: tier.Monthly},
		{name: "unknown product", productID: "platinum-monthly", wantErr: tier.ErrUnknownProduct},
		{name: "empty product", productID: "", wantErr: tier.ErrUnknownProduct},
		{name: "invalid period", productID: "pro", period: "weekly", wantErr: tier.ErrInvalidPeriod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			product, period, err := tier.ResolveProduct(tt.productID, tt.period)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, product.ID)
			assert.Equal(t, tt.wantTier, product.Tier)
			assert.Equal(t, tt.want, period)
		})
	}
}

const validCatalog = `
tiers:
  free:
    caps: {images_per_report: 1, links_per_report: 1, tags_per_report: 1, profile_links: 1, pinned_reports: 1}
  pro:
    caps: {images_per_report: 2, links_per_report: 2, tags_per_report: 2, profile_links: 2, pinned_reports: 2}
    features: [markdown]
  streamer:
    caps: {images_per_report: 3, links_per_report: 3, tags_per_report: 3, profile_links: 3, pinned_reports: unlimited}
    features: [markdown, streamer_card]
products:
  - {id: free, tier: free}
  - {id: pro, tier: pro, price_monthly: 100, price_yearly: 1000}
`

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("valid catalog", func(t *testing.T) {
		t.Parallel()
		c, err := tier.Parse([]byte(validCatalog))
		require.NoError(t, err)
		assert.Len(t, c.ListProducts(), 2)
		assert.Equal(t, tier.Unlimited, c.GetLimits(tier.Streamer).Cap(tier.ResourcePinnedReports))
		assert.NotNil(t, c.GetLimits(tier.Free).Features)
	})

	t.Run("rejects decreasing caps", func(t *testing.T) {
		t.Parallel()
		data := `
tiers:
  free:
    caps: {images_per_report: 5, links_per_report: 1, tags_per_report: 1, profile_links: 1, pinned_reports: 1}
  pro:
    caps: {images_per_report: 2, links_per_report: 2, tags_per_report: 2, profile_links: 2, pinned_reports: 2}
  streamer:
    caps: {images_per_report: 3, links_per_report: 3, tags_per_report: 3, profile_links: 3, pinned_reports: 3}
`
		_, err := tier.Parse([]byte(data))
		assert.ErrorIs(t, err, tier.ErrNonMonotonicLimits)
	})

	t.Run("rejects unlimited below a finite cap", func(t *testing.T) {
		t.Parallel()
		data := `
tiers:
  free:
    caps: {images_per_report: 1, links_per_report: 1, tags_per_report: 1, profile_links: 1, pinned_reports: 1}
  pro:
    caps: {images_per_report: unlimited, links_per_report: 2, tags_per_report: 2, profile_links: 2, pinned_reports: 2}
  streamer:
    caps: {images_per_report: 30, links_per_report: 3, tags_per_report: 3, profile_links: 3, pinned_reports: 3}
`
		_, err := tier.Parse([]byte(data))
		assert.ErrorIs(t, err, tier.ErrNonMonotonicLimits)
	})

	t.Run("rejects negative caps", func(t *testing.T) {
		t.Parallel()
		data := `
tiers:
  free:
    caps: {images_per_report: 1, links_per_report: 1, tags_per_report: 1, profile_links: 1, pinned_reports: 1}
  pro:
    caps: {images_per_report: 2, links_per_report: 2, tags_per_report: 2, profile_links: 2, pinned_reports: 2}
  streamer:
    caps: {images_per_report: 3, links_per_report: 3, tags_per_report: 3, profile_links: 3, pinned_reports: -1}
`
		_, err := tier.Parse([]byte(data))
		assert.ErrorIs(t, err, tier.ErrInvalidCatalog)
	})

	t.Run("rejects feature missing from higher tier", func(t *testing.T) {
		t.Parallel()
		data := `
tiers:
  free:
    caps: {images_per_report: 1, links_per_report: 1, tags_per_report: 1, profile_links: 1, pinned_reports: 1}
  pro:
    caps: {images_per_report: 2, links_per_report: 2, tags_per_report: 2, profile_links: 2, pinned_reports: 2}
    features: [markdown]
  streamer:
    caps: {images_per_report: 3, links_per_report: 3, tags_per_report: 3, profile_links: 3, pinned_reports: 3}
`
		_, err := tier.Parse([]byte(data))
		assert.ErrorIs(t, err, tier.ErrNonMonotonicLimits)
	})

	t.Run("rejects missing tier", func(t *testing.T) {
		t.Parallel()
		data := `
tiers:
  free:
    caps: {images_per_report: 1, links_per_report: 1, tags_per_report: 1, profile_links: 1, pinned_reports: 1}
`
		_, err := tier.Parse([]byte(data))
		assert.ErrorIs(t, err, tier.ErrMissingTier)
	})

	t.Run("rejects missing resource", func(t *testing.T) {
		t.Parallel()
		data := `
tiers:
  free:
    caps: {images_per_report: 1}
  pro:
    caps: {images_per_report: 2}
  streamer:
    caps: {images_per_report: 3}
`
		_, err := tier.Parse([]byte(data))
		assert.ErrorIs(t, err, tier.ErrMissingResource)
	})

	t.Run("rejects priced free product", func(t *testing.T) {
		t.Parallel()
		data := validCatalog + "  - {id: free-plus, tier: free, price_monthly: 10}\n"
		_, err := tier.Parse([]byte(data))
		assert.ErrorIs(t, err, tier.ErrFreeTierPurchasable)
	})

	t.Run("rejects duplicate product", func(t *testing.T) {
		t.Parallel()
		data := validCatalog + "  - {id: pro, tier: pro}\n"
		_, err := tier.Parse([]byte(data))
		assert.ErrorIs(t, err, tier.ErrInvalidCatalog)
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		t.Parallel()
		_, err := tier.Parse([]byte("tiers: [unclosed"))
		assert.ErrorIs(t, err, tier.ErrInvalidCatalog)
	})
}

func TestMustParse_Panics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		tier.MustParse([]byte("tiers: {}"))
	})
}
