// Package tier is the static catalog of subscription tiers: the caps each tier
// grants and the products shown on the pricing page.
//
// The catalog is declared in catalog.yaml, embedded at build time and parsed
// once at package initialisation. Parse rejects catalogs whose numeric caps
// decrease from free to pro to streamer, or whose features are granted to a
// lower tier but not a higher one, so every caller can rely on
//
//	GetLimits(tier.Free).Cap(r) <= GetLimits(tier.Pro).Cap(r) <= GetLimits(tier.Streamer).Cap(r)
//
// Lookups are pure and return copies; there is no runtime mutation.
//
//	limits := tier.GetLimits(tier.Pro)
//	if limits.Has(tier.FeatureMarkdown) {
//		// render markdown
//	}
//
//	product, period, err := tier.ResolveProduct("streamer-yearly", "")
package tier
