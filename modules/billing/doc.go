// Package billing mounts the billing HTTP API: the product catalog, the
// caller's entitlements, embedded checkout, the customer portal,
// cancel and resume at period end, and the provider webhook.
//
//	r.Mount("/billing", billinghttp.NewHandler(svc, billinghttp.WithLogger(log)).Handle())
package billing
