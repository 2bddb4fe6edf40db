// Package billing connects the tier catalog to the payment provider.
//
// Service covers three flows:
//
//   - CreateCheckoutSession resolves a catalog product, makes sure the caller
//     has exactly one provider customer, and opens an embedded subscription
//     checkout whose metadata names the user, tier and billing period.
//   - HandleWebhook and Reconcile apply verified provider events to the
//     entitlement columns of the matching profile. Transitions are idempotent
//     and processed event ids are kept in an EventLedger.
//   - OpenManagementPortal, CancelAtPeriodEnd and ResumeAtPeriodEnd forward
//     self-service requests. They never change the local tier; that happens
//     when the provider reports the resulting update.
//
// StripeProvider is the PaymentProvider backed by stripe-go.
package billing
