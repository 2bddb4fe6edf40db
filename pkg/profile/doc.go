// Package profile models the entitlement columns of a user's profile row and
// the storage contract the billing core needs for them.
//
// Only trusted server-side code mutates these fields: the subscription
// reconciler and the checkout flow when it first links a payment-provider
// customer. The is_pro and is_streamer columns are a projection of Tier that
// the store rebuilds on every SaveEntitlement; callers cannot set them.
//
// Two Store implementations are provided: PGStore over a pgx pool and
// MemoryStore for tests and local development.
package profile
