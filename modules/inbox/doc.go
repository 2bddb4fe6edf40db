// Package inbox exposes the signed-in user's in-app notifications, such as
// payment failures and subscription changes written by the billing reconciler.
package inbox
