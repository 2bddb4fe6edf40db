// Package entitlement turns a stored profile into the tier and caps enforced
// right now.
//
// Resolution never fails: a missing profile or an unknown stored tier
// resolves to free. Limit checks only gate additions. Content that already
// exceeds a cap after a downgrade is left in place, and the next addition is
// refused until the count falls under the cap again:
//
//	if err := entitlement.CanAdd(p, tier.ResourceLinksPerReport, len(report.Links)); err != nil {
//		return err // entitlement.ErrLimitExceeded
//	}
package entitlement
