package profile

import (
	"context"

	"github.com/google/uuid"
)

// Store persists the entitlement columns of profile rows.
// Rows are created at signup by the app; the store only reads and updates them.
type Store interface {
	// GetByUserID returns ErrProfileNotFound when no row exists.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)

	// GetByCustomerID looks a profile up by its linked payment-provider customer.
	// Returns ErrProfileNotFound when no row carries the customer id.
	GetByCustomerID(ctx context.Context, customerID string) (*Profile, error)

	// LinkCustomer stores the customer id only when none is set yet.
	// Returns ErrCustomerAlreadyLinked when a different id is already stored.
	LinkCustomer(ctx context.Context, userID uuid.UUID, customerID string) error

	// SaveEntitlement writes tier, former tier, subscription id, timestamps and
	// the is_pro/is_streamer projection in a single row update.
	// The customer id is written only if the row has none.
	SaveEntitlement(ctx context.Context, p *Profile) error
}
