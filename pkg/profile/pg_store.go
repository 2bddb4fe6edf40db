package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rlyehwallet/billing/pkg/pg"
	"github.com/rlyehwallet/billing/pkg/tier"
)

// DB is the subset of *pgxpool.Pool used by PGStore.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PGStore reads and updates the entitlement columns of the profiles table.
type PGStore struct {
	db DB
}

// NewPGStore returns a Store over the profiles table. It panics if db is nil.
func NewPGStore(db DB) *PGStore {
	if db == nil {
		panic("profile: DB is required")
	}
	return &PGStore{db: db}
}

const selectProfile = `
	SELECT id, tier, former_tier, stripe_customer_id, stripe_subscription_id,
	       tier_started_at, tier_expires_at, updated_at
	FROM profiles
`

// GetByUserID loads the entitlement columns of a user's profile.
func (s *PGStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return s.get(ctx, selectProfile+`WHERE id = $1`, userID)
}

// GetByCustomerID loads the profile linked to a payment-provider customer.
func (s *PGStore) GetByCustomerID(ctx context.Context, customerID string) (*Profile, error) {
	if customerID == "" {
		return nil, ErrProfileNotFound
	}
	return s.get(ctx, selectProfile+`WHERE stripe_customer_id = $1`, customerID)
}

func (s *PGStore) get(ctx context.Context, query string, arg any) (*Profile, error) {
	var (
		p                                    Profile
		tierValue                            string
		formerTier, customerID, subscription *string
	)

	err := s.db.QueryRow(ctx, query, arg).Scan(
		&p.UserID,
		&tierValue,
		&formerTier,
		&customerID,
		&subscription,
		&p.TierStartedAt,
		&p.TierExpiresAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	p.Tier = tier.Tier(tierValue)
	if formerTier != nil {
		p.FormerTier = tier.Tier(*formerTier)
	}
	if customerID != nil {
		p.StripeCustomerID = *customerID
	}
	if subscription != nil {
		p.StripeSubscriptionID = *subscription
	}
	return &p, nil
}

// LinkCustomer stores customerID only when the profile has none yet.
func (s *PGStore) LinkCustomer(ctx context.Context, userID uuid.UUID, customerID string) error {
	if customerID == "" {
		return ErrMissingCustomerID
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE profiles
		SET stripe_customer_id = $2, updated_at = $3
		WHERE id = $1 AND stripe_customer_id IS NULL
	`, userID, customerID, time.Now().UTC())
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: customer %s belongs to another profile", ErrCustomerAlreadyLinked, customerID)
		}
		return fmt.Errorf("failed to link customer: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// Either the row is missing or a customer is already linked.
	current, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if current.StripeCustomerID == customerID {
		return nil
	}
	return ErrCustomerAlreadyLinked
}

// SaveEntitlement writes the entitlement columns and rebuilds is_pro and is_streamer from Tier.
func (s *PGStore) SaveEntitlement(ctx context.Context, p *Profile) error {
	if p == nil {
		return ErrNilProfile
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE profiles
		SET tier = $2,
		    former_tier = NULLIF($3, ''),
		    stripe_subscription_id = NULLIF($4, ''),
		    tier_started_at = $5,
		    tier_expires_at = $6,
		    is_pro = $7,
		    is_streamer = $8,
		    stripe_customer_id = COALESCE(stripe_customer_id, NULLIF($9, '')),
		    updated_at = $10
		WHERE id = $1
	`,
		p.UserID,
		string(p.Tier),
		string(p.FormerTier),
		p.StripeSubscriptionID,
		p.TierStartedAt,
		p.TierExpiresAt,
		p.IsPro(),
		p.IsStreamer(),
		p.StripeCustomerID,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save entitlement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}
