package profile

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store for tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]Profile
}

// NewMemoryStore returns a store seeded with copies of the given profiles.
func NewMemoryStore(profiles ...Profile) *MemoryStore {
	s := &MemoryStore{profiles: make(map[uuid.UUID]Profile, len(profiles))}
	for _, p := range profiles {
		s.profiles[p.UserID] = copyProfile(p)
	}
	return s
}

func (s *MemoryStore) GetByUserID(_ context.Context, userID uuid.UUID) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	out := copyProfile(p)
	return &out, nil
}

func (s *MemoryStore) GetByCustomerID(_ context.Context, customerID string) (*Profile, error) {
	if customerID == "" {
		return nil, ErrProfileNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.profiles {
		if p.StripeCustomerID == customerID {
			out := copyProfile(p)
			return &out, nil
		}
	}
	return nil, ErrProfileNotFound
}

func (s *MemoryStore) LinkCustomer(_ context.Context, userID uuid.UUID, customerID string) error {
	if customerID == "" {
		return ErrMissingCustomerID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		return ErrProfileNotFound
	}
	switch p.StripeCustomerID {
	case "":
		p.StripeCustomerID = customerID
		p.UpdatedAt = time.Now().UTC()
		s.profiles[userID] = p
		return nil
	case customerID:
		return nil
	default:
		return ErrCustomerAlreadyLinked
	}
}

func (s *MemoryStore) SaveEntitlement(_ context.Context, p *Profile) error {
	if p == nil {
		return ErrNilProfile
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.profiles[p.UserID]
	if !ok {
		return ErrProfileNotFound
	}

	next := copyProfile(*p)
	if stored.StripeCustomerID != "" {
		next.StripeCustomerID = stored.StripeCustomerID
	}
	next.UpdatedAt = time.Now().UTC()
	s.profiles[p.UserID] = next
	return nil
}

// Put inserts or replaces a profile row, standing in for the app's signup flow.
func (s *MemoryStore) Put(p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = copyProfile(p)
}

func copyProfile(p Profile) Profile {
	if p.TierStartedAt != nil {
		v := *p.TierStartedAt
		p.TierStartedAt = &v
	}
	if p.TierExpiresAt != nil {
		v := *p.TierExpiresAt
		p.TierExpiresAt = &v
	}
	return p
}
