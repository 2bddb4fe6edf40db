package billing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// EventLedger remembers provider event ids that were reconciled successfully.
type EventLedger interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Record(ctx context.Context, eventID string) error
}

// NoopLedger remembers nothing; every delivery is reconciled.
type NoopLedger struct{}

func (NoopLedger) Seen(context.Context, string) (bool, error) { return false, nil }
func (NoopLedger) Record(context.Context, string) error       { return nil }

// DefaultLedgerTTL covers the provider's webhook retry window.
const DefaultLedgerTTL = 7 * 24 * time.Hour

// RedisLedger stores processed event ids as expiring keys.
type RedisLedger struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisLedger keys entries as "<prefix><event id>". Zero ttl uses DefaultLedgerTTL.
func NewRedisLedger(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisLedger {
	if client == nil {
		panic("billing: redis client is required")
	}
	if prefix == "" {
		prefix = "billing:event:"
	}
	if ttl <= 0 {
		ttl = DefaultLedgerTTL
	}
	return &RedisLedger{client: client, prefix: prefix, ttl: ttl}
}

// Seen reports whether eventID has an unexpired entry.
func (l *RedisLedger) Seen(ctx context.Context, eventID string) (bool, error) {
	err := l.client.Get(ctx, l.prefix+eventID).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, fmt.Errorf("failed to read event ledger: %w", err)
	}
}

// Record stores eventID with SETNX, so the first expiry wins.
func (l *RedisLedger) Record(ctx context.Context, eventID string) error {
	if err := l.client.SetNX(ctx, l.prefix+eventID, time.Now().UTC().Unix(), l.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write event ledger: %w", err)
	}
	return nil
}

// MemoryLedger is an in-process EventLedger for tests and single-instance
// setups. Entries expire after the ledger TTL like their Redis counterparts.
type MemoryLedger struct {
	mu      sync.Mutex
	expires map[string]time.Time
	ttl     time.Duration
	now     func() time.Time
}

// MemoryLedgerOption configures a MemoryLedger.
type MemoryLedgerOption func(*MemoryLedger)

// WithLedgerTTL sets how long a recorded event id is remembered.
// Non-positive values keep DefaultLedgerTTL.
func WithLedgerTTL(ttl time.Duration) MemoryLedgerOption {
	return func(l *MemoryLedger) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithLedgerClock replaces time.Now.
func WithLedgerClock(now func() time.Time) MemoryLedgerOption {
	return func(l *MemoryLedger) {
		if now != nil {
			l.now = now
		}
	}
}

// NewMemoryLedger returns an empty ledger keeping ids for DefaultLedgerTTL.
func NewMemoryLedger(opts ...MemoryLedgerOption) *MemoryLedger {
	l := &MemoryLedger{
		expires: make(map[string]time.Time),
		ttl:     DefaultLedgerTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *MemoryLedger) Seen(_ context.Context, eventID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	exp, ok := l.expires[eventID]
	return ok && l.now().Before(exp), nil
}

// Record keeps the first expiry of an id, matching SETNX.
func (l *MemoryLedger) Record(_ context.Context, eventID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evictExpired(now)
	if exp, ok := l.expires[eventID]; ok && now.Before(exp) {
		return nil
	}
	l.expires[eventID] = now.Add(l.ttl)
	return nil
}

// Len returns the number of ids held, expired or not.
func (l *MemoryLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.expires)
}

func (l *MemoryLedger) evictExpired(now time.Time) {
	if len(l.expires) < 1024 {
		return
	}
	for id, exp := range l.expires {
		if !now.Before(exp) {
			delete(l.expires, id)
		}
	}
}
