package notifications

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStorage keeps notifications in process. Suitable for tests and local development.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string][]Notification // user id -> notifications
}

// NewMemoryStorage returns an empty in-process Storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string][]Notification)}
}

func (s *MemoryStorage) Create(_ context.Context, n Notification) (bool, error) {
	if n.ID == "" {
		return false, ErrMissingID
	}
	if n.UserID == "" {
		return false, ErrMissingUserID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if n.DedupeKey != "" {
		for _, existing := range s.items[n.UserID] {
			if existing.DedupeKey == n.DedupeKey {
				return false, nil
			}
		}
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	s.items[n.UserID] = append(s.items[n.UserID], n)
	return true, nil
}

func (s *MemoryStorage) List(_ context.Context, userID string, opts ListOptions) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Notification, 0, len(s.items[userID]))
	for _, n := range s.items[userID] {
		if opts.OnlyUnread && n.Read {
			continue
		}
		out = append(out, n)
	}

	slices.SortStableFunc(out, func(a, b Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	if opts.Offset >= len(out) {
		return []Notification{}, nil
	}
	out = out[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (s *MemoryStorage) MarkRead(_ context.Context, userID string, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	items := s.items[userID]
	for i := range items {
		if slices.Contains(ids, items[i].ID) && !items[i].Read {
			items[i].MarkAsRead(now)
		}
	}
	return nil
}

func (s *MemoryStorage) CountUnread(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.items[userID] {
		if !n.Read {
			count++
		}
	}
	return count, nil
}
