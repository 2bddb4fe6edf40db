package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rlyehwallet/billing/pkg/logger"
)

// Manager stores notifications and then attempts realtime delivery.
type Manager struct {
	storage   Storage
	deliverer Deliverer
	logger    *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithManagerLogger sets the manager logger. Nil is ignored.
func WithManagerLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithDeliverer sets the realtime deliverer. Nil is ignored.
func WithDeliverer(d Deliverer) ManagerOption {
	return func(m *Manager) {
		if d != nil {
			m.deliverer = d
		}
	}
}

// NewManager returns a Manager over storage. It panics if storage is nil.
func NewManager(storage Storage, opts ...ManagerOption) *Manager {
	if storage == nil {
		panic("notifications: Storage is required")
	}
	m := &Manager{
		storage:   storage,
		deliverer: NoOpDeliverer{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send persists n and delivers it. A duplicate (same dedupe key) is neither
// stored nor delivered again. Delivery failures are logged only, since the
// notification is already available in the inbox.
func (m *Manager) Send(ctx context.Context, n Notification) error {
	if n.UserID == "" {
		return ErrMissingUserID
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	created, err := m.storage.Create(ctx, n)
	if err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}
	if !created {
		m.logger.DebugContext(ctx, "notification already exists",
			logger.UserID(n.UserID),
			slog.String("dedupe_key", n.DedupeKey),
		)
		return nil
	}

	if err := m.deliverer.Deliver(ctx, n); err != nil {
		m.logger.LogAttrs(ctx, slog.LevelWarn, "failed to deliver notification, it was stored",
			slog.String("notification_id", n.ID),
			logger.UserID(n.UserID),
			logger.Error(err),
		)
	}
	return nil
}

// List returns a user's notifications, newest first.
func (m *Manager) List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error) {
	return m.storage.List(ctx, userID, opts)
}

// MarkRead marks the given notifications of userID as read.
func (m *Manager) MarkRead(ctx context.Context, userID string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return m.storage.MarkRead(ctx, userID, ids...)
}

// CountUnread returns the number of unread notifications of userID.
func (m *Manager) CountUnread(ctx context.Context, userID string) (int, error) {
	return m.storage.CountUnread(ctx, userID)
}
