package notifications

import "context"

// Storage persists notifications.
type Storage interface {
	// Create inserts the notification unless one with the same user and
	// dedupe key already exists. created is false for such duplicates.
	Create(ctx context.Context, n Notification) (created bool, err error)

	// List returns a user's notifications, newest first.
	List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error)

	// MarkRead marks the given notifications of a user as read.
	MarkRead(ctx context.Context, userID string, ids ...string) error

	CountUnread(ctx context.Context, userID string) (int, error)
}

// ListOptions provides filtering and pagination for List.
type ListOptions struct {
	Limit      int // 0 = no limit
	Offset     int
	OnlyUnread bool
}
