package notifications

import "errors"

var (
	ErrNotificationNotFound = errors.New("notifications: notification not found")
	ErrMissingUserID        = errors.New("notifications: user id is required")
	ErrMissingID            = errors.New("notifications: notification id is required")
)
