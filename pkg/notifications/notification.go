package notifications

import "time"

// Type names the kind of in-app notification. Stored as text.
type Type string

const (
	TypePaymentFailed       Type = "payment_failed"
	TypeSubscriptionStarted Type = "subscription_started"
	TypeSubscriptionEnded   Type = "subscription_ended"
)

// Notification is a row of the notifications table shown in the app's inbox.
type Notification struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Type      Type           `json:"type"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Data      map[string]any `json:"data,omitempty"`
	DedupeKey string         `json:"-"` // unique per user; empty disables deduplication
	Read      bool           `json:"read"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// MarkAsRead flags the notification read at now.
func (n *Notification) MarkAsRead(now time.Time) {
	n.Read = true
	n.ReadAt = &now
}
