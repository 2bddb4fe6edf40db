package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool used by PGStorage.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PGStorage stores notifications in the notifications table.
// Deduplication relies on the unique (user_id, dedupe_key) index.
type PGStorage struct {
	db DB
}

// NewPGStorage returns a Storage over the notifications table. It panics if db is nil.
func NewPGStorage(db DB) *PGStorage {
	if db == nil {
		panic("notifications: DB is required")
	}
	return &PGStorage{db: db}
}

// Create inserts n unless the user already has a row with the same dedupe key.
func (s *PGStorage) Create(ctx context.Context, n Notification) (bool, error) {
	if n.ID == "" {
		return false, ErrMissingID
	}
	if n.UserID == "" {
		return false, ErrMissingUserID
	}

	var data []byte
	if len(n.Data) > 0 {
		var err error
		if data, err = json.Marshal(n.Data); err != nil {
			return false, fmt.Errorf("failed to encode notification data: %w", err)
		}
	}

	tag, err := s.db.Exec(ctx, `
		INSERT INTO notifications (id, user_id, type, title, content, data, dedupe_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)
		ON CONFLICT (user_id, dedupe_key) DO NOTHING
	`, n.ID, n.UserID, string(n.Type), n.Title, n.Content, data, n.DedupeKey, n.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert notification: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PGStorage) List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error) {
	limit := any(nil)
	if opts.Limit > 0 {
		limit = opts.Limit
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, type, title, content, data, read_at, created_at
		FROM notifications
		WHERE user_id = $1 AND (NOT $2 OR read_at IS NULL)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, userID, opts.OnlyUnread, limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Notification, error) {
		var (
			n    Notification
			typ  string
			data []byte
		)
		if err := row.Scan(&n.ID, &n.UserID, &typ, &n.Title, &n.Content, &data, &n.ReadAt, &n.CreatedAt); err != nil {
			return n, err
		}
		n.Type = Type(typ)
		n.Read = n.ReadAt != nil
		if len(data) > 0 {
			if err := json.Unmarshal(data, &n.Data); err != nil {
				return n, err
			}
		}
		return n, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan notifications: %w", err)
	}
	return items, nil
}

func (s *PGStorage) MarkRead(ctx context.Context, userID string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.db.Exec(ctx, `
		UPDATE notifications
		SET read_at = $3
		WHERE user_id = $1 AND id = ANY($2) AND read_at IS NULL
	`, userID, ids, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (s *PGStorage) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, `
		SELECT count(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}
