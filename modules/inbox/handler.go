package inbox

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rlyehwallet/billing/core"
	"github.com/rlyehwallet/billing/pkg/auth"
	"github.com/rlyehwallet/billing/pkg/logger"
	"github.com/rlyehwallet/billing/pkg/notifications"
)

const maxPageSize = 100

// Inbox is the read side of *notifications.Manager.
type Inbox interface {
	List(ctx context.Context, userID string, opts notifications.ListOptions) ([]notifications.Notification, error)
	MarkRead(ctx context.Context, userID string, ids ...string) error
	CountUnread(ctx context.Context, userID string) (int, error)
}

// Handler serves the signed-in user's notification inbox.
type Handler struct {
	inbox  Inbox
	logger *slog.Logger
}

// NewHandler returns the inbox API over inbox. It panics if inbox is nil.
func NewHandler(inbox Inbox, log *slog.Logger) *Handler {
	if inbox == nil {
		panic("inbox handler: inbox is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Handler{inbox: inbox, logger: log.With(logger.Component("inbox_http"))}
}

// Handle returns the router to mount under /notifications.
func (h *Handler) Handle() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/unread", h.unread)
	r.Post("/read", h.markRead)
	return r
}

type markReadRequest struct {
	IDs []string `json:"ids"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	opts := notifications.ListOptions{
		Limit:      clamp(atoi(q.Get("limit"), 20), 1, maxPageSize),
		Offset:     max(atoi(q.Get("offset"), 0), 0),
		OnlyUnread: q.Get("unread") == "true",
	}

	items, err := h.inbox.List(r.Context(), user.ID.String(), opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if items == nil {
		items = []notifications.Notification{}
	}
	h.respond(w, r, "notifications", items)
}

func (h *Handler) unread(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}
	count, err := h.inbox.CountUnread(r.Context(), user.ID.String())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, "unread", map[string]int{"count": count})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}
	var req markReadRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.inbox.MarkRead(r.Context(), user.ID.String(), req.IDs...); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, "marked_read", map[string]int{"count": len(req.IDs)})
}

func (h *Handler) user(w http.ResponseWriter, r *http.Request) (*auth.User, bool) {
	user, err := auth.CurrentUser(r.Context())
	if err != nil {
		h.fail(w, r, core.ErrUnauthorized)
		return nil, false
	}
	return user, true
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, code string, data any) {
	if err := core.JSON(w, http.StatusOK, code, data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write response", logger.Error(err))
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if _, ok := core.AsHTTPError(err); !ok {
		h.logger.ErrorContext(r.Context(), "inbox request failed", logger.Error(err))
	}
	_ = core.JSONError(w, err)
}

func atoi(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func clamp(n, lo, hi int) int {
	return min(max(n, lo), hi)
}
