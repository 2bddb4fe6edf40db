package billing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rlyehwallet/billing/core"
	"github.com/rlyehwallet/billing/pkg/billing"
	"github.com/rlyehwallet/billing/pkg/entitlement"
	"github.com/rlyehwallet/billing/pkg/logger"
	"github.com/rlyehwallet/billing/pkg/profile"
	"github.com/rlyehwallet/billing/pkg/tier"
)

// DefaultMaxWebhookBytes caps the webhook body read into memory.
const DefaultMaxWebhookBytes int64 = 64 << 10

// SignatureHeader carries the provider's webhook signature.
const SignatureHeader = "Stripe-Signature"

// Service is the part of *billing.Service the HTTP layer calls.
type Service interface {
	Catalog() *tier.Catalog
	Entitlement(ctx context.Context) (*profile.Profile, error)
	CreateCheckoutSession(ctx context.Context, productID, period string) (*billing.CheckoutSession, error)
	OpenManagementPortal(ctx context.Context) (*billing.PortalLink, error)
	CancelAtPeriodEnd(ctx context.Context) (*billing.Subscription, error)
	ResumeAtPeriodEnd(ctx context.Context) (*billing.Subscription, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// Handler serves the billing endpoints.
type Handler struct {
	svc             Service
	logger          *slog.Logger
	maxWebhookBytes int64
	throttle        []func(http.Handler) http.Handler
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the handler logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithMaxWebhookBytes overrides DefaultMaxWebhookBytes.
func WithMaxWebhookBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxWebhookBytes = n
		}
	}
}

// WithThrottle wraps the endpoints that call the payment provider on the
// caller's behalf. The webhook and read endpoints are not wrapped.
func WithThrottle(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		if mw != nil {
			h.throttle = append(h.throttle, mw)
		}
	}
}

// NewHandler returns the billing API over svc. It panics if svc is nil.
func NewHandler(svc Service, opts ...Option) *Handler {
	if svc == nil {
		panic("billing handler: service is required")
	}
	h := &Handler{
		svc:             svc,
		logger:          slog.Default(),
		maxWebhookBytes: DefaultMaxWebhookBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With(logger.Component("billing_http"))
	return h
}

// Handle returns the router to mount under /billing.
func (h *Handler) Handle() http.Handler {
	r := chi.NewRouter()
	r.Get("/products", h.products)
	r.Get("/entitlements", h.entitlements)
	r.Get("/compare", h.compare)
	r.Post("/webhook", h.webhook)
	r.Group(func(r chi.Router) {
		r.Use(h.throttle...)
		r.Post("/checkout", h.checkout)
		r.Post("/portal", h.portal)
		r.Post("/subscription/cancel", h.cancel)
		r.Post("/subscription/resume", h.resume)
	})
	return r
}

type entitlementResponse struct {
	Tier            tier.Tier   `json:"tier"`
	FormerTier      tier.Tier   `json:"former_tier,omitempty"`
	Limits          tier.Limits `json:"limits"`
	StartedAt       *time.Time  `json:"started_at,omitempty"`
	ExpiresAt       *time.Time  `json:"expires_at,omitempty"`
	HasSubscription bool        `json:"has_subscription"`
}

type checkoutRequest struct {
	ProductID     string `json:"product_id"`
	BillingPeriod string `json:"billing_period"`
}

type subscriptionResponse struct {
	ID                string                     `json:"id"`
	Status            billing.SubscriptionStatus `json:"status"`
	CancelAtPeriodEnd bool                       `json:"cancel_at_period_end"`
	CurrentPeriodEnd  *time.Time                 `json:"current_period_end,omitempty"`
}

func (h *Handler) products(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, "products", h.svc.Catalog().ListProducts())
}

func (h *Handler) entitlements(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Entitlement(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := entitlementResponse{
		Tier:   entitlement.EffectiveTier(p),
		Limits: entitlement.NewResolver(h.svc.Catalog()).LimitsFor(p),
	}
	if p != nil {
		resp.FormerTier = p.FormerTier
		resp.StartedAt = p.TierStartedAt
		resp.ExpiresAt = p.TierExpiresAt
		resp.HasSubscription = p.HasSubscription()
	}
	h.respond(w, r, http.StatusOK, "entitlements", resp)
}

// compare describes what moving from the caller's tier to ?to= changes.
func (h *Handler) compare(w http.ResponseWriter, r *http.Request) {
	target, ok := tier.ParseTier(r.URL.Query().Get("to"))
	if !ok {
		h.fail(w, r, errInvalidTier)
		return
	}

	p, err := h.svc.Entitlement(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resolver := entitlement.NewResolver(h.svc.Catalog())
	h.respond(w, r, http.StatusOK, "comparison", resolver.Compare(entitlement.EffectiveTier(p), target))
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	sess, err := h.svc.CreateCheckoutSession(r.Context(), req.ProductID, req.BillingPeriod)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, "checkout_session", sess)
}

func (h *Handler) portal(w http.ResponseWriter, r *http.Request) {
	link, err := h.svc.OpenManagementPortal(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, "portal", link)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	h.subscriptionUpdate(w, r, h.svc.CancelAtPeriodEnd)
}

func (h *Handler) resume(w http.ResponseWriter, r *http.Request) {
	h.subscriptionUpdate(w, r, h.svc.ResumeAtPeriodEnd)
}

func (h *Handler) subscriptionUpdate(w http.ResponseWriter, r *http.Request, update func(context.Context) (*billing.Subscription, error)) {
	sub, err := update(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, "subscription", subscriptionResponse{
		ID:                sub.ID,
		Status:            sub.Status,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		CurrentPeriodEnd:  sub.CurrentPeriodEnd,
	})
}

func (h *Handler) webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxWebhookBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, r, core.ErrRequestEntityTooLarge)
			return
		}
		h.fail(w, r, core.ErrBadRequest.WithMessage("unreadable body"))
		return
	}

	if err := h.svc.HandleWebhook(r.Context(), payload, r.Header.Get(SignatureHeader)); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, "received", map[string]bool{"received": true})
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, code string, data any) {
	if err := core.JSON(w, status, code, data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write response", logger.Error(err))
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := toHTTPError(err)
	if httpErr.Code >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			logger.Error(err),
		)
	}
	if werr := core.JSONError(w, httpErr); werr != nil {
		h.logger.WarnContext(r.Context(), "failed to write error response", logger.Error(werr))
	}
}
