package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rlyehwallet/billing/pkg/logger"
	"github.com/rlyehwallet/billing/pkg/notifications"
	"github.com/rlyehwallet/billing/pkg/profile"
)

// HandleWebhook verifies a raw provider delivery and reconciles it.
// A non-nil error tells the caller to answer with a failure status so the
// provider redelivers the event.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.ParseWebhook(ctx, payload, signature)
	if err != nil {
		s.logger.WarnContext(ctx, "webhook rejected", logger.Error(err))
		return err
	}
	return s.Reconcile(ctx, event)
}

// Reconcile applies a verified event to the matching profile. Every
// transition is idempotent: applying the same event twice leaves the same
// stored state as applying it once.
func (s *Service) Reconcile(ctx context.Context, event *Event) error {
	if event == nil {
		return ErrInvalidEvent
	}

	log := s.logger.With(logger.EventID(event.ID), logger.EventType(string(event.Type)))

	if event.Type == EventIgnored {
		log.DebugContext(ctx, "event ignored", slog.String("provider_type", event.ProviderType))
		return nil
	}

	if event.ID != "" {
		seen, err := s.ledger.Seen(ctx, event.ID)
		if err != nil {
			log.WarnContext(ctx, "event ledger unavailable", logger.Error(err))
		}
		if seen {
			log.InfoContext(ctx, "event already reconciled")
			return nil
		}
	}

	var err error
	switch event.Type {
	case EventCheckoutCompleted:
		err = s.onCheckoutCompleted(ctx, log, event)
	case EventSubscriptionCreated, EventSubscriptionUpdated:
		err = s.onSubscriptionChanged(ctx, log, event)
	case EventSubscriptionDeleted:
		err = s.onSubscriptionDeleted(ctx, log, event)
	case EventInvoicePaymentSucceeded:
		log.InfoContext(ctx, "invoice paid",
			logger.CustomerID(event.CustomerID),
			logger.SubscriptionID(event.SubscriptionID),
			slog.String("invoice_id", event.InvoiceID),
		)
	case EventInvoicePaymentFailed:
		err = s.onPaymentFailed(ctx, log, event)
	default:
		log.WarnContext(ctx, "unknown event type")
		return nil
	}

	if err != nil {
		log.ErrorContext(ctx, "reconciliation failed", logger.Error(err))
		return err
	}

	if event.ID != "" {
		if err := s.ledger.Record(ctx, event.ID); err != nil {
			log.WarnContext(ctx, "failed to record event", logger.Error(err))
		}
	}
	return nil
}

func (s *Service) onCheckoutCompleted(ctx context.Context, log *slog.Logger, event *Event) error {
	if event.SubscriptionID == "" {
		return fmt.Errorf("%w: checkout without subscription", ErrInvalidEvent)
	}

	p, err := s.resolveProfile(ctx, event.Metadata.UserID, event.CustomerID)
	if err != nil {
		return err
	}

	var expiresAt *time.Time
	snapshot, err := s.provider.GetSubscription(ctx, event.SubscriptionID)
	if err != nil {
		log.WarnContext(ctx, "subscription lookup failed, expiry left empty",
			logger.SubscriptionID(event.SubscriptionID),
			logger.Error(errors.Join(ErrLookupFailed, err)),
		)
		snapshot = nil
	} else if snapshot != nil {
		expiresAt = snapshot.CurrentPeriodEnd
	}

	t := event.Metadata.Tier
	if !t.IsPaid() && snapshot != nil {
		t = ClassifyTier(snapshot)
	}
	if !t.IsPaid() {
		return fmt.Errorf("%w: no paid tier for session", ErrInvalidMetadata)
	}

	if !p.HasCustomer() {
		p.StripeCustomerID = event.CustomerID
	}
	p.StartPaid(t, event.SubscriptionID, s.now(), expiresAt)

	if err := s.save(ctx, p); err != nil {
		return err
	}

	log.InfoContext(ctx, "checkout reconciled",
		logger.UserID(p.UserID),
		logger.SubscriptionID(p.StripeSubscriptionID),
		logger.Tier(string(p.Tier)),
	)

	s.notify(ctx, notifications.Notification{
		UserID:    p.UserID.String(),
		Type:      notifications.TypeSubscriptionStarted,
		Title:     "Welcome to " + string(t),
		Content:   "Your " + string(t) + " plan is active.",
		DedupeKey: "subscription_started:" + event.SubscriptionID,
		Data:      map[string]any{"tier": string(t)},
	})
	return nil
}

func (s *Service) onSubscriptionChanged(ctx context.Context, log *slog.Logger, event *Event) error {
	sub := event.Subscription
	if sub == nil {
		return fmt.Errorf("%w: missing subscription", ErrInvalidEvent)
	}

	p, err := s.resolveProfile(ctx, sub.Metadata.UserID, sub.CustomerID)
	if err != nil {
		return err
	}

	classified := ClassifyTier(sub)

	switch {
	case sub.Status.IsActive() && classified.IsPaid():
		p.StartPaid(classified, sub.ID, s.now(), sub.CurrentPeriodEnd)
	case isStale(p, sub.ID):
		log.InfoContext(ctx, "ignoring update for replaced subscription",
			logger.UserID(p.UserID),
			logger.SubscriptionID(sub.ID),
			slog.String("current_subscription_id", p.StripeSubscriptionID),
		)
		return nil
	default:
		p.Lapse(sub.CurrentPeriodEnd)
	}

	if err := s.save(ctx, p); err != nil {
		return err
	}

	log.InfoContext(ctx, "subscription reconciled",
		logger.UserID(p.UserID),
		logger.SubscriptionID(sub.ID),
		logger.Tier(string(p.Tier)),
		slog.String("status", string(sub.Status)),
	)
	return nil
}

func (s *Service) onSubscriptionDeleted(ctx context.Context, log *slog.Logger, event *Event) error {
	sub := event.Subscription
	if sub == nil {
		return fmt.Errorf("%w: missing subscription", ErrInvalidEvent)
	}

	p, err := s.resolveProfile(ctx, sub.Metadata.UserID, sub.CustomerID)
	if err != nil {
		return err
	}

	if isStale(p, sub.ID) {
		log.InfoContext(ctx, "ignoring deletion of replaced subscription",
			logger.UserID(p.UserID),
			logger.SubscriptionID(sub.ID),
			slog.String("current_subscription_id", p.StripeSubscriptionID),
		)
		return nil
	}

	ended := p.Tier
	p.EndSubscription()

	if err := s.save(ctx, p); err != nil {
		return err
	}

	log.InfoContext(ctx, "subscription ended",
		logger.UserID(p.UserID),
		logger.SubscriptionID(sub.ID),
		slog.String("former_tier", string(p.FormerTier)),
	)

	if ended.IsPaid() {
		s.notify(ctx, notifications.Notification{
			UserID:    p.UserID.String(),
			Type:      notifications.TypeSubscriptionEnded,
			Title:     "Subscription ended",
			Content:   "Your " + string(ended) + " plan has ended. Existing reports stay as they are.",
			DedupeKey: "subscription_ended:" + sub.ID,
			Data:      map[string]any{"former_tier": string(ended)},
		})
	}
	return nil
}

func (s *Service) onPaymentFailed(ctx context.Context, log *slog.Logger, event *Event) error {
	p, err := s.resolveProfile(ctx, event.Metadata.UserID, event.CustomerID)
	if err != nil {
		return err
	}

	log.WarnContext(ctx, "invoice payment failed",
		logger.UserID(p.UserID),
		logger.SubscriptionID(event.SubscriptionID),
		slog.String("invoice_id", event.InvoiceID),
	)

	dedupe := ""
	if event.InvoiceID != "" {
		dedupe = "payment_failed:" + event.InvoiceID
	}
	s.notify(ctx, notifications.Notification{
		UserID:    p.UserID.String(),
		Type:      notifications.TypePaymentFailed,
		Title:     "Payment failed",
		Content:   "We could not charge your payment method. Please update it in the billing portal.",
		DedupeKey: dedupe,
		Data: map[string]any{
			"invoice_id": event.InvoiceID,
			"amount_due": event.AmountDue,
			"currency":   event.Currency,
		},
	})
	return nil
}

// resolveProfile looks a profile up by the metadata user id first and the
// provider customer id second.
func (s *Service) resolveProfile(ctx context.Context, userID, customerID string) (*profile.Profile, error) {
	if id, err := uuid.Parse(userID); err == nil {
		p, err := s.profiles.GetByUserID(ctx, id)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, profile.ErrProfileNotFound) {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
	}

	if customerID != "" {
		p, err := s.profiles.GetByCustomerID(ctx, customerID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, profile.ErrProfileNotFound) {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
	}

	return nil, fmt.Errorf("%w: user %q, customer %q", ErrProfileNotResolvable, userID, customerID)
}

func (s *Service) save(ctx context.Context, p *profile.Profile) error {
	if err := s.profiles.SaveEntitlement(ctx, p); err != nil {
		return fmt.Errorf("failed to save entitlement: %w", err)
	}
	return nil
}

// notify is best effort: failures are logged and never returned.
func (s *Service) notify(ctx context.Context, n notifications.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, n); err != nil {
		s.logger.WarnContext(ctx, "failed to send notification",
			logger.UserID(n.UserID),
			slog.String("notification_type", string(n.Type)),
			logger.Error(err),
		)
	}
}

// isStale reports whether the profile already tracks a different subscription.
func isStale(p *profile.Profile, subscriptionID string) bool {
	return p.StripeSubscriptionID != "" && subscriptionID != "" && p.StripeSubscriptionID != subscriptionID
}
