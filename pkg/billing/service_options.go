package billing

import (
	"log/slog"
	"time"

	"github.com/rlyehwallet/billing/pkg/tier"
)

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger. Nil is ignored.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithUserResolver replaces auth.CurrentUser as the source of the caller.
func WithUserResolver(r UserResolver) ServiceOption {
	return func(s *Service) {
		if r != nil {
			s.currentUser = r
		}
	}
}

// WithLedger records processed event ids so redeliveries are acknowledged
// without touching storage.
func WithLedger(l EventLedger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.ledger = l
		}
	}
}

// WithNotifier enables user notifications, e.g. on failed payments.
func WithNotifier(n Notifier) ServiceOption {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithCatalog replaces the embedded tier catalog. Nil is ignored.
func WithCatalog(c *tier.Catalog) ServiceOption {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithClock overrides time.Now, used for tier_started_at.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
