package main

import (
	"time"

	"github.com/rlyehwallet/billing/pkg/auth"
	"github.com/rlyehwallet/billing/pkg/billing"
	"github.com/rlyehwallet/billing/pkg/httpserver"
	"github.com/rlyehwallet/billing/pkg/pg"
	"github.com/rlyehwallet/billing/pkg/ratelimiter"
	"github.com/rlyehwallet/billing/pkg/redis"
)

const serviceName = "rlyeh-billing"

type appConfig struct {
	Env            string        `env:"APP_ENV" envDefault:"development"`
	LogLevel       string        `env:"LOG_LEVEL"` // overrides the APP_ENV default when set
	RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	LedgerTTL      time.Duration `env:"BILLING_EVENT_LEDGER_TTL" envDefault:"168h"`

	HTTP   httpserver.Config
	PG     pg.Config
	Redis  redis.Config
	Stripe billing.StripeConfig
	Auth   auth.Config

	CheckoutLimit ratelimiter.Config `envPrefix:"BILLING_RATE_LIMIT_"`
}
