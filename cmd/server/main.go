package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/rlyehwallet/billing/internal/db/migrations"
	"github.com/rlyehwallet/billing/pkg/auth"
	"github.com/rlyehwallet/billing/pkg/billing"
	"github.com/rlyehwallet/billing/pkg/config"
	"github.com/rlyehwallet/billing/pkg/httpserver"
	"github.com/rlyehwallet/billing/pkg/logger"
	"github.com/rlyehwallet/billing/pkg/notifications"
	"github.com/rlyehwallet/billing/pkg/pg"
	"github.com/rlyehwallet/billing/pkg/profile"
	"github.com/rlyehwallet/billing/pkg/ratelimiter"
	"github.com/rlyehwallet/billing/pkg/redis"
	"github.com/rlyehwallet/billing/pkg/requestid"
)

func main() {
	cfg, err := config.Load[appConfig]()
	if err != nil {
		slog.Error("failed to load configuration", logger.Error(err))
		os.Exit(1)
	}

	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, serviceName),
		logger.WithContextExtractors(requestid.LogExtractor()),
	}
	if cfg.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			slog.Error("invalid LOG_LEVEL", slog.String("value", cfg.LogLevel), logger.Error(err))
			os.Exit(1)
		}
		opts = append(opts, logger.WithLevel(level))
	}
	log := logger.New(opts...)
	slog.SetDefault(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("service stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()

	if !cfg.PG.SkipMigrations {
		if err := pg.Migrate(ctx, pool, migrations.FS, cfg.PG, log); err != nil {
			return err
		}
	}

	checks := map[string]httpserver.CheckFunc{"postgres": pg.Healthcheck(pool)}

	var (
		ledger    billing.EventLedger     = billing.NewMemoryLedger(billing.WithLedgerTTL(cfg.LedgerTTL))
		deliverer notifications.Deliverer = notifications.NoOpDeliverer{}
	)
	if cfg.Redis.Enabled() {
		rdb, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn("failed to close redis client", logger.Error(err))
			}
		}()
		ledger = billing.NewRedisLedger(rdb, "", cfg.LedgerTTL)
		deliverer = notifications.NewRedisDeliverer(rdb, "")
		checks["redis"] = redis.Healthcheck(rdb)
	} else {
		log.Warn("REDIS_URL is empty, using the in-process event ledger")
	}

	provider, err := billing.NewStripeProvider(cfg.Stripe)
	if err != nil {
		return err
	}

	verifier, err := auth.NewVerifier(cfg.Auth)
	if err != nil {
		return err
	}

	notifier := notifications.NewManager(
		notifications.NewPGStorage(pool),
		notifications.WithManagerLogger(log),
		notifications.WithDeliverer(deliverer),
	)

	svc := billing.NewService(provider, profile.NewPGStore(pool), cfg.Stripe.Prices,
		billing.WithLogger(log),
		billing.WithLedger(ledger),
		billing.WithNotifier(notifier),
	)

	limiter, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), cfg.CheckoutLimit)
	if err != nil {
		return err
	}

	router := newRouter(routerDeps{
		logger:         log,
		verifier:       verifier,
		billing:        svc,
		inbox:          notifier,
		checks:         checks,
		requestTimeout: cfg.RequestTimeout,
		throttle:       ratelimiter.Middleware(limiter, ratelimiter.ByUserOrIP, log),
	})

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, router)
}
