package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	billinghttp "github.com/rlyehwallet/billing/modules/billing"
	"github.com/rlyehwallet/billing/modules/inbox"
	"github.com/rlyehwallet/billing/pkg/auth"
	"github.com/rlyehwallet/billing/pkg/httpserver"
	"github.com/rlyehwallet/billing/pkg/requestid"
)

type routerDeps struct {
	logger         *slog.Logger
	verifier       auth.TokenVerifier
	billing        billinghttp.Service
	inbox          inbox.Inbox
	checks         map[string]httpserver.CheckFunc
	requestTimeout time.Duration
	throttle       func(http.Handler) http.Handler
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if d.requestTimeout > 0 {
		r.Use(middleware.Timeout(d.requestTimeout))
	}

	r.Get("/health/live", httpserver.Liveness())
	r.Get("/health/ready", httpserver.Readiness(d.logger, 5*time.Second, d.checks))

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(d.verifier, d.logger))
		r.Mount("/billing", billinghttp.NewHandler(d.billing,
			billinghttp.WithLogger(d.logger),
			billinghttp.WithThrottle(d.throttle),
		).Handle())
		r.Mount("/notifications", inbox.NewHandler(d.inbox, d.logger).Handle())
	})

	return r
}
