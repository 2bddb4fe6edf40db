// Package logger builds *slog.Logger values for the billing service.
//
// New takes functional options: WithEnvironment picks level and format per
// deployment, WithContextValue injects request-scoped values such as the
// request id, and the helpers in attr.go keep attribute keys consistent
// across packages:
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.AppEnv, "rlyeh-billing"),
//		logger.WithContextExtractors(requestid.LogExtractor()),
//	)
//	log.InfoContext(ctx, "subscription reconciled",
//		logger.UserID(p.UserID),
//		logger.SubscriptionID(p.StripeSubscriptionID),
//		logger.Tier(string(p.Tier)),
//	)
package logger
