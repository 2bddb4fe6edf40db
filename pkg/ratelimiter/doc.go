// Package ratelimiter implements a token bucket limiter and an HTTP
// middleware. The billing API uses it to throttle the calls that reach the
// payment provider on a user's behalf, such as checkout and portal sessions.
//
//	bucket, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), cfg)
//	r.Use(ratelimiter.Middleware(bucket, ratelimiter.ByUserOrIP, log))
package ratelimiter
