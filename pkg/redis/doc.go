// Package redis opens a go-redis client with startup retries. The billing
// service uses it for the processed-event ledger and for realtime
// notification fan-out; both degrade to in-process fallbacks when REDIS_URL
// is empty.
package redis
