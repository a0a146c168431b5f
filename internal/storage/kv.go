package storage

import "context"

// KV is the minimal key-value surface shared by every backend. Get reports
// absence through the boolean rather than an error. Del removes all provided
// keys in a single call and treats absent keys as a no-op.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, keys ...string) error
}

// Pinger exposes the health-check surface of networked backends.
type Pinger interface {
	Ping(ctx context.Context) error
}
