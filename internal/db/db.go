// Package db defines the narrow storage facade consumed by the
// repositories. Two drivers implement it: redis (rueidis) and memory.
package db

import (
	"context"
	"time"
)

// Store is the database facade combining all sub-interfaces.
// Consumers depend on the narrow sub-interfaces, never on a concrete driver.
type Store interface {
	Pinger
	JSONStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// JSONStore provides JSON document operations keyed by string.
type JSONStore interface {
	JSONSet(ctx context.Context, key string, data []byte) error
	JSONGet(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}
