package store

import (
	"context"
	"errors"
	"time"
)

// Namespace separates the three key spaces the indexer writes to. Each
// namespace is isolated: the same key in two namespaces names two values.
type Namespace string

const (
	// Aggregates holds daily volume/fee buckets, cursors, date2block
	// anchors and the skipped-block ledger.
	Aggregates Namespace = "aggregates"
	// Prices holds (cgid, date) and (chain:address, date) price points
	// plus the missing-price set.
	Prices Namespace = "prices"
	// Queue holds scheduler locks and transient coordination state.
	Queue Namespace = "queue"
)

// ErrNotFound is returned by Get for absent keys.
var ErrNotFound = errors.New("store: key not found")

// KV is the storage contract the indexer, oracle and query layers share.
// Keys are colon-delimited strings; values are opaque strings (decimal
// strings or small JSON documents). Patterns use glob syntax where '*'
// matches any run and '?' a single character.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// SetNX writes only if the key is absent and reports whether it won.
	SetNX(ctx context.Context, key, value string) (bool, error)
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, pattern string) ([]string, error)

	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)

	// RPush appends to a list; LRange reads the whole list in order.
	RPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string) ([]string, error)

	// AcquireLock takes a named lock for ttl. It reports false when
	// another holder owns an unexpired lock. Expired locks are claimable.
	AcquireLock(ctx context.Context, name, holder string, ttl time.Duration) (bool, error)
	// ReleaseLock frees the lock if held by holder; releasing a lock
	// someone else holds is a no-op.
	ReleaseLock(ctx context.Context, name, holder string) error
}
