// Package cache keeps short-lived session state behind a small key/value
// interface with per-entry expiry.
package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type Namespace string

const (
	NamespaceAllShips    Namespace = "AllShips"
	NamespaceShootResult Namespace = "ShootResult"
)

type Entry struct {
	Key   string
	Value []byte
}

// Store holds opaque blobs. An entry past its ttl behaves exactly like an
// entry that was never set. SetMany writes all of its entries or none.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	SetMany(ctx context.Context, ttl time.Duration, entries ...Entry) error
	Remove(ctx context.Context, key string) error
}

// Locker is implemented by stores that can serialize work on a key among
// every process sharing the store. The returned func releases the lock.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// Key scopes a caller supplied session key to one kind of state.
func Key(sessionKey string, ns Namespace) string {
	return fmt.Sprintf("%s-%s", sessionKey, ns)
}

type clock func() time.Time
