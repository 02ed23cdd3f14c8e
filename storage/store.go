// Package storage persists small JSON values under string keys.
//
// [Store] is the backend contract; [Memory] and [SQLite] implement it.
// [Prefs] wraps a Store with the forgiving semantics the UI wants: reads fall
// back to a default and writes report success instead of failing.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store.Get when the key does not exist.
var ErrNotFound = errors.New("storage: key not found")

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("storage: store is closed")

// Store is a key-value store of JSON-encoded values. Implementations are safe
// for concurrent use.
type Store interface {
	// Get decodes the value stored under key into dst. It returns
	// ErrNotFound when the key does not exist.
	Get(ctx context.Context, key string, dst any) error
	// Set encodes v and stores it under key, replacing any previous value.
	Set(ctx context.Context, key string, v any) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
	// Has reports whether key exists.
	Has(ctx context.Context, key string) (bool, error)
	// Keys returns every key in lexical order.
	Keys(ctx context.Context) ([]string, error)
	// Clear deletes every key.
	Clear(ctx context.Context) error
	// Close releases the store.
	Close() error
}
