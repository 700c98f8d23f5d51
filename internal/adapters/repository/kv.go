// Package repository persists the raid log in a key-value store.
package repository

import "context"

// KV is a string-keyed blob store. Get returns ErrNotFound for absent keys.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, keys ...string) error
	Close() error
}
