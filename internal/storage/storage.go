// Package storage is the key-value substrate the application state is persisted to.
package storage

//go:generate mockgen -source=storage.go -destination=mock_storage.go -package=storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get for keys that were never written.
var ErrNotFound = errors.New("storage: key not found")

// KV stores opaque values under string keys.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
