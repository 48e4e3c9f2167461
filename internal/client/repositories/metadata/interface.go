// Package metadata is the editor's local key/value store.
package metadata

import (
	"context"
)

// Repository stores opaque values under string keys. Get returns
// common.ErrNotFound for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
