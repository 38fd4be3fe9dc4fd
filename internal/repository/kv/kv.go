// Package kv provides the durable string-valued key-value medium the
// persistence adapter mirrors the store into.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("kv: key not found")

// Repository defines the operations every storage driver supports.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close(ctx context.Context) error
}
