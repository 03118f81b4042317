// Copyright (c) 2025 Anil Aygun
// SPDX-License-Identifier: MIT

// Package store provides the key-value storage backends used by the deck
// repository. Values are opaque byte blobs; callers own serialization.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("store: key not found")

// KVStore is a minimal persistent key-value store.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
