package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
)

// Typed stores JSON-encoded values of type T in a Store.
type Typed[T any] struct {
	store  Store
	prefix string
}

// NewTyped creates a Typed view of store. Keys are prefix + key.
func NewTyped[T any](store Store, prefix string) *Typed[T] {
	return &Typed[T]{store: store, prefix: prefix}
}

// Load decodes the value at key. A missing key returns (nil, nil).
func (t *Typed[T]) Load(ctx context.Context, key string) (*T, error) {
	raw, ok, err := t.store.Get(ctx, t.prefix+key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("decode %q: %w", t.prefix+key, err)
	}
	return &v, nil
}

// Save encodes v and stores it at key.
func (t *Typed[T]) Save(ctx context.Context, key string, v *T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", t.prefix+key, err)
	}
	return t.store.Set(ctx, t.prefix+key, string(raw))
}

// Delete removes key.
func (t *Typed[T]) Delete(ctx context.Context, key string) error {
	return t.store.Delete(ctx, t.prefix+key)
}
