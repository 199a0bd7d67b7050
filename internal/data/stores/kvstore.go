// Package stores implements the core storage contracts on SQLite.
package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/colonyops/jobcheck/internal/core/kv"
	"github.com/colonyops/jobcheck/internal/data/db"
)

// KVStore implements kv.KV using SQLite.
type KVStore struct {
	db *db.DB
}

var _ kv.KV = (*KVStore)(nil)

// NewKVStore creates a new SQLite-backed KV store.
func NewKVStore(db *db.DB) *KVStore {
	return &KVStore{db: db}
}

// Get retrieves and deserializes a value by key.
// Returns an error wrapping kv.ErrNotFound if the key does not exist.
func (s *KVStore) Get(ctx context.Context, key string, dest any) error {
	row, err := s.db.Queries().KVGet(ctx, key)
	if IsNotFoundError(err) {
		return fmt.Errorf("kv get %q: %w", key, kv.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("kv get %q: %w", key, err)
	}

	if err := json.Unmarshal(row.Value, dest); err != nil {
		return fmt.Errorf("kv get %q unmarshal: %w", key, err)
	}

	return nil
}

// Set stores a value, replacing any previous value for the key.
func (s *KVStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv set %q marshal: %w", key, err)
	}

	now := time.Now().UnixNano()
	err = retryBusy(ctx, func() error {
		return s.db.Queries().KVSet(ctx, db.KVSetParams{
			Key:       key,
			Value:     data,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}

	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := retryBusy(ctx, func() error { return s.db.Queries().KVDelete(ctx, key) }); err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

// Has returns whether a key exists.
func (s *KVStore) Has(ctx context.Context, key string) (bool, error) {
	count, err := s.db.Queries().KVHas(ctx, key)
	if err != nil {
		return false, fmt.Errorf("kv has %q: %w", key, err)
	}
	return count > 0, nil
}

// ListKeys returns all keys in the order they were first written.
func (s *KVStore) ListKeys(ctx context.Context) ([]string, error) {
	keys, err := s.db.Queries().KVListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("kv list keys: %w", err)
	}
	return keys, nil
}

// GetRaw retrieves a raw KV entry with metadata.
// Returns an error wrapping kv.ErrNotFound if the key does not exist.
func (s *KVStore) GetRaw(ctx context.Context, key string) (kv.Entry, error) {
	row, err := s.db.Queries().KVGet(ctx, key)
	if IsNotFoundError(err) {
		return kv.Entry{}, fmt.Errorf("kv get raw %q: %w", key, kv.ErrNotFound)
	}
	if err != nil {
		return kv.Entry{}, fmt.Errorf("kv get raw %q: %w", key, err)
	}

	return kv.Entry{
		Key:       row.Key,
		Value:     json.RawMessage(row.Value),
		CreatedAt: time.Unix(0, row.CreatedAt),
		UpdatedAt: time.Unix(0, row.UpdatedAt),
	}, nil
}

const (
	busyRetries = 3
	busyBackoff = 50 * time.Millisecond
)

// retryBusy re-runs a write that lost a lock race with another process
// sharing the database file.
func retryBusy(ctx context.Context, fn func() error) error {
	wait := busyBackoff
	for i := 0; ; i++ {
		err := fn()
		if err == nil || !IsBusyError(err) || i == busyRetries {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
}
