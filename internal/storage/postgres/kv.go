package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// opTimeout bounds every store operation so a stalled database cannot
// block the update loop indefinitely.
const opTimeout = 5 * time.Second

// KV implements storage.Store on a single jsonb key-value table.
// The schema is managed by cmd/migrate (table game_save: key text primary key,
// value jsonb, updated_at timestamptz).
type KV struct {
	pool *Pool
}

// NewKV creates a key-value store over an existing pool.
//
// Precondition: pool must be non-nil and connected; the game_save table must exist.
func NewKV(pool *Pool) *KV {
	return &KV{pool: pool}
}

// Get returns the value stored under key.
func (kv *KV) Get(key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var value []byte
	err := kv.pool.DB().QueryRow(ctx,
		`SELECT value FROM game_save WHERE key = $1`, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading key %q: %w", key, err)
	}
	return value, true, nil
}

// Put stores value under key, replacing any previous value.
func (kv *KV) Put(key string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := kv.pool.DB().Exec(ctx,
		`INSERT INTO game_save (key, value, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = now()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is a no-op.
func (kv *KV) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := kv.pool.DB().Exec(ctx, `DELETE FROM game_save WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("deleting key %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying pool.
func (kv *KV) Close() error {
	kv.pool.Close()
	return nil
}
