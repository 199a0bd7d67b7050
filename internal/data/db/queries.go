package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries holds the statements run against kv_store.
type Queries struct {
	db DBTX
}

// WithTx returns a copy of q bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// KvStore is one row of the kv_store table.
type KvStore struct {
	Key       string
	Value     []byte
	CreatedAt int64
	UpdatedAt int64
}

// KVSetParams are the arguments to KVSet.
type KVSetParams struct {
	Key       string
	Value     []byte
	CreatedAt int64
	UpdatedAt int64
}

const kvGet = `SELECT key, value, created_at, updated_at FROM kv_store WHERE key = ?`

// KVGet returns sql.ErrNoRows when key is absent.
func (q *Queries) KVGet(ctx context.Context, key string) (KvStore, error) {
	var row KvStore
	err := q.db.QueryRowContext(ctx, kvGet, key).Scan(
		&row.Key,
		&row.Value,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	return row, err
}

// New keys are appended after every existing key. Overwrites keep their
// position and creation time.
const kvSet = `
INSERT INTO kv_store (key, value, created_at, updated_at, seq)
VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM kv_store))
ON CONFLICT (key) DO UPDATE SET
    value = excluded.value,
    updated_at = excluded.updated_at`

func (q *Queries) KVSet(ctx context.Context, arg KVSetParams) error {
	_, err := q.db.ExecContext(ctx, kvSet, arg.Key, arg.Value, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const kvDelete = `DELETE FROM kv_store WHERE key = ?`

func (q *Queries) KVDelete(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, kvDelete, key)
	return err
}

const kvHas = `SELECT COUNT(*) FROM kv_store WHERE key = ?`

func (q *Queries) KVHas(ctx context.Context, key string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, kvHas, key).Scan(&count)
	return count, err
}

const kvListKeys = `SELECT key FROM kv_store ORDER BY seq, key`

// KVListKeys returns keys in insertion order.
func (q *Queries) KVListKeys(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, kvListKeys)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
