// Package kv is the keyed-blob store the rest of the app persists through.
// Each key holds one JSON document and every write replaces the whole value,
// mirroring the two-blob storage contract (weight_receipts, weight_config).
package kv

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"weighbridge/infrastructure/sqlite"
)

// Entry is one keyed blob.
type Entry struct {
	bun.BaseModel `bun:"table:kv_entries,alias:kv"`

	Key       string    `bun:"key,pk"`
	Value     []byte    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Store reads and writes keyed blobs.
type Store struct {
	db *sqlite.DB
}

func NewStore(db *sqlite.DB) *Store {
	return &Store{db: db}
}

// Get returns the blob stored under key. A missing key is reported through
// found, not an error.
func (s *Store) Get(ctx context.Context, key string) (value []byte, found bool, err error) {
	entry := new(Entry)
	err = s.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(entry).Where("key = ?", key).Scan(ctx)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return entry.Value, true, nil
}

// Set replaces the blob stored under key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	entry := &Entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return s.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(entry).
			On("CONFLICT (key) DO UPDATE").
			Set("value = EXCLUDED.value").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		return err
	})
}
