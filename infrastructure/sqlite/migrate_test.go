package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/uptrace/bun"
)

func TestApplyMigrations_EmbeddedCreatesKvTable(t *testing.T) {
	t.Parallel()

	db, err := OpenDB(filepath.Join(t.TempDir(), "migrate-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := ApplyMigrations(context.Background(), db, ""); err != nil {
		t.Fatalf("apply embedded migrations: %v", err)
	}
	// Running twice must be harmless.
	if err := ApplyMigrations(context.Background(), db, ""); err != nil {
		t.Fatalf("re-apply embedded migrations: %v", err)
	}

	var count int
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'kv_entries'`).Scan(ctx, &count)
	})
	if err != nil {
		t.Fatalf("inspect schema: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected kv_entries table, found %d", count)
	}
}

func TestOpenDB_RequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := OpenDB(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
