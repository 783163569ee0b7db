package migrations

import (
	"context"
	"testing"

	"github.com/bughunt/backend/internal/database"
)

func TestRunCreatesSchema(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := Run(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	// Running again must be a no-op.
	if err := Run(db); err != nil {
		t.Fatalf("re-run migrations: %v", err)
	}

	for _, table := range []string{"problems", "score_records", "admins", "admin_sessions"} {
		var name string
		err := db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q missing: %v", table, err)
		}
	}
}
