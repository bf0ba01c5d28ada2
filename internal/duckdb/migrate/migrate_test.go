package migrate

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/duckdb/duckdb-go/v2"
)

const migrationCount = 2

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("duckdb", "")
	if err != nil {
		t.Fatalf("open duckdb: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunAppliesAllMigrations(t *testing.T) {
	db := openTestDB(t)

	applied, err := NewRunner(db).RunContext(context.Background())
	if err != nil {
		t.Fatalf("RunContext: %v", err)
	}
	if len(applied) != migrationCount {
		t.Fatalf("applied %v, want %d migrations", applied, migrationCount)
	}
	if applied[0] != "001_create_rankings.sql" {
		t.Errorf("first migration = %s", applied[0])
	}

	for _, table := range []string{"rankings", "game_results", "schema_migrations"} {
		var name string
		err := db.QueryRow("SELECT table_name FROM information_schema.tables WHERE table_name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	r := NewRunner(db)

	if err := r.Run(); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	applied, err := r.RunContext(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("second run applied %v", applied)
	}

	cur, pending, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if cur != migrationCount || pending != 0 {
		t.Errorf("expected version=%d pending=0, got version=%d pending=%d", migrationCount, cur, pending)
	}
}

func TestStatusBeforeRun(t *testing.T) {
	db := openTestDB(t)

	cur, pending, err := NewRunner(db).Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if cur != 0 || pending != migrationCount {
		t.Errorf("expected version=0 pending=%d, got version=%d pending=%d", migrationCount, cur, pending)
	}
}
