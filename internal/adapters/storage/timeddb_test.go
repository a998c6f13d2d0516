package storage

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"coursedesk/internal/adapters/http/perf"
)

func openTimedTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec("CREATE TABLE room (id TEXT PRIMARY KEY, name TEXT)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

// TestTimedDB_RecordsTimings verifies each wrapped operation lands in the collector.
func TestTimedDB_RecordsTimings(t *testing.T) {
	db := openTimedTestDB(t)
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(db, collector)
	ctx := context.Background()

	if _, err := tdb.ExecContext(ctx, "INSERT INTO room (id, name) VALUES (?, ?)", "r1", "Annex A"); err != nil {
		t.Fatalf("ExecContext: %v", err)
	}

	rows, err := tdb.QueryContext(ctx, "SELECT id FROM room")
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	rows.Close()

	var name string
	if err := tdb.QueryRowContext(ctx, "SELECT name FROM room WHERE id = ?", "r1").Scan(&name); err != nil {
		t.Fatalf("QueryRowContext: %v", err)
	}
	if name != "Annex A" {
		t.Errorf("name = %q, want Annex A", name)
	}

	if collector.TotalRecorded() != 3 {
		t.Errorf("TotalRecorded = %d, want 3", collector.TotalRecorded())
	}
}

// TestTimedDB_NilCollector verifies TimedDB works without a collector.
func TestTimedDB_NilCollector(t *testing.T) {
	db := openTimedTestDB(t)
	tdb := NewTimedDB(db, nil)

	if _, err := tdb.ExecContext(context.Background(), "INSERT INTO room (id, name) VALUES (?, ?)", "r1", "Annex A"); err != nil {
		t.Fatalf("ExecContext with nil collector: %v", err)
	}
}

// TestTimedDB_ErrorPassthrough verifies SQL errors are returned unchanged and
// timing is still recorded. Swallowing errors here would corrupt data.
func TestTimedDB_ErrorPassthrough(t *testing.T) {
	db := openTimedTestDB(t)
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(db, collector)

	if _, err := tdb.ExecContext(context.Background(), "INSERT INTO nonexistent_table VALUES (?)"); err == nil {
		t.Fatal("expected error from invalid SQL, got nil")
	}
	if collector.TotalRecorded() != 1 {
		t.Errorf("TotalRecorded = %d, want 1 (must record even on error)", collector.TotalRecorded())
	}

	var v string
	if err := tdb.QueryRowContext(context.Background(), "SELECT name FROM room WHERE id = ?", "nope").Scan(&v); err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

// TestTimedDB_BeginTx verifies transactions run through the wrapper.
func TestTimedDB_BeginTx(t *testing.T) {
	db := openTimedTestDB(t)
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(db, collector)

	tx, err := tdb.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	if _, err := tx.Exec("INSERT INTO room (id, name) VALUES (?, ?)", "r1", "Annex A"); err != nil {
		t.Fatalf("tx exec: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if collector.TotalRecorded() < 1 {
		t.Errorf("TotalRecorded = %d, want >= 1", collector.TotalRecorded())
	}
}

// TestTimedDB_RawDB verifies RawDB returns the original *sql.DB.
func TestTimedDB_RawDB(t *testing.T) {
	db := openTimedTestDB(t)
	tdb := NewTimedDB(db, nil)

	if tdb.RawDB() != db {
		t.Error("RawDB() should return the original *sql.DB")
	}
}
