package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLDB is the database interface used by all stores. *sql.DB satisfies it,
// as does any wrapper that forwards the four methods.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Compile-time check that *sql.DB satisfies SQLDB.
var _ SQLDB = (*sql.DB)(nil)

// TimeFormat is how timestamps are stored in SQLite TEXT columns.
const TimeFormat = time.RFC3339Nano

// FormatTime renders a timestamp for storage; the zero time becomes NULL.
func FormatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(TimeFormat)
}

// ParseTime parses a stored timestamp; NULL parses to the zero time.
func ParseTime(s sql.NullString) (time.Time, error) {
	if !s.Valid || s.String == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(TimeFormat, s.String)
	if err != nil {
		// Date-only columns (occurrence dates, deadlines) are stored as
		// YYYY-MM-DD.
		t, err = time.Parse("2006-01-02", s.String)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s.String, err)
	}
	return t, nil
}

// migrations holds the ordered schema migrations. Version N is
// migrations[N-1]; each entry must be safe to run exactly once.
var migrations = []string{
	// v1: initial schema
	`
	CREATE TABLE IF NOT EXISTS member (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL,
		phone TEXT,
		address TEXT,
		city TEXT,
		postal_code TEXT,
		latitude REAL,
		longitude REAL
	);

	CREATE TABLE IF NOT EXISTS course (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		code TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		duration_hours INTEGER NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		city TEXT,
		postal_code TEXT,
		latitude REAL,
		longitude REAL
	);

	CREATE TABLE IF NOT EXISTS room (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT,
		postal_code TEXT,
		city TEXT,
		capacity INTEGER NOT NULL,
		equipment TEXT NOT NULL DEFAULT '',
		latitude REAL,
		longitude REAL
	);

	CREATE TABLE IF NOT EXISTS session (
		id TEXT PRIMARY KEY,
		course_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'NOT_OPENED',
		start_date TEXT,
		end_date TEXT,
		opening_date TEXT,
		deadline TEXT,
		address TEXT,
		city TEXT,
		postal_code TEXT,
		latitude REAL,
		longitude REAL,
		last_status_change TEXT NOT NULL,
		is_archived INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		FOREIGN KEY (course_id) REFERENCES course(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS session_occurrence (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		date TEXT NOT NULL,
		room_id TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (session_id) REFERENCES session(id) ON DELETE CASCADE,
		FOREIGN KEY (room_id) REFERENCES room(id) ON DELETE SET NULL
	);

	CREATE TABLE IF NOT EXISTS wish (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		course_id TEXT NOT NULL,
		session_id TEXT,
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		UNIQUE (member_id, course_id),
		FOREIGN KEY (member_id) REFERENCES member(id) ON DELETE CASCADE,
		FOREIGN KEY (course_id) REFERENCES course(id) ON DELETE CASCADE,
		FOREIGN KEY (session_id) REFERENCES session(id) ON DELETE SET NULL
	);

	CREATE TABLE IF NOT EXISTS participant (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		member_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'WISH',
		created_at TEXT NOT NULL,
		updated_at TEXT,
		UNIQUE (session_id, member_id),
		FOREIGN KEY (session_id) REFERENCES session(id) ON DELETE CASCADE,
		FOREIGN KEY (member_id) REFERENCES member(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS participant_comment (
		id TEXT PRIMARY KEY,
		participant_id TEXT NOT NULL,
		author_id TEXT,
		content TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (participant_id) REFERENCES participant(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS notification (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		type TEXT NOT NULL,
		message TEXT NOT NULL,
		related_type TEXT,
		related_id TEXT,
		is_read INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		FOREIGN KEY (member_id) REFERENCES member(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_session_status ON session(status, is_archived);
	CREATE INDEX IF NOT EXISTS idx_occurrence_session ON session_occurrence(session_id);
	CREATE INDEX IF NOT EXISTS idx_wish_course ON wish(course_id);
	CREATE INDEX IF NOT EXISTS idx_participant_session ON participant(session_id);
	CREATE INDEX IF NOT EXISTS idx_notification_member ON notification(member_id, is_read);
	`,
}

// LatestSchemaVersion returns the highest migration version.
func LatestSchemaVersion() int {
	return len(migrations)
}

// SchemaVersion returns the current schema version of the database, zero for
// a database without version tracking.
func SchemaVersion(db SQLDB) (int, error) {
	var exists int
	err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("check schema_version table: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}
	var version int
	err = db.QueryRowContext(context.Background(),
		"SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// MigrateDB brings the database schema up to the latest version.
// PRE: db is a valid connection with foreign keys enabled
// POST: Schema is at LatestSchemaVersion(); reruns are no-ops
func MigrateDB(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for v := current + 1; v <= len(migrations); v++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", v, err)
		}
		if _, err := tx.Exec(migrations[v-1]); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration %d: %w", v, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version, applied_at) VALUES (?, ?)",
			v, time.Now().UTC().Format(TimeFormat)); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", v, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", v, err)
		}
	}

	return nil
}
