package wish

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"coursedesk/internal/adapters/storage"
	domain "coursedesk/internal/domain/wish"
)

const wishColumns = "id, member_id, course_id, session_id, notes, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new wish store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanWish(row interface{ Scan(...any) error }) (domain.Wish, error) {
	var entity domain.Wish
	var sessionID, createdAt sql.NullString
	err := row.Scan(
		&entity.ID,
		&entity.MemberID,
		&entity.CourseID,
		&sessionID,
		&entity.Notes,
		&createdAt,
	)
	if err != nil {
		return domain.Wish{}, err
	}
	entity.SessionID = sessionID.String
	if entity.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return domain.Wish{}, err
	}
	return entity, nil
}

// GetByID retrieves a Wish by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if absent
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Wish, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+wishColumns+" FROM wish WHERE id = ?", id)
	entity, err := scanWish(row)
	if err == sql.ErrNoRows {
		return domain.Wish{}, fmt.Errorf("wish not found: %w", err)
	}
	return entity, err
}

// GetByMemberAndCourse retrieves the unique wish for a (member, course) pair.
func (s *SQLiteStore) GetByMemberAndCourse(ctx context.Context, memberID, courseID string) (domain.Wish, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+wishColumns+" FROM wish WHERE member_id = ? AND course_id = ?",
		memberID, courseID,
	)
	entity, err := scanWish(row)
	if err == sql.ErrNoRows {
		return domain.Wish{}, fmt.Errorf("wish not found: %w", err)
	}
	return entity, err
}

// Save persists a Wish to the database.
// PRE: entity has been validated
// POST: Entity is persisted; a second wish for the same (member, course)
// pair fails with domain.ErrDuplicateWish
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Wish) error {
	var sessionID any
	if entity.SessionID != "" {
		sessionID = entity.SessionID
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO wish (id, member_id, course_id, session_id, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			session_id=excluded.session_id, notes=excluded.notes`,
		entity.ID, entity.MemberID, entity.CourseID, sessionID, entity.Notes,
		storage.FormatTime(entity.CreatedAt),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return domain.ErrDuplicateWish
	}
	return err
}

// Delete removes a Wish from the database.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM wish WHERE id = ?", id)
	return err
}

// ListByMember returns a member's wishes, newest first.
func (s *SQLiteStore) ListByMember(ctx context.Context, memberID string) ([]domain.Wish, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+wishColumns+" FROM wish WHERE member_id = ? ORDER BY created_at DESC",
		memberID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWishes(rows)
}

// ListCandidates returns the promotion candidate pool for a session, in
// submission order.
// POST: No returned wish belongs to a member already enrolled in sessionID
func (s *SQLiteStore) ListCandidates(ctx context.Context, courseID, sessionID string) ([]domain.Wish, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+wishColumns+` FROM wish w
		WHERE w.course_id = ?
		  AND w.session_id IS NULL
		  AND NOT EXISTS (
			SELECT 1 FROM participant p
			WHERE p.session_id = ? AND p.member_id = w.member_id
		  )
		ORDER BY w.created_at`,
		courseID, sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWishes(rows)
}

func collectWishes(rows *sql.Rows) ([]domain.Wish, error) {
	var result []domain.Wish
	for rows.Next() {
		entity, err := scanWish(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, entity)
	}
	return result, rows.Err()
}
