package participant

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"coursedesk/internal/adapters/storage"
	domain "coursedesk/internal/domain/participant"
)

const participantColumns = "id, session_id, member_id, status, created_at, updated_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new participant store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanParticipant(row interface{ Scan(...any) error }) (domain.Participant, error) {
	var entity domain.Participant
	var createdAt, updatedAt sql.NullString
	err := row.Scan(
		&entity.ID,
		&entity.SessionID,
		&entity.MemberID,
		&entity.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Participant{}, err
	}
	if entity.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return domain.Participant{}, err
	}
	if entity.UpdatedAt, err = storage.ParseTime(updatedAt); err != nil {
		return domain.Participant{}, err
	}
	return entity, nil
}

// GetByID retrieves a Participant by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if absent
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Participant, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+participantColumns+" FROM participant WHERE id = ?", id)
	entity, err := scanParticipant(row)
	if err == sql.ErrNoRows {
		return domain.Participant{}, fmt.Errorf("participant not found: %w", err)
	}
	return entity, err
}

// Save persists a Participant to the database.
// PRE: entity has been validated
// POST: Entity is persisted; inserting a second (session, member) pair
// fails with domain.ErrAlreadyEnrolled
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Participant) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO participant (id, session_id, member_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status=excluded.status, updated_at=excluded.updated_at`,
		entity.ID, entity.SessionID, entity.MemberID, entity.Status,
		storage.FormatTime(entity.CreatedAt), storage.FormatTime(entity.UpdatedAt),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return domain.ErrAlreadyEnrolled
	}
	return err
}

// Delete removes a Participant; its comments cascade.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM participant WHERE id = ?", id)
	return err
}

// ListBySession returns a session's participants in enrollment order.
func (s *SQLiteStore) ListBySession(ctx context.Context, sessionID string) ([]domain.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+participantColumns+" FROM participant WHERE session_id = ? ORDER BY created_at",
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Participant
	for rows.Next() {
		entity, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, entity)
	}
	return result, rows.Err()
}

// CountBySession returns the number of participants enrolled in a session.
func (s *SQLiteStore) CountBySession(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM participant WHERE session_id = ?", sessionID,
	).Scan(&count)
	return count, err
}

// Exists reports whether a (session, member) enrollment already exists.
func (s *SQLiteStore) Exists(ctx context.Context, sessionID, memberID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM participant WHERE session_id = ? AND member_id = ?",
		sessionID, memberID,
	).Scan(&count)
	return count > 0, err
}

// AddComment appends a comment to a participant's trail. Comments are never
// updated or replaced.
func (s *SQLiteStore) AddComment(ctx context.Context, entity domain.Comment) error {
	var authorID any
	if entity.AuthorID != "" {
		authorID = entity.AuthorID
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO participant_comment (id, participant_id, author_id, content, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		entity.ID, entity.ParticipantID, authorID, entity.Content,
		storage.FormatTime(entity.CreatedAt),
	)
	return err
}

// ListComments returns a participant's comments, newest first.
func (s *SQLiteStore) ListComments(ctx context.Context, participantID string) ([]domain.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, participant_id, author_id, content, created_at FROM participant_comment WHERE participant_id = ? ORDER BY created_at DESC",
		participantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var entity domain.Comment
		var authorID, createdAt sql.NullString
		if err := rows.Scan(&entity.ID, &entity.ParticipantID, &authorID, &entity.Content, &createdAt); err != nil {
			return nil, err
		}
		entity.AuthorID = authorID.String
		if entity.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
			return nil, err
		}
		result = append(result, entity)
	}
	return result, rows.Err()
}
