package enrollment

import (
	"context"
	"strings"

	"coursedesk/internal/adapters/storage"
	participantDomain "coursedesk/internal/domain/participant"
	wishDomain "coursedesk/internal/domain/wish"
)

// SQLiteStore implements Store using SQLite transactions.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new enrollment store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// PromoteLink inserts the participant and links the wish to the session.
// PRE: p has been validated; wishID references an existing wish
// POST: Both writes applied, or neither; a duplicate (session, member)
// enrollment fails with participant.ErrAlreadyEnrolled
func (s *SQLiteStore) PromoteLink(ctx context.Context, p participantDomain.Participant, wishID string) error {
	return s.promote(ctx, p, wishID, false)
}

// PromoteDiscard inserts the participant and deletes the wish row.
// PRE: p has been validated; wishID references an existing wish
// POST: Both writes applied, or neither
func (s *SQLiteStore) PromoteDiscard(ctx context.Context, p participantDomain.Participant, wishID string) error {
	return s.promote(ctx, p, wishID, true)
}

func (s *SQLiteStore) promote(ctx context.Context, p participantDomain.Participant, wishID string, discard bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO participant (id, session_id, member_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.SessionID, p.MemberID, p.Status,
		storage.FormatTime(p.CreatedAt), storage.FormatTime(p.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return participantDomain.ErrAlreadyEnrolled
		}
		return err
	}

	if discard {
		_, err = tx.ExecContext(ctx, "DELETE FROM wish WHERE id = ?", wishID)
	} else {
		_, err = tx.ExecContext(ctx, "UPDATE wish SET session_id = ? WHERE id = ?", p.SessionID, wishID)
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Withdraw deletes the participant and upserts the replacement wish so the
// member re-enters the candidate pool.
// PRE: participantID references an existing participant; w has been validated
// POST: Participant removed and wish present, unlinked from any session
func (s *SQLiteStore) Withdraw(ctx context.Context, participantID string, w wishDomain.Wish) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM participant WHERE id = ?", participantID); err != nil {
		return err
	}

	// The member may still hold a wish for the course; reactivate it
	// instead of failing on the (member, course) uniqueness constraint.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO wish (id, member_id, course_id, session_id, notes, created_at)
		VALUES (?, ?, ?, NULL, ?, ?)
		ON CONFLICT(member_id, course_id) DO UPDATE SET
			session_id=NULL, notes=excluded.notes`,
		w.ID, w.MemberID, w.CourseID, w.Notes, storage.FormatTime(w.CreatedAt),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}
