package notification

import (
	"context"
	"database/sql"
	"fmt"

	"coursedesk/internal/adapters/storage"
	domain "coursedesk/internal/domain/notification"
)

const notificationColumns = "id, member_id, type, message, related_type, related_id, is_read, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new notification store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanNotification(row interface{ Scan(...any) error }) (domain.Notification, error) {
	var entity domain.Notification
	var relatedType, relatedID, createdAt sql.NullString
	err := row.Scan(
		&entity.ID,
		&entity.MemberID,
		&entity.Type,
		&entity.Message,
		&relatedType,
		&relatedID,
		&entity.IsRead,
		&createdAt,
	)
	if err != nil {
		return domain.Notification{}, err
	}
	entity.RelatedType = relatedType.String
	entity.RelatedID = relatedID.String
	if entity.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return domain.Notification{}, err
	}
	return entity, nil
}

// GetByID retrieves a Notification by its ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Notification, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+notificationColumns+" FROM notification WHERE id = ?", id)
	entity, err := scanNotification(row)
	if err == sql.ErrNoRows {
		return domain.Notification{}, fmt.Errorf("notification not found: %w", err)
	}
	return entity, err
}

// Save persists a Notification record.
// PRE: entity has been validated
// POST: Record is inserted; records are never updated through Save
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Notification) error {
	var relatedType, relatedID any
	if entity.RelatedType != "" {
		relatedType = entity.RelatedType
	}
	if entity.RelatedID != "" {
		relatedID = entity.RelatedID
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notification (id, member_id, type, message, related_type, related_id, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entity.ID, entity.MemberID, entity.Type, entity.Message,
		relatedType, relatedID, entity.IsRead, storage.FormatTime(entity.CreatedAt),
	)
	return err
}

// ListByMember returns a member's notifications, newest first.
func (s *SQLiteStore) ListByMember(ctx context.Context, memberID string, filter ListFilter) ([]domain.Notification, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query := "SELECT " + notificationColumns + " FROM notification WHERE member_id = ?"
	if filter.UnreadOnly {
		query += " AND is_read = 0"
	}
	query += " ORDER BY created_at DESC LIMIT ?"

	rows, err := s.db.QueryContext(ctx, query, memberID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		entity, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, entity)
	}
	return result, rows.Err()
}

// CountUnread returns the number of unread notifications for a member.
func (s *SQLiteStore) CountUnread(ctx context.Context, memberID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notification WHERE member_id = ? AND is_read = 0",
		memberID,
	).Scan(&count)
	return count, err
}

// MarkRead flips the read flag. Idempotent.
func (s *SQLiteStore) MarkRead(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE notification SET is_read = 1 WHERE id = ?", id)
	return err
}
