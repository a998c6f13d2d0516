package session

import (
	"context"
	"database/sql"
	"fmt"

	"coursedesk/internal/adapters/storage"
	domain "coursedesk/internal/domain/session"
)

const sessionColumns = "id, course_id, status, start_date, end_date, opening_date, deadline, " +
	"address, city, postal_code, latitude, longitude, last_status_change, is_archived, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new session store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanSession(row interface{ Scan(...any) error }) (domain.Session, error) {
	var entity domain.Session
	var startDate, endDate, openingDate, deadline, lastChange, createdAt sql.NullString
	var address, city, postal sql.NullString
	var lat, lon sql.NullFloat64
	err := row.Scan(
		&entity.ID,
		&entity.CourseID,
		&entity.Status,
		&startDate,
		&endDate,
		&openingDate,
		&deadline,
		&address,
		&city,
		&postal,
		&lat,
		&lon,
		&lastChange,
		&entity.IsArchived,
		&createdAt,
	)
	if err != nil {
		return domain.Session{}, err
	}
	entity.Address = address.String
	entity.City = city.String
	entity.PostalCode = postal.String
	if lat.Valid && lon.Valid {
		entity.Latitude = lat.Float64
		entity.Longitude = lon.Float64
		entity.HasCoordinate = true
	}
	if entity.StartDate, err = storage.ParseTime(startDate); err != nil {
		return domain.Session{}, err
	}
	if entity.EndDate, err = storage.ParseTime(endDate); err != nil {
		return domain.Session{}, err
	}
	if entity.OpeningDate, err = storage.ParseTime(openingDate); err != nil {
		return domain.Session{}, err
	}
	if entity.Deadline, err = storage.ParseTime(deadline); err != nil {
		return domain.Session{}, err
	}
	if entity.LastStatusChange, err = storage.ParseTime(lastChange); err != nil {
		return domain.Session{}, err
	}
	if entity.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return domain.Session{}, err
	}
	return entity, nil
}

// GetByID retrieves a Session by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if absent
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Session, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM session WHERE id = ?", id)
	entity, err := scanSession(row)
	if err == sql.ErrNoRows {
		return domain.Session{}, fmt.Errorf("session not found: %w", err)
	}
	return entity, err
}

// Save persists a Session and recomputes its derived start/end dates from
// the occurrence rows, all in one transaction.
// PRE: entity has been validated; Status is a valid status code
// POST: Entity is persisted; start_date/end_date are MIN/MAX over occurrences
// INVARIANT: start_date and end_date are never authored directly
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var lat, lon any
	if entity.HasCoordinate {
		lat = entity.Latitude
		lon = entity.Longitude
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO session (id, course_id, status, opening_date, deadline,
			address, city, postal_code, latitude, longitude,
			last_status_change, is_archived, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			course_id=excluded.course_id, status=excluded.status,
			opening_date=excluded.opening_date, deadline=excluded.deadline,
			address=excluded.address, city=excluded.city, postal_code=excluded.postal_code,
			latitude=excluded.latitude, longitude=excluded.longitude,
			last_status_change=excluded.last_status_change,
			is_archived=excluded.is_archived`,
		entity.ID, entity.CourseID, entity.Status,
		storage.FormatTime(entity.OpeningDate), storage.FormatTime(entity.Deadline),
		entity.Address, entity.City, entity.PostalCode, lat, lon,
		storage.FormatTime(entity.LastStatusChange), entity.IsArchived,
		storage.FormatTime(entity.CreatedAt),
	)
	if err != nil {
		return err
	}

	if err := recomputeDates(ctx, tx, entity.ID); err != nil {
		return err
	}

	return tx.Commit()
}

// recomputeDates refreshes the derived start/end dates of a session.
func recomputeDates(ctx context.Context, tx *sql.Tx, sessionID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE session SET
			start_date = (SELECT MIN(date) FROM session_occurrence WHERE session_id = ?),
			end_date = (SELECT MAX(date) FROM session_occurrence WHERE session_id = ?)
		WHERE id = ?`,
		sessionID, sessionID, sessionID,
	)
	return err
}

// Delete removes a Session; its occurrences cascade.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM session WHERE id = ?", id)
	return err
}

// List returns sessions ordered by creation time, newest first. Archived
// sessions are excluded by default.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Session, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query := "SELECT " + sessionColumns + " FROM session WHERE 1=1"
	args := []any{}
	if !filter.IncludeArchived {
		query += " AND is_archived = 0"
	}
	if filter.CourseID != "" {
		query += " AND course_id = ?"
		args = append(args, filter.CourseID)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSessions(rows)
}

// ListCompletedUnarchived returns the archival sweep's working set.
// POST: Every returned session has status COMPLETED and is_archived = 0
func (s *SQLiteStore) ListCompletedUnarchived(ctx context.Context) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+sessionColumns+" FROM session WHERE status = ? AND is_archived = 0",
		domain.StatusCompleted,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSessions(rows)
}

func collectSessions(rows *sql.Rows) ([]domain.Session, error) {
	var result []domain.Session
	for rows.Next() {
		entity, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, entity)
	}
	return result, rows.Err()
}

// MarkArchived flips the archival flag. Idempotent; archived sessions stay
// otherwise intact.
func (s *SQLiteStore) MarkArchived(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE session SET is_archived = 1 WHERE id = ?", id)
	return err
}

// SaveOccurrence persists an Occurrence and refreshes the session's derived
// dates in the same transaction.
func (s *SQLiteStore) SaveOccurrence(ctx context.Context, entity domain.Occurrence) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var roomID any
	if entity.RoomID != "" {
		roomID = entity.RoomID
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO session_occurrence (id, session_id, date, room_id, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date=excluded.date, room_id=excluded.room_id`,
		entity.ID, entity.SessionID, entity.Date.Format("2006-01-02"), roomID,
		storage.FormatTime(entity.CreatedAt),
	)
	if err != nil {
		return err
	}
	if err := recomputeDates(ctx, tx, entity.SessionID); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteOccurrence removes an Occurrence and refreshes the owning session's
// derived dates.
func (s *SQLiteStore) DeleteOccurrence(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var sessionID string
	err = tx.QueryRowContext(ctx, "SELECT session_id FROM session_occurrence WHERE id = ?", id).Scan(&sessionID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM session_occurrence WHERE id = ?", id); err != nil {
		return err
	}
	if err := recomputeDates(ctx, tx, sessionID); err != nil {
		return err
	}
	return tx.Commit()
}

// ListOccurrences returns a session's occurrences ordered by date.
func (s *SQLiteStore) ListOccurrences(ctx context.Context, sessionID string) ([]domain.Occurrence, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, session_id, date, room_id, created_at FROM session_occurrence WHERE session_id = ? ORDER BY date",
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Occurrence
	for rows.Next() {
		var entity domain.Occurrence
		var date, roomID, createdAt sql.NullString
		if err := rows.Scan(&entity.ID, &entity.SessionID, &date, &roomID, &createdAt); err != nil {
			return nil, err
		}
		entity.RoomID = roomID.String
		if entity.Date, err = storage.ParseTime(date); err != nil {
			return nil, err
		}
		if entity.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
			return nil, err
		}
		result = append(result, entity)
	}
	return result, rows.Err()
}

// ListOccurrenceRoomCapacities returns the room capacity per occurrence,
// zero for occurrences without a room.
// POST: len(result) equals the session's occurrence count
func (s *SQLiteStore) ListOccurrenceRoomCapacities(ctx context.Context, sessionID string) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(r.capacity, 0)
		FROM session_occurrence o
		LEFT JOIN room r ON r.id = o.room_id
		WHERE o.session_id = ?
		ORDER BY o.date`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []int
	for rows.Next() {
		var c int
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
