package course

import (
	"context"
	"database/sql"
	"fmt"

	"coursedesk/internal/adapters/storage"
	domain "coursedesk/internal/domain/course"
)

const courseColumns = "id, name, code, description, duration_hours, active, city, postal_code, latitude, longitude"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new course store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanCourse(row interface{ Scan(...any) error }) (domain.Course, error) {
	var entity domain.Course
	var city, postal sql.NullString
	var lat, lon sql.NullFloat64
	err := row.Scan(
		&entity.ID,
		&entity.Name,
		&entity.Code,
		&entity.Description,
		&entity.DurationHours,
		&entity.Active,
		&city,
		&postal,
		&lat,
		&lon,
	)
	if err != nil {
		return domain.Course{}, err
	}
	entity.City = city.String
	entity.PostalCode = postal.String
	if lat.Valid && lon.Valid {
		entity.Latitude = lat.Float64
		entity.Longitude = lon.Float64
		entity.HasCoordinate = true
	}
	return entity, nil
}

// GetByID retrieves a Course by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if absent
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Course, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+courseColumns+" FROM course WHERE id = ?", id)
	entity, err := scanCourse(row)
	if err == sql.ErrNoRows {
		return domain.Course{}, fmt.Errorf("course not found: %w", err)
	}
	return entity, err
}

// Save persists a Course to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Course) error {
	var lat, lon any
	if entity.HasCoordinate {
		lat = entity.Latitude
		lon = entity.Longitude
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO course (id, name, code, description, duration_hours, active, city, postal_code, latitude, longitude)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, code=excluded.code, description=excluded.description,
			duration_hours=excluded.duration_hours, active=excluded.active,
			city=excluded.city, postal_code=excluded.postal_code,
			latitude=excluded.latitude, longitude=excluded.longitude`,
		entity.ID, entity.Name, entity.Code, entity.Description, entity.DurationHours,
		entity.Active, entity.City, entity.PostalCode, lat, lon,
	)
	return err
}

// Delete removes a Course from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed; sessions cascade
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM course WHERE id = ?", id)
	return err
}

// List returns courses ordered by name.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Course, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query := "SELECT " + courseColumns + " FROM course"
	if filter.ActiveOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY name LIMIT ? OFFSET ?"

	rows, err := s.db.QueryContext(ctx, query, limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Course
	for rows.Next() {
		entity, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, entity)
	}
	return result, rows.Err()
}
