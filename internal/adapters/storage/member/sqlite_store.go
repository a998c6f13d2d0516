package member

import (
	"context"
	"database/sql"
	"fmt"

	"coursedesk/internal/adapters/storage"
	domain "coursedesk/internal/domain/member"
)

const memberColumns = "id, email, first_name, last_name, phone, address, city, postal_code, latitude, longitude"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new member store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanMember(row interface{ Scan(...any) error }) (domain.Member, error) {
	var entity domain.Member
	var phone, address, city, postal sql.NullString
	var lat, lon sql.NullFloat64
	err := row.Scan(
		&entity.ID,
		&entity.Email,
		&entity.FirstName,
		&entity.LastName,
		&phone,
		&address,
		&city,
		&postal,
		&lat,
		&lon,
	)
	if err != nil {
		return domain.Member{}, err
	}
	entity.Phone = phone.String
	entity.Address = address.String
	entity.City = city.String
	entity.PostalCode = postal.String
	if lat.Valid && lon.Valid {
		entity.Latitude = lat.Float64
		entity.Longitude = lon.Float64
		entity.HasCoordinate = true
	}
	return entity, nil
}

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if absent
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM member WHERE id = ?", id)
	entity, err := scanMember(row)
	if err == sql.ErrNoRows {
		return domain.Member{}, fmt.Errorf("member not found: %w", err)
	}
	return entity, err
}

// GetByEmail retrieves a Member by email.
// PRE: email is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if absent
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM member WHERE email = ?", email)
	entity, err := scanMember(row)
	if err == sql.ErrNoRows {
		return domain.Member{}, fmt.Errorf("member not found: %w", err)
	}
	return entity, err
}

// Save persists a Member to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Member) error {
	var lat, lon any
	if entity.HasCoordinate {
		lat = entity.Latitude
		lon = entity.Longitude
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO member (id, email, first_name, last_name, phone, address, city, postal_code, latitude, longitude)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email=excluded.email, first_name=excluded.first_name, last_name=excluded.last_name,
			phone=excluded.phone, address=excluded.address, city=excluded.city,
			postal_code=excluded.postal_code, latitude=excluded.latitude, longitude=excluded.longitude`,
		entity.ID, entity.Email, entity.FirstName, entity.LastName,
		entity.Phone, entity.Address, entity.City, entity.PostalCode, lat, lon,
	)
	return err
}

// Delete removes a Member from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM member WHERE id = ?", id)
	return err
}

// List returns members ordered by last name.
// POST: Returns at most filter.Limit members (default 100)
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Member, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+memberColumns+" FROM member ORDER BY last_name, first_name LIMIT ? OFFSET ?",
		limit, filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Member
	for rows.Next() {
		entity, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, entity)
	}
	return result, rows.Err()
}
