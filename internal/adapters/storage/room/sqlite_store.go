package room

import (
	"context"
	"database/sql"
	"fmt"

	"coursedesk/internal/adapters/storage"
	domain "coursedesk/internal/domain/room"
)

const roomColumns = "id, name, address, postal_code, city, capacity, equipment, latitude, longitude"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new room store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanRoom(row interface{ Scan(...any) error }) (domain.Room, error) {
	var entity domain.Room
	var address, postal, city sql.NullString
	var lat, lon sql.NullFloat64
	err := row.Scan(
		&entity.ID,
		&entity.Name,
		&address,
		&postal,
		&city,
		&entity.Capacity,
		&entity.Equipment,
		&lat,
		&lon,
	)
	if err != nil {
		return domain.Room{}, err
	}
	entity.Address = address.String
	entity.PostalCode = postal.String
	entity.City = city.String
	if lat.Valid && lon.Valid {
		entity.Latitude = lat.Float64
		entity.Longitude = lon.Float64
		entity.HasCoordinate = true
	}
	return entity, nil
}

// GetByID retrieves a Room by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if absent
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Room, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+roomColumns+" FROM room WHERE id = ?", id)
	entity, err := scanRoom(row)
	if err == sql.ErrNoRows {
		return domain.Room{}, fmt.Errorf("room not found: %w", err)
	}
	return entity, err
}

// Save persists a Room to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Room) error {
	var lat, lon any
	if entity.HasCoordinate {
		lat = entity.Latitude
		lon = entity.Longitude
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO room (id, name, address, postal_code, city, capacity, equipment, latitude, longitude)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, address=excluded.address, postal_code=excluded.postal_code,
			city=excluded.city, capacity=excluded.capacity, equipment=excluded.equipment,
			latitude=excluded.latitude, longitude=excluded.longitude`,
		entity.ID, entity.Name, entity.Address, entity.PostalCode, entity.City,
		entity.Capacity, entity.Equipment, lat, lon,
	)
	return err
}

// Delete removes a Room from the database. Occurrences referencing the room
// keep their date and fall back to the default occurrence capacity.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM room WHERE id = ?", id)
	return err
}

// List returns all rooms ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Room, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+roomColumns+" FROM room ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Room
	for rows.Next() {
		entity, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, entity)
	}
	return result, rows.Err()
}
