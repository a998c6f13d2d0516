package room

import (
	"errors"
	"strings"

	"coursedesk/internal/domain/geo"
)

// Room is a physical venue with a fixed seat capacity.
type Room struct {
	ID            string
	Name          string
	Address       string
	PostalCode    string
	City          string
	Capacity      int
	Equipment     string
	Latitude      float64
	Longitude     float64
	HasCoordinate bool
}

// Validate checks if the Room has valid data.
// PRE: Room struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Capacity is a positive integer
func (r *Room) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("room name cannot be empty")
	}
	if r.Capacity < 1 {
		return errors.New("room capacity must be at least 1")
	}
	return nil
}

// Coordinate returns the room's coordinate, if known.
func (r *Room) Coordinate() (geo.Coordinate, bool) {
	if !r.HasCoordinate {
		return geo.Coordinate{}, false
	}
	return geo.Coordinate{Lat: r.Latitude, Lon: r.Longitude}, true
}
