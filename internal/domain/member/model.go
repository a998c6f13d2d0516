package member

import (
	"errors"
	"strings"

	"coursedesk/internal/domain/geo"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Member holds state for a person known to the portal. The coordinate is
// derived once from the postal address by the geocoding collaborator and
// cached here; it is optional and never required for enrollment.
type Member struct {
	ID            string
	Email         string
	FirstName     string
	LastName      string
	Phone         string
	Address       string
	City          string
	PostalCode    string
	Latitude      float64
	Longitude     float64
	HasCoordinate bool
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Email must contain '@', LastName must not be empty
func (m *Member) Validate() error {
	if strings.TrimSpace(m.LastName) == "" {
		return errors.New("member last name cannot be empty")
	}
	if len(m.FirstName) > MaxNameLength || len(m.LastName) > MaxNameLength {
		return errors.New("member name cannot exceed 100 characters")
	}
	if !strings.Contains(m.Email, "@") {
		return errors.New("member email must be valid")
	}
	return nil
}

// FullName returns the display name for notifications and listings.
func (m *Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// Coordinate returns the cached coordinate, if one has been resolved.
func (m *Member) Coordinate() (geo.Coordinate, bool) {
	if !m.HasCoordinate {
		return geo.Coordinate{}, false
	}
	return geo.Coordinate{Lat: m.Latitude, Lon: m.Longitude}, true
}

// SetCoordinate caches a resolved coordinate on the member.
// POST: HasCoordinate is true
func (m *Member) SetCoordinate(c geo.Coordinate) {
	m.Latitude = c.Lat
	m.Longitude = c.Lon
	m.HasCoordinate = true
}
