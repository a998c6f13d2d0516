package course

import (
	"errors"
	"strings"

	"coursedesk/internal/domain/geo"
)

// Course is a named training offering. Reference data for the enrollment
// engine; the optional coordinate is only used as location metadata.
type Course struct {
	ID            string
	Name          string
	Code          string
	Description   string
	DurationHours int
	Active        bool
	City          string
	PostalCode    string
	Latitude      float64
	Longitude     float64
	HasCoordinate bool
}

// Validate checks if the Course has valid data.
// PRE: Course struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (c *Course) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("course name cannot be empty")
	}
	if strings.TrimSpace(c.Code) == "" {
		return errors.New("course code cannot be empty")
	}
	if c.DurationHours < 1 {
		return errors.New("course duration must be at least 1 hour")
	}
	return nil
}

// Coordinate returns the location metadata coordinate, if known.
func (c *Course) Coordinate() (geo.Coordinate, bool) {
	if !c.HasCoordinate {
		return geo.Coordinate{}, false
	}
	return geo.Coordinate{Lat: c.Latitude, Lon: c.Longitude}, true
}
