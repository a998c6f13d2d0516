package geocode

import (
	"context"
	"strings"

	"coursedesk/internal/domain/geo"
)

// StaticResolver resolves from a fixed in-memory table, keyed by postal code
// with a city fallback. Used in development and tests where hitting a real
// geocoder is unwanted.
type StaticResolver struct {
	byPostalCode map[string]geo.Coordinate
	byCity       map[string]geo.Coordinate
}

// NewStaticResolver creates a resolver over the given tables. Either map may
// be nil.
func NewStaticResolver(byPostalCode, byCity map[string]geo.Coordinate) *StaticResolver {
	r := &StaticResolver{
		byPostalCode: make(map[string]geo.Coordinate),
		byCity:       make(map[string]geo.Coordinate),
	}
	for k, v := range byPostalCode {
		r.byPostalCode[k] = v
	}
	for k, v := range byCity {
		r.byCity[strings.ToLower(k)] = v
	}
	return r
}

// Resolve looks up the postal code first, then the city.
func (r *StaticResolver) Resolve(_ context.Context, postalCode, city string) (geo.Coordinate, bool, error) {
	if c, ok := r.byPostalCode[postalCode]; ok {
		return c, true, nil
	}
	if c, ok := r.byCity[strings.ToLower(city)]; ok {
		return c, true, nil
	}
	return geo.Coordinate{}, false, nil
}
