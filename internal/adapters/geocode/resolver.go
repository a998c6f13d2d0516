// Package geocode resolves postal addresses to coordinates for distance
// ranking. Resolution is best-effort everywhere: callers treat a miss or an
// error as an unknown coordinate, never as a fatal condition.
package geocode

import (
	"context"

	"coursedesk/internal/domain/geo"
)

// Resolver resolves a postal code and city to a coordinate. The boolean is
// false when the resolver does not know the address; err is reserved for
// transport-level failures.
type Resolver interface {
	Resolve(ctx context.Context, postalCode, city string) (geo.Coordinate, bool, error)
}
