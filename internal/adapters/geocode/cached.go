package geocode

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"coursedesk/internal/domain/geo"
)

// DefaultCacheTTL keeps resolved addresses for thirty days. Postal geography
// barely moves; the TTL mostly bounds stale negative entries.
const DefaultCacheTTL = 30 * 24 * time.Hour

// missMarker is the cached value for an address the upstream does not know,
// so repeated misses stay off the wire too.
const missMarker = "!"

// CachedResolver wraps a Resolver with a Redis read-through cache. Cache
// failures degrade to the upstream resolver; they are logged, never returned.
type CachedResolver struct {
	next Resolver
	rdb  *redis.Client
	ttl  time.Duration
}

// NewCachedResolver wraps next with a cache on rdb. A non-positive ttl uses
// the default.
func NewCachedResolver(next Resolver, rdb *redis.Client, ttl time.Duration) *CachedResolver {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedResolver{next: next, rdb: rdb, ttl: ttl}
}

func cacheKey(postalCode, city string) string {
	return fmt.Sprintf("geocode:%s:%s", postalCode, strings.ToLower(city))
}

// Resolve serves from the cache when possible and falls through to the
// wrapped resolver, caching both hits and misses.
func (r *CachedResolver) Resolve(ctx context.Context, postalCode, city string) (geo.Coordinate, bool, error) {
	key := cacheKey(postalCode, city)

	cached, err := r.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		if cached == missMarker {
			return geo.Coordinate{}, false, nil
		}
		if coord, ok := decodeCoordinate(cached); ok {
			return coord, true, nil
		}
		// Unreadable entry; fall through and overwrite it.
		slog.Warn("geocode_event", "event", "cache_entry_corrupt", "key", key)
	case err != redis.Nil:
		slog.Warn("geocode_event", "event", "cache_read_failed", "key", key, "error", err)
	}

	coord, found, err := r.next.Resolve(ctx, postalCode, city)
	if err != nil {
		return geo.Coordinate{}, false, err
	}

	value := missMarker
	if found {
		value = encodeCoordinate(coord)
	}
	if err := r.rdb.Set(ctx, key, value, r.ttl).Err(); err != nil {
		slog.Warn("geocode_event", "event", "cache_write_failed", "key", key, "error", err)
	}

	return coord, found, nil
}

func encodeCoordinate(c geo.Coordinate) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

func decodeCoordinate(s string) (geo.Coordinate, bool) {
	lat, lon, ok := strings.Cut(s, ",")
	if !ok {
		return geo.Coordinate{}, false
	}
	latF, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return geo.Coordinate{}, false
	}
	lonF, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return geo.Coordinate{}, false
	}
	return geo.Coordinate{Lat: latF, Lon: lonF}, true
}
