package projections

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"coursedesk/internal/domain/course"
	"coursedesk/internal/domain/geo"
	"coursedesk/internal/domain/member"
	"coursedesk/internal/domain/session"
	"coursedesk/internal/domain/wish"
)

// Ranking modes for the wish shortlist.
const (
	RankByDistance = "distance"
	RankByDate     = "date"
)

// RankSessionStore defines the session store interface for wish ranking.
type RankSessionStore interface {
	GetByID(ctx context.Context, id string) (session.Session, error)
}

// RankCourseStore defines the course store interface for wish ranking.
type RankCourseStore interface {
	GetByID(ctx context.Context, id string) (course.Course, error)
}

// RankWishStore defines the wish store interface for wish ranking.
type RankWishStore interface {
	ListCandidates(ctx context.Context, courseID, sessionID string) ([]wish.Wish, error)
}

// RankMemberStore defines the member store interface for wish ranking.
type RankMemberStore interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
	Save(ctx context.Context, value member.Member) error
}

// RankGeocoder resolves a postal address to a coordinate. The found flag is
// false when the address is unknown to the resolver.
type RankGeocoder interface {
	Resolve(ctx context.Context, postalCode, city string) (geo.Coordinate, bool, error)
}

// RankWishesDeps holds dependencies for the wish ranking query.
type RankWishesDeps struct {
	SessionStore RankSessionStore
	CourseStore  RankCourseStore
	WishStore    RankWishStore
	MemberStore  RankMemberStore
	Geocoder     RankGeocoder // optional: nil skips coordinate resolution
}

// RankWishesInput identifies the session and the ordering to apply.
type RankWishesInput struct {
	SessionID string
	Mode      string // RankByDistance (default) or RankByDate
}

// RankedWish pairs a candidate wish with its member and the distance to the
// session venue. DistanceKm is +Inf when either coordinate is unknown.
type RankedWish struct {
	Wish       wish.Wish
	Member     member.Member
	DistanceKm float64
}

// QueryRankWishes lists the outstanding wishes for a session's course,
// excluding members already enrolled, ordered for staff triage.
// PRE: SessionID refers to an existing session
// POST: Distance mode sorts ascending with unknown distances last; date mode
// sorts by submission time; ties always break on submission time
// INVARIANT: A geocode failure degrades that member to an unknown distance,
// it never fails the query
func QueryRankWishes(ctx context.Context, input RankWishesInput, deps RankWishesDeps) ([]RankedWish, error) {
	mode := input.Mode
	if mode == "" {
		mode = RankByDistance
	}

	s, err := deps.SessionStore.GetByID(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	// The session venue anchors the distance; a session without its own
	// coordinate borrows the course location. Either side may still need a
	// geocode lookup from its postal address.
	venue, venueKnown := s.Coordinate()
	if !venueKnown {
		venue, venueKnown = resolveCoordinate(ctx, deps, s.PostalCode, s.City, "session", s.ID)
	}
	if !venueKnown {
		c, err := deps.CourseStore.GetByID(ctx, s.CourseID)
		if err != nil {
			return nil, err
		}
		if venue, venueKnown = c.Coordinate(); !venueKnown {
			venue, venueKnown = resolveCoordinate(ctx, deps, c.PostalCode, c.City, "course", c.ID)
		}
	}

	candidates, err := deps.WishStore.ListCandidates(ctx, s.CourseID, s.ID)
	if err != nil {
		return nil, err
	}

	results := make([]RankedWish, 0, len(candidates))
	for _, w := range candidates {
		m, err := deps.MemberStore.GetByID(ctx, w.MemberID)
		if err != nil {
			return nil, err
		}

		distance := math.Inf(1)
		if venueKnown {
			if coord, ok := memberCoordinate(ctx, &m, deps); ok {
				distance = geo.DistanceBetween(coord, venue)
			}
		}

		results = append(results, RankedWish{Wish: w, Member: m, DistanceKm: distance})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if mode == RankByDistance && results[i].DistanceKm != results[j].DistanceKm {
			return results[i].DistanceKm < results[j].DistanceKm
		}
		return results[i].Wish.CreatedAt.Before(results[j].Wish.CreatedAt)
	})

	return results, nil
}

// resolveCoordinate geocodes a postal address best-effort. Failures degrade
// to an unknown coordinate.
func resolveCoordinate(ctx context.Context, deps RankWishesDeps, postalCode, city, kind, id string) (geo.Coordinate, bool) {
	if deps.Geocoder == nil || (postalCode == "" && city == "") {
		return geo.Coordinate{}, false
	}
	coord, found, err := deps.Geocoder.Resolve(ctx, postalCode, city)
	if err != nil {
		slog.Warn("geocode_event", "event", "resolve_failed", "kind", kind, "id", id, "error", err)
		return geo.Coordinate{}, false
	}
	return coord, found
}

// memberCoordinate returns the member's coordinate, resolving and persisting
// it from the postal address when missing. Resolution and write-back are both
// best-effort.
func memberCoordinate(ctx context.Context, m *member.Member, deps RankWishesDeps) (geo.Coordinate, bool) {
	if coord, ok := m.Coordinate(); ok {
		return coord, true
	}
	coord, found := resolveCoordinate(ctx, deps, m.PostalCode, m.City, "member", m.ID)
	if !found {
		return geo.Coordinate{}, false
	}

	m.SetCoordinate(coord)
	if err := deps.MemberStore.Save(ctx, *m); err != nil {
		slog.Warn("geocode_event", "event", "coordinate_writeback_failed", "member_id", m.ID, "error", err)
	}
	return coord, true
}
