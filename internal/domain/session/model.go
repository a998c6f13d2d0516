package session

import (
	"errors"
	"time"

	"coursedesk/internal/domain/geo"
)

// Session statuses. The pipeline is administrative bookkeeping: staff may
// move a session from any status to any other, the machine only records the
// change and notifies participants.
const (
	StatusNotOpened           = "NOT_OPENED"
	StatusRequested           = "REQUESTED"
	StatusOpen                = "OPEN"
	StatusFull                = "FULL"
	StatusPrepared            = "PREPARED"
	StatusSentToTrainer       = "SENT_TO_TRAINER"
	StatusAwaitingReturn      = "AWAITING_RETURN"
	StatusAwaitingProcessingA = "AWAITING_PROCESSING_A"
	StatusAwaitingProcessingB = "AWAITING_PROCESSING_B"
	StatusErrorA              = "ERROR_A"
	StatusErrorB              = "ERROR_B"
	StatusCompleted           = "COMPLETED"
)

// Capacity constants. An occurrence without a usable room still bounds the
// session at 20 seats; a session with no occurrences at all falls back to 12.
const (
	DefaultOccurrenceCapacity = 20
	FallbackCapacity          = 12
)

// Domain errors
var (
	ErrInvalidStatus = errors.New("invalid session status")
)

// statusLabels maps status codes to the human-readable form used in
// participant notifications.
var statusLabels = map[string]string{
	StatusNotOpened:           "Not opened",
	StatusRequested:           "Requested",
	StatusOpen:                "Open for enrollment",
	StatusFull:                "Full",
	StatusPrepared:            "Prepared",
	StatusSentToTrainer:       "Sent to trainer",
	StatusAwaitingReturn:      "Awaiting return",
	StatusAwaitingProcessingA: "Awaiting funder processing",
	StatusAwaitingProcessingB: "Awaiting certifier processing",
	StatusErrorA:              "Funder error to resolve",
	StatusErrorB:              "Certifier error to resolve",
	StatusCompleted:           "Completed",
}

// ValidStatus reports whether s is a member of the status enumeration.
func ValidStatus(s string) bool {
	_, ok := statusLabels[s]
	return ok
}

// StatusLabel returns the human-readable label for a status code.
// Unknown codes are returned unchanged.
func StatusLabel(s string) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return s
}

// Statuses returns the status enumeration in pipeline order.
func Statuses() []string {
	return []string{
		StatusNotOpened, StatusRequested, StatusOpen, StatusFull,
		StatusPrepared, StatusSentToTrainer, StatusAwaitingReturn,
		StatusAwaitingProcessingA, StatusAwaitingProcessingB,
		StatusErrorA, StatusErrorB, StatusCompleted,
	}
}

// Session is one offering of a Course, scheduled as one or more Occurrences.
// StartDate and EndDate are derived from the occurrence dates by the store
// and never authored directly.
type Session struct {
	ID               string
	CourseID         string
	Status           string
	StartDate        time.Time
	EndDate          time.Time
	OpeningDate      time.Time
	Deadline         time.Time
	Address          string
	City             string
	PostalCode       string
	Latitude         float64
	Longitude        float64
	HasCoordinate    bool
	LastStatusChange time.Time
	IsArchived       bool
	CreatedAt        time.Time
}

// SetStatus applies a status transition.
// PRE: newStatus is a member of the status enumeration
// POST: Status is newStatus; LastStatusChange is updated only on an actual
// change (repeating the current status is an idempotent no-op)
func (s *Session) SetStatus(newStatus string, now time.Time) (bool, error) {
	if !ValidStatus(newStatus) {
		return false, ErrInvalidStatus
	}
	if s.Status == newStatus {
		return false, nil
	}
	s.Status = newStatus
	s.LastStatusChange = now
	return true, nil
}

// Archivable reports whether the session qualifies for automatic archival:
// terminal status, not yet archived, and past the dwell threshold.
func (s *Session) Archivable(now time.Time, dwell time.Duration) bool {
	if s.IsArchived || s.Status != StatusCompleted {
		return false
	}
	return now.Sub(s.LastStatusChange) > dwell
}

// Coordinate returns the session's coordinate, if known.
func (s *Session) Coordinate() (geo.Coordinate, bool) {
	if !s.HasCoordinate {
		return geo.Coordinate{}, false
	}
	return geo.Coordinate{Lat: s.Latitude, Lon: s.Longitude}, true
}

// Occurrence is one dated meeting of a session, optionally tied to a room.
// Occurrences are owned by their session and removed with it.
type Occurrence struct {
	ID        string
	SessionID string
	Date      time.Time
	RoomID    string
	CreatedAt time.Time
}

// EffectiveCapacity derives the seat capacity of a session from the room
// capacities of its occurrences, one element per occurrence with a value of
// zero (or negative) meaning the occurrence has no usable room. The most
// space-constrained occurrence bounds the whole session, since a participant
// must fit every date the session meets.
func EffectiveCapacity(occurrenceCapacities []int) int {
	if len(occurrenceCapacities) == 0 {
		return FallbackCapacity
	}
	capacity := -1
	for _, c := range occurrenceCapacities {
		if c <= 0 {
			c = DefaultOccurrenceCapacity
		}
		if capacity < 0 || c < capacity {
			capacity = c
		}
	}
	return capacity
}

// AvailableSeats returns the remaining seats given an effective capacity and
// the current participant count, clamped at zero. Capacity is a soft cap:
// staff may enroll past it, the count simply reports zero seats left.
func AvailableSeats(capacity, registered int) int {
	seats := capacity - registered
	if seats < 0 {
		return 0
	}
	return seats
}
