package session

import (
	"context"

	domain "coursedesk/internal/domain/session"
)

// Store persists Session state and the session's occurrences.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Session, error)
	Save(ctx context.Context, value domain.Session) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Session, error)
	ListCompletedUnarchived(ctx context.Context) ([]domain.Session, error)
	MarkArchived(ctx context.Context, id string) error

	SaveOccurrence(ctx context.Context, value domain.Occurrence) error
	DeleteOccurrence(ctx context.Context, id string) error
	ListOccurrences(ctx context.Context, sessionID string) ([]domain.Occurrence, error)
	// ListOccurrenceRoomCapacities returns one element per occurrence of
	// the session: the capacity of its room, or zero when the occurrence
	// has no room.
	ListOccurrenceRoomCapacities(ctx context.Context, sessionID string) ([]int, error)
}

// ListFilter carries filtering parameters for List operations. Archived
// sessions are excluded unless IncludeArchived is set.
type ListFilter struct {
	CourseID        string
	Status          string
	IncludeArchived bool
	Limit           int
	Offset          int
}
