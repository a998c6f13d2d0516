package wish

import (
	"context"

	domain "coursedesk/internal/domain/wish"
)

// Store persists Wish state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Wish, error)
	GetByMemberAndCourse(ctx context.Context, memberID, courseID string) (domain.Wish, error)
	Save(ctx context.Context, value domain.Wish) error
	Delete(ctx context.Context, id string) error
	ListByMember(ctx context.Context, memberID string) ([]domain.Wish, error)
	// ListCandidates returns the unlinked wishes for a course whose member
	// is not yet a participant of the given session, in submission order.
	ListCandidates(ctx context.Context, courseID, sessionID string) ([]domain.Wish, error)
}
