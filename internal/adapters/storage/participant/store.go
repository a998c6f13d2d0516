package participant

import (
	"context"

	domain "coursedesk/internal/domain/participant"
)

// Store persists Participant state and the append-only comment trail.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Participant, error)
	Save(ctx context.Context, value domain.Participant) error
	Delete(ctx context.Context, id string) error
	ListBySession(ctx context.Context, sessionID string) ([]domain.Participant, error)
	CountBySession(ctx context.Context, sessionID string) (int, error)
	Exists(ctx context.Context, sessionID, memberID string) (bool, error)

	AddComment(ctx context.Context, value domain.Comment) error
	ListComments(ctx context.Context, participantID string) ([]domain.Comment, error)
}
