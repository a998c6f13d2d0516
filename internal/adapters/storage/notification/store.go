package notification

import (
	"context"

	domain "coursedesk/internal/domain/notification"
)

// Store persists Notification records. Records are immutable apart from the
// read flag, which the consuming UI flips.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Notification, error)
	Save(ctx context.Context, value domain.Notification) error
	ListByMember(ctx context.Context, memberID string, filter ListFilter) ([]domain.Notification, error)
	CountUnread(ctx context.Context, memberID string) (int, error)
	MarkRead(ctx context.Context, id string) error
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	UnreadOnly bool
	Limit      int
}
