package course

import (
	"context"

	domain "coursedesk/internal/domain/course"
)

// Store persists Course state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Course, error)
	Save(ctx context.Context, value domain.Course) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Course, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	ActiveOnly bool
	Limit      int
	Offset     int
}
