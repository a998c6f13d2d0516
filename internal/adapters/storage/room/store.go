package room

import (
	"context"

	domain "coursedesk/internal/domain/room"
)

// Store persists Room state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Room, error)
	Save(ctx context.Context, value domain.Room) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Room, error)
}
