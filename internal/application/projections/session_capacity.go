package projections

import (
	"context"

	"coursedesk/internal/domain/session"
)

// CapacitySessionStore defines the session store interface for the capacity query.
type CapacitySessionStore interface {
	GetByID(ctx context.Context, id string) (session.Session, error)
	ListOccurrenceRoomCapacities(ctx context.Context, sessionID string) ([]int, error)
}

// CapacityParticipantStore defines the participant store interface for the capacity query.
type CapacityParticipantStore interface {
	CountBySession(ctx context.Context, sessionID string) (int, error)
}

// SessionCapacityDeps holds dependencies for the capacity query.
type SessionCapacityDeps struct {
	SessionStore     CapacitySessionStore
	ParticipantStore CapacityParticipantStore
}

// SessionCapacityInput identifies the session to measure.
type SessionCapacityInput struct {
	SessionID string
}

// SessionCapacityResult carries the derived seat figures for a session.
// Capacity is a soft cap: Registered may exceed it, Available only clamps
// at zero.
type SessionCapacityResult struct {
	SessionID  string
	Capacity   int
	Registered int
	Available  int
}

// QuerySessionCapacity derives the effective capacity of a session from the
// room capacities of its occurrences and counts the seats still open.
// PRE: SessionID refers to an existing session
// POST: Capacity is the minimum occurrence room capacity (roomless
// occurrences count as the default, no occurrences at all as the fallback)
func QuerySessionCapacity(ctx context.Context, input SessionCapacityInput, deps SessionCapacityDeps) (SessionCapacityResult, error) {
	if _, err := deps.SessionStore.GetByID(ctx, input.SessionID); err != nil {
		return SessionCapacityResult{}, err
	}

	capacities, err := deps.SessionStore.ListOccurrenceRoomCapacities(ctx, input.SessionID)
	if err != nil {
		return SessionCapacityResult{}, err
	}

	registered, err := deps.ParticipantStore.CountBySession(ctx, input.SessionID)
	if err != nil {
		return SessionCapacityResult{}, err
	}

	capacity := session.EffectiveCapacity(capacities)
	return SessionCapacityResult{
		SessionID:  input.SessionID,
		Capacity:   capacity,
		Registered: registered,
		Available:  session.AvailableSeats(capacity, registered),
	}, nil
}
