package projections

import (
	"context"
	"errors"
	"testing"

	"coursedesk/internal/domain/session"
)

type mockCapacitySessionStore struct {
	sessions   map[string]session.Session
	capacities map[string][]int
}

func (m *mockCapacitySessionStore) GetByID(ctx context.Context, id string) (session.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return session.Session{}, errors.New("session not found")
	}
	return s, nil
}

func (m *mockCapacitySessionStore) ListOccurrenceRoomCapacities(ctx context.Context, sessionID string) ([]int, error) {
	return m.capacities[sessionID], nil
}

type mockCapacityParticipantStore struct {
	counts map[string]int
}

func (m *mockCapacityParticipantStore) CountBySession(ctx context.Context, sessionID string) (int, error) {
	return m.counts[sessionID], nil
}

func capacityDeps(capacities []int, registered int) SessionCapacityDeps {
	return SessionCapacityDeps{
		SessionStore: &mockCapacitySessionStore{
			sessions:   map[string]session.Session{"s1": {ID: "s1", Status: session.StatusOpen}},
			capacities: map[string][]int{"s1": capacities},
		},
		ParticipantStore: &mockCapacityParticipantStore{counts: map[string]int{"s1": registered}},
	}
}

func TestQuerySessionCapacity_MinOverOccurrences(t *testing.T) {
	// A 15-seat room and a 20-seat room bound the session at 15.
	result, err := QuerySessionCapacity(context.Background(), SessionCapacityInput{SessionID: "s1"}, capacityDeps([]int{15, 20}, 4))
	if err != nil {
		t.Fatalf("QuerySessionCapacity failed: %v", err)
	}
	if result.Capacity != 15 {
		t.Errorf("expected capacity 15, got %d", result.Capacity)
	}
	if result.Available != 11 {
		t.Errorf("expected 11 available, got %d", result.Available)
	}
}

func TestQuerySessionCapacity_RoomlessOccurrence(t *testing.T) {
	result, err := QuerySessionCapacity(context.Background(), SessionCapacityInput{SessionID: "s1"}, capacityDeps([]int{0, 30}, 0))
	if err != nil {
		t.Fatalf("QuerySessionCapacity failed: %v", err)
	}
	if result.Capacity != session.DefaultOccurrenceCapacity {
		t.Errorf("expected default capacity %d, got %d", session.DefaultOccurrenceCapacity, result.Capacity)
	}
}

func TestQuerySessionCapacity_NoOccurrences(t *testing.T) {
	result, err := QuerySessionCapacity(context.Background(), SessionCapacityInput{SessionID: "s1"}, capacityDeps(nil, 0))
	if err != nil {
		t.Fatalf("QuerySessionCapacity failed: %v", err)
	}
	if result.Capacity != session.FallbackCapacity {
		t.Errorf("expected fallback capacity %d, got %d", session.FallbackCapacity, result.Capacity)
	}
}

func TestQuerySessionCapacity_Overbooked(t *testing.T) {
	// Soft cap: 22 registered against 20 seats reports zero available.
	result, err := QuerySessionCapacity(context.Background(), SessionCapacityInput{SessionID: "s1"}, capacityDeps([]int{20}, 22))
	if err != nil {
		t.Fatalf("QuerySessionCapacity failed: %v", err)
	}
	if result.Registered != 22 {
		t.Errorf("expected 22 registered, got %d", result.Registered)
	}
	if result.Available != 0 {
		t.Errorf("expected 0 available, got %d", result.Available)
	}
}

func TestQuerySessionCapacity_UnknownSession(t *testing.T) {
	_, err := QuerySessionCapacity(context.Background(), SessionCapacityInput{SessionID: "nope"}, capacityDeps(nil, 0))
	if err == nil {
		t.Fatal("expected error for unknown session")
	}
}
