package session_test

import (
	"testing"
	"time"

	"coursedesk/internal/domain/session"
)

var baseTime = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

// TestSetStatus_Change tests a real transition stamps LastStatusChange.
func TestSetStatus_Change(t *testing.T) {
	s := session.Session{Status: session.StatusNotOpened}
	changed, err := s.SetStatus(session.StatusOpen, baseTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed {
		t.Error("expected changed=true")
	}
	if s.Status != session.StatusOpen {
		t.Errorf("expected status OPEN, got %s", s.Status)
	}
	if !s.LastStatusChange.Equal(baseTime) {
		t.Errorf("expected LastStatusChange=%v, got %v", baseTime, s.LastStatusChange)
	}
}

// TestSetStatus_Idempotent tests repeating the same status leaves the
// timestamp untouched.
func TestSetStatus_Idempotent(t *testing.T) {
	s := session.Session{Status: session.StatusNotOpened}
	if _, err := s.SetStatus(session.StatusOpen, baseTime); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	later := baseTime.Add(2 * time.Hour)
	changed, err := s.SetStatus(session.StatusOpen, later)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changed {
		t.Error("expected changed=false on repeat")
	}
	if !s.LastStatusChange.Equal(baseTime) {
		t.Errorf("timestamp moved on idempotent repeat: %v", s.LastStatusChange)
	}
}

// TestSetStatus_Invalid tests an unknown status is rejected.
func TestSetStatus_Invalid(t *testing.T) {
	s := session.Session{Status: session.StatusOpen}
	if _, err := s.SetStatus("CANCELLED", baseTime); err != session.ErrInvalidStatus {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if s.Status != session.StatusOpen {
		t.Errorf("status mutated on invalid transition: %s", s.Status)
	}
}

// TestSetStatus_AnyToAny tests that the pipeline enforces no ordering.
func TestSetStatus_AnyToAny(t *testing.T) {
	s := session.Session{Status: session.StatusCompleted}
	if _, err := s.SetStatus(session.StatusNotOpened, baseTime); err != nil {
		t.Errorf("backwards transition rejected: %v", err)
	}
}

// TestValidStatus covers the full enumeration.
func TestValidStatus(t *testing.T) {
	for _, st := range session.Statuses() {
		if !session.ValidStatus(st) {
			t.Errorf("expected %s to be valid", st)
		}
	}
	if session.ValidStatus("") || session.ValidStatus("open") {
		t.Error("unexpected status accepted")
	}
}

// TestEffectiveCapacity_Minimum tests that the tightest occurrence wins.
func TestEffectiveCapacity_Minimum(t *testing.T) {
	if got := session.EffectiveCapacity([]int{15, 20}); got != 15 {
		t.Errorf("expected 15, got %d", got)
	}
}

// TestEffectiveCapacity_RoomlessDefaults tests roomless occurrences count
// as the default capacity of 20.
func TestEffectiveCapacity_RoomlessDefaults(t *testing.T) {
	if got := session.EffectiveCapacity([]int{0, 25}); got != 20 {
		t.Errorf("expected 20, got %d", got)
	}
	if got := session.EffectiveCapacity([]int{0}); got != 20 {
		t.Errorf("expected 20, got %d", got)
	}
}

// TestEffectiveCapacity_NoOccurrences tests the fallback of 12.
func TestEffectiveCapacity_NoOccurrences(t *testing.T) {
	if got := session.EffectiveCapacity(nil); got != session.FallbackCapacity {
		t.Errorf("expected %d, got %d", session.FallbackCapacity, got)
	}
}

// TestEffectiveCapacity_Monotonic tests adding a smaller room never raises
// the effective capacity.
func TestEffectiveCapacity_Monotonic(t *testing.T) {
	base := session.EffectiveCapacity([]int{18, 25})
	withSmaller := session.EffectiveCapacity([]int{18, 25, 10})
	if withSmaller > base {
		t.Errorf("capacity rose from %d to %d after adding a smaller room", base, withSmaller)
	}
}

// TestAvailableSeats_Clamp tests the negative clamp.
func TestAvailableSeats_Clamp(t *testing.T) {
	if got := session.AvailableSeats(15, 15); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	if got := session.AvailableSeats(15, 17); got != 0 {
		t.Errorf("expected 0 when over capacity, got %d", got)
	}
	if got := session.AvailableSeats(15, 3); got != 12 {
		t.Errorf("expected 12, got %d", got)
	}
}

// TestArchivable tests the archival gate on status and dwell.
func TestArchivable(t *testing.T) {
	now := baseTime
	dwell := time.Hour

	completed := session.Session{Status: session.StatusCompleted, LastStatusChange: now.Add(-2 * time.Hour)}
	if !completed.Archivable(now, dwell) {
		t.Error("expected completed+stale session to be archivable")
	}

	fresh := session.Session{Status: session.StatusCompleted, LastStatusChange: now.Add(-30 * time.Minute)}
	if fresh.Archivable(now, dwell) {
		t.Error("session inside dwell window must not be archivable")
	}

	open := session.Session{Status: session.StatusOpen, LastStatusChange: now.Add(-48 * time.Hour)}
	if open.Archivable(now, dwell) {
		t.Error("non-terminal session must never be archivable")
	}

	archived := session.Session{Status: session.StatusCompleted, IsArchived: true, LastStatusChange: now.Add(-48 * time.Hour)}
	if archived.Archivable(now, dwell) {
		t.Error("already archived session must not be archivable again")
	}
}

// TestStatusLabel tests human-readable labels resolve and unknown codes
// pass through.
func TestStatusLabel(t *testing.T) {
	if session.StatusLabel(session.StatusOpen) != "Open for enrollment" {
		t.Errorf("unexpected label: %s", session.StatusLabel(session.StatusOpen))
	}
	if session.StatusLabel("MYSTERY") != "MYSTERY" {
		t.Error("unknown code should pass through")
	}
}
