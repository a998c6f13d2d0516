package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"coursedesk/internal/domain/notification"
	"coursedesk/internal/domain/participant"
	"coursedesk/internal/domain/session"
)

// SessionStatusSessionStore defines the session store interface for status changes.
type SessionStatusSessionStore interface {
	GetByID(ctx context.Context, id string) (session.Session, error)
	Save(ctx context.Context, value session.Session) error
}

// SessionStatusParticipantStore defines the participant store interface for status changes.
type SessionStatusParticipantStore interface {
	ListBySession(ctx context.Context, sessionID string) ([]participant.Participant, error)
}

// SetSessionStatusInput carries input for the session status orchestrator.
type SetSessionStatusInput struct {
	SessionID string
	Status    string
}

// SetSessionStatusDeps holds dependencies for SetSessionStatus.
type SetSessionStatusDeps struct {
	SessionStore     SessionStatusSessionStore
	ParticipantStore SessionStatusParticipantStore
	Notifier         NotifierDeps
}

// ExecuteSetSessionStatus moves a session to a new pipeline status and tells
// every enrolled member about it. Repeating the current status is an
// idempotent no-op that leaves the change timestamp alone and notifies
// nobody.
// PRE: Status is a member of the session status enumeration
// POST: Returns true when the status actually changed
// INVARIANT: Notification failures never roll back the status change
func ExecuteSetSessionStatus(ctx context.Context, input SetSessionStatusInput, deps SetSessionStatusDeps) (bool, error) {
	s, err := deps.SessionStore.GetByID(ctx, input.SessionID)
	if err != nil {
		return false, err
	}

	changed, err := s.SetStatus(input.Status, deps.Notifier.Now())
	if err != nil {
		return false, err
	}
	if !changed {
		slog.Info("session_event", "event", "status_unchanged", "session_id", s.ID, "status", s.Status)
		return false, nil
	}

	if err := deps.SessionStore.Save(ctx, s); err != nil {
		return false, err
	}
	slog.Info("session_event", "event", "status_changed", "session_id", s.ID, "status", s.Status)

	participants, err := deps.ParticipantStore.ListBySession(ctx, s.ID)
	if err != nil {
		// The status change already landed; losing the fan-out is a
		// degradation, not a failure.
		slog.Warn("session_event", "event", "participant_list_failed", "session_id", s.ID, "error", err)
		return true, nil
	}

	subject := "Session update"
	message := fmt.Sprintf("Your session starting %s is now: %s.",
		s.StartDate.Format("2006-01-02"), session.StatusLabel(s.Status))
	for _, p := range participants {
		notifyMember(ctx, deps.Notifier, p.MemberID, notification.TypeSessionStatus, subject, message, "session", s.ID)
	}

	return true, nil
}
