package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"coursedesk/internal/domain/notification"
	"coursedesk/internal/domain/participant"
	"coursedesk/internal/domain/wish"
)

// WithdrawParticipantStore defines the participant lookup for withdrawal.
type WithdrawParticipantStore interface {
	GetByID(ctx context.Context, id string) (participant.Participant, error)
}

// WithdrawEnrollmentStore defines the transactional withdrawal operation.
type WithdrawEnrollmentStore interface {
	Withdraw(ctx context.Context, participantID string, replacement wish.Wish) error
}

// WithdrawParticipantInput carries input for the withdrawal orchestrator.
type WithdrawParticipantInput struct {
	ParticipantID string
}

// WithdrawParticipantDeps holds dependencies for WithdrawParticipant.
type WithdrawParticipantDeps struct {
	ParticipantStore WithdrawParticipantStore
	SessionStore     PromoteSessionStore
	EnrollmentStore  WithdrawEnrollmentStore
	Notifier         NotifierDeps
}

// ExecuteWithdrawParticipant removes a participant from a session and puts
// the member back in the wish pool for the course, so withdrawing never
// silently drops their interest.
// PRE: ParticipantID refers to an existing participant
// POST: Participant deleted; an unlinked wish for (member, course) exists,
// stamped as recreated; the member is notified
func ExecuteWithdrawParticipant(ctx context.Context, input WithdrawParticipantInput, deps WithdrawParticipantDeps) error {
	p, err := deps.ParticipantStore.GetByID(ctx, input.ParticipantID)
	if err != nil {
		return err
	}
	s, err := deps.SessionStore.GetByID(ctx, p.SessionID)
	if err != nil {
		return err
	}

	replacement := wish.Wish{
		ID:        deps.Notifier.GenerateID(),
		MemberID:  p.MemberID,
		CourseID:  s.CourseID,
		Notes:     wish.WithdrawalNote,
		CreatedAt: deps.Notifier.Now(),
	}
	if err := deps.EnrollmentStore.Withdraw(ctx, p.ID, replacement); err != nil {
		return err
	}
	slog.Info("enrollment_event", "event", "participant_withdrawn", "participant_id", p.ID, "session_id", s.ID, "member_id", p.MemberID)

	message := fmt.Sprintf("You have been withdrawn from the session starting %s. Your wish for this course has been kept for a future session.",
		s.StartDate.Format("2006-01-02"))
	notifyMember(ctx, deps.Notifier, p.MemberID, notification.TypeWithdrawal, "Session withdrawal", message, "session", s.ID)

	return nil
}
