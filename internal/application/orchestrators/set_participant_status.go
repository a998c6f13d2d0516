package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"coursedesk/internal/domain/participant"
)

// ParticipantStatusStore defines the participant store interface for paperwork tracking.
type ParticipantStatusStore interface {
	GetByID(ctx context.Context, id string) (participant.Participant, error)
	Save(ctx context.Context, value participant.Participant) error
	AddComment(ctx context.Context, value participant.Comment) error
}

// SetParticipantStatusInput carries input for the participant status orchestrator.
// Comment is optional free text appended to the participant's trail.
type SetParticipantStatusInput struct {
	ParticipantID string
	Status        string
	Comment       string
	AuthorID      string
}

// SetParticipantStatusDeps holds dependencies for SetParticipantStatus.
type SetParticipantStatusDeps struct {
	ParticipantStore ParticipantStatusStore
	GenerateID       func() string
	Now              func() time.Time
}

// ExecuteSetParticipantStatus updates a participant's paperwork status and
// optionally appends a comment. Paperwork changes are staff bookkeeping and
// do not notify the member.
// PRE: Status is a member of the participant status enumeration
// POST: Participant saved with the new status; comment appended when given
func ExecuteSetParticipantStatus(ctx context.Context, input SetParticipantStatusInput, deps SetParticipantStatusDeps) (participant.Participant, error) {
	p, err := deps.ParticipantStore.GetByID(ctx, input.ParticipantID)
	if err != nil {
		return participant.Participant{}, err
	}

	if err := p.SetStatus(input.Status, deps.Now()); err != nil {
		return participant.Participant{}, err
	}
	if err := deps.ParticipantStore.Save(ctx, p); err != nil {
		return participant.Participant{}, err
	}
	slog.Info("participant_event", "event", "status_changed", "participant_id", p.ID, "status", p.Status)

	if strings.TrimSpace(input.Comment) != "" {
		c := participant.Comment{
			ID:            deps.GenerateID(),
			ParticipantID: p.ID,
			AuthorID:      input.AuthorID,
			Content:       input.Comment,
			CreatedAt:     deps.Now(),
		}
		if err := c.Validate(); err != nil {
			return p, err
		}
		if err := deps.ParticipantStore.AddComment(ctx, c); err != nil {
			return p, err
		}
	}

	return p, nil
}
