package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"coursedesk/internal/domain/notification"
	"coursedesk/internal/domain/participant"
	"coursedesk/internal/domain/session"
	"coursedesk/internal/domain/wish"
)

// Promotion modes. Link keeps the wish row and points it at the session for
// provenance; Discard removes it outright.
const (
	PromoteModeLink    = "link"
	PromoteModeDiscard = "discard"
)

// ErrInvalidPromoteMode is returned for an unknown promotion mode.
var ErrInvalidPromoteMode = errors.New("invalid promotion mode")

// PromoteWishStore defines the wish store interface for promotion.
type PromoteWishStore interface {
	GetByID(ctx context.Context, id string) (wish.Wish, error)
}

// PromoteSessionStore defines the session store interface for promotion.
type PromoteSessionStore interface {
	GetByID(ctx context.Context, id string) (session.Session, error)
}

// PromoteEnrollmentStore defines the transactional enrollment store interface.
type PromoteEnrollmentStore interface {
	PromoteLink(ctx context.Context, p participant.Participant, wishID string) error
	PromoteDiscard(ctx context.Context, p participant.Participant, wishID string) error
}

// PromoteWishInput carries input for the promotion orchestrator.
type PromoteWishInput struct {
	WishID    string
	SessionID string
	Mode      string // PromoteModeLink (default) or PromoteModeDiscard
}

// PromoteWishDeps holds dependencies for PromoteWish.
type PromoteWishDeps struct {
	WishStore       PromoteWishStore
	SessionStore    PromoteSessionStore
	EnrollmentStore PromoteEnrollmentStore
	Notifier        NotifierDeps
}

// ExecutePromoteWish turns a wish into a participant of the given session.
// Capacity is a soft cap and is deliberately not checked here; staff consult
// the seat count and may overbook.
// PRE: The wish is unlinked and its course matches the session's course
// POST: Participant created with status CONTACTED; the wish is linked or
// discarded per mode, atomically with the participant insert; the member is
// notified
func ExecutePromoteWish(ctx context.Context, input PromoteWishInput, deps PromoteWishDeps) (participant.Participant, error) {
	mode := input.Mode
	if mode == "" {
		mode = PromoteModeLink
	}
	if mode != PromoteModeLink && mode != PromoteModeDiscard {
		return participant.Participant{}, ErrInvalidPromoteMode
	}

	w, err := deps.WishStore.GetByID(ctx, input.WishID)
	if err != nil {
		return participant.Participant{}, err
	}
	s, err := deps.SessionStore.GetByID(ctx, input.SessionID)
	if err != nil {
		return participant.Participant{}, err
	}

	// A linked wish was already consumed, and a wish for another course
	// can never seat this session. Both read as "nothing left to enroll".
	if w.Promoted() || w.CourseID != s.CourseID {
		return participant.Participant{}, participant.ErrAlreadyEnrolled
	}

	p := participant.Participant{
		ID:        deps.Notifier.GenerateID(),
		SessionID: s.ID,
		MemberID:  w.MemberID,
		Status:    participant.StatusContacted,
		CreatedAt: deps.Notifier.Now(),
	}
	if err := p.Validate(); err != nil {
		return participant.Participant{}, err
	}

	switch mode {
	case PromoteModeLink:
		err = deps.EnrollmentStore.PromoteLink(ctx, p, w.ID)
	case PromoteModeDiscard:
		err = deps.EnrollmentStore.PromoteDiscard(ctx, p, w.ID)
	}
	if err != nil {
		return participant.Participant{}, err
	}
	slog.Info("enrollment_event", "event", "wish_promoted", "wish_id", w.ID, "session_id", s.ID, "member_id", w.MemberID, "mode", mode)

	message := fmt.Sprintf("You have been enrolled in the session starting %s. The team will contact you shortly.",
		s.StartDate.Format("2006-01-02"))
	notifyMember(ctx, deps.Notifier, w.MemberID, notification.TypeEnrollment, "Enrollment confirmed", message, "session", s.ID)

	return p, nil
}
