package enrollment

import (
	"context"

	participantDomain "coursedesk/internal/domain/participant"
	wishDomain "coursedesk/internal/domain/wish"
)

// Store executes the multi-row enrollment writes that must be atomic: a
// promotion bundles a participant insert with a wish mutation, a withdrawal
// bundles a participant delete with a wish upsert. Either the whole unit
// applies or none of it does.
type Store interface {
	// PromoteLink inserts the participant and stamps the wish with the
	// session it was promoted into, keeping the wish as a promotion record.
	PromoteLink(ctx context.Context, p participantDomain.Participant, wishID string) error
	// PromoteDiscard inserts the participant and deletes the wish row.
	PromoteDiscard(ctx context.Context, p participantDomain.Participant, wishID string) error
	// Withdraw deletes the participant and upserts the replacement wish,
	// unlinked from any session.
	Withdraw(ctx context.Context, participantID string, w wishDomain.Wish) error
}
