package notification

import (
	"errors"
	"time"
)

// Notification types, used by the consuming UI to group and deep-link.
const (
	TypeSessionStatus = "session_status_update"
	TypeEnrollment    = "session_enrollment"
	TypeWithdrawal    = "enrollment_withdrawn"
	TypeGeneral       = "general"
)

// Notification is an immutable record addressed to a member, emitted as a
// side effect of status transitions and promotions. The engine only
// persists records; display and delivery belong to the surrounding
// application, which flips the read flag.
type Notification struct {
	ID          string
	MemberID    string
	Type        string
	Message     string
	RelatedType string // e.g. "session", "participant"
	RelatedID   string
	IsRead      bool
	CreatedAt   time.Time
}

// Validate checks if the Notification has valid data.
// PRE: Notification struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (n *Notification) Validate() error {
	if n.MemberID == "" {
		return errors.New("notification member ID cannot be empty")
	}
	if n.Message == "" {
		return errors.New("notification message cannot be empty")
	}
	if n.Type == "" {
		return errors.New("notification type cannot be empty")
	}
	return nil
}
