package participant

import (
	"errors"
	"strings"
	"time"
)

// Participant statuses. The two FILE_RECEIVED variants and ERROR are
// terminal; the others mark paperwork still in flight.
const (
	StatusWish              = "WISH"
	StatusContacted         = "CONTACTED"
	StatusReminded          = "REMINDED"
	StatusFileReceivedEmail = "FILE_RECEIVED_EMAIL"
	StatusFileReceivedPaper = "FILE_RECEIVED_PAPER"
	StatusError             = "ERROR"
)

// Domain errors
var (
	ErrInvalidStatus   = errors.New("invalid participant status")
	ErrAlreadyEnrolled = errors.New("member is already enrolled in this session")
)

var statusLabels = map[string]string{
	StatusWish:              "Wish",
	StatusContacted:         "Contacted",
	StatusReminded:          "Reminded",
	StatusFileReceivedEmail: "File received by email",
	StatusFileReceivedPaper: "File received on paper",
	StatusError:             "File in error",
}

// ValidStatus reports whether s is a member of the status enumeration.
func ValidStatus(s string) bool {
	_, ok := statusLabels[s]
	return ok
}

// StatusLabel returns the human-readable label for a status code.
// Unknown codes are returned unchanged.
func StatusLabel(s string) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return s
}

// TerminalStatus reports whether s ends the paperwork pipeline.
func TerminalStatus(s string) bool {
	return s == StatusFileReceivedEmail || s == StatusFileReceivedPaper || s == StatusError
}

// Participant is the enrollment record linking a member to a session.
// Unique per (session, member); its status tracks enrollment paperwork
// independently of the session's own status.
type Participant struct {
	ID        string
	SessionID string
	MemberID  string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks if the Participant has valid data.
// PRE: Participant struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (p *Participant) Validate() error {
	if p.SessionID == "" {
		return errors.New("participant session ID cannot be empty")
	}
	if p.MemberID == "" {
		return errors.New("participant member ID cannot be empty")
	}
	if !ValidStatus(p.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// SetStatus applies a paperwork status change.
// PRE: newStatus is a member of the status enumeration
// POST: Status is newStatus, UpdatedAt stamped
func (p *Participant) SetStatus(newStatus string, now time.Time) error {
	if !ValidStatus(newStatus) {
		return ErrInvalidStatus
	}
	p.Status = newStatus
	p.UpdatedAt = now
	return nil
}

// Comment is an append-only free-text note on a participant, owned by the
// authoring member. Comments are never edited, only appended.
type Comment struct {
	ID            string
	ParticipantID string
	AuthorID      string
	Content       string
	CreatedAt     time.Time
}

// Validate checks if the Comment has valid data.
func (c *Comment) Validate() error {
	if c.ParticipantID == "" {
		return errors.New("comment participant ID cannot be empty")
	}
	if strings.TrimSpace(c.Content) == "" {
		return errors.New("comment content cannot be empty")
	}
	return nil
}
