package wish

import (
	"errors"
	"time"
)

// WithdrawalNote is stamped on a wish that was recreated after a
// participant withdrew from a session.
const WithdrawalNote = "Wish recreated after participation was withdrawn"

// Domain errors
var (
	ErrDuplicateWish = errors.New("member already holds a wish for this course")
)

// Wish is a member's unconfirmed interest in a course. A wish is unique per
// (member, course). Once promoted it is either linked to the session as a
// promotion record or deleted, depending on the promotion flow.
type Wish struct {
	ID        string
	MemberID  string
	CourseID  string
	SessionID string // empty until promoted in place
	Notes     string
	CreatedAt time.Time
}

// Validate checks if the Wish has valid data.
// PRE: Wish struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (w *Wish) Validate() error {
	if w.MemberID == "" {
		return errors.New("wish member ID cannot be empty")
	}
	if w.CourseID == "" {
		return errors.New("wish course ID cannot be empty")
	}
	return nil
}

// Promoted reports whether the wish has been linked to a session.
func (w *Wish) Promoted() bool {
	return w.SessionID != ""
}
