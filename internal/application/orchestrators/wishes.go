package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"coursedesk/internal/domain/course"
	"coursedesk/internal/domain/member"
	"coursedesk/internal/domain/wish"
)

// ErrCourseInactive is returned when a wish targets a course no longer offered.
var ErrCourseInactive = errors.New("course is not open for wishes")

// ErrNotWishOwner is returned when a member tries to withdraw someone else's wish.
var ErrNotWishOwner = errors.New("wish belongs to another member")

// ErrWishPromoted is returned when a member tries to withdraw a wish already
// turned into an enrollment.
var ErrWishPromoted = errors.New("wish has already been promoted")

// WishCourseStore defines the course store interface for wish management.
type WishCourseStore interface {
	GetByID(ctx context.Context, id string) (course.Course, error)
}

// WishMemberStore defines the member store interface for wish management.
type WishMemberStore interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
}

// WishStore defines the wish store interface for wish management.
type WishStore interface {
	GetByID(ctx context.Context, id string) (wish.Wish, error)
	Save(ctx context.Context, value wish.Wish) error
	Delete(ctx context.Context, id string) error
}

// CreateWishInput carries input for wish creation.
type CreateWishInput struct {
	MemberID string
	CourseID string
	Notes    string
}

// CreateWishDeps holds dependencies for CreateWish.
type CreateWishDeps struct {
	WishStore   WishStore
	CourseStore WishCourseStore
	MemberStore WishMemberStore
	GenerateID  func() string
	Now         func() time.Time
}

// ExecuteCreateWish registers a member's interest in a course.
// PRE: Member exists; course exists and is active
// POST: An unlinked wish exists for (member, course); a second wish for the
// same pair returns wish.ErrDuplicateWish
func ExecuteCreateWish(ctx context.Context, input CreateWishInput, deps CreateWishDeps) (wish.Wish, error) {
	if _, err := deps.MemberStore.GetByID(ctx, input.MemberID); err != nil {
		return wish.Wish{}, err
	}
	c, err := deps.CourseStore.GetByID(ctx, input.CourseID)
	if err != nil {
		return wish.Wish{}, err
	}
	if !c.Active {
		return wish.Wish{}, ErrCourseInactive
	}

	w := wish.Wish{
		ID:        deps.GenerateID(),
		MemberID:  input.MemberID,
		CourseID:  input.CourseID,
		Notes:     input.Notes,
		CreatedAt: deps.Now(),
	}
	if err := w.Validate(); err != nil {
		return wish.Wish{}, err
	}
	if err := deps.WishStore.Save(ctx, w); err != nil {
		return wish.Wish{}, err
	}

	slog.Info("wish_event", "event", "wish_created", "wish_id", w.ID, "member_id", w.MemberID, "course_id", w.CourseID)
	return w, nil
}

// DeleteWishInput carries input for member-initiated wish withdrawal.
// MemberID is the caller; it must own the wish.
type DeleteWishInput struct {
	WishID   string
	MemberID string
}

// DeleteWishDeps holds dependencies for DeleteWish.
type DeleteWishDeps struct {
	WishStore WishStore
}

// ExecuteDeleteWish lets a member withdraw their own pending wish. Promoted
// wishes are enrollment provenance and must go through participant
// withdrawal instead.
// PRE: The wish exists, belongs to the caller and is unpromoted
// POST: The wish row is gone
func ExecuteDeleteWish(ctx context.Context, input DeleteWishInput, deps DeleteWishDeps) error {
	w, err := deps.WishStore.GetByID(ctx, input.WishID)
	if err != nil {
		return err
	}
	if input.MemberID != "" && w.MemberID != input.MemberID {
		return ErrNotWishOwner
	}
	if w.Promoted() {
		return ErrWishPromoted
	}

	if err := deps.WishStore.Delete(ctx, w.ID); err != nil {
		return err
	}
	slog.Info("wish_event", "event", "wish_deleted", "wish_id", w.ID, "member_id", w.MemberID)
	return nil
}
