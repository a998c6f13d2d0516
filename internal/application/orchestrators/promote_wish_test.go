package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"coursedesk/internal/domain/notification"
	"coursedesk/internal/domain/participant"
	"coursedesk/internal/domain/wish"
)

func pendingWish() wish.Wish {
	return wish.Wish{ID: "w1", MemberID: "m1", CourseID: "c1", CreatedAt: fixedTime.Add(-60 * 24 * time.Hour)}
}

func promoteDeps(w wish.Wish, notifications *mockNotificationStore, enrollment *mockEnrollmentStore) PromoteWishDeps {
	return PromoteWishDeps{
		WishStore:       newMockWishStore(w),
		SessionStore:    newMockSessionStore(openSession()),
		EnrollmentStore: enrollment,
		Notifier:        testNotifier(notifications),
	}
}

func TestExecutePromoteWish_Link(t *testing.T) {
	notifications := &mockNotificationStore{}
	enrollment := &mockEnrollmentStore{}

	p, err := ExecutePromoteWish(context.Background(), PromoteWishInput{
		WishID:    "w1",
		SessionID: "s1",
		Mode:      PromoteModeLink,
	}, promoteDeps(pendingWish(), notifications, enrollment))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Status != participant.StatusContacted {
		t.Errorf("expected CONTACTED, got %s", p.Status)
	}
	if p.SessionID != "s1" || p.MemberID != "m1" {
		t.Errorf("participant mis-built: %+v", p)
	}
	if len(enrollment.linked) != 1 || enrollment.linked[0].wishID != "w1" {
		t.Fatalf("expected one link call for w1, got %+v", enrollment.linked)
	}
	if len(enrollment.discarded) != 0 {
		t.Error("link mode must not discard")
	}

	if len(notifications.saved) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifications.saved))
	}
	if notifications.saved[0].Type != notification.TypeEnrollment {
		t.Errorf("expected enrollment notification, got %s", notifications.saved[0].Type)
	}
}

func TestExecutePromoteWish_Discard(t *testing.T) {
	enrollment := &mockEnrollmentStore{}

	_, err := ExecutePromoteWish(context.Background(), PromoteWishInput{
		WishID:    "w1",
		SessionID: "s1",
		Mode:      PromoteModeDiscard,
	}, promoteDeps(pendingWish(), &mockNotificationStore{}, enrollment))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(enrollment.discarded) != 1 {
		t.Fatalf("expected one discard call, got %+v", enrollment.discarded)
	}
}

func TestExecutePromoteWish_DefaultsToLink(t *testing.T) {
	enrollment := &mockEnrollmentStore{}

	_, err := ExecutePromoteWish(context.Background(), PromoteWishInput{
		WishID:    "w1",
		SessionID: "s1",
	}, promoteDeps(pendingWish(), &mockNotificationStore{}, enrollment))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(enrollment.linked) != 1 {
		t.Error("empty mode should default to link")
	}
}

func TestExecutePromoteWish_InvalidMode(t *testing.T) {
	_, err := ExecutePromoteWish(context.Background(), PromoteWishInput{
		WishID:    "w1",
		SessionID: "s1",
		Mode:      "teleport",
	}, promoteDeps(pendingWish(), &mockNotificationStore{}, &mockEnrollmentStore{}))
	if !errors.Is(err, ErrInvalidPromoteMode) {
		t.Fatalf("expected ErrInvalidPromoteMode, got %v", err)
	}
}

func TestExecutePromoteWish_AlreadyPromoted(t *testing.T) {
	w := pendingWish()
	w.SessionID = "s0"

	_, err := ExecutePromoteWish(context.Background(), PromoteWishInput{
		WishID:    "w1",
		SessionID: "s1",
	}, promoteDeps(w, &mockNotificationStore{}, &mockEnrollmentStore{}))
	if !errors.Is(err, participant.ErrAlreadyEnrolled) {
		t.Fatalf("expected ErrAlreadyEnrolled, got %v", err)
	}
}

func TestExecutePromoteWish_CourseMismatch(t *testing.T) {
	w := pendingWish()
	w.CourseID = "c-other"

	_, err := ExecutePromoteWish(context.Background(), PromoteWishInput{
		WishID:    "w1",
		SessionID: "s1",
	}, promoteDeps(w, &mockNotificationStore{}, &mockEnrollmentStore{}))
	if !errors.Is(err, participant.ErrAlreadyEnrolled) {
		t.Fatalf("expected ErrAlreadyEnrolled, got %v", err)
	}
}

func TestExecutePromoteWish_DuplicateEnrollment(t *testing.T) {
	notifications := &mockNotificationStore{}
	enrollment := &mockEnrollmentStore{err: participant.ErrAlreadyEnrolled}

	_, err := ExecutePromoteWish(context.Background(), PromoteWishInput{
		WishID:    "w1",
		SessionID: "s1",
	}, promoteDeps(pendingWish(), notifications, enrollment))
	if !errors.Is(err, participant.ErrAlreadyEnrolled) {
		t.Fatalf("expected ErrAlreadyEnrolled, got %v", err)
	}
	if len(notifications.saved) != 0 {
		t.Error("failed promotion must not notify")
	}
}
