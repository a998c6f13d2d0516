package orchestrators

import (
	"context"
	"errors"
	"testing"

	"coursedesk/internal/domain/course"
	"coursedesk/internal/domain/member"
	"coursedesk/internal/domain/wish"
)

func createWishDeps(wishes *mockWishStore) CreateWishDeps {
	return CreateWishDeps{
		WishStore: wishes,
		CourseStore: newMockCourseStore(
			course.Course{ID: "c1", Name: "First Aid", Code: "FA-01", DurationHours: 8, Active: true},
			course.Course{ID: "c-retired", Name: "Legacy", Code: "LG-99", DurationHours: 4, Active: false},
		),
		MemberStore: newMockMemberStore(
			member.Member{ID: "m1", Email: "claire@example.org", LastName: "Moreau"},
		),
		GenerateID: newSeqID(),
		Now:        fixedNow,
	}
}

func TestExecuteCreateWish_Valid(t *testing.T) {
	wishes := newMockWishStore()

	w, err := ExecuteCreateWish(context.Background(), CreateWishInput{
		MemberID: "m1",
		CourseID: "c1",
		Notes:    "Prefers weekend dates",
	}, createWishDeps(wishes))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.ID != "test-id-001" {
		t.Errorf("expected generated ID, got %s", w.ID)
	}
	if w.Promoted() {
		t.Error("new wish must be unlinked")
	}
	if _, ok := wishes.wishes[w.ID]; !ok {
		t.Error("wish was not saved")
	}
}

func TestExecuteCreateWish_InactiveCourse(t *testing.T) {
	_, err := ExecuteCreateWish(context.Background(), CreateWishInput{
		MemberID: "m1",
		CourseID: "c-retired",
	}, createWishDeps(newMockWishStore()))
	if !errors.Is(err, ErrCourseInactive) {
		t.Fatalf("expected ErrCourseInactive, got %v", err)
	}
}

func TestExecuteCreateWish_UnknownMember(t *testing.T) {
	_, err := ExecuteCreateWish(context.Background(), CreateWishInput{
		MemberID: "nope",
		CourseID: "c1",
	}, createWishDeps(newMockWishStore()))
	if err == nil {
		t.Fatal("expected error for unknown member")
	}
}

func TestExecuteCreateWish_Duplicate(t *testing.T) {
	wishes := newMockWishStore()
	wishes.saveErr = wish.ErrDuplicateWish

	_, err := ExecuteCreateWish(context.Background(), CreateWishInput{
		MemberID: "m1",
		CourseID: "c1",
	}, createWishDeps(wishes))
	if !errors.Is(err, wish.ErrDuplicateWish) {
		t.Fatalf("expected ErrDuplicateWish, got %v", err)
	}
}

func TestExecuteDeleteWish_Valid(t *testing.T) {
	wishes := newMockWishStore(wish.Wish{ID: "w1", MemberID: "m1", CourseID: "c1", CreatedAt: fixedTime})

	err := ExecuteDeleteWish(context.Background(), DeleteWishInput{
		WishID:   "w1",
		MemberID: "m1",
	}, DeleteWishDeps{WishStore: wishes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wishes.deleted) != 1 || wishes.deleted[0] != "w1" {
		t.Errorf("expected w1 deleted, got %v", wishes.deleted)
	}
}

func TestExecuteDeleteWish_WrongOwner(t *testing.T) {
	wishes := newMockWishStore(wish.Wish{ID: "w1", MemberID: "m1", CourseID: "c1", CreatedAt: fixedTime})

	err := ExecuteDeleteWish(context.Background(), DeleteWishInput{
		WishID:   "w1",
		MemberID: "m2",
	}, DeleteWishDeps{WishStore: wishes})
	if !errors.Is(err, ErrNotWishOwner) {
		t.Fatalf("expected ErrNotWishOwner, got %v", err)
	}
	if len(wishes.deleted) != 0 {
		t.Error("wish must not be deleted by a non-owner")
	}
}

func TestExecuteDeleteWish_Promoted(t *testing.T) {
	wishes := newMockWishStore(wish.Wish{ID: "w1", MemberID: "m1", CourseID: "c1", SessionID: "s1", CreatedAt: fixedTime})

	err := ExecuteDeleteWish(context.Background(), DeleteWishInput{
		WishID:   "w1",
		MemberID: "m1",
	}, DeleteWishDeps{WishStore: wishes})
	if !errors.Is(err, ErrWishPromoted) {
		t.Fatalf("expected ErrWishPromoted, got %v", err)
	}
}
