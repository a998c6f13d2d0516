package orchestrators

import (
	"context"
	"errors"
	"testing"

	"coursedesk/internal/domain/participant"
)

func contactedParticipant() participant.Participant {
	return participant.Participant{
		ID:        "p1",
		SessionID: "s1",
		MemberID:  "m1",
		Status:    participant.StatusContacted,
		CreatedAt: fixedTime,
	}
}

func TestExecuteSetParticipantStatus_Valid(t *testing.T) {
	store := newMockParticipantStore(contactedParticipant())

	p, err := ExecuteSetParticipantStatus(context.Background(), SetParticipantStatusInput{
		ParticipantID: "p1",
		Status:        participant.StatusFileReceivedEmail,
	}, SetParticipantStatusDeps{
		ParticipantStore: store,
		GenerateID:       newSeqID(),
		Now:              fixedNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != participant.StatusFileReceivedEmail {
		t.Errorf("expected FILE_RECEIVED_EMAIL, got %s", p.Status)
	}
	if !p.UpdatedAt.Equal(fixedTime) {
		t.Errorf("expected UpdatedAt stamped, got %v", p.UpdatedAt)
	}
	if len(store.comments) != 0 {
		t.Error("no comment was given, none should be appended")
	}
}

func TestExecuteSetParticipantStatus_WithComment(t *testing.T) {
	store := newMockParticipantStore(contactedParticipant())

	_, err := ExecuteSetParticipantStatus(context.Background(), SetParticipantStatusInput{
		ParticipantID: "p1",
		Status:        participant.StatusReminded,
		Comment:       "Left a voicemail, paperwork still missing",
		AuthorID:      "staff-1",
	}, SetParticipantStatusDeps{
		ParticipantStore: store,
		GenerateID:       newSeqID(),
		Now:              fixedNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(store.comments))
	}
	c := store.comments[0]
	if c.ParticipantID != "p1" || c.AuthorID != "staff-1" {
		t.Errorf("comment mis-attributed: %+v", c)
	}
}

func TestExecuteSetParticipantStatus_InvalidStatus(t *testing.T) {
	store := newMockParticipantStore(contactedParticipant())

	_, err := ExecuteSetParticipantStatus(context.Background(), SetParticipantStatusInput{
		ParticipantID: "p1",
		Status:        "GHOSTED",
	}, SetParticipantStatusDeps{
		ParticipantStore: store,
		GenerateID:       newSeqID(),
		Now:              fixedNow,
	})
	if !errors.Is(err, participant.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if store.participants["p1"].Status != participant.StatusContacted {
		t.Error("invalid status must leave the participant untouched")
	}
}

func TestExecuteSetParticipantStatus_UnknownParticipant(t *testing.T) {
	_, err := ExecuteSetParticipantStatus(context.Background(), SetParticipantStatusInput{
		ParticipantID: "nope",
		Status:        participant.StatusContacted,
	}, SetParticipantStatusDeps{
		ParticipantStore: newMockParticipantStore(),
		GenerateID:       newSeqID(),
		Now:              fixedNow,
	})
	if err == nil {
		t.Fatal("expected error for unknown participant")
	}
}
