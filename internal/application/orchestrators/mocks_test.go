package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"coursedesk/internal/domain/course"
	"coursedesk/internal/domain/member"
	"coursedesk/internal/domain/notification"
	"coursedesk/internal/domain/participant"
	"coursedesk/internal/domain/session"
	"coursedesk/internal/domain/wish"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

// newSeqID returns a generator producing test-id-001, test-id-002, ...
func newSeqID() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("test-id-%03d", n)
	}
}

// --- session store mock ---

// mockSessionStore is mutex-guarded because the scheduler tests touch it
// from a background goroutine.
type mockSessionStore struct {
	mu       sync.Mutex
	sessions map[string]session.Session
	saved    []session.Session
	archived []string
	markErr  map[string]error
}

func newMockSessionStore(sessions ...session.Session) *mockSessionStore {
	m := &mockSessionStore{sessions: make(map[string]session.Session), markErr: make(map[string]error)}
	for _, s := range sessions {
		m.sessions[s.ID] = s
	}
	return m
}

func (m *mockSessionStore) GetByID(_ context.Context, id string) (session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return session.Session{}, errors.New("session not found")
	}
	return s, nil
}

func (m *mockSessionStore) Save(_ context.Context, s session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	m.saved = append(m.saved, s)
	return nil
}

func (m *mockSessionStore) ListCompletedUnarchived(_ context.Context) ([]session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []session.Session
	for _, s := range m.sessions {
		if s.Status == session.StatusCompleted && !s.IsArchived {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSessionStore) MarkArchived(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.markErr[id]; err != nil {
		return err
	}
	s := m.sessions[id]
	s.IsArchived = true
	m.sessions[id] = s
	m.archived = append(m.archived, id)
	return nil
}

func (m *mockSessionStore) archivedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.archived)
}

// --- participant store mock ---

type mockParticipantStore struct {
	participants map[string]participant.Participant
	comments     []participant.Comment
}

func newMockParticipantStore(participants ...participant.Participant) *mockParticipantStore {
	m := &mockParticipantStore{participants: make(map[string]participant.Participant)}
	for _, p := range participants {
		m.participants[p.ID] = p
	}
	return m
}

func (m *mockParticipantStore) GetByID(_ context.Context, id string) (participant.Participant, error) {
	p, ok := m.participants[id]
	if !ok {
		return participant.Participant{}, errors.New("participant not found")
	}
	return p, nil
}

func (m *mockParticipantStore) Save(_ context.Context, p participant.Participant) error {
	m.participants[p.ID] = p
	return nil
}

func (m *mockParticipantStore) AddComment(_ context.Context, c participant.Comment) error {
	m.comments = append(m.comments, c)
	return nil
}

func (m *mockParticipantStore) ListBySession(_ context.Context, sessionID string) ([]participant.Participant, error) {
	var out []participant.Participant
	for _, p := range m.participants {
		if p.SessionID == sessionID {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- notification store mock ---

type mockNotificationStore struct {
	saved   []notification.Notification
	saveErr error
}

func (m *mockNotificationStore) Save(_ context.Context, n notification.Notification) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, n)
	return nil
}

// --- member store mock ---

type mockMemberStore struct {
	members map[string]member.Member
}

func newMockMemberStore(members ...member.Member) *mockMemberStore {
	m := &mockMemberStore{members: make(map[string]member.Member)}
	for _, mem := range members {
		m.members[mem.ID] = mem
	}
	return m
}

func (m *mockMemberStore) GetByID(_ context.Context, id string) (member.Member, error) {
	mem, ok := m.members[id]
	if !ok {
		return member.Member{}, errors.New("member not found")
	}
	return mem, nil
}

// --- course store mock ---

type mockCourseStore struct {
	courses map[string]course.Course
}

func newMockCourseStore(courses ...course.Course) *mockCourseStore {
	m := &mockCourseStore{courses: make(map[string]course.Course)}
	for _, c := range courses {
		m.courses[c.ID] = c
	}
	return m
}

func (m *mockCourseStore) GetByID(_ context.Context, id string) (course.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return course.Course{}, errors.New("course not found")
	}
	return c, nil
}

// --- wish store mock ---

type mockWishStore struct {
	wishes  map[string]wish.Wish
	deleted []string
	saveErr error
}

func newMockWishStore(wishes ...wish.Wish) *mockWishStore {
	m := &mockWishStore{wishes: make(map[string]wish.Wish)}
	for _, w := range wishes {
		m.wishes[w.ID] = w
	}
	return m
}

func (m *mockWishStore) GetByID(_ context.Context, id string) (wish.Wish, error) {
	w, ok := m.wishes[id]
	if !ok {
		return wish.Wish{}, errors.New("wish not found")
	}
	return w, nil
}

func (m *mockWishStore) Save(_ context.Context, w wish.Wish) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.wishes[w.ID] = w
	return nil
}

func (m *mockWishStore) Delete(_ context.Context, id string) error {
	delete(m.wishes, id)
	m.deleted = append(m.deleted, id)
	return nil
}

// --- enrollment store mock ---

type enrollmentCall struct {
	participant participant.Participant
	wishID      string
}

type mockEnrollmentStore struct {
	linked    []enrollmentCall
	discarded []enrollmentCall
	withdrawn []wish.Wish
	err       error
}

func (m *mockEnrollmentStore) PromoteLink(_ context.Context, p participant.Participant, wishID string) error {
	if m.err != nil {
		return m.err
	}
	m.linked = append(m.linked, enrollmentCall{participant: p, wishID: wishID})
	return nil
}

func (m *mockEnrollmentStore) PromoteDiscard(_ context.Context, p participant.Participant, wishID string) error {
	if m.err != nil {
		return m.err
	}
	m.discarded = append(m.discarded, enrollmentCall{participant: p, wishID: wishID})
	return nil
}

func (m *mockEnrollmentStore) Withdraw(_ context.Context, participantID string, replacement wish.Wish) error {
	if m.err != nil {
		return m.err
	}
	m.withdrawn = append(m.withdrawn, replacement)
	return nil
}

// testNotifier builds NotifierDeps backed by the given notification store,
// with no email sender.
func testNotifier(notifications *mockNotificationStore) NotifierDeps {
	return NotifierDeps{
		NotificationStore: notifications,
		GenerateID:        newSeqID(),
		Now:               fixedNow,
	}
}
