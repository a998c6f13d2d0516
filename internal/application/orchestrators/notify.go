package orchestrators

import (
	"context"
	"log/slog"
	"time"

	emailAdapter "coursedesk/internal/adapters/email"
	"coursedesk/internal/domain/member"
	"coursedesk/internal/domain/notification"
)

// NotificationStore defines the notification store interface used by orchestrators.
type NotificationStore interface {
	Save(ctx context.Context, value notification.Notification) error
}

// NotifyMemberLookup defines the member lookup needed to address notification emails.
type NotifyMemberLookup interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
}

// NotifierDeps bundles the notification sinks shared by the lifecycle
// orchestrators. Sender is optional; when nil, notifications are
// portal-only.
type NotifierDeps struct {
	NotificationStore NotificationStore
	MemberStore       NotifyMemberLookup
	Sender            emailAdapter.Sender
	GenerateID        func() string
	Now               func() time.Time
}

// notifyMember persists a portal notification and mirrors it to email when a
// sender is configured. Delivery is best-effort on both channels; a failure
// is logged and never propagated, so a flaky sink cannot roll back the
// lifecycle change that triggered it.
func notifyMember(ctx context.Context, deps NotifierDeps, memberID, notifType, subject, message, relatedType, relatedID string) {
	n := notification.Notification{
		ID:          deps.GenerateID(),
		MemberID:    memberID,
		Type:        notifType,
		Message:     message,
		RelatedType: relatedType,
		RelatedID:   relatedID,
		CreatedAt:   deps.Now(),
	}
	if err := deps.NotificationStore.Save(ctx, n); err != nil {
		slog.Warn("notify_event", "event", "notification_save_failed", "member_id", memberID, "type", notifType, "error", err)
		return
	}

	if deps.Sender == nil || deps.MemberStore == nil {
		return
	}
	m, err := deps.MemberStore.GetByID(ctx, memberID)
	if err != nil || m.Email == "" {
		return
	}
	req := emailAdapter.SendRequest{
		To:      []string{m.Email},
		Subject: subject,
		HTML:    emailAdapter.RenderMarkdown(message),
	}
	if _, err := deps.Sender.Send(ctx, req); err != nil {
		slog.Warn("notify_event", "event", "notification_email_failed", "member_id", memberID, "error", err)
	}
}
