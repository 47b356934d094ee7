package service

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"Alumni_Network/internal/model"
	"Alumni_Network/internal/pkg"
	"Alumni_Network/internal/repository/store"
)

const (
	NotifyConnection         = "connection"
	NotifyEventRSVP          = "event_rsvp"
	NotifyMentorshipRequest  = "mentorship_request"
	NotifyMentorshipAccepted = "mentorship_accepted"
	NotifyMentorshipDeclined = "mentorship_declined"
	NotifyMentorshipEnded    = "mentorship_ended"
	NotifyMeetingBooked      = "meeting_booked"
	NotifyMeetingCancelled   = "meeting_cancelled"
	NotifyMeetingCompleted   = "meeting_completed"
	NotifyAchievementVerify  = "achievement_verified"
)

// mailed lists the types that also go out by email when SMTP is set up.
var mailed = map[string]bool{
	NotifyMentorshipRequest:  true,
	NotifyMentorshipAccepted: true,
	NotifyMeetingBooked:      true,
	NotifyMeetingCancelled:   true,
}

type NotificationService struct {
	repo  *store.NotificationRepository
	users *store.UserRepository
	mail  pkg.Sender // nil disables email
	log   *zap.Logger
}

func NewNotificationService(repo *store.NotificationRepository, users *store.UserRepository, mail pkg.Sender, log *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, users: users, mail: mail, log: log}
}

// Notify stores a notification for userID. Failures are logged and never
// surface to the caller: the action that triggered it already committed.
func (s *NotificationService) Notify(ctx context.Context, userID uint64, typ, title, message, link string, data map[string]any) {
	n := &model.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
		Link:    link,
		Data:    datatypes.JSONMap(data),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.log.Warn("create notification", zap.Uint64("user_id", userID), zap.String("type", typ), zap.Error(err))
		return
	}
	if s.mail == nil || !mailed[typ] {
		return
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.log.Warn("notification recipient", zap.Uint64("user_id", userID), zap.Error(err))
		return
	}
	if err := s.mail.Send(user.Email, title, pkg.NotificationHTML(title, message, link)); err != nil {
		s.log.Warn("mail notification", zap.Uint64("user_id", userID), zap.String("type", typ), zap.Error(err))
	}
}

func (s *NotificationService) List(ctx context.Context, userID uint64, unreadOnly bool, page, size int) ([]model.Notification, int64, error) {
	offset, limit := Page(page, size, 20, 100)
	return s.repo.List(ctx, userID, unreadOnly, offset, limit)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint64) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}
