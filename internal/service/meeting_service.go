package service

import (
	"context"
	"fmt"
	"time"

	"Alumni_Network/internal/model"
	"Alumni_Network/internal/repository/store"
)

type BookInput struct {
	RelationshipID uint64 `json:"relationship_id" validate:"required"`
	SlotID         uint64 `json:"slot_id" validate:"required"`
	Agenda         string `json:"agenda" validate:"max=2000"`
}

type MeetingService struct {
	repo          *store.MeetingRepository
	relationships *store.MentorshipRepository
	notify        *NotificationService
	now           func() time.Time
}

func NewMeetingService(repo *store.MeetingRepository, relationships *store.MentorshipRepository, notify *NotificationService) *MeetingService {
	return &MeetingService{repo: repo, relationships: relationships, notify: notify, now: time.Now}
}

func (s *MeetingService) Book(ctx context.Context, userID uint64, in BookInput) (*model.Meeting, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	rel, err := s.relationships.FindRelationship(ctx, in.RelationshipID)
	if err != nil {
		return nil, err
	}
	if rel.MentorID != userID && rel.MenteeID != userID {
		return nil, forbidden("not a party to this mentorship")
	}
	m, err := s.repo.Book(ctx, in.RelationshipID, in.SlotID, in.Agenda, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.notifyBoth(ctx, m, NotifyMeetingBooked, "Meeting booked",
		fmt.Sprintf("A mentorship meeting is scheduled for %s.", m.ScheduledAt.Format(time.RFC1123)))
	return m, nil
}

// party loads the meeting and checks the caller's role in it.
func (s *MeetingService) party(ctx context.Context, userID, id uint64, mentorOnly bool) error {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if m.MentorID == userID {
		return nil
	}
	if m.MenteeID == userID && !mentorOnly {
		return nil
	}
	return forbidden("not allowed to change this meeting")
}

// Cancel is open to either party. Status, reason and the slot release commit
// in one transaction.
func (s *MeetingService) Cancel(ctx context.Context, userID, id uint64, reason string) (*model.Meeting, error) {
	if err := s.party(ctx, userID, id, false); err != nil {
		return nil, err
	}
	m, err := s.repo.Cancel(ctx, id, reason)
	if err != nil {
		return nil, err
	}
	s.notifyBoth(ctx, m, NotifyMeetingCancelled, "Meeting cancelled", reason)
	return m, nil
}

func (s *MeetingService) Complete(ctx context.Context, userID, id uint64, notes string) (*model.Meeting, error) {
	if err := s.party(ctx, userID, id, true); err != nil {
		return nil, err
	}
	m, err := s.repo.Complete(ctx, id, notes)
	if err != nil {
		return nil, err
	}
	s.notifyBoth(ctx, m, NotifyMeetingCompleted, "Meeting completed", "")
	return m, nil
}

func (s *MeetingService) List(ctx context.Context, userID uint64, status string) ([]model.Meeting, error) {
	return s.repo.ListForUser(ctx, userID, status)
}

func (s *MeetingService) notifyBoth(ctx context.Context, m *model.Meeting, typ, title, msg string) {
	data := map[string]any{"meeting_id": m.ID}
	link := fmt.Sprintf("/mentorship/meetings/%d", m.ID)
	s.notify.Notify(ctx, m.MentorID, typ, title, msg, link, data)
	s.notify.Notify(ctx, m.MenteeID, typ, title, msg, link, data)
}
