package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"Alumni_Network/internal/model"
	"Alumni_Network/internal/repository/redis"
	"Alumni_Network/internal/repository/store"
)

type EventInput struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=10000"`
	Category    string    `json:"category" validate:"max=64"`
	Location    string    `json:"location" validate:"max=200"`
	IsVirtual   bool      `json:"is_virtual"`
	MeetingURL  string    `json:"meeting_url" validate:"omitempty,url,max=255"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	Capacity    int64     `json:"capacity" validate:"min=0"`
}

// RSVPView is returned after an RSVP.
type RSVPView struct {
	Status        string `json:"status"`
	Changed       bool   `json:"changed"`
	AttendeeCount int64  `json:"attendee_count"`
}

type EventService struct {
	repo   *store.EventRepository
	cache  *redis.AttendeeCache
	lock   *redis.DistLock
	notify *NotificationService
	log    *zap.Logger
	now    func() time.Time
	// invalidateDelay schedules a second cache delete after writes
	invalidateDelay time.Duration
}

func NewEventService(repo *store.EventRepository, cache *redis.AttendeeCache, lock *redis.DistLock, notify *NotificationService, log *zap.Logger) *EventService {
	return &EventService{
		repo:            repo,
		cache:           cache,
		lock:            lock,
		notify:          notify,
		log:             log,
		now:             time.Now,
		invalidateDelay: 500 * time.Millisecond,
	}
}

func (s *EventService) Create(ctx context.Context, organizerID uint64, in EventInput) (*model.Event, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	ev := &model.Event{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Location:    in.Location,
		IsVirtual:   in.IsVirtual,
		MeetingURL:  in.MeetingURL,
		StartTime:   in.StartTime.UTC(),
		EndTime:     in.EndTime.UTC(),
		Capacity:    in.Capacity,
		OrganizerID: organizerID,
		Status:      model.EventPublished,
	}
	if err := s.repo.Create(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// Update rewrites the descriptive fields. Capacity may not drop below the
// current attendee count.
func (s *EventService) Update(ctx context.Context, id uint64, in EventInput) (*model.Event, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	ev, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Capacity > 0 && in.Capacity < ev.AttendeeCount {
		return nil, invalid("capacity %d is below the %d attendees", in.Capacity, ev.AttendeeCount)
	}
	err = s.repo.Update(ctx, id, map[string]any{
		"title":       in.Title,
		"description": in.Description,
		"category":    in.Category,
		"location":    in.Location,
		"is_virtual":  in.IsVirtual,
		"meeting_url": in.MeetingURL,
		"start_time":  in.StartTime.UTC(),
		"end_time":    in.EndTime.UTC(),
		"capacity":    in.Capacity,
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *EventService) Cancel(ctx context.Context, id uint64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, map[string]any{"status": model.EventCancelled})
}

func (s *EventService) Get(ctx context.Context, id uint64) (*model.Event, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *EventService) List(ctx context.Context, upcoming bool, page, size int) ([]model.Event, int64, error) {
	offset, limit := Page(page, size, 20, 50)
	return s.repo.List(ctx, upcoming, s.now().UTC(), offset, limit)
}

// RSVP writes the database first; the cached count is dropped only after the
// transaction committed.
func (s *EventService) RSVP(ctx context.Context, userID, eventID uint64, status string) (*RSVPView, error) {
	switch status {
	case model.RSVPAttending, model.RSVPMaybe, model.RSVPNotAttending:
	default:
		return nil, invalid("status must be attending, maybe or not_attending")
	}
	res, err := s.repo.RSVP(ctx, eventID, userID, status, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if res.Changed {
		if err := s.cache.Invalidate(ctx, eventID, s.invalidateDelay); err != nil {
			s.log.Warn("invalidate attendee count", zap.Uint64("event_id", eventID), zap.Error(err))
		}
		if res.Attending && res.Event.OrganizerID != userID {
			s.notify.Notify(ctx, res.Event.OrganizerID, NotifyEventRSVP, "New attendee",
				fmt.Sprintf("Someone is attending %q.", res.Event.Title),
				fmt.Sprintf("/events/%d", eventID),
				map[string]any{"event_id": eventID, "user_id": userID})
		}
	}
	return &RSVPView{Status: status, Changed: res.Changed, AttendeeCount: res.Event.AttendeeCount}, nil
}

func (s *EventService) MyRSVP(ctx context.Context, userID, eventID uint64) (string, error) {
	return s.repo.GetRSVP(ctx, eventID, userID)
}

// AttendeeCount reads through the cache. On a miss one caller rebuilds the
// key under the lock while the others back off briefly and re-read.
func (s *EventService) AttendeeCount(ctx context.Context, eventID uint64) (int64, error) {
	if v, ok, err := s.cache.Get(ctx, eventID); err == nil && ok {
		return v, nil
	}
	token := uuid.NewString()
	got, err := s.lock.Acquire(ctx, eventID, token)
	if err != nil {
		s.log.Warn("attendee count lock", zap.Uint64("event_id", eventID), zap.Error(err))
	}
	if got {
		defer func() {
			if err := s.lock.Release(context.WithoutCancel(ctx), eventID, token); err != nil {
				s.log.Warn("release attendee count lock", zap.Uint64("event_id", eventID), zap.Error(err))
			}
		}()
		if v, ok, err := s.cache.Get(ctx, eventID); err == nil && ok {
			return v, nil
		}
		v, err := s.repo.GetAttendeeCount(ctx, eventID)
		if err != nil {
			return 0, err
		}
		if err := s.cache.Set(ctx, eventID, v); err != nil {
			s.log.Warn("fill attendee count", zap.Uint64("event_id", eventID), zap.Error(err))
		}
		return v, nil
	}

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-time.After(50 * time.Millisecond):
	}
	if v, ok, err := s.cache.Get(ctx, eventID); err == nil && ok {
		return v, nil
	}
	return s.repo.GetAttendeeCount(ctx, eventID)
}

// AttendeesView pairs the attendee rows with the cached count.
type AttendeesView struct {
	Count     int64                 `json:"count"`
	Attendees []model.EventAttendee `json:"attendees"`
}

func (s *EventService) Attendees(ctx context.Context, eventID uint64, status string) (*AttendeesView, error) {
	cnt, err := s.AttendeeCount(ctx, eventID)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.ListAttendees(ctx, eventID, status)
	if err != nil {
		return nil, err
	}
	return &AttendeesView{Count: cnt, Attendees: list}, nil
}
