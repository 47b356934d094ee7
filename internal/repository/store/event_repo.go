package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"Alumni_Network/internal/model"
)

type EventRepository struct {
	DB *gorm.DB
}

// RSVPResult describes what an RSVP call changed.
type RSVPResult struct {
	Changed   bool
	Delta     int64 // +1, -1 or 0 on attendee_count
	Event     model.Event
	Previous  string
	Attending bool
}

func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

func (r *EventRepository) FindByID(ctx context.Context, id uint64) (*model.Event, error) {
	var e model.Event
	err := r.DB.WithContext(ctx).First(&e, id).Error
	return &e, notFound(err)
}

func (r *EventRepository) Update(ctx context.Context, id uint64, fields map[string]any) error {
	return r.DB.WithContext(ctx).Model(&model.Event{}).Where("id = ?", id).Updates(fields).Error
}

// List pages published events by start time. upcoming keeps only events
// that have not ended yet.
func (r *EventRepository) List(ctx context.Context, upcoming bool, now time.Time, offset, limit int) ([]model.Event, int64, error) {
	q := r.DB.WithContext(ctx).Model(&model.Event{}).Where("status = ?", model.EventPublished)
	if upcoming {
		q = q.Where("end_time > ?", now)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []model.Event
	err := q.Order("start_time ASC, id ASC").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}

// RSVP records the user's answer and keeps attendee_count in step with the
// number of "attending" rows, all in one transaction.
func (r *EventRepository) RSVP(ctx context.Context, eventID, userID uint64, status string, now time.Time) (*RSVPResult, error) {
	res := &RSVPResult{}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ev model.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ev, eventID).Error; err != nil {
			return notFound(err)
		}
		if ev.Status != model.EventPublished || !ev.EndTime.After(now) {
			return ErrEventClosed
		}

		var row model.EventAttendee
		err := tx.Where("event_id = ? AND user_id = ?", eventID, userID).First(&row).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		exists := err == nil
		if exists {
			res.Previous = row.Status
		}
		if res.Previous == status {
			res.Event = ev
			res.Attending = status == model.RSVPAttending
			return nil
		}

		was := res.Previous == model.RSVPAttending
		will := status == model.RSVPAttending
		switch {
		case will && !was:
			upd := tx.Model(&model.Event{}).
				Where("id = ? AND (capacity = 0 OR attendee_count < capacity)", eventID).
				UpdateColumn("attendee_count", gorm.Expr("attendee_count + 1"))
			if upd.Error != nil {
				return upd.Error
			}
			if upd.RowsAffected == 0 {
				return ErrCapacityReached
			}
			res.Delta = 1
		case was && !will:
			if err := tx.Model(&model.Event{}).
				Where("id = ?", eventID).
				UpdateColumn("attendee_count", gorm.Expr("CASE WHEN attendee_count > 0 THEN attendee_count - 1 ELSE 0 END")).
				Error; err != nil {
				return err
			}
			res.Delta = -1
		}

		if exists {
			if err := tx.Model(&model.EventAttendee{}).Where("id = ?", row.ID).Update("status", status).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Create(&model.EventAttendee{EventID: eventID, UserID: userID, Status: status}).Error; err != nil {
				return err
			}
		}

		if err := tx.First(&ev, eventID).Error; err != nil {
			return err
		}
		res.Event = ev
		res.Changed = true
		res.Attending = will
		return insertOutbox(tx, "event.rsvp", eventID, map[string]any{
			"user_id":  userID,
			"status":   status,
			"previous": res.Previous,
		})
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *EventRepository) GetRSVP(ctx context.Context, eventID, userID uint64) (string, error) {
	var row model.EventAttendee
	err := r.DB.WithContext(ctx).Where("event_id = ? AND user_id = ?", eventID, userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return row.Status, err
}

// GetAttendeeCount reads the stored counter.
func (r *EventRepository) GetAttendeeCount(ctx context.Context, eventID uint64) (int64, error) {
	var e model.Event
	err := r.DB.WithContext(ctx).Select("id", "attendee_count").First(&e, eventID).Error
	if err != nil {
		return 0, notFound(err)
	}
	return e.AttendeeCount, nil
}

func (r *EventRepository) ListAttendees(ctx context.Context, eventID uint64, status string) ([]model.EventAttendee, error) {
	var list []model.EventAttendee
	q := r.DB.WithContext(ctx).Where("event_id = ?", eventID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("id ASC").Find(&list).Error
	return list, err
}
