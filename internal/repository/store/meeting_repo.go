package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"Alumni_Network/internal/model"
)

type MeetingRepository struct {
	DB *gorm.DB
}

// Book claims a free future slot of the relationship's mentor and schedules
// a meeting on it. The slot flip is conditional so concurrent bookings of the
// same slot leave exactly one winner.
func (r *MeetingRepository) Book(ctx context.Context, relationshipID, slotID uint64, agenda string, now time.Time) (*model.Meeting, error) {
	var m model.Meeting
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rel model.MentorshipRelationship
		if err := tx.First(&rel, relationshipID).Error; err != nil {
			return notFound(err)
		}
		if rel.Status != model.MentorshipActive {
			return ErrInvalidTransition
		}

		var slot model.AvailabilitySlot
		if err := tx.First(&slot, slotID).Error; err != nil {
			return notFound(err)
		}
		if slot.MentorID != rel.MentorID {
			return ErrInvalidParam
		}

		upd := tx.Model(&model.AvailabilitySlot{}).
			Where("id = ? AND is_booked = ? AND start_time > ?", slotID, false, now).
			Update("is_booked", true)
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return ErrSlotTaken
		}

		m = model.Meeting{
			RelationshipID:  rel.ID,
			SlotID:          slot.ID,
			MentorID:        rel.MentorID,
			MenteeID:        rel.MenteeID,
			ScheduledAt:     slot.StartTime,
			DurationMinutes: int(slot.EndTime.Sub(slot.StartTime) / time.Minute),
			Status:          model.MeetingScheduled,
			Agenda:          agenda,
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		return insertOutbox(tx, "meeting.booked", m.ID, map[string]any{
			"mentor_id":    m.MentorID,
			"mentee_id":    m.MenteeID,
			"scheduled_at": m.ScheduledAt,
		})
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MeetingRepository) FindByID(ctx context.Context, id uint64) (*model.Meeting, error) {
	var m model.Meeting
	err := r.DB.WithContext(ctx).First(&m, id).Error
	return &m, notFound(err)
}

// Cancel moves a scheduled meeting to cancelled and frees its slot. Both
// writes commit together or not at all.
func (r *MeetingRepository) Cancel(ctx context.Context, id uint64, reason string) (*model.Meeting, error) {
	return r.finish(ctx, id, "cancel", map[string]any{
		"status":        model.MeetingCancelled,
		"cancel_reason": reason,
	}, true)
}

func (r *MeetingRepository) Complete(ctx context.Context, id uint64, notes string) (*model.Meeting, error) {
	return r.finish(ctx, id, "complete", map[string]any{
		"status": model.MeetingCompleted,
		"notes":  notes,
	}, false)
}

func (r *MeetingRepository) finish(ctx context.Context, id uint64, action string, fields map[string]any, freeSlot bool) (*model.Meeting, error) {
	var m model.Meeting
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, id).Error; err != nil {
			return notFound(err)
		}
		if !ValidMeetingTransition(action, m.Status) {
			return ErrInvalidTransition
		}
		upd := tx.Model(&model.Meeting{}).
			Where("id = ? AND status = ?", id, m.Status).
			Updates(fields)
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		if freeSlot {
			if err := tx.Model(&model.AvailabilitySlot{}).
				Where("id = ?", m.SlotID).
				Update("is_booked", false).Error; err != nil {
				return err
			}
		}
		if err := tx.First(&m, id).Error; err != nil {
			return err
		}
		return insertOutbox(tx, "meeting."+m.Status, m.ID, map[string]any{
			"mentor_id": m.MentorID,
			"mentee_id": m.MenteeID,
		})
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListForUser returns meetings where the user is mentor or mentee, soonest
// first. An empty status matches all.
func (r *MeetingRepository) ListForUser(ctx context.Context, userID uint64, status string) ([]model.Meeting, error) {
	q := r.DB.WithContext(ctx).Where("(mentor_id = ? OR mentee_id = ?)", userID, userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []model.Meeting
	err := q.Order("scheduled_at ASC, id ASC").Find(&list).Error
	return list, err
}
