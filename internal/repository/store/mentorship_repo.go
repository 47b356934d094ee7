package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"Alumni_Network/internal/model"
)

type MentorshipRepository struct {
	DB *gorm.DB
}

// SaveMentorProfile upserts the mentor profile and mirrors the accepting
// flag onto profiles.is_mentor.
func (r *MentorshipRepository) SaveMentorProfile(ctx context.Context, mp *model.MentorProfile) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.MentorProfile
		err := tx.Where("user_id = ?", mp.UserID).First(&existing).Error
		switch {
		case err == nil:
			mp.ID = existing.ID
			mp.CreatedAt = existing.CreatedAt
			if err := tx.Save(mp).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(mp).Error; err != nil {
				return duplicate(err)
			}
		default:
			return err
		}
		return tx.Model(&model.Profile{}).Where("user_id = ?", mp.UserID).
			Update("is_mentor", mp.Accepting).Error
	})
}

// lockMentor takes a row lock on the mentor profile. Request, accept and slot
// writes for one mentor take it first, so their count checks see each
// other's commits.
func lockMentor(tx *gorm.DB, mentorID uint64) (*model.MentorProfile, error) {
	var mp model.MentorProfile
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", mentorID).First(&mp).Error
	return &mp, notFound(err)
}

func (r *MentorshipRepository) FindMentorProfile(ctx context.Context, userID uint64) (*model.MentorProfile, error) {
	var mp model.MentorProfile
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&mp).Error
	return &mp, notFound(err)
}

// ListAccepting returns mentors open to new mentees, excluding one user.
func (r *MentorshipRepository) ListAccepting(ctx context.Context, excludeUserID uint64) ([]model.MentorProfile, error) {
	var list []model.MentorProfile
	err := r.DB.WithContext(ctx).
		Where("accepting = ? AND user_id <> ?", true, excludeUserID).
		Order("user_id ASC").
		Find(&list).Error
	return list, err
}

// ActiveCounts returns the number of active mentees per mentor.
func (r *MentorshipRepository) ActiveCounts(ctx context.Context, mentorIDs []uint64) (map[uint64]int, error) {
	out := make(map[uint64]int, len(mentorIDs))
	if len(mentorIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		MentorID uint64
		N        int
	}
	err := r.DB.WithContext(ctx).Model(&model.MentorshipRelationship{}).
		Select("mentor_id, COUNT(*) AS n").
		Where("mentor_id IN ? AND status = ?", mentorIDs, model.MentorshipActive).
		Group("mentor_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.MentorID] = row.N
	}
	return out, nil
}

// OpenPairs returns the mentor ids the mentee already has a pending or active
// relationship with.
func (r *MentorshipRepository) OpenPairs(ctx context.Context, menteeID uint64) (map[uint64]bool, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.MentorshipRelationship{}).
		Where("mentee_id = ? AND status IN ?", menteeID, []string{model.MentorshipPending, model.MentorshipActive}).
		Pluck("mentor_id", &ids).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// CreateRequest inserts a pending relationship unless the pair already has
// an open one.
func (r *MentorshipRepository) CreateRequest(ctx context.Context, rel *model.MentorshipRelationship) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockMentor(tx, rel.MentorID); err != nil {
			return err
		}
		var n int64
		err := tx.Model(&model.MentorshipRelationship{}).
			Where("mentor_id = ? AND mentee_id = ? AND status IN ?", rel.MentorID, rel.MenteeID,
				[]string{model.MentorshipPending, model.MentorshipActive}).
			Count(&n).Error
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrConflict
		}
		rel.Status = model.MentorshipPending
		if err := tx.Create(rel).Error; err != nil {
			return err
		}
		return insertOutbox(tx, "mentorship.requested", rel.ID, map[string]any{
			"mentor_id": rel.MentorID,
			"mentee_id": rel.MenteeID,
		})
	})
}

func (r *MentorshipRepository) FindRelationship(ctx context.Context, id uint64) (*model.MentorshipRelationship, error) {
	var rel model.MentorshipRelationship
	err := r.DB.WithContext(ctx).First(&rel, id).Error
	return &rel, notFound(err)
}

// Transition applies accept, decline or end to a relationship. Accepting
// fails with ErrMentorFull once the mentor has max_mentees active mentees.
func (r *MentorshipRepository) Transition(ctx context.Context, id uint64, action string, now time.Time) (*model.MentorshipRelationship, error) {
	var rel model.MentorshipRelationship
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&rel, id).Error; err != nil {
			return notFound(err)
		}
		if !ValidRelationshipTransition(action, rel.Status) {
			return ErrInvalidTransition
		}

		fields := map[string]any{}
		switch action {
		case "accept":
			mp, err := lockMentor(tx, rel.MentorID)
			if err != nil {
				return err
			}
			var active int64
			if err := tx.Model(&model.MentorshipRelationship{}).
				Where("mentor_id = ? AND status = ?", rel.MentorID, model.MentorshipActive).
				Count(&active).Error; err != nil {
				return err
			}
			if mp.MaxMentees > 0 && active >= int64(mp.MaxMentees) {
				return ErrMentorFull
			}
			fields["status"] = model.MentorshipActive
			fields["started_at"] = now
		case "decline":
			fields["status"] = model.MentorshipDeclined
		case "end":
			fields["status"] = model.MentorshipCompleted
			fields["ended_at"] = now
		}

		upd := tx.Model(&model.MentorshipRelationship{}).
			Where("id = ? AND status = ?", id, rel.Status).
			Updates(fields)
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		if err := tx.First(&rel, id).Error; err != nil {
			return err
		}
		return insertOutbox(tx, "mentorship."+action, rel.ID, map[string]any{
			"mentor_id": rel.MentorID,
			"mentee_id": rel.MenteeID,
			"status":    rel.Status,
		})
	})
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

// ListRelationships lists relationships where userID is the mentor
// (asMentor) or the mentee. An empty status matches all.
func (r *MentorshipRepository) ListRelationships(ctx context.Context, userID uint64, asMentor bool, status string) ([]model.MentorshipRelationship, error) {
	col := "mentee_id"
	if asMentor {
		col = "mentor_id"
	}
	q := r.DB.WithContext(ctx).Where(col+" = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []model.MentorshipRelationship
	err := q.Order("id DESC").Find(&list).Error
	return list, err
}

// CreateSlot rejects slots that overlap another slot of the same mentor.
func (r *MentorshipRepository) CreateSlot(ctx context.Context, s *model.AvailabilitySlot) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockMentor(tx, s.MentorID); err != nil {
			return err
		}
		var n int64
		err := tx.Model(&model.AvailabilitySlot{}).
			Where("mentor_id = ? AND start_time < ? AND end_time > ?", s.MentorID, s.EndTime, s.StartTime).
			Count(&n).Error
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrConflict
		}
		return tx.Create(s).Error
	})
}

func (r *MentorshipRepository) FindSlot(ctx context.Context, id uint64) (*model.AvailabilitySlot, error) {
	var s model.AvailabilitySlot
	err := r.DB.WithContext(ctx).First(&s, id).Error
	return &s, notFound(err)
}

// ListSlots returns a mentor's future slots. freeOnly drops booked ones.
func (r *MentorshipRepository) ListSlots(ctx context.Context, mentorID uint64, now time.Time, freeOnly bool) ([]model.AvailabilitySlot, error) {
	q := r.DB.WithContext(ctx).Where("mentor_id = ? AND start_time > ?", mentorID, now)
	if freeOnly {
		q = q.Where("is_booked = ?", false)
	}
	var list []model.AvailabilitySlot
	err := q.Order("start_time ASC").Find(&list).Error
	return list, err
}

// DeleteSlot removes an unbooked slot owned by mentorID.
func (r *MentorshipRepository) DeleteSlot(ctx context.Context, id, mentorID uint64) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND mentor_id = ? AND is_booked = ?", id, mentorID, false).
		Delete(&model.AvailabilitySlot{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSlotTaken
	}
	return nil
}
