package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"Alumni_Network/internal/model"
)

type AnalyticsRepository struct {
	DB *gorm.DB
}

// Totals holds the headline counters of the dashboard.
type Totals struct {
	Users             int64 `json:"users"`
	Profiles          int64 `json:"profiles"`
	Mentors           int64 `json:"mentors"`
	Events            int64 `json:"events"`
	UpcomingEvents    int64 `json:"upcoming_events"`
	OpenJobs          int64 `json:"open_jobs"`
	ActiveMentorships int64 `json:"active_mentorships"`
}

func (r *AnalyticsRepository) Totals(ctx context.Context, now time.Time) (*Totals, error) {
	db := r.DB.WithContext(ctx)
	t := &Totals{}
	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&t.Users, db.Model(&model.User{})},
		{&t.Profiles, db.Model(&model.Profile{}).Where("full_name <> ''")},
		{&t.Mentors, db.Model(&model.MentorProfile{}).Where("accepting = ?", true)},
		{&t.Events, db.Model(&model.Event{}).Where("status = ?", model.EventPublished)},
		{&t.UpcomingEvents, db.Model(&model.Event{}).Where("status = ? AND start_time > ?", model.EventPublished, now)},
		{&t.OpenJobs, db.Model(&model.Job{}).Where("status = ? AND (expires_at IS NULL OR expires_at > ?)", model.JobStatusOpen, now)},
		{&t.ActiveMentorships, db.Model(&model.MentorshipRelationship{}).Where("status = ?", model.MentorshipActive)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return nil, err
		}
	}
	return t, nil
}

// MeetingStatuses returns the status column of every meeting.
func (r *AnalyticsRepository) MeetingStatuses(ctx context.Context) ([]string, error) {
	var list []string
	err := r.DB.WithContext(ctx).Model(&model.Meeting{}).Pluck("status", &list).Error
	return list, err
}
