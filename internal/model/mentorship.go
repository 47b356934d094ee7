package model

import (
	"strings"
	"time"
)

const (
	MentorshipPending   = "pending"
	MentorshipActive    = "active"
	MentorshipDeclined  = "declined"
	MentorshipCompleted = "completed"
)

const (
	MeetingScheduled = "scheduled"
	MeetingCompleted = "completed"
	MeetingCancelled = "cancelled"
)

type MentorProfile struct {
	ID              uint64    `gorm:"primaryKey" json:"id"`
	UserID          uint64    `gorm:"uniqueIndex;not null" json:"user_id"`
	Industry        string    `gorm:"size:64;index" json:"industry"`
	Topics          string    `gorm:"type:text" json:"topics"` // comma separated, lowercase
	YearsExperience int       `gorm:"not null;default:0" json:"years_experience"`
	MaxMentees      int       `gorm:"not null;default:3" json:"max_mentees"`
	Accepting       bool      `gorm:"not null;index" json:"accepting"`
	Bio             string    `gorm:"type:text" json:"bio"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TopicList splits the stored topics.
func (m *MentorProfile) TopicList() []string {
	return SplitList(m.Topics)
}

type MentorshipRelationship struct {
	ID        uint64     `gorm:"primaryKey" json:"id"`
	MentorID  uint64     `gorm:"not null;index:idx_mentor_status" json:"mentor_id"`
	MenteeID  uint64     `gorm:"not null;index" json:"mentee_id"`
	Status    string     `gorm:"size:16;not null;index:idx_mentor_status" json:"status"`
	Message   string     `gorm:"type:text" json:"message"`
	Topics    string     `gorm:"type:text" json:"topics"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (MentorshipRelationship) TableName() string {
	return "mentorship_relationships"
}

type AvailabilitySlot struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	MentorID  uint64    `gorm:"not null;index:idx_mentor_start" json:"mentor_id"`
	StartTime time.Time `gorm:"not null;index:idx_mentor_start" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
	IsBooked  bool      `gorm:"not null;default:false" json:"is_booked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AvailabilitySlot) TableName() string {
	return "availability_slots"
}

type Meeting struct {
	ID              uint64    `gorm:"primaryKey" json:"id"`
	RelationshipID  uint64    `gorm:"not null;index" json:"relationship_id"`
	SlotID          uint64    `gorm:"not null;index" json:"slot_id"`
	MentorID        uint64    `gorm:"not null;index" json:"mentor_id"`
	MenteeID        uint64    `gorm:"not null;index" json:"mentee_id"`
	ScheduledAt     time.Time `gorm:"not null" json:"scheduled_at"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	Status          string    `gorm:"size:16;not null;default:'scheduled';index" json:"status"`
	Agenda          string    `gorm:"type:text" json:"agenda"`
	Notes           string    `gorm:"type:text" json:"notes"`
	CancelReason    string    `gorm:"type:text" json:"cancel_reason"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Meeting) TableName() string {
	return "mentorship_meetings"
}

// SplitList parses a comma separated list, trimming and lowercasing items
// and dropping empties and duplicates.
func SplitList(s string) []string {
	if s == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(s, ",") {
		v := strings.ToLower(strings.TrimSpace(part))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// JoinList is the inverse of SplitList.
func JoinList(items []string) string {
	return strings.Join(SplitList(strings.Join(items, ",")), ",")
}
