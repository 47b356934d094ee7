package model

import "time"

const (
	EventPublished = "published"
	EventCancelled = "cancelled"
)

const (
	RSVPAttending    = "attending"
	RSVPMaybe        = "maybe"
	RSVPNotAttending = "not_attending"
)

type Event struct {
	ID            uint64    `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:200;not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	Category      string    `gorm:"size:64" json:"category"`
	Location      string    `gorm:"size:200" json:"location"`
	IsVirtual     bool      `gorm:"not null;default:false" json:"is_virtual"`
	MeetingURL    string    `gorm:"size:255" json:"meeting_url"`
	StartTime     time.Time `gorm:"not null;index" json:"start_time"`
	EndTime       time.Time `gorm:"not null" json:"end_time"`
	Capacity      int64     `gorm:"not null;default:0" json:"capacity"` // 0 = unlimited
	OrganizerID   uint64    `gorm:"not null;index" json:"organizer_id"`
	Status        string    `gorm:"size:16;not null;default:'published'" json:"status"`
	AttendeeCount int64     `gorm:"not null;default:0" json:"attendee_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EventAttendee is one RSVP; (event_id, user_id) is unique.
type EventAttendee struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID   uint64    `gorm:"not null;uniqueIndex:uk_event_user" json:"event_id"`
	UserID    uint64    `gorm:"not null;index;uniqueIndex:uk_event_user" json:"user_id"`
	Status    string    `gorm:"size:16;not null" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (EventAttendee) TableName() string {
	return "event_attendees"
}
