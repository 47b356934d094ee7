package model

import (
	"time"

	"gorm.io/datatypes"
)

type Achievement struct {
	ID          uint64     `gorm:"primaryKey" json:"id"`
	UserID      uint64     `gorm:"not null;index" json:"user_id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Category    string     `gorm:"size:64" json:"category"`
	AchievedOn  *time.Time `json:"achieved_on,omitempty"`
	Verified    bool       `gorm:"not null;default:false" json:"verified"`
	VerifiedBy  uint64     `gorm:"not null;default:0" json:"verified_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Notification struct {
	ID        uint64            `gorm:"primaryKey" json:"id"`
	UserID    uint64            `gorm:"not null;index:idx_user_read" json:"user_id"`
	Type      string            `gorm:"size:32;not null" json:"type"`
	Title     string            `gorm:"size:200;not null" json:"title"`
	Message   string            `gorm:"type:text" json:"message"`
	Link      string            `gorm:"size:255" json:"link"`
	Data      datatypes.JSONMap `json:"data,omitempty"`
	IsRead    bool              `gorm:"not null;default:false;index:idx_user_read" json:"is_read"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type SavedSearch struct {
	ID        uint64            `gorm:"primaryKey" json:"id"`
	UserID    uint64            `gorm:"not null;index" json:"user_id"`
	Name      string            `gorm:"size:100;not null" json:"name"`
	Filters   datatypes.JSONMap `json:"filters"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

const (
	OutboxPending int8 = 0
	OutboxSent    int8 = 1
	OutboxFailed  int8 = 2
)

// Outbox holds domain events written in the same transaction as the change
// they describe, drained asynchronously by the relayer.
type Outbox struct {
	ID          uint64    `gorm:"primaryKey"`
	EventID     string    `gorm:"size:32;uniqueIndex;not null"`
	EventType   string    `gorm:"size:32;not null"`
	AggregateID uint64    `gorm:"not null"`
	Payload     string    `gorm:"type:text;not null"`
	Status      int8      `gorm:"not null;default:0;index;comment:'0=pending,1=sent,2=failed'"`
	Retry       int       `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Outbox) TableName() string { return "outbox" }

// All lists every table for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Profile{},
		&Connection{},
		&Role{},
		&UserRole{},
		&Event{},
		&EventAttendee{},
		&Job{},
		&MentorProfile{},
		&MentorshipRelationship{},
		&AvailabilitySlot{},
		&Meeting{},
		&Achievement{},
		&Notification{},
		&SavedSearch{},
		&Outbox{},
	}
}
