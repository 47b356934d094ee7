package model

import "time"

const (
	ConnectionInactive int8 = 0
	ConnectionActive   int8 = 1
)

// Connection is a directed "follow" edge between two alumni.
type Connection struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	FollowerID uint64    `gorm:"not null;uniqueIndex:uk_follower_followee;index:idx_follower_id" json:"follower_id"`
	FolloweeID uint64    `gorm:"not null;uniqueIndex:uk_follower_followee;index:idx_followee_id" json:"followee_id"`
	Status     int8      `gorm:"not null;default:1;comment:'1=connected,0=disconnected'" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Connection) TableName() string {
	return "connections"
}
