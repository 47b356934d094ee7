package model

import "time"

// User is the login account. Biographical data lives in Profile.
type User struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;size:32;not null" json:"username"`
	Password       string    `gorm:"size:255;not null" json:"-"`
	Email          string    `gorm:"uniqueIndex;size:64;not null" json:"email"`
	FollowerCount  int64     `gorm:"not null;default:0" json:"follower_count"`
	FollowingCount int64     `gorm:"not null;default:0" json:"following_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
