package model

import "time"

const (
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
)

var EmploymentTypes = []string{"full_time", "part_time", "contract", "internship"}

type Job struct {
	ID             uint64     `gorm:"primaryKey" json:"id"`
	PosterID       uint64     `gorm:"not null;index:idx_poster_time" json:"poster_id"`
	Title          string     `gorm:"size:200;not null" json:"title"`
	Company        string     `gorm:"size:128;not null" json:"company"`
	Location       string     `gorm:"size:128" json:"location"`
	EmploymentType string     `gorm:"size:16;not null;default:'full_time'" json:"employment_type"`
	IsRemote       bool       `gorm:"not null;default:false" json:"is_remote"`
	Description    string     `gorm:"type:text" json:"description"`
	ApplyURL       string     `gorm:"size:255" json:"apply_url"`
	SalaryRange    string     `gorm:"size:64" json:"salary_range"`
	Status         string     `gorm:"size:16;not null;default:'open';index" json:"status"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	CreatedAt      time.Time  `gorm:"index:idx_poster_time" json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
