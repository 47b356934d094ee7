package model

import "time"

const (
	VisibilityPublic  = "public"
	VisibilityAlumni  = "alumni"
	VisibilityPrivate = "private"
)

type Profile struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	UserID         uint64    `gorm:"uniqueIndex;not null" json:"user_id"`
	FullName       string    `gorm:"size:128;index" json:"full_name"`
	ProfileURL     *string   `gorm:"uniqueIndex;size:50" json:"profile_url"`
	GraduationYear int       `gorm:"index" json:"graduation_year"`
	Degree         string    `gorm:"size:64" json:"degree"`
	Major          string    `gorm:"size:128;index" json:"major"`
	CurrentCompany string    `gorm:"size:128" json:"current_company"`
	JobTitle       string    `gorm:"size:128" json:"job_title"`
	Industry       string    `gorm:"size:64;index" json:"industry"`
	Location       string    `gorm:"size:128;index" json:"location"`
	Bio            string    `gorm:"type:text" json:"bio"`
	AvatarURL      string    `gorm:"size:255" json:"avatar_url"`
	LinkedinURL    string    `gorm:"size:255" json:"linkedin_url"`
	Skills         string    `gorm:"type:text" json:"skills"` // comma separated
	IsMentor       bool      `gorm:"not null;default:false" json:"is_mentor"`
	Visibility     string    `gorm:"size:16;not null;default:'alumni'" json:"visibility"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// URL returns the profile url or "" when unset.
func (p *Profile) URL() string {
	if p.ProfileURL == nil {
		return ""
	}
	return *p.ProfileURL
}
