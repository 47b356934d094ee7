package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
)

const (
	PermEventsManage       = "events.manage"
	PermJobsModerate       = "jobs.moderate"
	PermUsersManage        = "users.manage"
	PermRolesManage        = "roles.manage"
	PermAnalyticsView      = "analytics.view"
	PermAchievementsVerify = "achievements.verify"
)

// AllPermissions lists every permission the service checks.
var AllPermissions = []string{
	PermEventsManage,
	PermJobsModerate,
	PermUsersManage,
	PermRolesManage,
	PermAnalyticsView,
	PermAchievementsVerify,
}

// Role carries a permissions object such as {"events.manage": true}.
type Role struct {
	ID          uint64            `gorm:"primaryKey" json:"id"`
	Name        string            `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Description string            `gorm:"type:text" json:"description"`
	Permissions datatypes.JSONMap `json:"permissions"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type UserRole struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;index;uniqueIndex:uk_user_role" json:"user_id"`
	RoleID    uint64    `gorm:"not null;index;uniqueIndex:uk_user_role" json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
