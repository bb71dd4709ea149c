package models

import "time"

// UserRole is a closed set of mutually exclusive roles.
type UserRole string

const (
	RoleCoach      UserRole = "coach"
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "super_admin"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	switch r {
	case RoleCoach, RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether the role carries admin capabilities.
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// IsSuperAdmin reports whether the role is the platform-level super admin.
func (r UserRole) IsSuperAdmin() bool {
	return r == RoleSuperAdmin
}

// User is a person who can authenticate. Email is stored lowercased so the
// unique index is effectively case-insensitive.
type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Email          string     `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Username       string     `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Name           string     `gorm:"size:100" json:"name"`
	Role           UserRole   `gorm:"size:20;not null;default:coach" json:"role"`
	IsActive       bool       `gorm:"not null;default:true" json:"is_active"`
	AuthProvider   string     `gorm:"size:20;default:email" json:"auth_provider"`
	AuthProviderID string     `gorm:"size:200" json:"-"`
	TennisClubID   uint       `gorm:"not null;index" json:"tennis_club_id"`
	TennisClub     TennisClub `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// IsAdmin reports whether the user holds ADMIN or SUPER_ADMIN.
func (u User) IsAdmin() bool {
	return u.Role.IsAdmin()
}

// IsSuperAdmin reports whether the user holds SUPER_ADMIN.
func (u User) IsSuperAdmin() bool {
	return u.Role.IsSuperAdmin()
}
