package models

import "time"

// CoachInvitation is a single-use, time-limited token binding an email
// address to a club and the admin who issued it. Expiry is fixed at
// creation time and compared directly against now when accepting.
type CoachInvitation struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:120;not null;index" json:"email"`
	TennisClubID uint      `gorm:"not null;index" json:"tennis_club_id"`
	InvitedByID  uint      `gorm:"not null" json:"invited_by_id"`
	Token        string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	ExpiresAt    time.Time `gorm:"not null" json:"expires_at"`
	Used         bool      `gorm:"not null;default:false" json:"used"`
	CreatedAt    time.Time `json:"created_at"`
}

// Expired reports whether the invitation can no longer be accepted.
func (i CoachInvitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
