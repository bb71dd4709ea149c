package models

import "time"

// TeachingPeriod is a term bounding enrollments and reports.
// StartDate <= EndDate is enforced at write time by the service layer.
type TeachingPeriod struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:50;not null" json:"name"`
	StartDate    time.Time `gorm:"not null" json:"start_date"`
	EndDate      time.Time `gorm:"not null" json:"end_date"`
	TennisClubID uint      `gorm:"not null;index" json:"tennis_club_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
