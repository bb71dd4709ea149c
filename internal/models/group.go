package models

import "time"

// TennisGroup is a skill cohort. Names are unique within a club.
type TennisGroup struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:50;not null;uniqueIndex:idx_group_club_name" json:"name"`
	Description  string    `gorm:"size:200" json:"description"`
	TennisClubID uint      `gorm:"not null;uniqueIndex:idx_group_club_name" json:"tennis_club_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
