package models

import "time"

// TennisClub is the tenant boundary. Every other entity carries a direct or
// indirect reference to exactly one club, and every query is scoped to it.
type TennisClub struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Subdomain string    `gorm:"size:50;uniqueIndex;not null" json:"subdomain"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
