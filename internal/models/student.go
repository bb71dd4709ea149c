package models

import "time"

// Student is a club member who can be enrolled into programmes. Students
// are looked up by (name, club) before creation so the same child is never
// duplicated across terms.
type Student struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"size:100;not null;index:idx_student_club_name" json:"name"`
	DateOfBirth  *time.Time `gorm:"type:date" json:"date_of_birth"`
	ContactEmail string     `gorm:"size:120" json:"contact_email"`
	TennisClubID uint       `gorm:"not null;index:idx_student_club_name" json:"tennis_club_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsUnder18 compares the date of birth against now, adjusting for whether
// the birthday has occurred yet this year. A missing date of birth is
// treated as under 18, the safer default for consent gating.
func (s Student) IsUnder18(now time.Time) bool {
	if s.DateOfBirth == nil {
		return true
	}

	dob := *s.DateOfBirth
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}

	return age < 18
}
