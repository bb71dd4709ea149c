package models

import "time"

// ProgrammePlayer is one student's enrollment in one group with one coach
// for one teaching period. The composite unique index serializes concurrent
// enrollments for the same (student, period) at the storage layer; the
// service pre-check exists only to produce a friendlier conflict error.
type ProgrammePlayer struct {
	ID               uint `gorm:"primaryKey" json:"id"`
	StudentID        uint `gorm:"not null;uniqueIndex:idx_enrollment_student_period" json:"student_id"`
	TeachingPeriodID uint `gorm:"not null;uniqueIndex:idx_enrollment_student_period" json:"teaching_period_id"`
	CoachID          uint `gorm:"not null;index" json:"coach_id"`
	GroupID          uint `gorm:"not null;index" json:"group_id"`
	TennisClubID     uint `gorm:"not null;index" json:"tennis_club_id"`

	// ReportSubmitted caches whether a Report exists for this enrollment.
	// It is only ever flipped inside the same transaction as the report
	// create or delete.
	ReportSubmitted bool `gorm:"not null;default:false" json:"report_submitted"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Student        Student        `json:"student"`
	Coach          User           `json:"-"`
	Group          TennisGroup    `json:"group"`
	TeachingPeriod TeachingPeriod `json:"-"`
}
