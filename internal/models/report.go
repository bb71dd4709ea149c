package models

import (
	"time"

	"gorm.io/datatypes"
)

// Report is a filled-in template instance for one enrollment in one term.
// Identity fields (student, coach, period, template, programme player) are
// immutable after creation; GroupID freezes the group the student was in at
// submission time so historical reports stay stable if the enrollment moves.
//
// The composite unique index on (student, period) is the storage-layer
// backstop for the application-level existence check.
type Report struct {
	ID                uint  `gorm:"primaryKey" json:"id"`
	StudentID         uint  `gorm:"not null;uniqueIndex:idx_report_student_period" json:"student_id"`
	TeachingPeriodID  uint  `gorm:"not null;uniqueIndex:idx_report_student_period" json:"teaching_period_id"`
	CoachID           uint  `gorm:"not null;index" json:"coach_id"`
	GroupID           uint  `gorm:"not null" json:"group_id"`
	ProgrammePlayerID uint  `gorm:"not null;index" json:"programme_player_id"`
	ReportTemplateID  uint  `gorm:"not null" json:"report_template_id"`
	TennisClubID      uint  `gorm:"not null;index" json:"tennis_club_id"`
	RecommendedGroupID *uint `json:"recommended_group_id"`

	// Content mirrors the template's sections/fields at submission time:
	// section name -> field name -> value. Schema-on-write, validated by
	// the service against the owning template.
	Content datatypes.JSON `gorm:"type:json" json:"content"`

	// Delivery tracking, written only by MarkSent, never by report edits.
	EmailSent       bool       `gorm:"not null;default:false" json:"email_sent"`
	EmailSentAt     *time.Time `json:"email_sent_at"`
	LastEmailStatus string     `gorm:"size:200" json:"last_email_status"`
	EmailAttempts   int        `gorm:"not null;default:0" json:"email_attempts"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Student          Student         `json:"student"`
	Coach            User            `json:"-"`
	Group            TennisGroup     `json:"group"`
	TeachingPeriod   TeachingPeriod  `json:"-"`
	ProgrammePlayer  ProgrammePlayer `json:"-"`
	Template         ReportTemplate  `gorm:"foreignKey:ReportTemplateID" json:"-"`
	RecommendedGroup *TennisGroup    `gorm:"foreignKey:RecommendedGroupID" json:"recommended_group,omitempty"`
}

// ReportContent is the decoded shape of Report.Content.
type ReportContent map[string]map[string]any
