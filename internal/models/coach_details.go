package models

import (
	"math"
	"time"
)

// CoachQualification is the LTA qualification ladder.
type CoachQualification string

const (
	QualificationNone   CoachQualification = "none"
	QualificationLevel1 CoachQualification = "level_1"
	QualificationLevel2 CoachQualification = "level_2"
	QualificationLevel3 CoachQualification = "level_3"
	QualificationLevel4 CoachQualification = "level_4"
	QualificationLevel5 CoachQualification = "level_5"
)

// CoachPosition describes the coach's role within the club programme.
type CoachPosition string

const (
	PositionHeadCoach      CoachPosition = "head_coach"
	PositionSeniorCoach    CoachPosition = "senior_coach"
	PositionLeadCoach      CoachPosition = "lead_coach"
	PositionAssistantCoach CoachPosition = "assistant_coach"
	PositionJuniorCoach    CoachPosition = "junior_coach"
)

// ExpiryStatus classifies an accreditation expiry date.
type ExpiryStatus string

const (
	// ExpiryStatusExpired means the date has passed.
	ExpiryStatusExpired ExpiryStatus = "expired"
	// ExpiryStatusWarning means the date is at most 90 days away.
	ExpiryStatusWarning ExpiryStatus = "warning"
	// ExpiryStatusValid means the date is more than 90 days away.
	ExpiryStatusValid ExpiryStatus = "valid"
	// ExpiryStatusNotSet means no date has been recorded.
	ExpiryStatusNotSet ExpiryStatus = "not_set"
)

// AtRisk reports whether the status should trigger a reminder. A missing
// date counts as at-risk rather than silently valid.
func (s ExpiryStatus) AtRisk() bool {
	return s == ExpiryStatusExpired || s == ExpiryStatusWarning || s == ExpiryStatusNotSet
}

const expiryWarningDays = 90

// ClassifyExpiry maps an expiry date to a status and the number of whole
// days remaining (negative when already expired). Days are floored so a
// date a few hours in the past classifies as expired, not warning.
func ClassifyExpiry(expiry *time.Time, now time.Time) (ExpiryStatus, int) {
	if expiry == nil {
		return ExpiryStatusNotSet, 0
	}

	days := int(math.Floor(expiry.Sub(now).Hours() / 24))
	switch {
	case days < 0:
		return ExpiryStatusExpired, days
	case days <= expiryWarningDays:
		return ExpiryStatusWarning, days
	default:
		return ExpiryStatusValid, days
	}
}

// CoachDetails is the optional one-to-one extension of a coach or admin
// user carrying accreditation and contact records.
type CoachDetails struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	UserID       uint `gorm:"not null;uniqueIndex" json:"user_id"`
	TennisClubID uint `gorm:"not null;index" json:"tennis_club_id"`

	CoachNumber   string             `gorm:"size:50" json:"coach_number"`
	Qualification CoachQualification `gorm:"size:20;default:none" json:"qualification"`
	Position      CoachPosition      `gorm:"size:30" json:"position"`
	DateOfBirth   *time.Time         `gorm:"type:date" json:"date_of_birth"`
	ContactNumber string             `gorm:"size:20" json:"contact_number"`
	UTRNumber     string             `gorm:"size:20" json:"utr_number"`

	EmergencyContactName   string `gorm:"size:100" json:"emergency_contact_name"`
	EmergencyContactNumber string `gorm:"size:20" json:"emergency_contact_number"`

	AddressLine1 string `gorm:"size:100" json:"address_line1"`
	AddressLine2 string `gorm:"size:100" json:"address_line2"`
	City         string `gorm:"size:50" json:"city"`
	Postcode     string `gorm:"size:10" json:"postcode"`

	DBSNumber          string `gorm:"size:50" json:"dbs_number"`
	DBSUpdateServiceID string `gorm:"size:50" json:"dbs_update_service_id"`

	// The four independently tracked expiry dates.
	AccreditationExpiry *time.Time `json:"accreditation_expiry"`
	DBSExpiry           *time.Time `json:"dbs_expiry"`
	FirstAidExpiry      *time.Time `json:"first_aid_expiry"`
	SafeguardingExpiry  *time.Time `json:"safeguarding_expiry"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `json:"-"`
}

// ExpiryDates returns the tracked accreditation dates keyed by name.
func (d CoachDetails) ExpiryDates() map[string]*time.Time {
	return map[string]*time.Time{
		"accreditation": d.AccreditationExpiry,
		"dbs":           d.DBSExpiry,
		"first_aid":     d.FirstAidExpiry,
		"safeguarding":  d.SafeguardingExpiry,
	}
}
