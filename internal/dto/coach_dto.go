package dto

import (
	"time"

	"github.com/courtline/courtline-api/internal/models"
)

// InviteCoachRequest asks for a coach invitation to be issued.
type InviteCoachRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// InvitationResponse is the serialized invitation.
type InvitationResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewInvitationResponse maps an invitation; the token is included because
// the delivery of the invite email is the caller's responsibility.
func NewInvitationResponse(invitation models.CoachInvitation) InvitationResponse {
	return InvitationResponse{
		ID:        invitation.ID,
		Email:     invitation.Email,
		Token:     invitation.Token,
		ExpiresAt: invitation.ExpiresAt,
	}
}

// AcceptInvitationRequest redeems an invitation token.
type AcceptInvitationRequest struct {
	Token string `json:"token" validate:"required"`
	Name  string `json:"name" validate:"required,max=100"`
}

// CoachDetailsRequest creates or updates a coach's accreditation record.
// Dates use the YYYY-MM-DD wire format.
type CoachDetailsRequest struct {
	CoachNumber   string `json:"coach_number" validate:"max=50"`
	Qualification string `json:"qualification" validate:"omitempty,oneof=none level_1 level_2 level_3 level_4 level_5"`
	Position      string `json:"position" validate:"omitempty,oneof=head_coach senior_coach lead_coach assistant_coach junior_coach"`
	DateOfBirth   string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	ContactNumber string `json:"contact_number" validate:"max=20"`
	UTRNumber     string `json:"utr_number" validate:"max=20"`

	EmergencyContactName   string `json:"emergency_contact_name" validate:"max=100"`
	EmergencyContactNumber string `json:"emergency_contact_number" validate:"max=20"`

	AddressLine1 string `json:"address_line1" validate:"max=100"`
	AddressLine2 string `json:"address_line2" validate:"max=100"`
	City         string `json:"city" validate:"max=50"`
	Postcode     string `json:"postcode" validate:"max=10"`

	DBSNumber          string `json:"dbs_number" validate:"max=50"`
	DBSUpdateServiceID string `json:"dbs_update_service_id" validate:"max=50"`

	AccreditationExpiry string `json:"accreditation_expiry" validate:"omitempty,datetime=2006-01-02"`
	DBSExpiry           string `json:"dbs_expiry" validate:"omitempty,datetime=2006-01-02"`
	FirstAidExpiry      string `json:"first_aid_expiry" validate:"omitempty,datetime=2006-01-02"`
	SafeguardingExpiry  string `json:"safeguarding_expiry" validate:"omitempty,datetime=2006-01-02"`
}

// ExpiryStatusResponse is one accreditation's classification.
type ExpiryStatusResponse struct {
	Status        models.ExpiryStatus `json:"status"`
	DaysRemaining int                 `json:"days_remaining"`
}

// CoachAccreditationResponse aggregates one coach's accreditation statuses.
type CoachAccreditationResponse struct {
	CoachID       uint                            `json:"coach_id"`
	CoachName     string                          `json:"coach_name"`
	Email         string                          `json:"email"`
	Accreditation map[string]ExpiryStatusResponse `json:"accreditations"`
	AtRisk        bool                            `json:"at_risk"`
}

// CoachDetailsResponse is the serialized accreditation record.
type CoachDetailsResponse struct {
	ID            uint       `json:"id"`
	UserID        uint       `json:"user_id"`
	CoachNumber   string     `json:"coach_number"`
	Qualification string     `json:"qualification"`
	Position      string     `json:"position"`
	ContactNumber string     `json:"contact_number"`
	UTRNumber     string     `json:"utr_number"`

	AccreditationExpiry *time.Time `json:"accreditation_expiry"`
	DBSExpiry           *time.Time `json:"dbs_expiry"`
	FirstAidExpiry      *time.Time `json:"first_aid_expiry"`
	SafeguardingExpiry  *time.Time `json:"safeguarding_expiry"`
}

// NewCoachDetailsResponse maps a details model to its response shape.
func NewCoachDetailsResponse(details models.CoachDetails) CoachDetailsResponse {
	return CoachDetailsResponse{
		ID:                  details.ID,
		UserID:              details.UserID,
		CoachNumber:         details.CoachNumber,
		Qualification:       string(details.Qualification),
		Position:            string(details.Position),
		ContactNumber:       details.ContactNumber,
		UTRNumber:           details.UTRNumber,
		AccreditationExpiry: details.AccreditationExpiry,
		DBSExpiry:           details.DBSExpiry,
		FirstAidExpiry:      details.FirstAidExpiry,
		SafeguardingExpiry:  details.SafeguardingExpiry,
	}
}
