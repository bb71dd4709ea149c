package dto

import (
	"time"

	"github.com/courtline/courtline-api/internal/models"
)

// CreatePeriodRequest creates a teaching period. Dates use YYYY-MM-DD.
type CreatePeriodRequest struct {
	Name      string `json:"name" validate:"required,max=50"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// UpdatePeriodRequest mutates a teaching period.
type UpdatePeriodRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=50"`
	StartDate *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// PeriodResponse is the serialized teaching period.
type PeriodResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// NewPeriodResponse maps a period model to its response shape.
func NewPeriodResponse(period models.TeachingPeriod) PeriodResponse {
	return PeriodResponse{
		ID:        period.ID,
		Name:      period.Name,
		StartDate: period.StartDate,
		EndDate:   period.EndDate,
	}
}

// NewPeriodResponseSlice maps a slice of periods.
func NewPeriodResponseSlice(periods []models.TeachingPeriod) []PeriodResponse {
	responses := make([]PeriodResponse, 0, len(periods))
	for _, period := range periods {
		responses = append(responses, NewPeriodResponse(period))
	}
	return responses
}

// CreateGroupRequest creates a tennis group.
type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description" validate:"max=200"`
}

// GroupResponse is the serialized group.
type GroupResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewGroupResponse maps a group model to its response shape.
func NewGroupResponse(group models.TennisGroup) GroupResponse {
	return GroupResponse{ID: group.ID, Name: group.Name, Description: group.Description}
}

// NewGroupResponseSlice maps a slice of groups.
func NewGroupResponseSlice(groups []models.TennisGroup) []GroupResponse {
	responses := make([]GroupResponse, 0, len(groups))
	for _, group := range groups {
		responses = append(responses, NewGroupResponse(group))
	}
	return responses
}

// EnrollPlayerRequest enrolls a single student into a programme.
// DateOfBirth uses the DD-MMM-YYYY upload format, e.g. 05-Nov-2013.
type EnrollPlayerRequest struct {
	StudentName  string `json:"student_name" validate:"required,max=100"`
	DateOfBirth  string `json:"date_of_birth" validate:"omitempty"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	CoachID      uint   `json:"coach_id" validate:"required"`
	GroupID      uint   `json:"group_id" validate:"required"`
	PeriodID     uint   `json:"teaching_period_id" validate:"required"`
}

// PlayerResponse is the serialized enrollment.
type PlayerResponse struct {
	ID              uint      `json:"id"`
	StudentID       uint      `json:"student_id"`
	StudentName     string    `json:"student_name"`
	CoachID         uint      `json:"coach_id"`
	CoachName       string    `json:"coach_name,omitempty"`
	GroupID         uint      `json:"group_id"`
	GroupName       string    `json:"group_name,omitempty"`
	PeriodID        uint      `json:"teaching_period_id"`
	ReportSubmitted bool      `json:"report_submitted"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewPlayerResponse maps an enrollment model to its response shape.
func NewPlayerResponse(player models.ProgrammePlayer) PlayerResponse {
	return PlayerResponse{
		ID:              player.ID,
		StudentID:       player.StudentID,
		StudentName:     player.Student.Name,
		CoachID:         player.CoachID,
		CoachName:       player.Coach.Name,
		GroupID:         player.GroupID,
		GroupName:       player.Group.Name,
		PeriodID:        player.TeachingPeriodID,
		ReportSubmitted: player.ReportSubmitted,
		CreatedAt:       player.CreatedAt,
	}
}

// NewPlayerResponseSlice maps a slice of enrollments.
func NewPlayerResponseSlice(players []models.ProgrammePlayer) []PlayerResponse {
	responses := make([]PlayerResponse, 0, len(players))
	for _, player := range players {
		responses = append(responses, NewPlayerResponse(player))
	}
	return responses
}

// RowErrorResponse is one failed row of a batch upload.
type RowErrorResponse struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// BulkEnrollmentResult summarizes a batch upload. When Errors is non-empty
// nothing was committed.
type BulkEnrollmentResult struct {
	PlayersCreated  int                `json:"players_created"`
	StudentsCreated int                `json:"students_created"`
	Errors          []RowErrorResponse `json:"errors,omitempty"`
}
