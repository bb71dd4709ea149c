package dto

import (
	"encoding/json"
	"time"

	"github.com/courtline/courtline-api/internal/models"
)

// CreateReportRequest submits a report for one enrollment.
type CreateReportRequest struct {
	TemplateID         uint                 `json:"template_id" validate:"required"`
	Content            models.ReportContent `json:"content" validate:"required"`
	RecommendedGroupID *uint                `json:"recommended_group_id"`
}

// UpdateReportRequest edits a submitted report. Only content and the
// recommended group are mutable.
type UpdateReportRequest struct {
	Content            models.ReportContent `json:"content" validate:"required"`
	RecommendedGroupID *uint                `json:"recommended_group_id"`
}

// MarkSentRequest records one delivery attempt outcome.
type MarkSentRequest struct {
	Status string `json:"status" validate:"required,max=200"`
}

// ReportResponse is the serialized report.
type ReportResponse struct {
	ID                 uint                 `json:"id"`
	StudentID          uint                 `json:"student_id"`
	StudentName        string               `json:"student_name"`
	CoachID            uint                 `json:"coach_id"`
	GroupID            uint                 `json:"group_id"`
	GroupName          string               `json:"group_name,omitempty"`
	PeriodID           uint                 `json:"teaching_period_id"`
	ProgrammePlayerID  uint                 `json:"programme_player_id"`
	TemplateID         uint                 `json:"template_id"`
	Content            models.ReportContent `json:"content"`
	RecommendedGroupID *uint                `json:"recommended_group_id"`
	RecommendedGroup   string               `json:"recommended_group,omitempty"`
	IsUnder18          bool                 `json:"is_under_18"`

	EmailSent       bool       `json:"email_sent"`
	EmailSentAt     *time.Time `json:"email_sent_at"`
	LastEmailStatus string     `json:"last_email_status"`
	EmailAttempts   int        `json:"email_attempts"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func decodeContent(report models.Report) (models.ReportContent, error) {
	content := models.ReportContent{}
	if len(report.Content) == 0 {
		return content, nil
	}
	if err := json.Unmarshal(report.Content, &content); err != nil {
		return nil, err
	}
	return content, nil
}

// NewReportResponse maps a report model to its response shape.
func NewReportResponse(report models.Report, now time.Time) (ReportResponse, error) {
	content, err := decodeContent(report)
	if err != nil {
		return ReportResponse{}, err
	}

	response := ReportResponse{
		ID:                 report.ID,
		StudentID:          report.StudentID,
		StudentName:        report.Student.Name,
		CoachID:            report.CoachID,
		GroupID:            report.GroupID,
		GroupName:          report.Group.Name,
		PeriodID:           report.TeachingPeriodID,
		ProgrammePlayerID:  report.ProgrammePlayerID,
		TemplateID:         report.ReportTemplateID,
		Content:            content,
		RecommendedGroupID: report.RecommendedGroupID,
		IsUnder18:          report.Student.IsUnder18(now),
		EmailSent:          report.EmailSent,
		EmailSentAt:        report.EmailSentAt,
		LastEmailStatus:    report.LastEmailStatus,
		EmailAttempts:      report.EmailAttempts,
		CreatedAt:          report.CreatedAt,
		UpdatedAt:          report.UpdatedAt,
	}
	if report.RecommendedGroup != nil {
		response.RecommendedGroup = report.RecommendedGroup.Name
	}

	return response, nil
}

// NewReportResponseSlice maps a slice of reports.
func NewReportResponseSlice(reports []models.Report, now time.Time) ([]ReportResponse, error) {
	responses := make([]ReportResponse, 0, len(reports))
	for _, report := range reports {
		response, err := NewReportResponse(report, now)
		if err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, nil
}

// DeliveryItem is the per-report contract handed to the email collaborator.
// The caller must record every attempted delivery through MarkSent.
type DeliveryItem struct {
	ReportID       uint   `json:"report_id"`
	RecipientEmail string `json:"recipient_email"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
	Document       []byte `json:"document"`
}
