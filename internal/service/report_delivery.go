package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/courtline/courtline-api/internal/dto"
	"github.com/courtline/courtline-api/internal/models"
	"github.com/courtline/courtline-api/internal/observability"
)

// ReportRenderer turns a report into a deliverable document. The default
// renderer emits the structured content as JSON; deployments can plug in
// a PDF renderer without touching the service.
type ReportRenderer interface {
	Render(report models.Report, content models.ReportContent) (subject, body string, document []byte, err error)
}

type jsonRenderer struct{}

// NewJSONRenderer returns the default renderer.
func NewJSONRenderer() ReportRenderer {
	return jsonRenderer{}
}

func (jsonRenderer) Render(report models.Report, content models.ReportContent) (string, string, []byte, error) {
	document, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return "", "", nil, err
	}

	subject := fmt.Sprintf("%s - Tennis Report for %s", report.TeachingPeriod.Name, report.Student.Name)
	body := fmt.Sprintf(
		"Please find attached the %s report for %s (%s group).",
		report.TeachingPeriod.Name, report.Student.Name, report.Group.Name,
	)
	return subject, body, document, nil
}

func (s *reportService) DeliveryBatch(ctx context.Context, actor Actor, periodID uint) ([]dto.DeliveryItem, error) {
	if !actor.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	ctx, span := s.tracer.Start(ctx, "reports.delivery_batch", trace.WithAttributes(
		attribute.Int("teaching_period_id", int(periodID)),
	))
	defer span.End()

	if _, err := s.periodInClub(ctx, actor, periodID); err != nil {
		return nil, err
	}

	reports, err := s.reports.ListByPeriod(ctx, actor.ClubID, periodID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.DeliveryItem, 0, len(reports))
	for _, report := range reports {
		if report.Student.ContactEmail == "" {
			observability.Deliveries().WithLabelValues("skipped_no_email").Inc()
			s.logger.Warn().
				Uint("report_id", report.ID).
				Str("student", report.Student.Name).
				Msg("skipping delivery, student has no contact email")
			continue
		}

		content, err := decodeReportContent(report)
		if err != nil {
			return nil, err
		}

		subject, body, document, err := s.renderer.Render(report, content)
		if err != nil {
			return nil, err
		}

		items = append(items, dto.DeliveryItem{
			ReportID:       report.ID,
			RecipientEmail: report.Student.ContactEmail,
			Subject:        subject,
			Body:           body,
			Document:       document,
		})
	}

	s.logger.Info().
		Int("reports", len(reports)).
		Int("deliverable", len(items)).
		Msg("delivery batch prepared")

	return items, nil
}

func decodeReportContent(report models.Report) (models.ReportContent, error) {
	content := models.ReportContent{}
	if len(report.Content) == 0 {
		return content, nil
	}
	if err := json.Unmarshal(report.Content, &content); err != nil {
		return nil, err
	}
	return content, nil
}
