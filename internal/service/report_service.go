package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/courtline/courtline-api/internal/dto"
	"github.com/courtline/courtline-api/internal/models"
	"github.com/courtline/courtline-api/internal/observability"
	"github.com/courtline/courtline-api/internal/repository"
)

// ReportService manages the report lifecycle: creation against the group's
// active template, in-place edits, deletion and delivery tracking.
type ReportService interface {
	// Create submits a report for one enrollment. The template must be the
	// group's active one and the content must satisfy its schema.
	Create(ctx context.Context, actor Actor, playerID uint, req dto.CreateReportRequest) (dto.ReportResponse, error)
	Get(ctx context.Context, actor Actor, id uint) (dto.ReportResponse, error)
	Update(ctx context.Context, actor Actor, id uint, req dto.UpdateReportRequest) (dto.ReportResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error
	ListByPeriod(ctx context.Context, actor Actor, periodID uint) ([]dto.ReportResponse, error)
	// MarkSent records one delivery attempt. Every call increments the
	// attempt counter, success or failure.
	MarkSent(ctx context.Context, actor Actor, id uint, req dto.MarkSentRequest) (dto.ReportResponse, error)
	// DeliveryBatch renders every report of a period into deliverable
	// items for the mail collaborator. Reports whose student has no
	// contact email are skipped.
	DeliveryBatch(ctx context.Context, actor Actor, periodID uint) ([]dto.DeliveryItem, error)
}

type reportService struct {
	reports   repository.ReportRepository
	players   repository.ProgrammePlayerRepository
	templates repository.TemplateRepository
	groups    repository.GroupRepository
	periods   repository.PeriodRepository
	validate  *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
	sanitizer *bluemonday.Policy
	renderer  ReportRenderer
	sender    string
	cache     DashboardInvalidator
	now       func() time.Time
}

// NewReportService constructs the report service.
func NewReportService(
	reports repository.ReportRepository,
	players repository.ProgrammePlayerRepository,
	templates repository.TemplateRepository,
	groups repository.GroupRepository,
	periods repository.PeriodRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
	renderer ReportRenderer,
	senderEmail string,
	cache DashboardInvalidator,
) ReportService {
	if renderer == nil {
		renderer = NewJSONRenderer()
	}
	return &reportService{
		reports:   reports,
		players:   players,
		templates: templates,
		groups:    groups,
		periods:   periods,
		validate:  validate,
		logger:    logger.With().Str("component", "report_service").Logger(),
		tracer:    otel.Tracer("github.com/courtline/courtline-api/internal/service/report"),
		sanitizer: bluemonday.StrictPolicy(),
		renderer:  renderer,
		sender:    senderEmail,
		cache:     cache,
		now:       time.Now,
	}
}

func (s *reportService) Create(ctx context.Context, actor Actor, playerID uint, req dto.CreateReportRequest) (dto.ReportResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.ReportResponse{}, err
	}

	ctx, span := s.tracer.Start(ctx, "reports.create", trace.WithAttributes(
		attribute.Int("programme_player_id", int(playerID)),
	))
	defer span.End()

	player, err := s.playerInClub(ctx, actor, playerID)
	if err != nil {
		return dto.ReportResponse{}, err
	}
	if !actor.CanManage(player.CoachID) {
		return dto.ReportResponse{}, ErrPermissionDenied
	}

	exists, err := s.reports.ExistsForStudentPeriod(ctx, player.StudentID, player.TeachingPeriodID)
	if err != nil {
		return dto.ReportResponse{}, err
	}
	if exists {
		observability.Reports().WithLabelValues("duplicate").Inc()
		return dto.ReportResponse{}, ErrDuplicateReport
	}

	template, err := s.templates.ActiveForGroup(ctx, player.GroupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReportResponse{}, ErrNoActiveTemplate
		}
		return dto.ReportResponse{}, err
	}
	if template.ID != req.TemplateID {
		return dto.ReportResponse{}, NewValidationError(map[string]string{
			"template_id": "template is not the active template for the player's group",
		})
	}

	if req.RecommendedGroupID != nil {
		if _, err := s.groupInClub(ctx, actor, *req.RecommendedGroupID); err != nil {
			return dto.ReportResponse{}, err
		}
	}

	content, err := s.validateContent(template, req.Content)
	if err != nil {
		observability.Reports().WithLabelValues("invalid").Inc()
		return dto.ReportResponse{}, err
	}

	encoded, err := json.Marshal(content)
	if err != nil {
		return dto.ReportResponse{}, err
	}

	report := models.Report{
		StudentID:          player.StudentID,
		TeachingPeriodID:   player.TeachingPeriodID,
		CoachID:            player.CoachID,
		GroupID:            player.GroupID,
		ProgrammePlayerID:  player.ID,
		ReportTemplateID:   template.ID,
		TennisClubID:       player.TennisClubID,
		RecommendedGroupID: req.RecommendedGroupID,
		Content:            datatypes.JSON(encoded),
	}
	if err := s.reports.Create(ctx, &report); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			observability.Reports().WithLabelValues("duplicate").Inc()
			return dto.ReportResponse{}, ErrDuplicateReport
		}
		observability.Reports().WithLabelValues("error").Inc()
		return dto.ReportResponse{}, err
	}

	observability.Reports().WithLabelValues("created").Inc()
	s.invalidateDashboard(ctx, player.TennisClubID, player.TeachingPeriodID)

	s.logger.Info().
		Uint("report_id", report.ID).
		Uint("programme_player_id", player.ID).
		Msg("report created")

	created, err := s.reports.GetByID(ctx, report.ID)
	if err != nil {
		return dto.ReportResponse{}, err
	}
	return dto.NewReportResponse(created, s.now())
}

func (s *reportService) Get(ctx context.Context, actor Actor, id uint) (dto.ReportResponse, error) {
	report, err := s.reportInClub(ctx, actor, id)
	if err != nil {
		return dto.ReportResponse{}, err
	}
	if !actor.CanManage(report.CoachID) {
		return dto.ReportResponse{}, ErrPermissionDenied
	}
	return dto.NewReportResponse(report, s.now())
}

func (s *reportService) Update(ctx context.Context, actor Actor, id uint, req dto.UpdateReportRequest) (dto.ReportResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.ReportResponse{}, err
	}

	report, err := s.reportInClub(ctx, actor, id)
	if err != nil {
		return dto.ReportResponse{}, err
	}
	if !actor.CanManage(report.CoachID) {
		return dto.ReportResponse{}, ErrPermissionDenied
	}

	if req.RecommendedGroupID != nil {
		if _, err := s.groupInClub(ctx, actor, *req.RecommendedGroupID); err != nil {
			return dto.ReportResponse{}, err
		}
	}

	content, err := s.validateContent(report.Template, req.Content)
	if err != nil {
		observability.Reports().WithLabelValues("invalid").Inc()
		return dto.ReportResponse{}, err
	}

	encoded, err := json.Marshal(content)
	if err != nil {
		return dto.ReportResponse{}, err
	}

	report.Content = datatypes.JSON(encoded)
	report.RecommendedGroupID = req.RecommendedGroupID
	if err := s.reports.Update(ctx, &report); err != nil {
		return dto.ReportResponse{}, err
	}

	observability.Reports().WithLabelValues("updated").Inc()

	updated, err := s.reports.GetByID(ctx, report.ID)
	if err != nil {
		return dto.ReportResponse{}, err
	}
	return dto.NewReportResponse(updated, s.now())
}

func (s *reportService) Delete(ctx context.Context, actor Actor, id uint) error {
	report, err := s.reportInClub(ctx, actor, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(report.CoachID) {
		return ErrPermissionDenied
	}

	if err := s.reports.Delete(ctx, id); err != nil {
		return err
	}

	observability.Reports().WithLabelValues("deleted").Inc()
	s.invalidateDashboard(ctx, report.TennisClubID, report.TeachingPeriodID)

	s.logger.Info().Uint("report_id", id).Msg("report deleted")
	return nil
}

func (s *reportService) ListByPeriod(ctx context.Context, actor Actor, periodID uint) ([]dto.ReportResponse, error) {
	if _, err := s.periodInClub(ctx, actor, periodID); err != nil {
		return nil, err
	}

	reports, err := s.reports.ListByPeriod(ctx, actor.ClubID, periodID)
	if err != nil {
		return nil, err
	}

	// Coaches only see their own reports.
	if !actor.IsAdmin() {
		own := reports[:0]
		for _, report := range reports {
			if report.CoachID == actor.UserID {
				own = append(own, report)
			}
		}
		reports = own
	}

	return dto.NewReportResponseSlice(reports, s.now())
}

func (s *reportService) MarkSent(ctx context.Context, actor Actor, id uint, req dto.MarkSentRequest) (dto.ReportResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.ReportResponse{}, err
	}
	if !actor.IsAdmin() {
		return dto.ReportResponse{}, ErrPermissionDenied
	}

	if _, err := s.reportInClub(ctx, actor, id); err != nil {
		return dto.ReportResponse{}, err
	}

	if err := s.reports.MarkSent(ctx, id, req.Status, s.now()); err != nil {
		return dto.ReportResponse{}, err
	}

	observability.Deliveries().WithLabelValues(req.Status).Inc()

	updated, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return dto.ReportResponse{}, err
	}
	return dto.NewReportResponse(updated, s.now())
}

func (s *reportService) playerInClub(ctx context.Context, actor Actor, id uint) (models.ProgrammePlayer, error) {
	player, err := s.players.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ProgrammePlayer{}, ErrPlayerNotFound
		}
		return models.ProgrammePlayer{}, err
	}
	if !actor.SameClub(player.TennisClubID) {
		return models.ProgrammePlayer{}, ErrPermissionDenied
	}
	return player, nil
}

func (s *reportService) reportInClub(ctx context.Context, actor Actor, id uint) (models.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Report{}, ErrReportNotFound
		}
		return models.Report{}, err
	}
	if !actor.SameClub(report.TennisClubID) {
		return models.Report{}, ErrPermissionDenied
	}
	return report, nil
}

func (s *reportService) groupInClub(ctx context.Context, actor Actor, id uint) (models.TennisGroup, error) {
	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.TennisGroup{}, ErrGroupNotFound
		}
		return models.TennisGroup{}, err
	}
	if !actor.SameClub(group.TennisClubID) {
		return models.TennisGroup{}, ErrPermissionDenied
	}
	return group, nil
}

func (s *reportService) periodInClub(ctx context.Context, actor Actor, id uint) (models.TeachingPeriod, error) {
	period, err := s.periods.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.TeachingPeriod{}, ErrPeriodNotFound
		}
		return models.TeachingPeriod{}, err
	}
	if !actor.SameClub(period.TennisClubID) {
		return models.TeachingPeriod{}, ErrPermissionDenied
	}
	return period, nil
}

func (s *reportService) invalidateDashboard(ctx context.Context, clubID, periodID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, clubID, periodID); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate dashboard cache")
	}
}
