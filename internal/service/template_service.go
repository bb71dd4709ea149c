package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/courtline/courtline-api/internal/dto"
	"github.com/courtline/courtline-api/internal/models"
	"github.com/courtline/courtline-api/internal/repository"
)

// TemplateService manages report templates and their group assignments.
// All mutating operations are admin-only.
type TemplateService interface {
	Create(ctx context.Context, actor Actor, req dto.TemplateRequest) (dto.TemplateResponse, error)
	Get(ctx context.Context, actor Actor, id uint) (dto.TemplateResponse, error)
	List(ctx context.Context, actor Actor, activeOnly bool) ([]dto.TemplateResponse, error)
	// Update replaces the template's sections and fields wholesale.
	Update(ctx context.Context, actor Actor, id uint, req dto.TemplateRequest) (dto.TemplateResponse, error)
	// Deactivate retires a template without deleting it, so existing
	// reports keep their schema.
	Deactivate(ctx context.Context, actor Actor, id uint) error
	// AssignGroup makes this template the group's single active template,
	// displacing any previous assignment.
	AssignGroup(ctx context.Context, actor Actor, templateID, groupID uint) (dto.TemplateResponse, error)
	UnassignGroup(ctx context.Context, actor Actor, templateID, groupID uint) error
	// ForGroup resolves the active template a coach should fill in for
	// players of the given group.
	ForGroup(ctx context.Context, actor Actor, groupID uint) (dto.TemplateResponse, error)
}

type templateService struct {
	templates repository.TemplateRepository
	groups    repository.GroupRepository
	validate  *validator.Validate
	logger    zerolog.Logger
}

// NewTemplateService constructs the template service.
func NewTemplateService(templates repository.TemplateRepository, groups repository.GroupRepository, validate *validator.Validate, logger zerolog.Logger) TemplateService {
	return &templateService{
		templates: templates,
		groups:    groups,
		validate:  validate,
		logger:    logger.With().Str("component", "template_service").Logger(),
	}
}

func (s *templateService) Create(ctx context.Context, actor Actor, req dto.TemplateRequest) (dto.TemplateResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.TemplateResponse{}, err
	}
	if !actor.IsAdmin() {
		return dto.TemplateResponse{}, ErrPermissionDenied
	}
	if err := validateTemplateStructure(req); err != nil {
		return dto.TemplateResponse{}, err
	}

	sections, err := req.SectionsToModels()
	if err != nil {
		return dto.TemplateResponse{}, err
	}

	template := models.ReportTemplate{
		Name:         strings.TrimSpace(req.Name),
		Description:  strings.TrimSpace(req.Description),
		TennisClubID: actor.ClubID,
		CreatedByID:  actor.UserID,
		IsActive:     true,
		Sections:     sections,
	}
	if err := s.templates.Create(ctx, &template); err != nil {
		return dto.TemplateResponse{}, err
	}

	s.logger.Info().Uint("template_id", template.ID).Msg("report template created")

	return dto.NewTemplateResponse(template), nil
}

func (s *templateService) Get(ctx context.Context, actor Actor, id uint) (dto.TemplateResponse, error) {
	template, err := s.templateInClub(ctx, actor, id)
	if err != nil {
		return dto.TemplateResponse{}, err
	}
	return dto.NewTemplateResponse(template), nil
}

func (s *templateService) List(ctx context.Context, actor Actor, activeOnly bool) ([]dto.TemplateResponse, error) {
	templates, err := s.templates.List(ctx, actor.ClubID, activeOnly)
	if err != nil {
		return nil, err
	}
	return dto.NewTemplateResponseSlice(templates), nil
}

func (s *templateService) Update(ctx context.Context, actor Actor, id uint, req dto.TemplateRequest) (dto.TemplateResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.TemplateResponse{}, err
	}
	if !actor.IsAdmin() {
		return dto.TemplateResponse{}, ErrPermissionDenied
	}
	if err := validateTemplateStructure(req); err != nil {
		return dto.TemplateResponse{}, err
	}

	template, err := s.templateInClub(ctx, actor, id)
	if err != nil {
		return dto.TemplateResponse{}, err
	}

	sections, err := req.SectionsToModels()
	if err != nil {
		return dto.TemplateResponse{}, err
	}

	template.Name = strings.TrimSpace(req.Name)
	template.Description = strings.TrimSpace(req.Description)
	if err := s.templates.ReplaceSections(ctx, &template, sections); err != nil {
		return dto.TemplateResponse{}, err
	}

	updated, err := s.templates.GetByID(ctx, template.ID)
	if err != nil {
		return dto.TemplateResponse{}, err
	}
	return dto.NewTemplateResponse(updated), nil
}

func (s *templateService) Deactivate(ctx context.Context, actor Actor, id uint) error {
	if !actor.IsAdmin() {
		return ErrPermissionDenied
	}
	if _, err := s.templateInClub(ctx, actor, id); err != nil {
		return err
	}
	return s.templates.Deactivate(ctx, id)
}

func (s *templateService) AssignGroup(ctx context.Context, actor Actor, templateID, groupID uint) (dto.TemplateResponse, error) {
	if !actor.IsAdmin() {
		return dto.TemplateResponse{}, ErrPermissionDenied
	}

	if _, err := s.templateInClub(ctx, actor, templateID); err != nil {
		return dto.TemplateResponse{}, err
	}
	if _, err := s.groupInClub(ctx, actor, groupID); err != nil {
		return dto.TemplateResponse{}, err
	}

	if err := s.templates.AssignGroup(ctx, templateID, groupID); err != nil {
		return dto.TemplateResponse{}, err
	}

	s.logger.Info().
		Uint("template_id", templateID).
		Uint("group_id", groupID).
		Msg("template assigned to group")

	updated, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return dto.TemplateResponse{}, err
	}
	return dto.NewTemplateResponse(updated), nil
}

func (s *templateService) UnassignGroup(ctx context.Context, actor Actor, templateID, groupID uint) error {
	if !actor.IsAdmin() {
		return ErrPermissionDenied
	}

	if _, err := s.templateInClub(ctx, actor, templateID); err != nil {
		return err
	}
	if _, err := s.groupInClub(ctx, actor, groupID); err != nil {
		return err
	}

	if err := s.templates.UnassignGroup(ctx, templateID, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTemplateNotFound
		}
		return err
	}
	return nil
}

func (s *templateService) ForGroup(ctx context.Context, actor Actor, groupID uint) (dto.TemplateResponse, error) {
	if _, err := s.groupInClub(ctx, actor, groupID); err != nil {
		return dto.TemplateResponse{}, err
	}

	template, err := s.templates.ActiveForGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TemplateResponse{}, ErrNoActiveTemplate
		}
		return dto.TemplateResponse{}, err
	}
	return dto.NewTemplateResponse(template), nil
}

func (s *templateService) templateInClub(ctx context.Context, actor Actor, id uint) (models.ReportTemplate, error) {
	template, err := s.templates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ReportTemplate{}, ErrTemplateNotFound
		}
		return models.ReportTemplate{}, err
	}
	if !actor.SameClub(template.TennisClubID) {
		return models.ReportTemplate{}, ErrPermissionDenied
	}
	return template, nil
}

func (s *templateService) groupInClub(ctx context.Context, actor Actor, id uint) (models.TennisGroup, error) {
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

// validateTemplateStructure checks the type-specific options the struct
// tags cannot express: RATING needs a min strictly below max, SELECT needs
// at least one option. TEXT, TEXTAREA and PROGRESS carry no options.
func validateTemplateStructure(req dto.TemplateRequest) error {
	fields := map[string]string{}
	for _, section := range req.Sections {
		for _, field := range section.Fields {
			key := fmt.Sprintf("%s.%s", section.Name, field.Name)
			switch models.FieldType(field.FieldType) {
			case models.FieldTypeRating:
				if field.Options == nil || field.Options.Min == nil || field.Options.Max == nil {
					fields[key] = "rating fields need min and max options"
				} else if *field.Options.Min >= *field.Options.Max {
					fields[key] = "rating min must be below max"
				}
			case models.FieldTypeSelect:
				if field.Options == nil || len(field.Options.Options) == 0 {
					fields[key] = "select fields need at least one option"
				}
			}
		}
	}
	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}
