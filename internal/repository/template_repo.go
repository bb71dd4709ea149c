package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/courtline/courtline-api/internal/models"
)

// TemplateRepository provides access to report templates and their group links.
type TemplateRepository interface {
	Create(ctx context.Context, template *models.ReportTemplate) error
	GetByID(ctx context.Context, id uint) (models.ReportTemplate, error)
	List(ctx context.Context, clubID uint, activeOnly bool) ([]models.ReportTemplate, error)
	// ReplaceSections swaps the template's sections and fields wholesale
	// and updates the header fields, in one transaction.
	ReplaceSections(ctx context.Context, template *models.ReportTemplate, sections []models.TemplateSection) error
	Deactivate(ctx context.Context, id uint) error
	// AssignGroup deactivates any existing active link for the group and
	// upserts the new one, so at most one template is active per group.
	AssignGroup(ctx context.Context, templateID, groupID uint) error
	UnassignGroup(ctx context.Context, templateID, groupID uint) error
	ActiveForGroup(ctx context.Context, groupID uint) (models.ReportTemplate, error)
}

type templateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository constructs a GORM-backed template repository.
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) Create(ctx context.Context, template *models.ReportTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *templateRepository) GetByID(ctx context.Context, id uint) (models.ReportTemplate, error) {
	var template models.ReportTemplate
	err := r.db.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Sections.Fields", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("GroupLinks").
		First(&template, id).Error
	if err != nil {
		return models.ReportTemplate{}, err
	}

	return template, nil
}

func (r *templateRepository) List(ctx context.Context, clubID uint, activeOnly bool) ([]models.ReportTemplate, error) {
	query := r.db.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Sections.Fields", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("GroupLinks").
		Where("tennis_club_id = ?", clubID)

	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var templates []models.ReportTemplate
	if err := query.Order("name ASC").Find(&templates).Error; err != nil {
		return nil, err
	}

	return templates, nil
}

func (r *templateRepository) ReplaceSections(ctx context.Context, template *models.ReportTemplate, sections []models.TemplateSection) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old []models.TemplateSection
		if err := tx.Where("report_template_id = ?", template.ID).Find(&old).Error; err != nil {
			return err
		}
		for _, section := range old {
			if err := tx.Where("template_section_id = ?", section.ID).Delete(&models.TemplateField{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("report_template_id = ?", template.ID).Delete(&models.TemplateSection{}).Error; err != nil {
			return err
		}

		for i := range sections {
			sections[i].ID = 0
			sections[i].ReportTemplateID = template.ID
			for j := range sections[i].Fields {
				sections[i].Fields[j].ID = 0
			}
		}
		if len(sections) > 0 {
			if err := tx.Create(&sections).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.ReportTemplate{}).
			Where("id = ?", template.ID).
			Updates(map[string]interface{}{"name": template.Name, "description": template.Description}).Error
	})
}

func (r *templateRepository) Deactivate(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.ReportTemplate{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *templateRepository) AssignGroup(ctx context.Context, templateID, groupID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.GroupTemplate{}).
			Where("group_id = ? AND is_active = ?", groupID, true).
			Update("is_active", false).Error
		if err != nil {
			return err
		}

		var link models.GroupTemplate
		err = tx.Where("report_template_id = ? AND group_id = ?", templateID, groupID).First(&link).Error
		switch {
		case err == nil:
			return tx.Model(&link).Update("is_active", true).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			link = models.GroupTemplate{ReportTemplateID: templateID, GroupID: groupID, IsActive: true}
			return tx.Create(&link).Error
		default:
			return err
		}
	})
}

func (r *templateRepository) UnassignGroup(ctx context.Context, templateID, groupID uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.GroupTemplate{}).
		Where("report_template_id = ? AND group_id = ?", templateID, groupID).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *templateRepository) ActiveForGroup(ctx context.Context, groupID uint) (models.ReportTemplate, error) {
	var link models.GroupTemplate
	err := r.db.WithContext(ctx).
		Joins("JOIN report_templates ON report_templates.id = group_templates.report_template_id").
		Where("group_templates.group_id = ? AND group_templates.is_active = ? AND report_templates.is_active = ?", groupID, true, true).
		First(&link).Error
	if err != nil {
		return models.ReportTemplate{}, err
	}

	return r.GetByID(ctx, link.ReportTemplateID)
}
