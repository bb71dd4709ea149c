package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/courtline/courtline-api/internal/models"
)

// ReportRepository provides access to report records. Create and Delete run
// in the same transaction as the enrollment's report_submitted flag so the
// denormalized cache can never drift.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uint) (models.Report, error)
	ExistsForStudentPeriod(ctx context.Context, studentID, periodID uint) (bool, error)
	Update(ctx context.Context, report *models.Report) error
	Delete(ctx context.Context, id uint) error
	ListByPeriod(ctx context.Context, clubID, periodID uint) ([]models.Report, error)
	CountByPeriod(ctx context.Context, periodID uint) (int64, error)
	// MarkSent records one delivery attempt: increments the attempt
	// counter and stores the outcome, without touching report content.
	MarkSent(ctx context.Context, id uint, status string, sentAt time.Time) error
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository constructs a GORM-backed report repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(report).Error; err != nil {
			return err
		}

		return tx.Model(&models.ProgrammePlayer{}).
			Where("id = ?", report.ProgrammePlayerID).
			Update("report_submitted", true).Error
	})
}

func (r *reportRepository) GetByID(ctx context.Context, id uint) (models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Group").
		Preload("RecommendedGroup").
		Preload("TeachingPeriod").
		Preload("Coach").
		Preload("Template.Sections", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Template.Sections.Fields", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		First(&report, id).Error
	if err != nil {
		return models.Report{}, err
	}

	return report, nil
}

func (r *reportRepository) ExistsForStudentPeriod(ctx context.Context, studentID, periodID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("student_id = ? AND teaching_period_id = ?", studentID, periodID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *reportRepository) Update(ctx context.Context, report *models.Report) error {
	// Only the mutable fields; identity and delivery tracking stay put.
	return r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ?", report.ID).
		Updates(map[string]interface{}{
			"content":              report.Content,
			"recommended_group_id": report.RecommendedGroupID,
		}).Error
}

func (r *reportRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var report models.Report
		if err := tx.Select("id", "programme_player_id").First(&report, id).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.Report{}, id).Error; err != nil {
			return err
		}

		return tx.Model(&models.ProgrammePlayer{}).
			Where("id = ?", report.ProgrammePlayerID).
			Update("report_submitted", false).Error
	})
}

func (r *reportRepository) ListByPeriod(ctx context.Context, clubID, periodID uint) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Group").
		Preload("RecommendedGroup").
		Preload("TeachingPeriod").
		Preload("Coach").
		Where("tennis_club_id = ? AND teaching_period_id = ?", clubID, periodID).
		Order("created_at ASC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}

	return reports, nil
}

func (r *reportRepository) CountByPeriod(ctx context.Context, periodID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("teaching_period_id = ?", periodID).
		Count(&count).Error
	return count, err
}

func (r *reportRepository) MarkSent(ctx context.Context, id uint, status string, sentAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"email_sent":        true,
			"email_sent_at":     sentAt,
			"last_email_status": status,
			"email_attempts":    gorm.Expr("email_attempts + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
