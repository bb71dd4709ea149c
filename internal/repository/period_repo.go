package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/courtline/courtline-api/internal/models"
)

// PeriodRepository provides access to teaching period records.
type PeriodRepository interface {
	GetByID(ctx context.Context, id uint) (models.TeachingPeriod, error)
	List(ctx context.Context, clubID uint) ([]models.TeachingPeriod, error)
	Create(ctx context.Context, period *models.TeachingPeriod) error
	Update(ctx context.Context, period *models.TeachingPeriod) error
	Delete(ctx context.Context, id uint) error
}

type periodRepository struct {
	db *gorm.DB
}

// NewPeriodRepository constructs a GORM-backed teaching period repository.
func NewPeriodRepository(db *gorm.DB) PeriodRepository {
	return &periodRepository{db: db}
}

func (r *periodRepository) GetByID(ctx context.Context, id uint) (models.TeachingPeriod, error) {
	var period models.TeachingPeriod
	if err := r.db.WithContext(ctx).First(&period, id).Error; err != nil {
		return models.TeachingPeriod{}, err
	}

	return period, nil
}

func (r *periodRepository) List(ctx context.Context, clubID uint) ([]models.TeachingPeriod, error) {
	var periods []models.TeachingPeriod
	err := r.db.WithContext(ctx).
		Where("tennis_club_id = ?", clubID).
		Order("start_date DESC").
		Find(&periods).Error
	if err != nil {
		return nil, err
	}

	return periods, nil
}

func (r *periodRepository) Create(ctx context.Context, period *models.TeachingPeriod) error {
	return r.db.WithContext(ctx).Create(period).Error
}

func (r *periodRepository) Update(ctx context.Context, period *models.TeachingPeriod) error {
	return r.db.WithContext(ctx).Save(period).Error
}

func (r *periodRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.TeachingPeriod{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
