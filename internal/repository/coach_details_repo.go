package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/courtline/courtline-api/internal/models"
)

// CoachDetailsRepository provides access to coach accreditation records.
type CoachDetailsRepository interface {
	GetByUserID(ctx context.Context, userID uint) (models.CoachDetails, error)
	Save(ctx context.Context, details *models.CoachDetails) error
	ListByClub(ctx context.Context, clubID uint) ([]models.CoachDetails, error)
}

type coachDetailsRepository struct {
	db *gorm.DB
}

// NewCoachDetailsRepository constructs a GORM-backed coach details repository.
func NewCoachDetailsRepository(db *gorm.DB) CoachDetailsRepository {
	return &coachDetailsRepository{db: db}
}

func (r *coachDetailsRepository) GetByUserID(ctx context.Context, userID uint) (models.CoachDetails, error) {
	var details models.CoachDetails
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&details).Error; err != nil {
		return models.CoachDetails{}, err
	}

	return details, nil
}

func (r *coachDetailsRepository) Save(ctx context.Context, details *models.CoachDetails) error {
	return r.db.WithContext(ctx).Save(details).Error
}

func (r *coachDetailsRepository) ListByClub(ctx context.Context, clubID uint) ([]models.CoachDetails, error) {
	var details []models.CoachDetails
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("tennis_club_id = ?", clubID).
		Find(&details).Error
	if err != nil {
		return nil, err
	}

	return details, nil
}
