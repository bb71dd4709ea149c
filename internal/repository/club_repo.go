package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/courtline/courtline-api/internal/models"
)

// ClubRepository provides access to tenant records.
type ClubRepository interface {
	GetByID(ctx context.Context, id uint) (models.TennisClub, error)
	GetBySubdomain(ctx context.Context, subdomain string) (models.TennisClub, error)
	// Onboard persists the club together with its seed admin, default
	// groups and initial teaching period as a single transaction.
	Onboard(ctx context.Context, club *models.TennisClub, admin *models.User, groups []models.TennisGroup, period *models.TeachingPeriod) error
}

type clubRepository struct {
	db *gorm.DB
}

// NewClubRepository constructs a GORM-backed club repository.
func NewClubRepository(db *gorm.DB) ClubRepository {
	return &clubRepository{db: db}
}

func (r *clubRepository) GetByID(ctx context.Context, id uint) (models.TennisClub, error) {
	var club models.TennisClub
	if err := r.db.WithContext(ctx).First(&club, id).Error; err != nil {
		return models.TennisClub{}, err
	}

	return club, nil
}

func (r *clubRepository) GetBySubdomain(ctx context.Context, subdomain string) (models.TennisClub, error) {
	var club models.TennisClub
	if err := r.db.WithContext(ctx).Where("subdomain = ?", subdomain).First(&club).Error; err != nil {
		return models.TennisClub{}, err
	}

	return club, nil
}

func (r *clubRepository) Onboard(ctx context.Context, club *models.TennisClub, admin *models.User, groups []models.TennisGroup, period *models.TeachingPeriod) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(club).Error; err != nil {
			return err
		}

		admin.TennisClubID = club.ID
		if err := tx.Create(admin).Error; err != nil {
			return err
		}

		for i := range groups {
			groups[i].TennisClubID = club.ID
		}
		if len(groups) > 0 {
			if err := tx.Create(&groups).Error; err != nil {
				return err
			}
		}

		period.TennisClubID = club.ID
		return tx.Create(period).Error
	})
}
