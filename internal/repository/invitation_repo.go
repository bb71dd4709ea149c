package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/courtline/courtline-api/internal/models"
)

// InvitationRepository provides access to coach invitation tokens.
type InvitationRepository interface {
	Create(ctx context.Context, invitation *models.CoachInvitation) error
	GetByToken(ctx context.Context, token string) (models.CoachInvitation, error)
	MarkUsed(ctx context.Context, id uint) error
}

type invitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository constructs a GORM-backed invitation repository.
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &invitationRepository{db: db}
}

func (r *invitationRepository) Create(ctx context.Context, invitation *models.CoachInvitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

func (r *invitationRepository) GetByToken(ctx context.Context, token string) (models.CoachInvitation, error) {
	var invitation models.CoachInvitation
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&invitation).Error; err != nil {
		return models.CoachInvitation{}, err
	}

	return invitation, nil
}

func (r *invitationRepository) MarkUsed(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.CoachInvitation{}).Where("id = ?", id).Update("used", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
