package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/courtline/courtline-api/internal/models"
)

// GroupRepository provides access to tennis group records.
type GroupRepository interface {
	GetByID(ctx context.Context, id uint) (models.TennisGroup, error)
	FindByName(ctx context.Context, clubID uint, name string) (models.TennisGroup, error)
	List(ctx context.Context, clubID uint) ([]models.TennisGroup, error)
	Create(ctx context.Context, group *models.TennisGroup) error
	Delete(ctx context.Context, id uint) error
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository constructs a GORM-backed group repository.
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (models.TennisGroup, error) {
	var group models.TennisGroup
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return models.TennisGroup{}, err
	}

	return group, nil
}

func (r *groupRepository) FindByName(ctx context.Context, clubID uint, name string) (models.TennisGroup, error) {
	var group models.TennisGroup
	err := r.db.WithContext(ctx).
		Where("tennis_club_id = ? AND name = ?", clubID, strings.TrimSpace(name)).
		First(&group).Error
	if err != nil {
		return models.TennisGroup{}, err
	}

	return group, nil
}

func (r *groupRepository) List(ctx context.Context, clubID uint) ([]models.TennisGroup, error) {
	var groups []models.TennisGroup
	if err := r.db.WithContext(ctx).Where("tennis_club_id = ?", clubID).Order("name ASC").Find(&groups).Error; err != nil {
		return nil, err
	}

	return groups, nil
}

func (r *groupRepository) Create(ctx context.Context, group *models.TennisGroup) error {
	group.Name = strings.TrimSpace(group.Name)
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.TennisGroup{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
