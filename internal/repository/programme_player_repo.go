package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/courtline/courtline-api/internal/models"
)

// PlayerFilter narrows programme player listings.
type PlayerFilter struct {
	ClubID   uint
	PeriodID uint
	CoachID  *uint
	GroupID  *uint
}

// BulkEntry is one resolved row of a batch enrollment. Student may be a
// new record (ID zero) that must be created alongside the enrollment.
type BulkEntry struct {
	Student *models.Student
	Player  *models.ProgrammePlayer
}

// ProgrammePlayerRepository provides access to enrollment records.
type ProgrammePlayerRepository interface {
	GetByID(ctx context.Context, id uint) (models.ProgrammePlayer, error)
	ExistsForStudentPeriod(ctx context.Context, studentID, periodID uint) (bool, error)
	Create(ctx context.Context, player *models.ProgrammePlayer) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter PlayerFilter) ([]models.ProgrammePlayer, error)
	CountByGroup(ctx context.Context, groupID uint) (int64, error)
	CountByPeriod(ctx context.Context, periodID uint) (int64, error)
	// BulkCreate persists a whole batch in one transaction: new students
	// first, then their enrollments. Any failure rolls the batch back.
	BulkCreate(ctx context.Context, entries []BulkEntry) error
}

type programmePlayerRepository struct {
	db *gorm.DB
}

// NewProgrammePlayerRepository constructs a GORM-backed enrollment repository.
func NewProgrammePlayerRepository(db *gorm.DB) ProgrammePlayerRepository {
	return &programmePlayerRepository{db: db}
}

func (r *programmePlayerRepository) GetByID(ctx context.Context, id uint) (models.ProgrammePlayer, error) {
	var player models.ProgrammePlayer
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Group").
		Preload("TeachingPeriod").
		Preload("Coach").
		First(&player, id).Error
	if err != nil {
		return models.ProgrammePlayer{}, err
	}

	return player, nil
}

func (r *programmePlayerRepository) ExistsForStudentPeriod(ctx context.Context, studentID, periodID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProgrammePlayer{}).
		Where("student_id = ? AND teaching_period_id = ?", studentID, periodID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *programmePlayerRepository) Create(ctx context.Context, player *models.ProgrammePlayer) error {
	return r.db.WithContext(ctx).Create(player).Error
}

func (r *programmePlayerRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.ProgrammePlayer{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *programmePlayerRepository) List(ctx context.Context, filter PlayerFilter) ([]models.ProgrammePlayer, error) {
	query := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Group").
		Preload("Coach").
		Where("tennis_club_id = ? AND teaching_period_id = ?", filter.ClubID, filter.PeriodID)

	if filter.CoachID != nil {
		query = query.Where("coach_id = ?", *filter.CoachID)
	}
	if filter.GroupID != nil {
		query = query.Where("group_id = ?", *filter.GroupID)
	}

	var players []models.ProgrammePlayer
	if err := query.Order("created_at ASC").Find(&players).Error; err != nil {
		return nil, err
	}

	return players, nil
}

func (r *programmePlayerRepository) CountByGroup(ctx context.Context, groupID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProgrammePlayer{}).
		Where("group_id = ?", groupID).
		Count(&count).Error
	return count, err
}

func (r *programmePlayerRepository) CountByPeriod(ctx context.Context, periodID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProgrammePlayer{}).
		Where("teaching_period_id = ?", periodID).
		Count(&count).Error
	return count, err
}

func (r *programmePlayerRepository) BulkCreate(ctx context.Context, entries []BulkEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			if entry.Student.ID == 0 {
				if err := tx.Create(entry.Student).Error; err != nil {
					return err
				}
			}
			entry.Player.StudentID = entry.Student.ID
			if err := tx.Create(entry.Player).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
