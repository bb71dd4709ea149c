package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/courtline/courtline-api/internal/models"
)

// StudentRepository provides access to student records.
type StudentRepository interface {
	GetByID(ctx context.Context, id uint) (models.Student, error)
	// FindByName looks a student up by (name, club) so the same child is
	// matched across terms instead of duplicated.
	FindByName(ctx context.Context, clubID uint, name string) (models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a GORM-backed student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) FindByName(ctx context.Context, clubID uint, name string) (models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).
		Where("tennis_club_id = ? AND name = ?", clubID, strings.TrimSpace(name)).
		First(&student).Error
	if err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	student.Name = strings.TrimSpace(student.Name)
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}
