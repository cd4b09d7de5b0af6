package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/rollcall-labs/rollcall-api/internal/models"
)

// FacultyRepository provides access to faculty accounts.
type FacultyRepository interface {
	Create(ctx context.Context, faculty *models.Faculty) error
	GetByEmail(ctx context.Context, email string) (models.Faculty, error)
	GetByID(ctx context.Context, id string) (models.Faculty, error)
}

type facultyRepository struct {
	db *gorm.DB
}

// NewFacultyRepository constructs a faculty repository.
func NewFacultyRepository(db *gorm.DB) FacultyRepository {
	return &facultyRepository{db: db}
}

func (r *facultyRepository) Create(ctx context.Context, faculty *models.Faculty) error {
	return r.db.WithContext(ctx).Create(faculty).Error
}

func (r *facultyRepository) GetByEmail(ctx context.Context, email string) (models.Faculty, error) {
	var faculty models.Faculty
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&faculty).Error; err != nil {
		return models.Faculty{}, err
	}

	return faculty, nil
}

func (r *facultyRepository) GetByID(ctx context.Context, id string) (models.Faculty, error) {
	var faculty models.Faculty
	if err := r.db.WithContext(ctx).First(&faculty, "id = ?", id).Error; err != nil {
		return models.Faculty{}, err
	}

	return faculty, nil
}
