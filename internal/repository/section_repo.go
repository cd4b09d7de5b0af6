package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/rollcall-labs/rollcall-api/internal/models"
)

// SectionRepository provides access to class sections.
type SectionRepository interface {
	Create(ctx context.Context, section *models.Section) error
	GetByID(ctx context.Context, id string) (models.Section, error)
	ListByFaculty(ctx context.Context, facultyID string) ([]models.Section, error)
	Update(ctx context.Context, section *models.Section) error
	Delete(ctx context.Context, id string) error
}

type sectionRepository struct {
	db *gorm.DB
}

// NewSectionRepository constructs a section repository.
func NewSectionRepository(db *gorm.DB) SectionRepository {
	return &sectionRepository{db: db}
}

func (r *sectionRepository) Create(ctx context.Context, section *models.Section) error {
	return r.db.WithContext(ctx).Create(section).Error
}

func (r *sectionRepository) GetByID(ctx context.Context, id string) (models.Section, error) {
	var section models.Section
	if err := r.db.WithContext(ctx).First(&section, "id = ?", id).Error; err != nil {
		return models.Section{}, err
	}

	return section, nil
}

func (r *sectionRepository) ListByFaculty(ctx context.Context, facultyID string) ([]models.Section, error) {
	var sections []models.Section
	if err := r.db.WithContext(ctx).Where("faculty_id = ?", facultyID).Order("name").Find(&sections).Error; err != nil {
		return nil, err
	}

	return sections, nil
}

func (r *sectionRepository) Update(ctx context.Context, section *models.Section) error {
	return r.db.WithContext(ctx).Save(section).Error
}

func (r *sectionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Section{}, "id = ?", id).Error
}
