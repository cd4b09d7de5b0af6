package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/rollcall-labs/rollcall-api/internal/database"
	"github.com/rollcall-labs/rollcall-api/internal/models"
	"github.com/rollcall-labs/rollcall-api/internal/securesql"
)

// StudentRepository provides access to student records.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id string) (models.Student, error)
	ListBySection(ctx context.Context, sectionID string) ([]models.Student, error)
	SetFaceEnrolled(ctx context.Context, id string, enrolled bool) error
	Delete(ctx context.Context, id string) error
}

type studentRepository struct {
	db       *gorm.DB
	executor *database.Executor
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB, executor *database.Executor) StudentRepository {
	return &studentRepository{db: db, executor: executor}
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) GetByID(ctx context.Context, id string) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, "id = ?", id).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) ListBySection(ctx context.Context, sectionID string) ([]models.Student, error) {
	var students []models.Student
	if err := r.db.WithContext(ctx).Where("section_id = ?", sectionID).Order("roll_number").Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}

// SetFaceEnrolled flips the enrollment flag through the fault-recovery
// executor, so a transient fault during the enrollment pipeline is retried.
func (r *studentRepository) SetFaceEnrolled(ctx context.Context, id string, enrolled bool) error {
	query, values, err := securesql.Update("students", map[string]any{"face_enrolled": enrolled}, "id", id)
	if err != nil {
		return fmt.Errorf("build enrollment update: %w", err)
	}

	result := r.executor.Exec(ctx, query, values...)
	if result.Err != nil {
		return fmt.Errorf("update enrollment flag: %w", result.Err)
	}

	return nil
}

func (r *studentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Student{}, "id = ?", id).Error
}
