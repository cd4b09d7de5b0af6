package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/rollcall-labs/rollcall-api/internal/dto"
	"github.com/rollcall-labs/rollcall-api/internal/models"
	"github.com/rollcall-labs/rollcall-api/internal/repository"
)

// ErrStudentNotFound indicates the requested student does not exist.
var ErrStudentNotFound = errors.New("student not found")

// StudentService manages student records.
type StudentService interface {
	Create(ctx context.Context, req dto.StudentRequest) (models.Student, error)
	Get(ctx context.Context, id string) (models.Student, error)
	ListBySection(ctx context.Context, sectionID string) ([]models.Student, error)
	Delete(ctx context.Context, id string) error
}

type studentService struct {
	repo      repository.StudentRepository
	sections  repository.SectionRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewStudentService constructs a student service.
func NewStudentService(repo repository.StudentRepository, sections repository.SectionRepository, validator *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		repo:      repo,
		sections:  sections,
		validator: validator,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) Create(ctx context.Context, req dto.StudentRequest) (models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Student{}, err
	}

	if _, err := s.sections.GetByID(ctx, req.SectionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Student{}, ErrSectionNotFound
		}
		return models.Student{}, fmt.Errorf("verify section: %w", err)
	}

	student := models.Student{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(req.Name),
		RollNumber: strings.TrimSpace(req.RollNumber),
		SectionID:  req.SectionID,
	}

	if err := s.repo.Create(ctx, &student); err != nil {
		return models.Student{}, fmt.Errorf("create student: %w", err)
	}

	return student, nil
}

func (s *studentService) Get(ctx context.Context, id string) (models.Student, error) {
	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Student{}, ErrStudentNotFound
		}
		return models.Student{}, fmt.Errorf("load student: %w", err)
	}

	return student, nil
}

func (s *studentService) ListBySection(ctx context.Context, sectionID string) ([]models.Student, error) {
	students, err := s.repo.ListBySection(ctx, sectionID)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	if students == nil {
		students = []models.Student{}
	}
	return students, nil
}

func (s *studentService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}

	return nil
}
