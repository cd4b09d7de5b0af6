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

// ErrSectionNotFound indicates the requested section does not exist.
var ErrSectionNotFound = errors.New("section not found")

// SectionService manages class sections.
type SectionService interface {
	Create(ctx context.Context, facultyID string, req dto.SectionRequest) (models.Section, error)
	Get(ctx context.Context, id string) (models.Section, error)
	List(ctx context.Context, facultyID string) ([]models.Section, error)
	Update(ctx context.Context, id string, req dto.SectionRequest) (models.Section, error)
	Delete(ctx context.Context, id string) error
}

type sectionService struct {
	repo      repository.SectionRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSectionService constructs a section service.
func NewSectionService(repo repository.SectionRepository, validator *validator.Validate, logger zerolog.Logger) SectionService {
	return &sectionService{
		repo:      repo,
		validator: validator,
		logger:    logger.With().Str("component", "section_service").Logger(),
	}
}

func (s *sectionService) Create(ctx context.Context, facultyID string, req dto.SectionRequest) (models.Section, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Section{}, err
	}

	section := models.Section{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		FacultyID: facultyID,
	}

	if err := s.repo.Create(ctx, &section); err != nil {
		return models.Section{}, fmt.Errorf("create section: %w", err)
	}

	return section, nil
}

func (s *sectionService) Get(ctx context.Context, id string) (models.Section, error) {
	section, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Section{}, ErrSectionNotFound
		}
		return models.Section{}, fmt.Errorf("load section: %w", err)
	}

	return section, nil
}

func (s *sectionService) List(ctx context.Context, facultyID string) ([]models.Section, error) {
	sections, err := s.repo.ListByFaculty(ctx, facultyID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}

	if sections == nil {
		sections = []models.Section{}
	}
	return sections, nil
}

func (s *sectionService) Update(ctx context.Context, id string, req dto.SectionRequest) (models.Section, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Section{}, err
	}

	section, err := s.Get(ctx, id)
	if err != nil {
		return models.Section{}, err
	}

	section.Name = strings.TrimSpace(req.Name)
	if err := s.repo.Update(ctx, &section); err != nil {
		return models.Section{}, fmt.Errorf("update section: %w", err)
	}

	return section, nil
}

func (s *sectionService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete section: %w", err)
	}

	return nil
}
