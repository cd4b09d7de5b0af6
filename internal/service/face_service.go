package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/rollcall-labs/rollcall-api/internal/dto"
	"github.com/rollcall-labs/rollcall-api/internal/observability"
	"github.com/rollcall-labs/rollcall-api/internal/repository"
	"github.com/rollcall-labs/rollcall-api/pkg/cloudinary"
	"github.com/rollcall-labs/rollcall-api/pkg/faceclient"
)

// ErrInvalidImage indicates the submitted face image could not be decoded.
var ErrInvalidImage = errors.New("invalid face image")

// FaceService handles face enrollment and verification against the
// recognition microservice.
type FaceService interface {
	Enroll(ctx context.Context, req dto.FaceEnrollRequest) (dto.FaceEnrollResponse, error)
	Verify(ctx context.Context, studentID, imageURL string) (*faceclient.VerifyResult, error)
	Health(ctx context.Context) error
}

type faceService struct {
	students  repository.StudentRepository
	uploader  *cloudinary.Service
	client    *faceclient.Client
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewFaceService constructs the face enrollment service.
func NewFaceService(students repository.StudentRepository, uploader *cloudinary.Service, client *faceclient.Client, validator *validator.Validate, logger zerolog.Logger) FaceService {
	return &faceService{
		students:  students,
		uploader:  uploader,
		client:    client,
		validator: validator,
		logger:    logger.With().Str("component", "face_service").Logger(),
	}
}

// Enroll decodes the base64 image, stages it in Cloudinary, and registers the
// face with the recognition gallery. The student row is flagged only after the
// gallery accepts the face.
func (s *faceService) Enroll(ctx context.Context, req dto.FaceEnrollRequest) (dto.FaceEnrollResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.FaceEnrollResponse{}, err
	}

	if _, err := s.students.GetByID(ctx, req.StudentID); err != nil {
		return dto.FaceEnrollResponse{}, ErrStudentNotFound
	}

	image, err := decodeImage(req.Image)
	if err != nil {
		observability.FaceEnrollments().WithLabelValues("rejected").Inc()
		return dto.FaceEnrollResponse{}, ErrInvalidImage
	}

	imageURL, err := s.uploader.UploadFaceImage(ctx, req.StudentID, bytes.NewReader(image))
	if err != nil {
		observability.FaceEnrollments().WithLabelValues("failed").Inc()
		return dto.FaceEnrollResponse{}, fmt.Errorf("stage face image: %w", err)
	}

	result, err := s.client.Enroll(ctx, req.StudentID, req.Name, imageURL)
	if err != nil {
		observability.FaceEnrollments().WithLabelValues("failed").Inc()
		return dto.FaceEnrollResponse{}, fmt.Errorf("enroll face: %w", err)
	}

	if !result.Success {
		observability.FaceEnrollments().WithLabelValues("rejected").Inc()
		return dto.FaceEnrollResponse{
			Success:   false,
			StudentID: req.StudentID,
			Error:     result.Message,
		}, nil
	}

	if err := s.students.SetFaceEnrolled(ctx, req.StudentID, true); err != nil {
		return dto.FaceEnrollResponse{}, fmt.Errorf("flag student as enrolled: %w", err)
	}

	observability.FaceEnrollments().WithLabelValues("enrolled").Inc()
	s.logger.Info().Str("student_id", req.StudentID).Msg("face enrolled")

	return dto.FaceEnrollResponse{
		Success:   true,
		StudentID: req.StudentID,
		Message:   result.Message,
	}, nil
}

func (s *faceService) Verify(ctx context.Context, studentID, imageURL string) (*faceclient.VerifyResult, error) {
	return s.client.Verify(ctx, studentID, imageURL)
}

func (s *faceService) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

// decodeImage accepts raw base64 or a data URI payload.
func decodeImage(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if idx := strings.Index(encoded, ","); idx >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[idx+1:]
	}
	if encoded == "" {
		return nil, fmt.Errorf("empty image payload")
	}

	image, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	return image, nil
}
