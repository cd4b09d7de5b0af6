package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/rollcall-labs/rollcall-api/internal/dto"
	"github.com/rollcall-labs/rollcall-api/internal/models"
	"github.com/rollcall-labs/rollcall-api/internal/observability"
	"github.com/rollcall-labs/rollcall-api/internal/repository"
)

// ErrHistoryUnavailable hides the underlying fault when attendance history
// cannot be loaded.
var ErrHistoryUnavailable = errors.New("failed to retrieve attendance history")

// AttendanceService owns the batch sync protocol and the reporting queries
// built on top of the attendance log.
type AttendanceService interface {
	SyncRecords(ctx context.Context, records []dto.AttendanceRecord) dto.SyncResult
	ValidateRecord(record dto.AttendanceRecord) dto.Validation
	History(ctx context.Context, studentID string) ([]models.AttendanceLog, error)
	Statistics(ctx context.Context, sectionID string, start, end time.Time) ([]dto.StudentStatistics, error)
	Summary(ctx context.Context, sectionID string, start, end time.Time) (dto.SectionSummary, error)
}

type attendanceService struct {
	repo     repository.AttendanceRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// NewAttendanceService constructs the attendance sync engine.
func NewAttendanceService(repo repository.AttendanceRepository, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) AttendanceService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}

	return &attendanceService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With().Str("component", "attendance_service").Logger(),
		tracer:   otel.Tracer("github.com/rollcall-labs/rollcall-api/internal/service/attendance"),
		now:      time.Now,
	}
}

// SyncRecords merges a batch of offline-captured records into the attendance
// log. Records are processed sequentially in input order; a failing record
// never aborts the batch, it contributes exactly one indexed error instead.
func (s *attendanceService) SyncRecords(ctx context.Context, records []dto.AttendanceRecord) dto.SyncResult {
	ctx, span := s.tracer.Start(ctx, "attendance.sync")
	defer span.End()
	span.SetAttributes(attribute.Int("attendance.batch_size", len(records)))

	result := dto.SyncResult{Errors: []dto.RecordError{}}
	for i, record := range records {
		if err := s.processRecord(ctx, record); err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, dto.RecordError{RecordIndex: i, Error: err.Error()})
			observability.SyncRecords().WithLabelValues("failed").Inc()
			continue
		}

		result.SyncedCount++
		observability.SyncRecords().WithLabelValues("synced").Inc()
	}

	result.Success = result.FailedCount == 0
	if !result.Success {
		span.SetStatus(codes.Error, "batch completed with failures")
	}

	s.logger.Info().
		Int("batch_size", len(records)).
		Int("synced", result.SyncedCount).
		Int("failed", result.FailedCount).
		Msg("attendance batch processed")

	return result
}

func (s *attendanceService) processRecord(ctx context.Context, record dto.AttendanceRecord) error {
	validation := s.ValidateRecord(record)
	if !validation.IsValid {
		return fmt.Errorf("Validation failed: %s", strings.Join(validation.Errors, ", "))
	}

	ts := record.Timestamp.UTC()
	log := models.AttendanceLog{
		ID:            uuid.NewString(),
		StudentID:     record.StudentID,
		FacultyID:     record.FacultyID,
		SectionID:     record.SectionID,
		Date:          time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
		Status:        record.Status,
		CaptureMethod: record.CaptureMethod,
		SyncedAt:      s.now().UTC(),
	}
	if len(record.Metadata) > 0 {
		log.Metadata = datatypes.JSON(record.Metadata)
	}

	return s.repo.UpsertLog(ctx, log)
}

// ValidateRecord checks one record against all rules and collects every
// violation. It performs no I/O.
func (s *attendanceService) ValidateRecord(record dto.AttendanceRecord) dto.Validation {
	var errs []string

	if strings.TrimSpace(record.StudentID) == "" {
		errs = append(errs, "Student ID is required")
	}
	if strings.TrimSpace(record.FacultyID) == "" {
		errs = append(errs, "Faculty ID is required")
	}
	if strings.TrimSpace(record.SectionID) == "" {
		errs = append(errs, "Section ID is required")
	}

	if record.Timestamp.IsZero() {
		errs = append(errs, "Timestamp is required")
	} else if record.Timestamp.After(s.now()) {
		errs = append(errs, "Timestamp cannot be in the future")
	}

	if record.Status != models.StatusPresent && record.Status != models.StatusAbsent {
		errs = append(errs, "Invalid attendance status")
	}

	if record.CaptureMethod != models.CaptureML && record.CaptureMethod != models.CaptureManual {
		errs = append(errs, "Invalid capture method")
	}

	return dto.Validation{IsValid: len(errs) == 0, Errors: errs}
}

// History returns all log rows for a student, newest date first. Underlying
// fault detail is suppressed.
func (s *attendanceService) History(ctx context.Context, studentID string) ([]models.AttendanceLog, error) {
	rows, err := s.repo.HistoryByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error().Err(err).Str("student_id", studentID).Msg("history lookup failed")
		return nil, ErrHistoryUnavailable
	}

	if rows == nil {
		rows = []models.AttendanceLog{}
	}
	return rows, nil
}

// Statistics aggregates per-student attendance over the inclusive date range,
// ordered by descending percentage.
func (s *attendanceService) Statistics(ctx context.Context, sectionID string, start, end time.Time) ([]dto.StudentStatistics, error) {
	tallies, err := s.repo.StatisticsBySection(ctx, sectionID, start, end)
	if err != nil {
		return nil, fmt.Errorf("compute attendance statistics: %w", err)
	}

	stats := make([]dto.StudentStatistics, 0, len(tallies))
	for _, tally := range tallies {
		entry := dto.StudentStatistics{
			StudentID:   tally.StudentID,
			TotalDays:   tally.TotalDays,
			PresentDays: tally.PresentDays,
			AbsentDays:  tally.AbsentDays,
		}
		if tally.TotalDays > 0 {
			entry.AttendancePercentage = round2(float64(tally.PresentDays) * 100 / float64(tally.TotalDays))
		}
		stats = append(stats, entry)
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].AttendancePercentage > stats[j].AttendancePercentage
	})

	return stats, nil
}

// Summary computes the section-wide rollup, served from the cache when a
// fresh copy exists.
func (s *attendanceService) Summary(ctx context.Context, sectionID string, start, end time.Time) (dto.SectionSummary, error) {
	key := summaryCacheKey(sectionID, start, end)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var summary dto.SectionSummary
			if err := json.Unmarshal(cached, &summary); err == nil {
				return summary, nil
			}
		}
	}

	tally, err := s.repo.SummaryBySection(ctx, sectionID, start, end)
	if err != nil {
		return dto.SectionSummary{}, fmt.Errorf("compute attendance summary: %w", err)
	}

	summary := dto.SectionSummary{
		TotalStudents: tally.TotalStudents,
		TotalDays:     tally.TotalDays,
		PresentCount:  tally.PresentCount,
		AbsentCount:   tally.AbsentCount,
	}
	if marked := tally.PresentCount + tally.AbsentCount; marked > 0 {
		summary.AverageAttendance = round2(float64(tally.PresentCount) * 100 / float64(marked))
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(summary); err == nil {
			if err := s.cache.Set(ctx, key, encoded, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache attendance summary")
			}
		}
	}

	return summary, nil
}

func summaryCacheKey(sectionID string, start, end time.Time) string {
	return fmt.Sprintf("attendance:summary:%s:%s:%s", sectionID, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
