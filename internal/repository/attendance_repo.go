package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rollcall-labs/rollcall-api/internal/database"
	"github.com/rollcall-labs/rollcall-api/internal/models"
	"github.com/rollcall-labs/rollcall-api/internal/securesql"
)

// StudentTally is the raw per-student aggregate scanned from the database.
type StudentTally struct {
	StudentID   string `gorm:"column:student_id"`
	TotalDays   int    `gorm:"column:total_days"`
	PresentDays int    `gorm:"column:present_days"`
	AbsentDays  int    `gorm:"column:absent_days"`
}

// SectionTally is the raw section-wide aggregate scanned from the database.
type SectionTally struct {
	TotalStudents int `gorm:"column:total_students"`
	TotalDays     int `gorm:"column:total_days"`
	PresentCount  int `gorm:"column:present_count"`
	AbsentCount   int `gorm:"column:absent_count"`
}

// AttendanceRepository persists and aggregates attendance log rows.
type AttendanceRepository interface {
	UpsertLog(ctx context.Context, log models.AttendanceLog) error
	HistoryByStudent(ctx context.Context, studentID string) ([]models.AttendanceLog, error)
	StatisticsBySection(ctx context.Context, sectionID string, start, end time.Time) ([]StudentTally, error)
	SummaryBySection(ctx context.Context, sectionID string, start, end time.Time) (SectionTally, error)
}

type attendanceRepository struct {
	executor *database.Executor
}

// NewAttendanceRepository constructs an attendance repository on top of the
// fault-recovery executor.
func NewAttendanceRepository(executor *database.Executor) AttendanceRepository {
	return &attendanceRepository{executor: executor}
}

const upsertLogQuery = `
INSERT INTO attendance_logs (id, student_id, faculty_id, section_id, date, status, capture_method, synced_at, metadata)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (student_id, date) DO UPDATE SET
	status = EXCLUDED.status,
	capture_method = EXCLUDED.capture_method,
	synced_at = EXCLUDED.synced_at,
	metadata = EXCLUDED.metadata`

// UpsertLog inserts or overwrites the row for (student_id, date) in a single
// atomic statement, so concurrent syncs targeting the same pair can never
// produce a torn write.
func (r *attendanceRepository) UpsertLog(ctx context.Context, log models.AttendanceLog) error {
	result := r.executor.Exec(ctx, upsertLogQuery,
		log.ID,
		log.StudentID,
		log.FacultyID,
		log.SectionID,
		log.Date.Format("2006-01-02"),
		log.Status,
		log.CaptureMethod,
		log.SyncedAt,
		log.Metadata,
	)
	if result.Err != nil {
		return fmt.Errorf("upsert attendance log: %w", result.Err)
	}

	return nil
}

func (r *attendanceRepository) HistoryByStudent(ctx context.Context, studentID string) ([]models.AttendanceLog, error) {
	query, values, err := securesql.
		Select("id", "student_id", "faculty_id", "section_id", "date", "status", "capture_method", "synced_at", "metadata").
		From("attendance_logs").
		Where("student_id", "=", studentID).
		OrderBy("date", "DESC").
		Build()
	if err != nil {
		return nil, fmt.Errorf("build history query: %w", err)
	}

	var rows []models.AttendanceLog
	result := r.executor.Query(ctx, &rows, query, values...)
	if result.Err != nil {
		return nil, fmt.Errorf("load attendance history: %w", result.Err)
	}

	return rows, nil
}

const statisticsQuery = `
SELECT student_id,
	COUNT(*) AS total_days,
	SUM(CASE WHEN status = 'present' THEN 1 ELSE 0 END) AS present_days,
	SUM(CASE WHEN status = 'absent' THEN 1 ELSE 0 END) AS absent_days
FROM attendance_logs
WHERE section_id = $1 AND date >= $2 AND date <= $3
GROUP BY student_id`

func (r *attendanceRepository) StatisticsBySection(ctx context.Context, sectionID string, start, end time.Time) ([]StudentTally, error) {
	var tallies []StudentTally
	result := r.executor.Query(ctx, &tallies, statisticsQuery,
		sectionID,
		start.Format("2006-01-02"),
		end.Format("2006-01-02"),
	)
	if result.Err != nil {
		return nil, fmt.Errorf("load attendance statistics: %w", result.Err)
	}

	return tallies, nil
}

const summaryQuery = `
SELECT COUNT(DISTINCT student_id) AS total_students,
	COUNT(DISTINCT date) AS total_days,
	COALESCE(SUM(CASE WHEN status = 'present' THEN 1 ELSE 0 END), 0) AS present_count,
	COALESCE(SUM(CASE WHEN status = 'absent' THEN 1 ELSE 0 END), 0) AS absent_count
FROM attendance_logs
WHERE section_id = $1 AND date >= $2 AND date <= $3`

func (r *attendanceRepository) SummaryBySection(ctx context.Context, sectionID string, start, end time.Time) (SectionTally, error) {
	var tally SectionTally
	result := r.executor.Query(ctx, &tally, summaryQuery,
		sectionID,
		start.Format("2006-01-02"),
		end.Format("2006-01-02"),
	)
	if result.Err != nil {
		return SectionTally{}, fmt.Errorf("load attendance summary: %w", result.Err)
	}

	return tally, nil
}
