package dto

import (
	"encoding/json"
	"time"
)

// AttendanceRecord is one offline-captured attendance event submitted by a
// mobile client. Records only live in memory during a sync call; they are
// projected into attendance log rows on success.
type AttendanceRecord struct {
	StudentID     string    `json:"student_id"`
	FacultyID     string    `json:"faculty_id"`
	SectionID     string    `json:"section_id"`
	Timestamp     time.Time `json:"timestamp"`
	Status        string    `json:"status"`
	CaptureMethod string    `json:"capture_method"`
	SyncStatus    string    `json:"sync_status,omitempty"`

	// Metadata is passed through to the attendance log verbatim.
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// SyncRequest wraps a batch of attendance records.
type SyncRequest struct {
	Records []AttendanceRecord `json:"records"`
}

// RecordError ties a failure message to the index of the record that caused it.
type RecordError struct {
	RecordIndex int    `json:"record_index"`
	Error       string `json:"error"`
}

// SyncResult aggregates the outcome of one batch sync call. Success is true
// iff no record failed; synced and failed counts always sum to the batch size.
type SyncResult struct {
	Success     bool          `json:"success"`
	SyncedCount int           `json:"synced_count"`
	FailedCount int           `json:"failed_count"`
	Errors      []RecordError `json:"errors"`
}

// Validation reports the outcome of validating a single attendance record.
// All violated rules are collected, not just the first.
type Validation struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// StudentStatistics is the per-student aggregate over a date range.
type StudentStatistics struct {
	StudentID            string  `json:"student_id"`
	TotalDays            int     `json:"total_days"`
	PresentDays          int     `json:"present_days"`
	AbsentDays           int     `json:"absent_days"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}

// SectionSummary is the section-wide rollup over a date range. Fields are
// zero-valued when no rows match, never null.
type SectionSummary struct {
	TotalStudents     int     `json:"total_students"`
	TotalDays         int     `json:"total_days"`
	AverageAttendance float64 `json:"average_attendance"`
	PresentCount      int     `json:"present_count"`
	AbsentCount       int     `json:"absent_count"`
}
