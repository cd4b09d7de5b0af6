package models

import (
	"time"

	"gorm.io/datatypes"
)

// Attendance status values accepted by the sync engine.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

// Capture method values accepted by the sync engine.
const (
	CaptureML     = "ml"
	CaptureManual = "manual"
)

// AttendanceLog is the server-of-record row for one student on one calendar
// date. The unique index on (student_id, date) backs the atomic upsert used
// by the sync engine: a later sync for the same pair overwrites status,
// capture method and synced_at.
type AttendanceLog struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	StudentID     string    `gorm:"size:36;not null;uniqueIndex:idx_attendance_student_date" json:"student_id"`
	FacultyID     string    `gorm:"size:36;not null;index" json:"faculty_id"`
	SectionID     string    `gorm:"size:36;not null;index" json:"section_id"`
	Date          time.Time `gorm:"type:date;not null;uniqueIndex:idx_attendance_student_date" json:"date"`
	Status        string    `gorm:"size:16;not null" json:"status"`
	CaptureMethod string    `gorm:"size:16;not null" json:"capture_method"`
	SyncedAt      time.Time `gorm:"not null" json:"synced_at"`

	// Metadata carries free-form capture context from the client (device
	// identifiers, ML confidence scores). Opaque to the server.
	Metadata datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
}
