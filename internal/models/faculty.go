package models

import "time"

// Faculty represents an instructor account that can record attendance.
type Faculty struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:32;not null;default:faculty" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Section represents a class section owned by a faculty member.
type Section struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	FacultyID string    `gorm:"size:36;index;not null" json:"faculty_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Student represents a learner enrolled in a section.
type Student struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	RollNumber   string    `gorm:"size:64;uniqueIndex;not null" json:"roll_number"`
	SectionID    string    `gorm:"size:36;index;not null" json:"section_id"`
	FaceEnrolled bool      `gorm:"not null;default:false" json:"face_enrolled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
