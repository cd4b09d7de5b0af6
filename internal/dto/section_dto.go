package dto

// SectionRequest creates or updates a section.
type SectionRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// StudentRequest creates or updates a student.
type StudentRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=255"`
	RollNumber string `json:"roll_number" validate:"required,min=1,max=64"`
	SectionID  string `json:"section_id" validate:"required"`
}

// FaceEnrollRequest is the payload received over the face-enrollment
// websocket channel. Image is a base64-encoded capture.
type FaceEnrollRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	SectionID string `json:"section_id" validate:"required"`
	Image     string `json:"image" validate:"required"`
}

// FaceEnrollResponse is the frame written back over the websocket channel.
type FaceEnrollResponse struct {
	Success   bool   `json:"success"`
	StudentID string `json:"student_id,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}
