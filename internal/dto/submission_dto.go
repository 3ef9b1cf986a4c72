package dto

import (
	"time"

	"github.com/centralms/lms-api/internal/models"
)

// SubmitRequest carries a student answer for an assignment or exam.
type SubmitRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// GradeRequest is used by teachers to grade a submission.
type GradeRequest struct {
	Grade    *int   `json:"grade" validate:"required,gte=0,lte=100"`
	Feedback string `json:"feedback" validate:"max=65535"`
}

// SubmissionResponse is the view of an assignment submission. Username is
// populated on teacher-facing listings.
type SubmissionResponse struct {
	ID           uint      `json:"id"`
	StudentID    uint      `json:"student_id"`
	Username     string    `json:"username,omitempty"`
	AssignmentID uint      `json:"assignment_id"`
	Answer       string    `json:"answer"`
	SubmittedAt  time.Time `json:"submitted_at"`
	Graded       bool      `json:"graded"`
	Grade        *int      `json:"grade"`
	Feedback     string    `json:"feedback"`
}

// ExamSubmissionResponse is the view of an exam submission.
type ExamSubmissionResponse struct {
	ID          uint      `json:"id"`
	StudentID   uint      `json:"student_id"`
	Username    string    `json:"username,omitempty"`
	ExamID      uint      `json:"exam_id"`
	Answer      string    `json:"answer"`
	SubmittedAt time.Time `json:"submitted_at"`
	Graded      bool      `json:"graded"`
	Grade       *int      `json:"grade"`
	Feedback    string    `json:"feedback"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:           model.ID,
		StudentID:    model.StudentID,
		Username:     model.Student.Username,
		AssignmentID: model.AssignmentID,
		Answer:       model.Answer,
		SubmittedAt:  model.SubmittedAt,
		Graded:       model.IsGraded(),
		Grade:        model.Grade,
		Feedback:     model.Feedback,
	}
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}

// NewExamSubmissionResponse converts an ExamSubmission model into a DTO.
func NewExamSubmissionResponse(model models.ExamSubmission) ExamSubmissionResponse {
	return ExamSubmissionResponse{
		ID:          model.ID,
		StudentID:   model.StudentID,
		Username:    model.Student.Username,
		ExamID:      model.ExamID,
		Answer:      model.Answer,
		SubmittedAt: model.SubmittedAt,
		Graded:      model.IsGraded(),
		Grade:       model.Grade,
		Feedback:    model.Feedback,
	}
}

// NewExamSubmissionResponseSlice converts exam submission models into DTOs.
func NewExamSubmissionResponseSlice(submissions []models.ExamSubmission) []ExamSubmissionResponse {
	responses := make([]ExamSubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewExamSubmissionResponse(submission))
	}

	return responses
}
