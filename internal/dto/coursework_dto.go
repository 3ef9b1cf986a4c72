package dto

import (
	"time"

	"github.com/centralms/lms-api/internal/models"
)

// MaterialCreateRequest describes the multipart payload for creating an
// assignment, exam or note. Body is used when no document is attached.
type MaterialCreateRequest struct {
	Title string `form:"title" validate:"required,min=1,max=255"`
	Body  string `form:"body" validate:"max=65535"`
}

// MaterialResponse serializes the content union of a coursework item.
type MaterialResponse struct {
	Kind       string `json:"kind"`
	Body       string `json:"body,omitempty"`
	StorageKey string `json:"storage_key,omitempty"`
}

// AssignmentResponse is the public view of an assignment.
type AssignmentResponse struct {
	ID        uint             `json:"id"`
	CourseID  uint             `json:"course_id"`
	Title     string           `json:"title"`
	Material  MaterialResponse `json:"material"`
	CreatedAt time.Time        `json:"created_at"`
}

// ExamResponse is the public view of an exam.
type ExamResponse struct {
	ID        uint             `json:"id"`
	CourseID  uint             `json:"course_id"`
	Title     string           `json:"title"`
	Material  MaterialResponse `json:"material"`
	CreatedAt time.Time        `json:"created_at"`
}

// NoteResponse is the public view of a note.
type NoteResponse struct {
	ID        uint             `json:"id"`
	CourseID  uint             `json:"course_id"`
	Title     string           `json:"title"`
	Material  MaterialResponse `json:"material"`
	CreatedAt time.Time        `json:"created_at"`
}

func newMaterialResponse(material models.Material) MaterialResponse {
	response := MaterialResponse{Kind: string(material.Kind)}
	if material.IsDocument() {
		response.StorageKey = material.StorageKey
	} else {
		response.Body = material.Body
	}

	return response
}

// NewAssignmentResponse converts an Assignment model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:        model.ID,
		CourseID:  model.CourseID,
		Title:     model.Title,
		Material:  newMaterialResponse(model.Material),
		CreatedAt: model.CreatedAt,
	}
}

// NewAssignmentResponseSlice converts assignment models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}

// NewExamResponse converts an Exam model into a DTO.
func NewExamResponse(model models.Exam) ExamResponse {
	return ExamResponse{
		ID:        model.ID,
		CourseID:  model.CourseID,
		Title:     model.Title,
		Material:  newMaterialResponse(model.Material),
		CreatedAt: model.CreatedAt,
	}
}

// NewExamResponseSlice converts exam models into DTOs.
func NewExamResponseSlice(exams []models.Exam) []ExamResponse {
	responses := make([]ExamResponse, 0, len(exams))
	for _, exam := range exams {
		responses = append(responses, NewExamResponse(exam))
	}

	return responses
}

// NewNoteResponse converts a Note model into a DTO.
func NewNoteResponse(model models.Note) NoteResponse {
	return NoteResponse{
		ID:        model.ID,
		CourseID:  model.CourseID,
		Title:     model.Title,
		Material:  newMaterialResponse(model.Material),
		CreatedAt: model.CreatedAt,
	}
}

// NewNoteResponseSlice converts note models into DTOs.
func NewNoteResponseSlice(notes []models.Note) []NoteResponse {
	responses := make([]NoteResponse, 0, len(notes))
	for _, note := range notes {
		responses = append(responses, NewNoteResponse(note))
	}

	return responses
}
