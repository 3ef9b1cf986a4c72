package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/centralms/lms-api/internal/dto"
	"github.com/centralms/lms-api/internal/models"
	"github.com/centralms/lms-api/internal/repository"
)

// ErrAssignmentNotFound indicates the referenced assignment does not exist.
var ErrAssignmentNotFound = errors.New("assignment not found")

// ErrExamNotFound indicates the referenced exam does not exist.
var ErrExamNotFound = errors.New("exam not found")

// ErrUnsupportedFile indicates an uploaded document is not a PDF.
var ErrUnsupportedFile = errors.New("unsupported file type, only PDF documents are accepted")

// Storage categories for course material blobs.
const (
	CategoryAssignments = "assignments"
	CategoryNotes       = "notes"
	CategoryExams       = "exams"
)

// BlobStore abstracts persisting a material blob and returning its key.
type BlobStore interface {
	Store(ctx context.Context, category, title string, reader io.Reader) (string, error)
}

// CourseworkService manages assignments, exams and notes for a course.
type CourseworkService interface {
	CreateAssignment(ctx context.Context, teacherID, courseID uint, payload dto.MaterialCreateRequest, file *multipart.FileHeader) (dto.AssignmentResponse, error)
	CreateExam(ctx context.Context, teacherID, courseID uint, payload dto.MaterialCreateRequest, file *multipart.FileHeader) (dto.ExamResponse, error)
	UploadNote(ctx context.Context, teacherID, courseID uint, payload dto.MaterialCreateRequest, file *multipart.FileHeader) (dto.NoteResponse, error)
	ListAssignments(ctx context.Context, courseID uint) ([]dto.AssignmentResponse, error)
	ListExams(ctx context.Context, courseID uint) ([]dto.ExamResponse, error)
	ListNotes(ctx context.Context, courseID uint) ([]dto.NoteResponse, error)
	ListAssignmentsByTeacher(ctx context.Context, teacherID uint) ([]dto.AssignmentResponse, error)
	ListExamsByTeacher(ctx context.Context, teacherID uint) ([]dto.ExamResponse, error)
}

type courseworkService struct {
	courses     repository.CourseRepository
	assignments repository.AssignmentRepository
	exams       repository.ExamRepository
	notes       repository.NoteRepository
	validator   *validator.Validate
	blobs       BlobStore
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
}

// NewCourseworkService constructs a CourseworkService instance.
func NewCourseworkService(courses repository.CourseRepository, assignments repository.AssignmentRepository, exams repository.ExamRepository, notes repository.NoteRepository, validate *validator.Validate, blobs BlobStore, logger zerolog.Logger) CourseworkService {
	return &courseworkService{
		courses:     courses,
		assignments: assignments,
		exams:       exams,
		notes:       notes,
		validator:   validate,
		blobs:       blobs,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "coursework_service").Logger(),
	}
}

func (s *courseworkService) CreateAssignment(ctx context.Context, teacherID, courseID uint, payload dto.MaterialCreateRequest, file *multipart.FileHeader) (dto.AssignmentResponse, error) {
	material, err := s.buildMaterial(ctx, teacherID, courseID, CategoryAssignments, payload, file)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment := models.Assignment{CourseID: courseID, Title: payload.Title, Material: material}
	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Uint("course_id", courseID).Msg("assignment created")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *courseworkService) CreateExam(ctx context.Context, teacherID, courseID uint, payload dto.MaterialCreateRequest, file *multipart.FileHeader) (dto.ExamResponse, error) {
	material, err := s.buildMaterial(ctx, teacherID, courseID, CategoryExams, payload, file)
	if err != nil {
		return dto.ExamResponse{}, err
	}

	exam := models.Exam{CourseID: courseID, Title: payload.Title, Material: material}
	if err := s.exams.Create(ctx, &exam); err != nil {
		return dto.ExamResponse{}, err
	}

	s.logger.Info().Uint("exam_id", exam.ID).Uint("course_id", courseID).Msg("exam created")

	return dto.NewExamResponse(exam), nil
}

func (s *courseworkService) UploadNote(ctx context.Context, teacherID, courseID uint, payload dto.MaterialCreateRequest, file *multipart.FileHeader) (dto.NoteResponse, error) {
	material, err := s.buildMaterial(ctx, teacherID, courseID, CategoryNotes, payload, file)
	if err != nil {
		return dto.NoteResponse{}, err
	}

	note := models.Note{CourseID: courseID, Title: payload.Title, Material: material}
	if err := s.notes.Create(ctx, &note); err != nil {
		return dto.NoteResponse{}, err
	}

	s.logger.Info().Uint("note_id", note.ID).Uint("course_id", courseID).Msg("note uploaded")

	return dto.NewNoteResponse(note), nil
}

// buildMaterial authorizes the teacher against the course and resolves the
// content union: an attached PDF becomes a stored document, otherwise the
// sanitized body is kept inline. The blob is written before any row insert
// so a storage failure leaves no orphan metadata.
func (s *courseworkService) buildMaterial(ctx context.Context, teacherID, courseID uint, category string, payload dto.MaterialCreateRequest, file *multipart.FileHeader) (models.Material, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Material{}, err
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Material{}, ErrCourseNotFound
		}
		return models.Material{}, err
	}

	if course.TeacherID != teacherID {
		return models.Material{}, ErrPermissionDenied
	}

	if file == nil {
		return models.TextMaterial(s.sanitizer.Sanitize(payload.Body)), nil
	}

	if err := validatePDF(file); err != nil {
		return models.Material{}, err
	}

	reader, err := file.Open()
	if err != nil {
		return models.Material{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	key, err := s.blobs.Store(ctx, category, payload.Title, reader)
	if err != nil {
		return models.Material{}, fmt.Errorf("failed to store material: %w", err)
	}

	return models.DocumentMaterial(key), nil
}

func (s *courseworkService) ListAssignments(ctx context.Context, courseID uint) ([]dto.AssignmentResponse, error) {
	if err := s.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}

	assignments, err := s.assignments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *courseworkService) ListExams(ctx context.Context, courseID uint) ([]dto.ExamResponse, error) {
	if err := s.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}

	exams, err := s.exams.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewExamResponseSlice(exams), nil
}

func (s *courseworkService) ListNotes(ctx context.Context, courseID uint) ([]dto.NoteResponse, error) {
	if err := s.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}

	notes, err := s.notes.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewNoteResponseSlice(notes), nil
}

func (s *courseworkService) ListAssignmentsByTeacher(ctx context.Context, teacherID uint) ([]dto.AssignmentResponse, error) {
	assignments, err := s.assignments.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *courseworkService) ListExamsByTeacher(ctx context.Context, teacherID uint) ([]dto.ExamResponse, error) {
	exams, err := s.exams.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	return dto.NewExamResponseSlice(exams), nil
}

func (s *courseworkService) requireCourse(ctx context.Context, courseID uint) error {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	return nil
}

func validatePDF(file *multipart.FileHeader) error {
	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	mime, err := mimetype.DetectReader(reader)
	if err != nil {
		return fmt.Errorf("failed to detect file type: %w", err)
	}

	if !mime.Is("application/pdf") {
		return fmt.Errorf("%w: got %s", ErrUnsupportedFile, mime.String())
	}

	return nil
}
