package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/centralms/lms-api/internal/dto"
	"github.com/centralms/lms-api/internal/models"
	"github.com/centralms/lms-api/internal/repository"
)

// ErrSubmissionNotFound indicates the referenced submission does not exist.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrNotEnrolled indicates a student submitting to a course they have not
// joined.
var ErrNotEnrolled = errors.New("not enrolled in course")

// SubmissionService orchestrates submitting, listing and grading.
type SubmissionService interface {
	SubmitAssignment(ctx context.Context, studentID, assignmentID uint, payload dto.SubmitRequest) (dto.SubmissionResponse, error)
	SubmitExam(ctx context.Context, studentID, examID uint, payload dto.SubmitRequest) (dto.ExamSubmissionResponse, error)
	ListForAssignment(ctx context.Context, teacherID, assignmentID uint) ([]dto.SubmissionResponse, error)
	ListForExam(ctx context.Context, teacherID, examID uint) ([]dto.ExamSubmissionResponse, error)
	GradeSubmission(ctx context.Context, teacherID, submissionID uint, payload dto.GradeRequest) (dto.SubmissionResponse, error)
	GradeExamSubmission(ctx context.Context, teacherID, submissionID uint, payload dto.GradeRequest) (dto.ExamSubmissionResponse, error)
}

type submissionService struct {
	submissions     repository.SubmissionRepository
	examSubmissions repository.ExamSubmissionRepository
	assignments     repository.AssignmentRepository
	exams           repository.ExamRepository
	courses         repository.CourseRepository
	enrollments     repository.EnrollmentRepository
	validator       *validator.Validate
	notifier        Notifier
	logger          zerolog.Logger
	now             func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(submissions repository.SubmissionRepository, examSubmissions repository.ExamSubmissionRepository, assignments repository.AssignmentRepository, exams repository.ExamRepository, courses repository.CourseRepository, enrollments repository.EnrollmentRepository, validate *validator.Validate, notifier Notifier, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions:     submissions,
		examSubmissions: examSubmissions,
		assignments:     assignments,
		exams:           exams,
		courses:         courses,
		enrollments:     enrollments,
		validator:       validate,
		notifier:        notifier,
		logger:          logger.With().Str("component", "submission_service").Logger(),
		now:             time.Now,
	}
}

func (s *submissionService) SubmitAssignment(ctx context.Context, studentID, assignmentID uint, payload dto.SubmitRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if err := s.requireEnrollment(ctx, studentID, assignment.CourseID); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission := models.Submission{
		StudentID:    studentID,
		AssignmentID: assignmentID,
		Answer:       payload.Answer,
		SubmittedAt:  s.now(),
	}

	if err := s.submissions.Submit(ctx, &submission, models.AssignmentSubmissionAward); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("student_id", studentID).
		Uint("assignment_id", assignmentID).
		Msg("assignment submitted")

	if s.notifier != nil {
		s.notifier.SubmissionReceived(ctx, studentID, assignment.Title)
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) SubmitExam(ctx context.Context, studentID, examID uint, payload dto.SubmitRequest) (dto.ExamSubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ExamSubmissionResponse{}, err
	}

	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ExamSubmissionResponse{}, ErrExamNotFound
		}
		return dto.ExamSubmissionResponse{}, err
	}

	if err := s.requireEnrollment(ctx, studentID, exam.CourseID); err != nil {
		return dto.ExamSubmissionResponse{}, err
	}

	submission := models.ExamSubmission{
		StudentID:   studentID,
		ExamID:      examID,
		Answer:      payload.Answer,
		SubmittedAt: s.now(),
	}

	if err := s.examSubmissions.Submit(ctx, &submission, models.ExamSubmissionAward); err != nil {
		return dto.ExamSubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("student_id", studentID).
		Uint("exam_id", examID).
		Msg("exam submitted")

	if s.notifier != nil {
		s.notifier.SubmissionReceived(ctx, studentID, exam.Title)
	}

	return dto.NewExamSubmissionResponse(submission), nil
}

func (s *submissionService) ListForAssignment(ctx context.Context, teacherID, assignmentID uint) ([]dto.SubmissionResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	if err := s.requireCourseOwner(ctx, teacherID, assignment.CourseID); err != nil {
		return nil, err
	}

	submissions, err := s.submissions.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) ListForExam(ctx context.Context, teacherID, examID uint) ([]dto.ExamSubmissionResponse, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	if err := s.requireCourseOwner(ctx, teacherID, exam.CourseID); err != nil {
		return nil, err
	}

	submissions, err := s.examSubmissions.ListByExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	return dto.NewExamSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) GradeSubmission(ctx context.Context, teacherID, submissionID uint, payload dto.GradeRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if err := s.requireCourseOwner(ctx, teacherID, submission.Assignment.CourseID); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission.Grade = payload.Grade
	submission.Feedback = payload.Feedback
	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Uint("submission_id", submission.ID).Int("grade", *payload.Grade).Msg("submission graded")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) GradeExamSubmission(ctx context.Context, teacherID, submissionID uint, payload dto.GradeRequest) (dto.ExamSubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ExamSubmissionResponse{}, err
	}

	submission, err := s.examSubmissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ExamSubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.ExamSubmissionResponse{}, err
	}

	if err := s.requireCourseOwner(ctx, teacherID, submission.Exam.CourseID); err != nil {
		return dto.ExamSubmissionResponse{}, err
	}

	submission.Grade = payload.Grade
	submission.Feedback = payload.Feedback
	if err := s.examSubmissions.Update(ctx, &submission); err != nil {
		return dto.ExamSubmissionResponse{}, err
	}

	s.logger.Info().Uint("submission_id", submission.ID).Int("grade", *payload.Grade).Msg("exam submission graded")

	return dto.NewExamSubmissionResponse(submission), nil
}

func (s *submissionService) requireEnrollment(ctx context.Context, studentID, courseID uint) error {
	enrolled, err := s.enrollments.Exists(ctx, studentID, courseID)
	if err != nil {
		return err
	}
	if !enrolled {
		return ErrNotEnrolled
	}

	return nil
}

func (s *submissionService) requireCourseOwner(ctx context.Context, teacherID, courseID uint) error {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	if course.TeacherID != teacherID {
		return ErrPermissionDenied
	}

	return nil
}
