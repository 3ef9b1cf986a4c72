package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/centralms/lms-api/internal/dto"
	"github.com/centralms/lms-api/internal/models"
	"github.com/centralms/lms-api/internal/repository"
)

// ErrCourseNotFound indicates the referenced course does not exist.
var ErrCourseNotFound = errors.New("course not found")

// ErrAlreadyEnrolled indicates a duplicate enrollment attempt. It is a
// signal, not a fault; the pair stays enrolled exactly once.
var ErrAlreadyEnrolled = errors.New("already enrolled")

// ErrPermissionDenied indicates the caller does not own the course or hold
// the role an operation requires.
var ErrPermissionDenied = errors.New("permission denied")

// CourseService handles course creation, listing and enrollment.
type CourseService interface {
	Create(ctx context.Context, teacherID uint, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	List(ctx context.Context) ([]dto.CourseResponse, error)
	ListByTeacher(ctx context.Context, teacherID uint) ([]dto.CourseResponse, error)
	Enroll(ctx context.Context, studentID, courseID uint) error
	ListEnrolled(ctx context.Context, studentID uint) ([]dto.CourseResponse, error)
	Stats(ctx context.Context, teacherID, courseID uint) (dto.CourseStatsResponse, error)
}

type courseService struct {
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	assignments repository.AssignmentRepository
	users       repository.UserRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewCourseService constructs a CourseService instance.
func NewCourseService(courses repository.CourseRepository, enrollments repository.EnrollmentRepository, assignments repository.AssignmentRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) CourseService {
	return &courseService{
		courses:     courses,
		enrollments: enrollments,
		assignments: assignments,
		users:       users,
		validator:   validate,
		logger:      logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) Create(ctx context.Context, teacherID uint, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	teacher, err := s.users.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrUserNotFound
		}
		return dto.CourseResponse{}, err
	}

	if !teacher.IsTeacher() {
		return dto.CourseResponse{}, ErrPermissionDenied
	}

	course := models.Course{Name: payload.Name, TeacherID: teacherID}
	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Uint("teacher_id", teacherID).Msg("course created")

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) List(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) ListByTeacher(ctx context.Context, teacherID uint) ([]dto.CourseResponse, error) {
	courses, err := s.courses.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) Enroll(ctx context.Context, studentID, courseID uint) error {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	enrolled, err := s.enrollments.Exists(ctx, studentID, courseID)
	if err != nil {
		return err
	}
	if enrolled {
		return ErrAlreadyEnrolled
	}

	enrollment := models.Enrollment{StudentID: studentID, CourseID: courseID}
	if err := s.enrollments.Create(ctx, &enrollment); err != nil {
		// The unique pair index closes the race two concurrent enrolls
		// would otherwise win together.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyEnrolled
		}
		return err
	}

	s.logger.Info().Uint("student_id", studentID).Uint("course_id", courseID).Msg("student enrolled")

	return nil
}

func (s *courseService) ListEnrolled(ctx context.Context, studentID uint) ([]dto.CourseResponse, error) {
	courses, err := s.enrollments.ListCoursesByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) Stats(ctx context.Context, teacherID, courseID uint) (dto.CourseStatsResponse, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseStatsResponse{}, ErrCourseNotFound
		}
		return dto.CourseStatsResponse{}, err
	}

	if course.TeacherID != teacherID {
		return dto.CourseStatsResponse{}, ErrPermissionDenied
	}

	students, err := s.enrollments.CountByCourse(ctx, courseID)
	if err != nil {
		return dto.CourseStatsResponse{}, err
	}

	assignments, err := s.assignments.CountByCourse(ctx, courseID)
	if err != nil {
		return dto.CourseStatsResponse{}, err
	}

	return dto.CourseStatsResponse{
		CourseID:         courseID,
		EnrolledStudents: students,
		Assignments:      assignments,
	}, nil
}
