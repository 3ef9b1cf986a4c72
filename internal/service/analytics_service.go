package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/centralms/lms-api/internal/dto"
	"github.com/centralms/lms-api/internal/repository"
)

// AnalyticsService aggregates progress and performance figures.
type AnalyticsService interface {
	CourseProgress(ctx context.Context, studentID uint) ([]dto.CourseProgressResponse, error)
	StudentDashboard(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, error)
	TeacherPerformance(ctx context.Context, teacherID, courseID uint) ([]dto.StudentPerformanceResponse, error)
}

type analyticsService struct {
	courses         repository.CourseRepository
	enrollments     repository.EnrollmentRepository
	assignments     repository.AssignmentRepository
	submissions     repository.SubmissionRepository
	examSubmissions repository.ExamSubmissionRepository
	points          repository.PointsRepository
	logger          zerolog.Logger
}

// NewAnalyticsService constructs an AnalyticsService instance.
func NewAnalyticsService(courses repository.CourseRepository, enrollments repository.EnrollmentRepository, assignments repository.AssignmentRepository, submissions repository.SubmissionRepository, examSubmissions repository.ExamSubmissionRepository, points repository.PointsRepository, logger zerolog.Logger) AnalyticsService {
	return &analyticsService{
		courses:         courses,
		enrollments:     enrollments,
		assignments:     assignments,
		submissions:     submissions,
		examSubmissions: examSubmissions,
		points:          points,
		logger:          logger.With().Str("component", "analytics_service").Logger(),
	}
}

func (s *analyticsService) CourseProgress(ctx context.Context, studentID uint) ([]dto.CourseProgressResponse, error) {
	courses, err := s.enrollments.ListCoursesByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	progress := make([]dto.CourseProgressResponse, 0, len(courses))
	for _, course := range courses {
		total, err := s.assignments.CountByCourse(ctx, course.ID)
		if err != nil {
			return nil, err
		}

		percent := 0.0
		if total > 0 {
			submitted, err := s.submissions.CountByStudentAndCourse(ctx, studentID, course.ID)
			if err != nil {
				return nil, err
			}
			percent = float64(submitted) / float64(total) * 100
		}

		progress = append(progress, dto.CourseProgressResponse{
			CourseID:   course.ID,
			CourseName: course.Name,
			Percent:    percent,
		})
	}

	return progress, nil
}

func (s *analyticsService) StudentDashboard(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, error) {
	enrolled, err := s.enrollments.CountByStudent(ctx, studentID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	submissions, err := s.submissions.CountByStudent(ctx, studentID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	exams, err := s.examSubmissions.CountByStudent(ctx, studentID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	points, err := repository.PointsOrZero(ctx, s.points, studentID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	progress, err := s.CourseProgress(ctx, studentID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	return dto.StudentDashboardResponse{
		CoursesEnrolled:      enrolled,
		AssignmentsSubmitted: submissions,
		ExamsAttempted:       exams,
		Points:               points,
		Progress:             progress,
	}, nil
}

// TeacherPerformance scans every enrolled student's activity within the
// course. Acceptable at classroom scale; not built for growth.
func (s *analyticsService) TeacherPerformance(ctx context.Context, teacherID, courseID uint) ([]dto.StudentPerformanceResponse, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if course.TeacherID != teacherID {
		return nil, ErrPermissionDenied
	}

	students, err := s.enrollments.ListStudentsByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	performance := make([]dto.StudentPerformanceResponse, 0, len(students))
	for _, student := range students {
		submissions, err := s.submissions.ListByStudentAndCourse(ctx, student.ID, courseID)
		if err != nil {
			return nil, err
		}

		examSubmissions, err := s.examSubmissions.ListByStudentAndCourse(ctx, student.ID, courseID)
		if err != nil {
			return nil, err
		}

		assignmentTitles := make([]string, 0, len(submissions))
		for _, submission := range submissions {
			assignmentTitles = append(assignmentTitles, submission.Assignment.Title)
		}

		examTitles := make([]string, 0, len(examSubmissions))
		for _, submission := range examSubmissions {
			examTitles = append(examTitles, submission.Exam.Title)
		}

		performance = append(performance, dto.StudentPerformanceResponse{
			StudentID:            student.ID,
			Username:             student.Username,
			AssignmentsSubmitted: len(submissions),
			AssignmentTitles:     assignmentTitles,
			ExamsAttempted:       len(examSubmissions),
			ExamTitles:           examTitles,
		})
	}

	return performance, nil
}
