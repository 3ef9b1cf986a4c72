package service_test

import (
	"context"
	"io"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/centralms/lms-api/internal/dto"
	"github.com/centralms/lms-api/internal/models"
	"github.com/centralms/lms-api/internal/repository"
	"github.com/centralms/lms-api/internal/service"
)

func newCourseService(t *testing.T) (service.CourseService, *gorm.DB) {
	t.Helper()
	db := setupServiceTestDB(t)
	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)
	svc := service.NewCourseService(
		repository.NewCourseRepository(db),
		repository.NewEnrollmentRepository(db),
		repository.NewAssignmentRepository(db),
		repository.NewUserRepository(db),
		validate,
		logger,
	)
	return svc, db
}

func seedUsers(t *testing.T, db *gorm.DB) (teacher, student models.User) {
	t.Helper()
	teacher = models.User{Username: "teacher", Password: "pw", Role: models.RoleTeacher}
	require.NoError(t, db.Create(&teacher).Error)
	student = models.User{Username: "student", Password: "pw", Role: models.RoleStudent}
	require.NoError(t, db.Create(&student).Error)
	return teacher, student
}

func TestCourseServiceCreateRequiresTeacherRole(t *testing.T) {
	svc, db := newCourseService(t)
	teacher, student := seedUsers(t, db)

	course, err := svc.Create(context.Background(), teacher.ID, dto.CourseCreateRequest{Name: "Algebra"})
	require.NoError(t, err)
	require.Equal(t, "Algebra", course.Name)
	require.Equal(t, teacher.ID, course.TeacherID)

	_, err = svc.Create(context.Background(), student.ID, dto.CourseCreateRequest{Name: "Nope"})
	require.ErrorIs(t, err, service.ErrPermissionDenied)
}

func TestCourseServiceEnrollIsRejectedOnSecondAttempt(t *testing.T) {
	svc, db := newCourseService(t)
	teacher, student := seedUsers(t, db)

	course, err := svc.Create(context.Background(), teacher.ID, dto.CourseCreateRequest{Name: "Algebra"})
	require.NoError(t, err)

	require.NoError(t, svc.Enroll(context.Background(), student.ID, course.ID))

	err = svc.Enroll(context.Background(), student.ID, course.ID)
	require.ErrorIs(t, err, service.ErrAlreadyEnrolled)

	enrolled, err := svc.ListEnrolled(context.Background(), student.ID)
	require.NoError(t, err)
	require.Len(t, enrolled, 1)
	require.Equal(t, course.ID, enrolled[0].ID)
}

func TestCourseServiceEnrollUnknownCourse(t *testing.T) {
	svc, db := newCourseService(t)
	_, student := seedUsers(t, db)

	err := svc.Enroll(context.Background(), student.ID, 999)
	require.ErrorIs(t, err, service.ErrCourseNotFound)
}

func TestCourseServiceStatsRequiresOwnership(t *testing.T) {
	svc, db := newCourseService(t)
	teacher, student := seedUsers(t, db)

	other := models.User{Username: "other", Password: "pw", Role: models.RoleTeacher}
	require.NoError(t, db.Create(&other).Error)

	course, err := svc.Create(context.Background(), teacher.ID, dto.CourseCreateRequest{Name: "Algebra"})
	require.NoError(t, err)

	require.NoError(t, svc.Enroll(context.Background(), student.ID, course.ID))
	require.NoError(t, db.Create(&models.Assignment{CourseID: course.ID, Title: "HW", Material: models.TextMaterial("do it")}).Error)

	stats, err := svc.Stats(context.Background(), teacher.ID, course.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.EnrolledStudents)
	require.Equal(t, int64(1), stats.Assignments)

	_, err = svc.Stats(context.Background(), other.ID, course.ID)
	require.ErrorIs(t, err, service.ErrPermissionDenied)
}
