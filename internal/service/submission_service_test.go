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

type recordingNotifier struct {
	titles []string
}

func (n *recordingNotifier) SubmissionReceived(_ context.Context, _ uint, itemTitle string) {
	n.titles = append(n.titles, itemTitle)
}

func newSubmissionService(t *testing.T) (service.SubmissionService, *recordingNotifier, *gorm.DB) {
	t.Helper()
	db := setupServiceTestDB(t)
	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)
	notifier := &recordingNotifier{}
	svc := service.NewSubmissionService(
		repository.NewSubmissionRepository(db),
		repository.NewExamSubmissionRepository(db),
		repository.NewAssignmentRepository(db),
		repository.NewExamRepository(db),
		repository.NewCourseRepository(db),
		repository.NewEnrollmentRepository(db),
		validate,
		notifier,
		logger,
	)
	return svc, notifier, db
}

type submissionFixture struct {
	teacher    models.User
	student    models.User
	course     models.Course
	assignment models.Assignment
	exam       models.Exam
}

func seedSubmissionFixture(t *testing.T, db *gorm.DB, enroll bool) submissionFixture {
	t.Helper()

	f := submissionFixture{
		teacher: models.User{Username: "teacher", Password: "pw", Role: models.RoleTeacher},
		student: models.User{Username: "student", Password: "pw", Role: models.RoleStudent},
	}
	require.NoError(t, db.Create(&f.teacher).Error)
	require.NoError(t, db.Create(&f.student).Error)

	f.course = models.Course{Name: "Algebra", TeacherID: f.teacher.ID}
	require.NoError(t, db.Create(&f.course).Error)

	f.assignment = models.Assignment{CourseID: f.course.ID, Title: "Worksheet 1", Material: models.TextMaterial("solve")}
	require.NoError(t, db.Create(&f.assignment).Error)
	f.exam = models.Exam{CourseID: f.course.ID, Title: "Midterm", Material: models.TextMaterial("questions")}
	require.NoError(t, db.Create(&f.exam).Error)

	if enroll {
		require.NoError(t, db.Create(&models.Enrollment{StudentID: f.student.ID, CourseID: f.course.ID}).Error)
	}

	return f
}

func TestSubmissionServiceSubmitRequiresEnrollment(t *testing.T) {
	svc, notifier, db := newSubmissionService(t)
	f := seedSubmissionFixture(t, db, false)

	_, err := svc.SubmitAssignment(context.Background(), f.student.ID, f.assignment.ID, dto.SubmitRequest{Answer: "42"})
	require.ErrorIs(t, err, service.ErrNotEnrolled)
	require.Empty(t, notifier.titles)
}

func TestSubmissionServiceSubmitAwardsPointsAndNotifies(t *testing.T) {
	svc, notifier, db := newSubmissionService(t)
	f := seedSubmissionFixture(t, db, true)

	submission, err := svc.SubmitAssignment(context.Background(), f.student.ID, f.assignment.ID, dto.SubmitRequest{Answer: "42"})
	require.NoError(t, err)
	require.Equal(t, "42", submission.Answer)
	require.Nil(t, submission.Grade)

	examSubmission, err := svc.SubmitExam(context.Background(), f.student.ID, f.exam.ID, dto.SubmitRequest{Answer: "essay"})
	require.NoError(t, err)
	require.Equal(t, "essay", examSubmission.Answer)

	var account models.PointsAccount
	require.NoError(t, db.First(&account, "student_id = ?", f.student.ID).Error)
	require.Equal(t, models.AssignmentSubmissionAward+models.ExamSubmissionAward, account.Points)

	require.Equal(t, []string{"Worksheet 1", "Midterm"}, notifier.titles)
}

func TestSubmissionServiceResubmissionClearsGrade(t *testing.T) {
	svc, _, db := newSubmissionService(t)
	f := seedSubmissionFixture(t, db, true)

	first, err := svc.SubmitAssignment(context.Background(), f.student.ID, f.assignment.ID, dto.SubmitRequest{Answer: "first"})
	require.NoError(t, err)

	grade := 70
	graded, err := svc.GradeSubmission(context.Background(), f.teacher.ID, first.ID, dto.GradeRequest{Grade: &grade, Feedback: "ok"})
	require.NoError(t, err)
	require.Equal(t, 70, *graded.Grade)

	second, err := svc.SubmitAssignment(context.Background(), f.student.ID, f.assignment.ID, dto.SubmitRequest{Answer: "second"})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "second", second.Answer)
	require.Nil(t, second.Grade)
	require.Empty(t, second.Feedback)
}

func TestSubmissionServiceListForAssignmentRequiresOwnership(t *testing.T) {
	svc, _, db := newSubmissionService(t)
	f := seedSubmissionFixture(t, db, true)

	other := models.User{Username: "other", Password: "pw", Role: models.RoleTeacher}
	require.NoError(t, db.Create(&other).Error)

	_, err := svc.SubmitAssignment(context.Background(), f.student.ID, f.assignment.ID, dto.SubmitRequest{Answer: "42"})
	require.NoError(t, err)

	listed, err := svc.ListForAssignment(context.Background(), f.teacher.ID, f.assignment.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "student", listed[0].Username)

	_, err = svc.ListForAssignment(context.Background(), other.ID, f.assignment.ID)
	require.ErrorIs(t, err, service.ErrPermissionDenied)
}

func TestSubmissionServiceGradeValidatesRange(t *testing.T) {
	svc, _, db := newSubmissionService(t)
	f := seedSubmissionFixture(t, db, true)

	submission, err := svc.SubmitAssignment(context.Background(), f.student.ID, f.assignment.ID, dto.SubmitRequest{Answer: "42"})
	require.NoError(t, err)

	over := 101
	_, err = svc.GradeSubmission(context.Background(), f.teacher.ID, submission.ID, dto.GradeRequest{Grade: &over})
	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)

	valid := 50
	_, err = svc.GradeSubmission(context.Background(), f.teacher.ID, 999, dto.GradeRequest{Grade: &valid})
	require.ErrorIs(t, err, service.ErrSubmissionNotFound)
}

func TestSubmissionServiceGradeExamSubmission(t *testing.T) {
	svc, _, db := newSubmissionService(t)
	f := seedSubmissionFixture(t, db, true)

	submission, err := svc.SubmitExam(context.Background(), f.student.ID, f.exam.ID, dto.SubmitRequest{Answer: "essay"})
	require.NoError(t, err)

	grade := 88
	graded, err := svc.GradeExamSubmission(context.Background(), f.teacher.ID, submission.ID, dto.GradeRequest{Grade: &grade, Feedback: "well argued"})
	require.NoError(t, err)
	require.Equal(t, 88, *graded.Grade)
	require.Equal(t, "well argued", graded.Feedback)
}
